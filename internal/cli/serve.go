package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/spf13/cobra"

	"github.com/tomz197/stackup/internal/config"
	"github.com/tomz197/stackup/internal/draw"
	"github.com/tomz197/stackup/internal/engine"
	"github.com/tomz197/stackup/internal/feedback"
	"github.com/tomz197/stackup/internal/loop"
	"github.com/tomz197/stackup/internal/store"
)

const (
	defaultHost        = "::"
	defaultPort        = 2222
	defaultHostKeyPath = "keys/host_key"

	playerShutdownTimeout = 15 * time.Second
	serverShutdownTimeout = 5 * time.Second
)

type serveOptions struct {
	host        string
	port        int
	hostKeyPath string
}

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the game over SSH",
		Long: `Host the game over SSH. Every connection plays its own game; the best
score is shared by everyone playing on this host.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", config.GetEnv(config.EnvSSHHost, defaultHost), "address to listen on")
	cmd.Flags().IntVar(&opts.port, "port", config.GetEnvInt(config.EnvSSHPort, defaultPort), "port to listen on")
	cmd.Flags().StringVar(&opts.hostKeyPath, "host-key", config.GetEnv(config.EnvSSHHostKey, defaultHostKeyPath), "SSH host key, created if missing")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOptions) error {
	logger := loggerFromContext(ctx)

	tuning, err := c.tuning()
	if err != nil {
		return err
	}
	scores, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer scores.Close()

	hub := loop.NewHub()
	sessions := &sessionHandler{
		hub:    hub,
		store:  scores,
		tuning: tuning,
		logger: logger,
	}

	sshOpts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(opts.host, strconv.Itoa(opts.port))),
		wish.WithMiddleware(
			sessions.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// TCP_NODELAY keeps taps from being batched
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if opts.hostKeyPath != "" {
		sshOpts = append(sshOpts, wish.WithHostKeyPath(opts.hostKeyPath))
	}

	s, err := wish.NewServer(sshOpts...)
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}

	logger.Info("listening", "host", opts.host, "port", opts.port, "host_key", opts.hostKeyPath)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("serve ssh: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "players", hub.Players())
	hub.Shutdown(playerShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown ssh server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// sessionHandler runs one game per SSH session.
type sessionHandler struct {
	hub    *loop.Hub
	store  store.BestScore
	tuning config.Tuning
	logger *log.Logger
}

func (h *sessionHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			wish.Fatalln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := h.logger.With("user", sess.User())
		logger.Info("session started", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		size := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				size.update(win.Width, win.Height)
			}
		}()

		handle := h.hub.Register(sess.User())
		defer h.hub.Unregister(handle.ID)

		err := loop.Run(sess.Context(), bufio.NewReader(sess), sess, loop.Options{
			Tuning:         h.tuning,
			TermSizeFunc:   size.getSize,
			Logger:         logger,
			Store:          h.store,
			Sinks:          []engine.Sink{feedback.NewBell(sess)},
			Handle:         handle,
			DisconnectIdle: true,
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// sizeTracker follows the terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
