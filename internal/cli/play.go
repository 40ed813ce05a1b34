package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tomz197/stackup/internal/config"
	"github.com/tomz197/stackup/internal/engine"
	"github.com/tomz197/stackup/internal/feedback"
	"github.com/tomz197/stackup/internal/loop"
)

type playOptions struct {
	mute    bool
	bell    bool
	volume  float64
	logFile string
}

// playCommand creates the "play" command.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in this terminal",
		Long: `Play in this terminal.

SPACE or ENTER drops the block, R revives once after a miss, N starts over,
M toggles sound and Q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.mute, "mute", config.GetEnvBool(config.EnvMute, false), "start with sound off")
	cmd.Flags().BoolVar(&opts.bell, "bell", false, "ring the terminal bell when the game ends")
	cmd.Flags().Float64Var(&opts.volume, "volume", 0.6, "tone volume between 0 and 1")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write in-game logs to this file")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, opts playOptions) error {
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

	// The game owns the terminal, so in-game logs go to a file or nowhere.
	gameLogger := log.New(io.Discard)
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		gameLogger = newLogger(f, logger.GetLevel())
	}

	tones := feedback.NewTones(gameLogger, opts.volume)
	defer tones.Close()
	sinks := feedback.Fanout{tones}
	if opts.bell {
		sinks = append(sinks, feedback.NewBell(os.Stdout))
	}
	mute := feedback.NewMutable(sinks, opts.mute)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	err = loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Tuning: tuning,
		Logger: gameLogger,
		Store:  scores,
		Sinks:  []engine.Sink{mute},
		Mute:   mute,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("game: %w", err)
	}
	return err
}
