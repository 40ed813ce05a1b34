package loop

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tomz197/stackup/internal/config"
	"github.com/tomz197/stackup/internal/draw"
	"github.com/tomz197/stackup/internal/engine"
	"github.com/tomz197/stackup/internal/input"
	"github.com/tomz197/stackup/internal/store"
)

// recordingStore remembers every submitted score.
type recordingStore struct {
	store.Memory
	submitted []int
	err       error
}

func (s *recordingStore) Submit(ctx context.Context, score int) (int, bool, error) {
	s.submitted = append(s.submitted, score)
	if s.err != nil {
		return 0, false, s.err
	}
	return s.Memory.Submit(ctx, score)
}

type toggle struct{ muted bool }

func (m *toggle) Toggle() bool {
	m.muted = !m.muted
	return m.muted
}

func (m *toggle) Muted() bool { return m.muted }

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Tuning == (config.Tuning{}) {
		opts.Tuning = config.DefaultTuning()
	}
	e := engine.New(opts.Tuning, engine.WithRand(rand.New(rand.NewSource(3))))
	t.Cleanup(e.Dispose)
	return NewGame(context.Background(), e, opts)
}

var (
	tap     = input.Input{Taps: 1, Pressed: []byte{' '}}
	restart = input.Input{Restart: true, Pressed: []byte{'n'}}
	revive  = input.Input{Revive: true, Pressed: []byte{'r'}}
	idle    = input.Input{}
)

// lose starts a game and drops the first block at its spawn point, which
// is always a miss.
func lose(t *testing.T, g *Game) {
	t.Helper()
	now := time.Now()
	g.Update(tap, now)
	if g.engine.State() != engine.StatePlaying {
		t.Fatalf("state after first tap = %v, want playing", g.engine.State())
	}
	g.Update(tap, now)
	if g.engine.State() != engine.StateGameOver {
		t.Fatalf("state after drop at spawn = %v, want game over", g.engine.State())
	}
}

// alignMoving steps a started game until the moving block sits over the
// tower center.
func alignMoving(t *testing.T, g *Game, now time.Time) {
	t.Helper()
	for range 500 {
		if m := g.engine.Snapshot().Moving; m != nil && math.Abs(m.Position.X()) < 0.1 {
			return
		}
		g.Update(idle, now)
	}
	t.Fatal("moving block never crossed the tower center")
}

func TestGameDropsOneBlockPerTick(t *testing.T) {
	tests := []struct {
		name string
		in   input.Input
	}{
		{"crlf enter", input.Decode([]byte("\r\n"))},
		{"double tap", input.Decode([]byte("  "))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, Options{})
			now := time.Now()
			g.Update(tap, now)
			alignMoving(t, g, now)

			g.Update(tt.in, now)
			if got := g.engine.State(); got != engine.StatePlaying {
				t.Fatalf("state = %v, want playing", got)
			}
			if got := g.engine.Score(); got != 1 {
				t.Errorf("score = %d, want 1", got)
			}
		})
	}
}

func TestGameStartsOnTap(t *testing.T) {
	g := newTestGame(t, Options{})
	g.Update(idle, time.Now())
	if got := g.engine.State(); got != engine.StateMenu {
		t.Fatalf("state without input = %v, want menu", got)
	}
	g.Update(tap, time.Now())
	if got := g.engine.State(); got != engine.StatePlaying {
		t.Errorf("state after tap = %v, want playing", got)
	}
	if g.engine.RunID() == "" {
		t.Error("run id not assigned")
	}
}

func TestGameOverSubmitsScore(t *testing.T) {
	st := &recordingStore{}
	var events []engine.Event
	sink := engine.SinkFunc(func(e engine.Event) { events = append(events, e) })

	g := newTestGame(t, Options{Store: st, Sinks: []engine.Sink{sink}})
	lose(t, g)

	if len(st.submitted) != 1 || st.submitted[0] != 0 {
		t.Errorf("submitted %v, want [0]", st.submitted)
	}
	var gameOver, heavy int
	for _, e := range events {
		switch e.(type) {
		case engine.EventGameOver:
			gameOver++
		case engine.EventHeavyFeedback:
			heavy++
		}
	}
	if gameOver != 1 || heavy != 1 {
		t.Errorf("sink saw %d game over and %d heavy events, want 1 each", gameOver, heavy)
	}
}

func TestGameOverGuardsRestart(t *testing.T) {
	g := newTestGame(t, Options{})
	lose(t, g)

	g.Update(tap, time.Now())
	if got := g.engine.State(); got != engine.StateGameOver {
		t.Fatalf("tap right after a loss changed state to %v", got)
	}

	for g.guard > 0 {
		g.Update(idle, time.Now())
	}
	g.Update(tap, time.Now())
	if got := g.engine.State(); got != engine.StatePlaying {
		t.Errorf("tap after the guard = %v, want playing", got)
	}
}

func TestGameRestartKey(t *testing.T) {
	g := newTestGame(t, Options{})
	lose(t, g)
	g.Update(restart, time.Now())
	if got := g.engine.State(); got != engine.StatePlaying {
		t.Errorf("state after restart = %v, want playing", got)
	}
}

func TestGameRevive(t *testing.T) {
	g := newTestGame(t, Options{})
	lose(t, g)

	g.Update(revive, time.Now())
	if got := g.engine.State(); got != engine.StatePlaying {
		t.Fatalf("state after revive = %v, want playing", got)
	}

	g.Update(tap, time.Now())
	g.Update(revive, time.Now())
	if got := g.engine.State(); got != engine.StateGameOver {
		t.Errorf("second revive changed state to %v, want game over", got)
	}
}

func TestGameStoreErrorKeepsPlaying(t *testing.T) {
	var buf bytes.Buffer
	st := &recordingStore{err: errors.New("disk full")}
	g := newTestGame(t, Options{Store: st, Logger: log.New(&buf)})
	lose(t, g)

	if !g.Running() {
		t.Fatal("store failure stopped the game")
	}
	if !strings.Contains(buf.String(), "disk full") {
		t.Errorf("log = %q, want the store error", buf.String())
	}
}

func TestGameNewBest(t *testing.T) {
	st := &recordingStore{}
	g := newTestGame(t, Options{Store: st})
	g.onEvent(engine.EventGameOver{FinalScore: 7})
	if g.Best() != 7 || !g.newBest {
		t.Errorf("best = %d, new = %v; want 7, true", g.Best(), g.newBest)
	}
	g.onEvent(engine.EventGameOver{FinalScore: 3})
	if g.Best() != 7 || g.newBest {
		t.Errorf("best = %d, new = %v; want 7, false", g.Best(), g.newBest)
	}
}

func TestGameQuit(t *testing.T) {
	tests := []struct {
		name string
		in   input.Input
	}{
		{"quit key", input.Input{Quit: true, Pressed: []byte{'q'}}},
		{"input closed", input.Input{Closed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, Options{})
			g.Update(tt.in, time.Now())
			if g.Running() {
				t.Error("game still running")
			}
		})
	}
}

func TestGameMute(t *testing.T) {
	m := &toggle{}
	g := newTestGame(t, Options{Mute: m})
	g.Update(input.Input{Mute: true, Pressed: []byte{'m'}}, time.Now())
	if !m.muted {
		t.Error("mute key did not toggle")
	}
}

func TestGameIdle(t *testing.T) {
	start := time.Now()

	local := newTestGame(t, Options{})
	local.Update(idle, start.Add(InactivityDisconnectUser+time.Second))
	if !local.Running() {
		t.Error("local game timed out")
	}

	remote := newTestGame(t, Options{DisconnectIdle: true})
	remote.lastInput = start
	remote.Update(idle, start.Add(InactivityWarnUser+time.Second))
	if !remote.isInactive || !remote.Running() {
		t.Fatalf("inactive = %v, running = %v; want warned and running", remote.isInactive, remote.Running())
	}
	remote.Update(tap, start.Add(InactivityWarnUser+2*time.Second))
	if remote.isInactive {
		t.Error("key press did not clear the warning")
	}
	remote.Update(idle, start.Add(InactivityWarnUser+InactivityDisconnectUser+3*time.Second))
	if remote.Running() {
		t.Error("idle player not disconnected")
	}
}

func TestHub(t *testing.T) {
	hub := NewHub()
	a := hub.Register("ann")
	b := hub.Register("bob")
	if a.ID == b.ID {
		t.Fatal("handles share an id")
	}
	if hub.Players() != 2 {
		t.Fatalf("Players() = %d, want 2", hub.Players())
	}
	hub.Unregister(b.ID)
	if hub.Players() != 1 {
		t.Fatalf("Players() = %d, want 1", hub.Players())
	}

	if a.ShuttingDown() {
		t.Fatal("shutting down before Shutdown")
	}
	hub.Shutdown(0)
	if !a.ShuttingDown() {
		t.Error("registered session not notified")
	}
	if late := hub.Register("cat"); !late.ShuttingDown() {
		t.Error("late session not notified")
	}

	var none *Handle
	if none.ShuttingDown() {
		t.Error("nil handle reports shutdown")
	}
}

func TestGameShutdownCountdown(t *testing.T) {
	hub := NewHub()
	h := hub.Register("ann")
	tuning := config.DefaultTuning()
	tuning.TickRate = 1
	g := newTestGame(t, Options{Tuning: tuning, Handle: h})

	hub.Shutdown(0)
	for i := 0; i < ShutdownDisplaySeconds-1; i++ {
		g.Update(idle, time.Now())
	}
	if !g.Running() || g.shutdown != 1 {
		t.Fatalf("running = %v, shutdown = %d; want running with 1 tick left", g.Running(), g.shutdown)
	}
	g.Update(idle, time.Now())
	if g.Running() {
		t.Error("game still running after the shutdown notice")
	}
}

func renderUI(t *testing.T, g *Game) string {
	t.Helper()
	var buf bytes.Buffer
	cw := draw.NewChunkWriter(&buf, 0, 0)
	g.drawUI(cw, newStyles(lipgloss.NewRenderer(&buf)), g.engine.Snapshot(), 100, 40)
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	return buf.String()
}

func TestScreens(t *testing.T) {
	g := newTestGame(t, Options{})
	if out := renderUI(t, g); !strings.Contains(out, "S T A C K U P") {
		t.Errorf("menu missing title: %q", out)
	}

	lose(t, g)
	out := renderUI(t, g)
	if !strings.Contains(out, "G A M E   O V E R") {
		t.Errorf("game over screen missing title: %q", out)
	}
	if !strings.Contains(out, "revive and keep your score") {
		t.Error("revive hint missing while a revive is available")
	}

	g.Update(revive, time.Now())
	g.Update(tap, time.Now())
	if out := renderUI(t, g); strings.Contains(out, "revive and keep your score") {
		t.Error("revive hint shown after the revive was used")
	}
}

func TestRunQuits(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.TickRate = 1000

	var out bytes.Buffer
	err := Run(context.Background(), bufio.NewReader(strings.NewReader(" q")), &out, Options{
		Tuning:       tuning,
		TermSizeFunc: func() (int, int, error) { return 80, 24, nil },
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "\033[?25l") {
		t.Error("cursor not hidden first")
	}
	if !strings.HasSuffix(out.String(), "\033[?25h") {
		t.Error("cursor not restored last")
	}
}

func TestRunCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := Run(ctx, bufio.NewReader(pr), &out, Options{
		TermSizeFunc: func() (int, int, error) { return 80, 24, nil },
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if !strings.Contains(out.String(), string(draw.BlockUpperHalf)) {
		t.Error("no frame rendered before cancellation")
	}
}

func TestRunRejectsInvalidTuning(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.TickRate = 0
	err := Run(context.Background(), bufio.NewReader(strings.NewReader("")), io.Discard, Options{Tuning: tuning})
	if err == nil {
		t.Fatal("Run() accepted an invalid tuning")
	}
}
