// Package loop drives one player's game: it polls input, feeds the engine,
// steps the simulation and renders a frame, once per tick.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tomz197/stackup/internal/config"
	"github.com/tomz197/stackup/internal/draw"
	"github.com/tomz197/stackup/internal/engine"
	"github.com/tomz197/stackup/internal/input"
	"github.com/tomz197/stackup/internal/store"
)

// Options configures a run.
type Options struct {
	Tuning         config.Tuning
	TermSizeFunc   draw.TermSizeFunc // Defaults to the size of os.Stdout
	Logger         *log.Logger
	Store          store.BestScore // Defaults to an in-memory store
	Sinks          []engine.Sink   // Receive every engine event
	Mute           Muter
	Engine         []engine.Option
	Handle         *Handle // Registration with a Hub, nil for local play
	DisconnectIdle bool    // End the run after InactivityDisconnectUser without input
}

// Run plays until the player quits, the input ends or ctx is cancelled.
// The engine is always disposed on return. Cancellation returns ctx.Err().
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	if opts.Tuning == (config.Tuning{}) {
		opts.Tuning = config.DefaultTuning()
	}
	if err := opts.Tuning.Validate(); err != nil {
		return fmt.Errorf("invalid tuning: %w", err)
	}
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	e := engine.New(opts.Tuning, opts.Engine...)
	defer e.Dispose()
	game := NewGame(ctx, e, opts)

	f := newFrame(w, termSizeFunc)
	stream := input.StartStream(r)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)
	defer draw.ClearScreen(w)

	ticker := time.NewTicker(time.Second / time.Duration(opts.Tuning.TickRate))
	defer ticker.Stop()

	for game.Running() {
		// Input -> lifecycle -> step
		game.Update(stream.Poll(), time.Now())
		if !game.Running() {
			break
		}

		if err := f.draw(game); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// frame owns the canvas and output buffer of one terminal.
type frame struct {
	w            io.Writer
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	renderer     *Renderer
	styles       styles
	termSizeFunc draw.TermSizeFunc
}

func newFrame(w io.Writer, termSizeFunc draw.TermSizeFunc) *frame {
	termWidth, termHeight, _ := termSizeFunc()
	width, height, offsetCol, offsetRow := draw.ClampSize(termWidth, termHeight, MaxTermWidth, MaxTermHeight)
	canvas := draw.NewScaledCanvas(width, height, ViewWidth, ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	return &frame{
		w:            w,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		renderer:     NewRenderer(NewProjection(ViewWidth, ViewHeight, WorldScale, FocusY), ViewHeight),
		styles:       newStyles(lipgloss.NewRenderer(w)),
		termSizeFunc: termSizeFunc,
	}
}

// resize follows the terminal size. On a change the screen is cleared so
// nothing is left outside the new render area.
func (f *frame) resize() {
	termWidth, termHeight, err := f.termSizeFunc()
	if err != nil {
		return
	}
	width, height, offsetCol, offsetRow := draw.ClampSize(termWidth, termHeight, MaxTermWidth, MaxTermHeight)
	if width != f.canvas.TerminalWidth() || height != f.canvas.TerminalHeight() ||
		offsetCol != f.canvas.OffsetCol() || offsetRow != f.canvas.OffsetRow() {
		draw.ClearScreen(f.chunkWriter)
	}
	f.canvas.Resize(width, height)
	f.canvas.SetOffset(offsetCol, offsetRow)
	f.chunkWriter.SetOffset(offsetCol, offsetRow)
}

func (f *frame) draw(g *Game) error {
	f.resize()
	snapshot := g.engine.Snapshot()
	f.renderer.Draw(f.canvas, snapshot)
	if err := f.canvas.Render(f.chunkWriter); err != nil {
		return err
	}
	g.drawUI(f.chunkWriter, f.styles, snapshot, f.canvas.TerminalWidth(), f.canvas.TerminalHeight())
	return f.chunkWriter.Flush()
}
