// Package feedback turns engine events into sound and terminal bell
// pulses. Every sink degrades silently: an unavailable device means the
// event is skipped.
package feedback

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tomz197/stackup/internal/engine"
)

// Nop ignores every event.
type Nop struct{}

func (Nop) Handle(engine.Event) {}

// Fanout sends every event to each of its sinks in order. Nil sinks are
// skipped.
type Fanout []engine.Sink

func (f Fanout) Handle(e engine.Event) {
	for _, s := range f {
		if s != nil {
			s.Handle(e)
		}
	}
}

// Bell rings the terminal bell on heavy feedback. Light feedback is too
// frequent for a bell and is ignored.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell creates a Bell writing to w. A nil writer disables it.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Handle(e engine.Event) {
	if b == nil {
		return
	}
	if _, ok := e.(engine.EventHeavyFeedback); !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.w == nil {
		return
	}
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		log.Debug("bell disabled", "err", err)
		b.w = nil
	}
}

// Mutable wraps a sink that can be switched off at runtime.
type Mutable struct {
	mu    sync.Mutex
	sink  engine.Sink
	muted bool
}

// NewMutable wraps sink.
func NewMutable(sink engine.Sink, muted bool) *Mutable {
	return &Mutable{sink: sink, muted: muted}
}

// Toggle flips the muted flag and returns the new value.
func (m *Mutable) Toggle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = !m.muted
	return m.muted
}

// Muted reports whether events are being dropped.
func (m *Mutable) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mutable) Handle(e engine.Event) {
	if m.Muted() || m.sink == nil {
		return
	}
	m.sink.Handle(e)
}
