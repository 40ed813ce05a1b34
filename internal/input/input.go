// Package input decodes a raw terminal byte stream into game actions.
package input

import (
	"bufio"
	"slices"
)

// Input is the set of actions seen since the previous poll. Actions are
// edge triggered: each key press counts once.
type Input struct {
	Taps    int  // Space or Enter: drop the block, start a game
	Revive  bool // 'r'
	Restart bool // 'n'
	Mute    bool // 'm'
	Quit    bool // 'q', Esc or Ctrl-C
	Closed  bool // The stream ended
	Pressed []byte
}

// Any reports whether any key was pressed.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes from a reader goroutine.
type Stream struct {
	ch     chan byte
	closed bool
	buf    []byte
}

// StartStream spawns a goroutine that reads from r until it fails.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Poll drains every pending byte without blocking and decodes it.
func (s *Stream) Poll() Input {
	s.buf = s.buf[:0]
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			s.buf = append(s.buf, b)
		default:
			break drain
		}
	}
	in := Decode(s.buf)
	in.Closed = s.closed
	return in
}

// Decode maps raw bytes to actions. Escape sequences (arrow keys and the
// like) are skipped so their trailing bytes are not read as letters.
func Decode(buf []byte) Input {
	in := Input{Pressed: slices.Clone(buf)}
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' {
			if i+1 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				i = skipSequence(buf, i+2)
				continue
			}
			in.Quit = true
			continue
		}
		switch b {
		case ' ', '\r':
			in.Taps++
		case '\n':
			// CRLF is a single Enter
			if i == 0 || buf[i-1] != '\r' {
				in.Taps++
			}
		case 'r', 'R':
			in.Revive = true
		case 'n', 'N':
			in.Restart = true
		case 'm', 'M':
			in.Mute = true
		case 'q', 'Q', '\x03':
			in.Quit = true
		}
	}
	return in
}

// skipSequence returns the index of the final byte of a CSI or SS3
// sequence whose parameters start at i.
func skipSequence(buf []byte, i int) int {
	for ; i < len(buf); i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7e {
			return i
		}
	}
	return len(buf) - 1
}
