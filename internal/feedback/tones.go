package feedback

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/stackup/internal/engine"
)

const sampleRate = beep.SampleRate(44100)

// Pitches in Hz.
const (
	placedPitch   = 330.0
	perfectPitch  = 440.0
	gameOverPitch = 110.0
	semitone      = 1.0594630943592953 // 2^(1/12)
	maxComboSteps = 24                 // Two octaves above the perfect pitch
)

// Tones plays short synthesized tones through the default audio device.
// Perfect placements climb in pitch with the combo.
type Tones struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	ready  bool
}

// NewTones opens the speaker. If no audio device is available it returns a
// silent Tones and logs the reason at debug level.
func NewTones(logger *log.Logger, volume float64) *Tones {
	t := &Tones{mixer: &beep.Mixer{}, volume: volume}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		if logger != nil {
			logger.Debug("audio unavailable, tones disabled", "err", err)
		}
		return t
	}
	speaker.Play(t.mixer)
	t.ready = true
	return t
}

// Handle plays the tone for e.
func (t *Tones) Handle(e engine.Event) {
	if t == nil {
		return
	}
	var s beep.Streamer
	switch ev := e.(type) {
	case engine.EventPerfect:
		steps := min(max(ev.Combo-1, 0), maxComboSteps)
		s = Tone(perfectPitch*math.Pow(semitone, float64(steps)), 120*time.Millisecond, t.volume)
	case engine.EventPlaced:
		s = Tone(placedPitch, 80*time.Millisecond, t.volume)
	case engine.EventGameOver:
		s = Tone(gameOverPitch, 400*time.Millisecond, t.volume)
	default:
		return
	}
	t.play(s)
}

func (t *Tones) play(s beep.Streamer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ready {
		return
	}
	speaker.Lock()
	t.mixer.Add(s)
	speaker.Unlock()
}

// Close stops playback and releases the audio device.
func (t *Tones) Close() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ready {
		return
	}
	speaker.Clear()
	speaker.Close()
	t.ready = false
}

// Tone is a sine at freq lasting d, with a short attack and an exponential
// tail, scaled by volume in [0, 1].
func Tone(freq float64, d time.Duration, volume float64) beep.Streamer {
	s := &tone{
		freq:   freq,
		length: sampleRate.N(d),
		attack: sampleRate.N(5 * time.Millisecond),
	}
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(math.Min(volume, 1))}
}

type tone struct {
	freq   float64
	phase  float64
	pos    int
	length int
	attack int
}

func (o *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.pos >= o.length {
			return i, i > 0
		}
		env := math.Exp(-4 * float64(o.pos) / float64(o.length))
		if o.pos < o.attack {
			env *= float64(o.pos) / float64(o.attack)
		}
		v := math.Sin(2*math.Pi*o.phase) * env
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(sampleRate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *tone) Err() error { return nil }
