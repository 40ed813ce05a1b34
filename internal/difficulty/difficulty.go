// Package difficulty maps the running score and combo to the alignment
// tolerance, oscillation speed, score multiplier and block growth.
// Every function is pure.
package difficulty

import (
	"math"

	"github.com/tomz197/stackup/internal/config"
)

// Model holds the ramp and combo parameters.
type Model struct {
	InitialTolerance float64
	FinalTolerance   float64
	InitialSpeed     float64
	MaxSpeed         float64
	Ramp             int // Score at which the hard values are reached
	ComboThreshold   int
	GrowthStep       float64
	MaxSize          float64
}

// FromTuning builds a Model from the game tuning.
func FromTuning(t config.Tuning) Model {
	return Model{
		InitialTolerance: t.InitialTolerance,
		FinalTolerance:   t.FinalTolerance,
		InitialSpeed:     t.InitialSpeed,
		MaxSpeed:         t.MaxSpeed,
		Ramp:             t.DifficultyRamp,
		ComboThreshold:   t.ComboThreshold,
		GrowthStep:       t.GrowthStep,
		MaxSize:          t.MaxSize,
	}
}

// progress returns how far score is along the ramp, in [0, 1].
func (m Model) progress(score int) float64 {
	if m.Ramp <= 0 || score >= m.Ramp {
		return 1
	}
	if score <= 0 {
		return 0
	}
	return float64(score) / float64(m.Ramp)
}

// Tolerance returns the alignment tolerance for score. It eases from the
// initial to the final tolerance and stays at the final value past the ramp.
func (m Model) Tolerance(score int) float64 {
	return lerp(m.InitialTolerance, m.FinalTolerance, m.progress(score))
}

// Speed returns the per-tick oscillation speed for score.
func (m Model) Speed(score int) float64 {
	return lerp(m.InitialSpeed, m.MaxSpeed, m.progress(score))
}

// Multiplier returns the score multiplier for a combo: 1 below the
// threshold, floor(combo/threshold)+1 from there on.
func (m Model) Multiplier(combo int) int {
	if m.ComboThreshold <= 0 || combo < m.ComboThreshold {
		return 1
	}
	return combo/m.ComboThreshold + 1
}

// ShouldGrow reports whether a perfect placement at this combo earns growth.
func (m Model) ShouldGrow(combo int) bool {
	return m.ComboThreshold > 0 && combo >= m.ComboThreshold
}

// Grow enlarges extent by one growth step, capped at the maximum size.
// An extent already above the cap is returned unchanged.
func (m Model) Grow(extent float64) float64 {
	if extent >= m.MaxSize {
		return extent
	}
	return math.Min(extent+m.GrowthStep, m.MaxSize)
}

// lerp is exact at both ends, so the ramp lands on the final values.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
