// Package score turns decoded wire attributes and score state into the
// request handed to a calculation engine.
package score

import (
	"math"

	"github.com/wippyai/rosu-bridge/wire"
)

const (
	// FractionLimit is the largest accuracy still read as a fraction of one.
	FractionLimit = 1.001

	zeroEpsilon = 1e-9
)

// Request is a normalized calculation request.
type Request struct {
	// Mode overrides the beatmap mode unless unspecified.
	Mode wire.Mode
	Mods uint32
	// ClockRate is the explicit rate, or 0 for the mod-derived default.
	ClockRate float64
	// Accuracy is a percentage in the range the host meant.
	Accuracy float64
	// State is nil when the full-combo reference performance is wanted.
	State *wire.ScoreState
}

// EffectiveAccuracy maps a host accuracy to a percentage. Zero means 100%,
// values below FractionLimit are fractions and get scaled by 100, anything
// else is already a percentage.
func EffectiveAccuracy(acc float64) float64 {
	if math.Abs(acc) < zeroEpsilon {
		return 100
	}
	if acc < FractionLimit {
		return acc * 100
	}
	return acc
}

// HasHits reports whether any hit or miss count is non-zero. Max combo is
// not a count and does not count.
func HasHits(s wire.ScoreState) bool {
	return s.N300 > 0 || s.N100 > 0 || s.N50 > 0 ||
		s.NGeki > 0 || s.NKatu > 0 || s.Misses > 0
}

// NewRequest builds a request for a single-shot calculation. A present
// state whose counts are all zero is treated as absent, which selects the
// full-combo reference performance.
func NewRequest(attrs wire.MapAttributes, state *wire.ScoreState) Request {
	r := NewAttributesRequest(attrs)
	if state != nil && HasHits(*state) {
		s := *state
		r.State = &s
	}
	return r
}

// NewAttributesRequest builds a request from attributes alone.
func NewAttributesRequest(attrs wire.MapAttributes) Request {
	r := Request{
		Mode:     attrs.Mode,
		Mods:     attrs.Mods,
		Accuracy: EffectiveAccuracy(attrs.Accuracy),
	}
	if attrs.ClockRate > 0 {
		r.ClockRate = attrs.ClockRate
	}
	return r
}

// ClockRateOverride returns the explicit clock rate, if any.
func (r Request) ClockRateOverride() (float64, bool) {
	return r.ClockRate, r.ClockRate > 0
}

// StateFor returns the request state with a zero max combo replaced by
// maxCombo. The second result is false for full-combo requests.
func (r Request) StateFor(maxCombo uint32) (wire.ScoreState, bool) {
	if r.State == nil {
		return wire.ScoreState{}, false
	}
	s := *r.State
	if s.MaxCombo == 0 {
		s.MaxCombo = maxCombo
	}
	return s, true
}
