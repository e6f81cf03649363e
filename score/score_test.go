package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/rosu-bridge/wire"
)

func TestEffectiveAccuracy(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 100},
		{1e-10, 100},
		{0.95, 95},
		{1, 100},
		{1.0005, 100.05},
		{97.5, 97.5},
		{1.5, 1.5},
		{100, 100},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, EffectiveAccuracy(tt.in), 1e-9, "input %v", tt.in)
	}
}

func TestNewRequest_ClockRate(t *testing.T) {
	r := NewRequest(wire.MapAttributes{ClockRate: 0}, nil)
	_, ok := r.ClockRateOverride()
	assert.False(t, ok)

	r = NewRequest(wire.MapAttributes{ClockRate: -1}, nil)
	_, ok = r.ClockRateOverride()
	assert.False(t, ok, "negative rates fall back to the default")

	r = NewRequest(wire.MapAttributes{ClockRate: 1.25}, nil)
	rate, ok := r.ClockRateOverride()
	assert.True(t, ok)
	assert.Equal(t, 1.25, rate)
}

func TestNewRequest_EmptyStateCollapses(t *testing.T) {
	attrs := wire.MapAttributes{Mode: wire.ModeStandard, Mods: 16, Accuracy: 0.98}

	r := NewRequest(attrs, nil)
	assert.Nil(t, r.State)

	// only max combo set, no counts: still the reference performance
	r = NewRequest(attrs, &wire.ScoreState{MaxCombo: 300})
	assert.Nil(t, r.State)

	r = NewRequest(attrs, &wire.ScoreState{})
	assert.Nil(t, r.State)

	r = NewRequest(attrs, &wire.ScoreState{Misses: 1})
	require.NotNil(t, r.State)
	assert.Equal(t, uint32(1), r.State.Misses)

	assert.Equal(t, wire.ModeStandard, r.Mode)
	assert.Equal(t, uint32(16), r.Mods)
	assert.InDelta(t, 98.0, r.Accuracy, 1e-9)
}

func TestNewRequest_CopiesState(t *testing.T) {
	st := &wire.ScoreState{N300: 10}
	r := NewRequest(wire.MapAttributes{}, st)
	st.N300 = 99
	assert.Equal(t, uint32(10), r.State.N300)
}

func TestStateFor(t *testing.T) {
	r := NewRequest(wire.MapAttributes{}, &wire.ScoreState{N300: 5})
	s, ok := r.StateFor(700)
	require.True(t, ok)
	assert.Equal(t, uint32(700), s.MaxCombo)

	r = NewRequest(wire.MapAttributes{}, &wire.ScoreState{N300: 5, MaxCombo: 3})
	s, ok = r.StateFor(700)
	require.True(t, ok)
	assert.Equal(t, uint32(3), s.MaxCombo)

	_, ok = NewRequest(wire.MapAttributes{}, nil).StateFor(700)
	assert.False(t, ok)
}

func TestHasHits(t *testing.T) {
	assert.False(t, HasHits(wire.ScoreState{}))
	assert.False(t, HasHits(wire.ScoreState{MaxCombo: 10}))
	for _, s := range []wire.ScoreState{{NGeki: 1}, {NKatu: 1}, {N300: 1}, {N100: 1}, {N50: 1}, {Misses: 1}} {
		assert.True(t, HasHits(s), "%+v", s)
	}
}
