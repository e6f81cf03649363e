// Package gradual steps a calculation across a beatmap's timeline, one hit
// object per call.
//
// A Session moves from StateCreated to StateExhausted after as many
// successful Advance calls as the beatmap has objects. Failed calls leave
// the session where it was, so they may be retried with different input.
// Sessions are not safe for concurrent use.
package gradual

import (
	"github.com/wippyai/rosu-bridge/calc"
	"github.com/wippyai/rosu-bridge/errors"
	"github.com/wippyai/rosu-bridge/score"
	"github.com/wippyai/rosu-bridge/wire"
)

// State is the lifecycle position of a session.
type State uint8

const (
	StateCreated State = iota
	StateExhausted
	StateDropped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateExhausted:
		return "exhausted"
	case StateDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Session is one incremental calculation.
type Session struct {
	cursor calc.Gradual
	mods   uint32
	state  State
	steps  int
}

// Begin pre-processes beatmap under attrs and returns a session positioned
// before the first object. Engine errors are returned unchanged, so a
// malformed beatmap is a decode error and an engine fault stays internal.
func Begin(engine calc.Engine, beatmap []byte, attrs wire.MapAttributes) (*Session, error) {
	req := score.NewAttributesRequest(attrs)
	cursor, err := engine.Gradual(beatmap, req)
	if err != nil {
		return nil, err
	}
	return &Session{cursor: cursor, mods: attrs.Mods}, nil
}

// Mode is the mode the beatmap is evaluated in.
func (s *Session) Mode() wire.Mode {
	return s.cursor.Mode()
}

// Mods returns the mods the session was created with.
func (s *Session) Mods() uint32 {
	return s.mods
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Steps returns the number of successful advances.
func (s *Session) Steps() int {
	return s.steps
}

// Len returns the total number of steps the session accepts.
func (s *Session) Len() int {
	if s.cursor == nil {
		return 0
	}
	return s.cursor.Len()
}

// Remaining returns how many advances are left.
func (s *Session) Remaining() int {
	return max(0, s.Len()-s.steps)
}

// Header returns the wire header for a session stored under handle.
func (s *Session) Header(handle uint64) wire.GradualHeader {
	return wire.GradualHeader{Mode: s.Mode(), Mods: s.mods, Handle: handle}
}

// Advance processes the next object with the cumulative state and returns
// the performance so far. A nil state fails with a missing score state
// error without moving the cursor. Once every object has been processed
// Advance keeps failing with an exhausted error.
func (s *Session) Advance(state *wire.ScoreState) (wire.PerformanceResult, error) {
	switch s.state {
	case StateDropped:
		return wire.PerformanceResult{}, errors.InvalidHandle(errors.PhaseGradual, 0, "session dropped")
	case StateExhausted:
		return wire.PerformanceResult{}, errors.Exhausted(errors.PhaseGradual, s.steps)
	}
	if state == nil {
		return wire.PerformanceResult{}, errors.MissingScoreState(errors.PhaseGradual)
	}

	res, ok := s.cursor.Next(*state)
	if !ok {
		s.state = StateExhausted
		return wire.PerformanceResult{}, errors.Exhausted(errors.PhaseGradual, s.steps)
	}
	s.steps++
	return res, nil
}

// Drop releases the underlying calculator.
func (s *Session) Drop() {
	s.state = StateDropped
	s.cursor = nil
}
