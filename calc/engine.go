package calc

import (
	"github.com/wippyai/rosu-bridge/score"
	"github.com/wippyai/rosu-bridge/wire"
)

// Engine calculates difficulty and performance for raw beatmap bytes.
// Malformed beatmaps fail with errors.ErrDecode.
type Engine interface {
	// Calculate returns the performance of req on the beatmap.
	Calculate(beatmap []byte, req score.Request) (wire.PerformanceResult, error)

	// Gradual pre-processes the beatmap under req's mode, mods and clock
	// rate and returns a cursor over its hit objects.
	Gradual(beatmap []byte, req score.Request) (Gradual, error)
}

// Gradual is a cursor over a beatmap's hit objects in timeline order.
type Gradual interface {
	// Mode is the mode the beatmap is evaluated in after conversion.
	Mode() wire.Mode

	// Len is the total number of steps.
	Len() int

	// Next processes one more hit object and returns the performance of
	// state up to that point. It returns false once every object has been
	// processed, and keeps returning false afterwards.
	Next(state wire.ScoreState) (wire.PerformanceResult, bool)
}

// Reference is the built-in engine.
type Reference struct{}

// NewReference returns the built-in engine.
func NewReference() *Reference {
	return &Reference{}
}

// Calculate implements Engine.
func (Reference) Calculate(beatmap []byte, req score.Request) (wire.PerformanceResult, error) {
	bm, err := Parse(beatmap)
	if err != nil {
		return wire.PerformanceResult{}, err
	}
	bm = bm.Convert(req.Mode)

	p := newProcessor(bm, req)
	for p.step() {
	}
	attrs := p.attributes()

	state, ok := req.StateFor(attrs.MaxCombo)
	if ok {
		state = fillRemaining(bm.Mode, state, attrs.ObjectCount)
	}
	return performance(attrs, req, state, ok), nil
}

// Gradual implements Engine.
func (Reference) Gradual(beatmap []byte, req score.Request) (Gradual, error) {
	bm, err := Parse(beatmap)
	if err != nil {
		return nil, err
	}
	bm = bm.Convert(req.Mode)
	return &referenceGradual{
		proc: newProcessor(bm, req),
		req:  req,
	}, nil
}

type referenceGradual struct {
	proc *processor
	req  score.Request
}

func (g *referenceGradual) Mode() wire.Mode {
	return g.proc.bm.Mode
}

func (g *referenceGradual) Len() int {
	return len(g.proc.bm.Objects)
}

func (g *referenceGradual) Next(state wire.ScoreState) (wire.PerformanceResult, bool) {
	if !g.proc.step() {
		return wire.PerformanceResult{}, false
	}
	return performance(g.proc.attributes(), g.req, state, true), true
}

// fillRemaining counts objects the state does not cover as perfect hits,
// so a partial score is rated against the whole map.
func fillRemaining(mode wire.Mode, s wire.ScoreState, objects int) wire.ScoreState {
	var judged int
	switch mode {
	case wire.ModeCatch:
		// tiny droplets live in N50 and NKatu and are not objects here
		judged = int(s.N300 + s.N100 + s.Misses)
	case wire.ModeMania:
		judged = int(s.NGeki + s.N300 + s.NKatu + s.N100 + s.N50 + s.Misses)
	default:
		judged = int(s.N300 + s.N100 + s.N50 + s.Misses)
	}
	if rest := objects - judged; rest > 0 {
		s.N300 += uint32(rest)
	}
	return s
}
