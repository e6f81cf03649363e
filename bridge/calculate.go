package bridge

import (
	"github.com/wippyai/rosu-bridge/score"
	"github.com/wippyai/rosu-bridge/wire"
)

// Calculate rates a score on beatmap. scoreBuf is MapAttributes optionally
// followed by a ScoreState; a state whose counts are all zero selects the
// full-combo reference, as does a missing state.
func (b *Bridge) Calculate(beatmap, scoreBuf []byte) []byte {
	return b.dispatch("calculate", func() ([]byte, error) {
		s, err := wire.DecodeScore(scoreBuf)
		if err != nil {
			return nil, err
		}
		res, err := b.engine.Calculate(beatmap, score.NewRequest(s.Attributes, s.State))
		if err != nil {
			return nil, err
		}
		return wire.EncodePerformance(res), nil
	})
}
