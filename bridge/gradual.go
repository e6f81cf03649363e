package bridge

import (
	"github.com/wippyai/rosu-bridge/gradual"
	"github.com/wippyai/rosu-bridge/resource"
	"github.com/wippyai/rosu-bridge/wire"
)

// GradualBegin pre-processes beatmap and returns a gradual header with the
// new session handle.
func (b *Bridge) GradualBegin(beatmap, attrs []byte) []byte {
	return b.dispatch("gradual_begin", func() ([]byte, error) {
		a, err := wire.DecodeMapAttributes(attrs)
		if err != nil {
			return nil, err
		}
		s, err := gradual.Begin(b.engine, beatmap, a)
		if err != nil {
			return nil, err
		}
		h := b.sessions.Insert(s)
		if h == 0 {
			return nil, closedError()
		}
		return wire.EncodeGradualHeader(s.Header(uint64(h))), nil
	})
}

// GradualAdvance processes one more object. scoreBuf uses the Calculate
// layout; the attributes part is ignored and the state is required. Unlike
// Calculate, an all-zero state is a real score.
func (b *Bridge) GradualAdvance(handle uint64, scoreBuf []byte) []byte {
	return b.dispatch("gradual_advance", func() ([]byte, error) {
		s, err := b.sessions.Borrow(resource.Handle(handle))
		if err != nil {
			return nil, handleError(err, handle)
		}
		sc, err := wire.DecodeScore(scoreBuf)
		if err != nil {
			return nil, err
		}
		res, err := s.Advance(sc.State)
		if err != nil {
			return nil, err
		}
		return wire.EncodePerformance(res), nil
	})
}

// GradualRelease drops a session.
func (b *Bridge) GradualRelease(handle uint64) []byte {
	return b.dispatch("gradual_release", func() ([]byte, error) {
		if _, err := b.sessions.Release(resource.Handle(handle)); err != nil {
			return nil, handleError(err, handle)
		}
		return wire.Unit(), nil
	})
}
