package bridge

import (
	stderrors "errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wippyai/rosu-bridge/calc"
	"github.com/wippyai/rosu-bridge/calc/calctest"
	"github.com/wippyai/rosu-bridge/errors"
	"github.com/wippyai/rosu-bridge/score"
	"github.com/wippyai/rosu-bridge/wire"
)

type panicEngine struct{}

func (panicEngine) Calculate([]byte, score.Request) (wire.PerformanceResult, error) {
	panic("engine fault")
}

func (panicEngine) Gradual([]byte, score.Request) (calc.Gradual, error) {
	panic("engine fault")
}

type faultyEngine struct{}

func (faultyEngine) Calculate([]byte, score.Request) (wire.PerformanceResult, error) {
	return wire.PerformanceResult{}, errors.Internal(errors.PhaseCalculate, stderrors.New("engine offline"))
}

func (faultyEngine) Gradual([]byte, score.Request) (calc.Gradual, error) {
	return nil, errors.Internal(errors.PhaseCalculate, stderrors.New("engine offline"))
}

func newBridge(t *testing.T, opts ...Option) *Bridge {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	b := New(opts...)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func scoreBuf(attrs wire.MapAttributes, state *wire.ScoreState) []byte {
	return wire.EncodeScore(wire.Score{Attributes: attrs, State: state})
}

func requireHandle(t *testing.T, resp []byte) uint64 {
	t.Helper()
	h, err := wire.DecodeHandle(resp)
	require.NoError(t, err)
	require.NotZero(t, h)
	return h
}

func requireUnit(t *testing.T, resp []byte) {
	t.Helper()
	payload, err := wire.Payload(resp)
	require.NoError(t, err)
	require.Empty(t, payload)
}

func requireKind(t *testing.T, resp []byte, kind errors.Kind) *errors.Error {
	t.Helper()
	require.NotEmpty(t, resp)
	require.True(t, wire.IsErrorTag(resp[0]), "expected error envelope, got tag %#x", resp[0])
	e, err := wire.DecodeError(resp)
	require.NoError(t, err)
	require.Equal(t, kind, e.Kind, e.Detail)
	return e
}

func TestCalculate(t *testing.T) {
	b := newBridge(t)
	beatmap := calctest.Beatmap(20)

	resp := b.Calculate(beatmap, scoreBuf(wire.MapAttributes{Mode: wire.ModeUnspecified}, nil))
	res, err := wire.DecodePerformance(resp)
	require.NoError(t, err)
	assert.Equal(t, wire.ModeStandard, res.Mode)
	assert.Greater(t, res.PP, 0.0)
	assert.Equal(t, uint32(20), res.MaxCombo)
	assert.Len(t, resp, 53)
}

func TestCalculate_ZeroStateCollapses(t *testing.T) {
	b := newBridge(t)
	beatmap := calctest.Beatmap(20)
	attrs := wire.MapAttributes{Mode: wire.ModeUnspecified}

	absent := b.Calculate(beatmap, scoreBuf(attrs, nil))
	zero := b.Calculate(beatmap, scoreBuf(attrs, &wire.ScoreState{}))
	assert.Equal(t, absent, zero)
}

func TestCalculate_ModeOverride(t *testing.T) {
	b := newBridge(t)

	resp := b.Calculate(calctest.Beatmap(20), scoreBuf(wire.MapAttributes{Mode: wire.ModeMania}, nil))
	res, err := wire.DecodePerformance(resp)
	require.NoError(t, err)
	assert.Equal(t, wire.ModeMania, res.Mode)
	assert.Len(t, resp, 29)
}

func TestCalculate_Errors(t *testing.T) {
	b := newBridge(t)

	requireKind(t, b.Calculate(calctest.Beatmap(5), []byte{1, 2, 3}), errors.KindTruncatedInput)
	requireKind(t, b.Calculate(calctest.Beatmap(5), make([]byte, 30)), errors.KindTruncatedInput)
	requireKind(t, b.Calculate([]byte("nope"), scoreBuf(wire.MapAttributes{}, nil)), errors.KindDecode)
}

func TestDispatch_RecoversPanics(t *testing.T) {
	b := newBridge(t, WithEngine(panicEngine{}))

	e := requireKind(t, b.Calculate(nil, scoreBuf(wire.MapAttributes{}, nil)), errors.KindInternal)
	assert.Contains(t, e.Detail, "engine fault")

	requireKind(t, b.GradualBegin(nil, wire.EncodeMapAttributes(wire.MapAttributes{})), errors.KindInternal)

	// the bridge keeps working
	requireHandle(t, b.ListNew(0))
}

func TestGradual_EndToEnd(t *testing.T) {
	b := newBridge(t)
	attrs := wire.MapAttributes{Mode: wire.ModeUnspecified}

	resp := b.GradualBegin(calctest.Beatmap(10), wire.EncodeMapAttributes(attrs))
	header, err := wire.DecodeGradualHeader(resp)
	require.NoError(t, err)
	assert.Equal(t, wire.ModeStandard, header.Mode)
	assert.Zero(t, header.Mods)
	require.NotZero(t, header.Handle)
	assert.Equal(t, 1, b.LiveHandles())

	var state wire.ScoreState
	prev := 0.0
	for i := 0; i < 10; i++ {
		state.N300++
		state.MaxCombo++
		res, err := wire.DecodePerformance(b.GradualAdvance(header.Handle, scoreBuf(attrs, &state)))
		require.NoError(t, err, "step %d", i)
		assert.GreaterOrEqual(t, res.Stars, prev)
		assert.GreaterOrEqual(t, res.PP, 0.0)
		prev = res.Stars
	}

	requireKind(t, b.GradualAdvance(header.Handle, scoreBuf(attrs, &state)), errors.KindExhausted)
	requireKind(t, b.GradualAdvance(header.Handle, scoreBuf(attrs, &state)), errors.KindExhausted)

	requireUnit(t, b.GradualRelease(header.Handle))
	assert.Zero(t, b.LiveHandles())
	requireKind(t, b.GradualAdvance(header.Handle, scoreBuf(attrs, &state)), errors.KindInvalidHandle)
	requireKind(t, b.GradualRelease(header.Handle), errors.KindInvalidHandle)
}

func TestGradual_AdvanceRules(t *testing.T) {
	b := newBridge(t)
	attrs := wire.MapAttributes{Mode: wire.ModeUnspecified, Mods: 64}

	header, err := wire.DecodeGradualHeader(b.GradualBegin(calctest.Beatmap(3), wire.EncodeMapAttributes(attrs)))
	require.NoError(t, err)
	assert.Equal(t, uint32(64), header.Mods)

	// attributes only: the state is required
	requireKind(t, b.GradualAdvance(header.Handle, wire.EncodeMapAttributes(attrs)), errors.KindMissingScoreState)
	requireKind(t, b.GradualAdvance(header.Handle, make([]byte, 30)), errors.KindTruncatedInput)

	// an all-zero state is a real first step
	_, err = wire.DecodePerformance(b.GradualAdvance(header.Handle, scoreBuf(attrs, &wire.ScoreState{})))
	require.NoError(t, err)
}

func TestGradual_BeginErrors(t *testing.T) {
	b := newBridge(t)

	requireKind(t, b.GradualBegin(calctest.Beatmap(3), []byte{0}), errors.KindTruncatedInput)
	requireKind(t, b.GradualBegin([]byte("bad"), wire.EncodeMapAttributes(wire.MapAttributes{})), errors.KindDecode)
	assert.Zero(t, b.LiveHandles())
}

func TestEngineFault_SameKindEverywhere(t *testing.T) {
	b := newBridge(t, WithEngine(faultyEngine{}))

	requireKind(t, b.Calculate(calctest.Beatmap(3), scoreBuf(wire.MapAttributes{}, nil)), errors.KindInternal)
	requireKind(t, b.GradualBegin(calctest.Beatmap(3), wire.EncodeMapAttributes(wire.MapAttributes{})), errors.KindInternal)
	assert.Zero(t, b.LiveHandles())
}

func TestHandles_TypeChecked(t *testing.T) {
	b := newBridge(t)

	list := requireHandle(t, b.ListNew(0))
	requireKind(t, b.GradualAdvance(list, scoreBuf(wire.MapAttributes{}, &wire.ScoreState{})), errors.KindInvalidHandle)
	requireKind(t, b.CollectionRelease(list), errors.KindInvalidHandle)
	requireKind(t, b.GradualRelease(0), errors.KindInvalidHandle)
	requireKind(t, b.ListWrite(12345), errors.KindInvalidHandle)

	requireUnit(t, b.ListRelease(list))
}

func TestClose(t *testing.T) {
	b := New()
	list := requireHandle(t, b.ListNew(0))
	header, err := wire.DecodeGradualHeader(b.GradualBegin(calctest.Beatmap(2), wire.EncodeMapAttributes(wire.MapAttributes{})))
	require.NoError(t, err)
	require.Equal(t, 2, b.LiveHandles())

	require.NoError(t, b.Close())
	assert.Zero(t, b.LiveHandles())
	requireKind(t, b.ListWrite(list), errors.KindInvalidHandle)
	requireKind(t, b.GradualAdvance(header.Handle, scoreBuf(wire.MapAttributes{}, &wire.ScoreState{})), errors.KindInvalidHandle)
	requireKind(t, b.ListNew(0), errors.KindInternal)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := newBridge(t, WithRegisterer(reg))

	list := requireHandle(t, b.ListNew(0))
	requireKind(t, b.ListRemove(list, 0), errors.KindIndexOutOfRange)
	requireKind(t, b.ListRemove(list, 0), errors.KindIndexOutOfRange)

	assert.Equal(t, 1.0, testutil.ToFloat64(b.metrics.calls.WithLabelValues("list_new", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(b.metrics.calls.WithLabelValues("list_remove", "index_out_of_range")))

	count, err := testutil.GatherAndCount(reg, "rosu_bridge_live_handles")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	requireUnit(t, b.ListRelease(list))
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "rosu_bridge_live_handles" {
			assert.Equal(t, 0.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestReset(t *testing.T) {
	b := newBridge(t)
	list := requireHandle(t, b.ListNew(0))
	requireHandle(t, b.CollectionCreate(str("c")))
	header, err := wire.DecodeGradualHeader(b.GradualBegin(calctest.Beatmap(3), wire.EncodeMapAttributes(wire.MapAttributes{})))
	require.NoError(t, err)

	assert.Equal(t, 3, b.Reset())
	assert.Zero(t, b.LiveHandles())
	requireKind(t, b.ListWrite(list), errors.KindInvalidHandle)
	requireKind(t, b.GradualAdvance(header.Handle, scoreBuf(wire.MapAttributes{}, &wire.ScoreState{})), errors.KindInvalidHandle)

	again := requireHandle(t, b.ListNew(0))
	assert.NotEqual(t, list, again)
	assert.Equal(t, 1, b.LiveHandles())
	assert.Equal(t, 1, b.Reset())
}
