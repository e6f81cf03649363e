package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/rosu-bridge/errors"
)

func TestMapAttributes_RoundTrip(t *testing.T) {
	tests := []MapAttributes{
		{},
		{Mode: ModeStandard, Mods: 64 | 16, ClockRate: 1.5, Accuracy: 98.5},
		{Mode: ModeTaiko, Mods: 0xffffffff, ClockRate: 0, Accuracy: 0.95},
		{Mode: ModeCatch, Mods: 1, ClockRate: -1, Accuracy: 100},
		{Mode: ModeMania, Mods: 1 << 31, ClockRate: math.MaxFloat64, Accuracy: math.SmallestNonzeroFloat64},
		{Mode: ModeUnspecified, Mods: 8, ClockRate: 0.75, Accuracy: 97.5},
	}
	for _, want := range tests {
		data := EncodeMapAttributes(want)
		require.Len(t, data, MapAttributesSize)

		got, err := DecodeMapAttributes(data)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMapAttributes_Layout(t *testing.T) {
	data := EncodeMapAttributes(MapAttributes{Mode: ModeMania, Mods: 0x01020304, ClockRate: 1.0, Accuracy: 2.0})
	assert.Equal(t, []byte{
		0x03,
		0x01, 0x02, 0x03, 0x04,
		0x3f, 0xf0, 0, 0, 0, 0, 0, 0,
		0x40, 0x00, 0, 0, 0, 0, 0, 0,
	}, data)
}

func TestMapAttributes_UnknownModeIsUnspecified(t *testing.T) {
	for _, b := range []byte{4, 0x7f, 0xff} {
		data := EncodeMapAttributes(MapAttributes{})
		data[0] = b
		got, err := DecodeMapAttributes(data)
		require.NoError(t, err)
		assert.Equal(t, ModeUnspecified, got.Mode)
		assert.False(t, got.Mode.Valid())
	}
}

func TestMapAttributes_Truncated(t *testing.T) {
	for n := 0; n < MapAttributesSize; n++ {
		_, err := DecodeMapAttributes(make([]byte, n))
		assert.ErrorIs(t, err, errors.ErrTruncatedInput, "len %d", n)
	}
}

func TestScore_Decode(t *testing.T) {
	state := &ScoreState{MaxCombo: 500, NGeki: 1, NKatu: 2, N300: 300, N100: 10, N50: 3, Misses: 4}
	full := EncodeScore(Score{Attributes: MapAttributes{Mode: ModeStandard, Accuracy: 99}, State: state})
	require.Len(t, full, ScoreSize)

	t.Run("with state", func(t *testing.T) {
		s, err := DecodeScore(full)
		require.NoError(t, err)
		require.NotNil(t, s.State)
		assert.Equal(t, *state, *s.State)
		assert.Equal(t, 99.0, s.Attributes.Accuracy)
	})

	t.Run("attributes only", func(t *testing.T) {
		s, err := DecodeScore(full[:MapAttributesSize])
		require.NoError(t, err)
		assert.Nil(t, s.State)
	})

	t.Run("partial suffix", func(t *testing.T) {
		_, err := DecodeScore(full[:MapAttributesSize+5])
		assert.ErrorIs(t, err, errors.ErrTruncatedInput)
	})

	t.Run("trailing bytes ignored", func(t *testing.T) {
		s, err := DecodeScore(append(append([]byte{}, full...), 0xde, 0xad))
		require.NoError(t, err)
		assert.Equal(t, *state, *s.State)
	})

	t.Run("short header", func(t *testing.T) {
		_, err := DecodeScore(full[:10])
		assert.ErrorIs(t, err, errors.ErrTruncatedInput)
	})
}

func TestPerformance_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   PerformanceResult
		size int
	}{
		{"standard", PerformanceResult{Mode: ModeStandard, PP: 300.5, Stars: 6.2, MaxCombo: 1200, PPAcc: 80, PPAim: 120, PPSpeed: 90, PPFlashlight: 0}, 21 + 32},
		{"taiko", PerformanceResult{Mode: ModeTaiko, PP: 200, Stars: 5, MaxCombo: 900, PPAcc: 70, PPDifficulty: 110}, 21 + 16},
		{"catch", PerformanceResult{Mode: ModeCatch, PP: 150, Stars: 4.5, MaxCombo: 700}, 21},
		{"mania", PerformanceResult{Mode: ModeMania, PP: 400, Stars: 7.1, MaxCombo: 3000, PPDifficulty: 400}, 21 + 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := EncodePerformance(tt.in)
			require.Len(t, data, tt.size)
			assert.Equal(t, tt.in.Mode.Tag(), data[0])

			got, err := DecodePerformance(data)
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestPerformance_DropsForeignFields(t *testing.T) {
	// Catch carries no sub-components, so they do not survive the wire.
	data := EncodePerformance(PerformanceResult{Mode: ModeCatch, PP: 1, PPAim: 9})
	got, err := DecodePerformance(data)
	require.NoError(t, err)
	assert.Zero(t, got.PPAim)
}

func TestPerformance_DecodeErrors(t *testing.T) {
	_, err := DecodePerformance(nil)
	assert.ErrorIs(t, err, errors.ErrTruncatedInput)

	_, err = DecodePerformance([]byte{0x10})
	assert.ErrorIs(t, err, errors.ErrDecode)

	_, err = DecodePerformance(EncodePerformance(PerformanceResult{Mode: ModeStandard})[:30])
	assert.ErrorIs(t, err, errors.ErrTruncatedInput)

	_, err = DecodePerformance(EncodeError(errors.Exhausted(errors.PhaseGradual, 3)))
	assert.ErrorIs(t, err, errors.ErrExhausted)
}

func TestGradualHeader_RoundTrip(t *testing.T) {
	h := GradualHeader{Mode: ModeTaiko, Mods: 72, Handle: 0x0000000300000007}
	data := EncodeGradualHeader(h)
	require.Len(t, data, GradualHeaderSize)
	assert.Equal(t, TagTaiko, data[0])

	got, err := DecodeGradualHeader(data)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestError_Envelope(t *testing.T) {
	src := errors.OutOfRange(errors.PhaseCollection, []string{"hashes"}, 4, 2)
	data := EncodeError(src)

	assert.True(t, IsErrorTag(data[0]))
	assert.Equal(t, TagError|errors.KindIndexOutOfRange.Code(), data[0])

	msg := src.Error()
	n := int(data[1])<<24 | int(data[2])<<16 | int(data[3])<<8 | int(data[4])
	assert.Equal(t, len(msg), n)
	assert.Equal(t, msg, string(data[5:]))

	got, err := DecodeError(data)
	require.NoError(t, err)
	assert.Equal(t, errors.KindIndexOutOfRange, got.Kind)
	assert.Equal(t, msg, got.Detail)

	_, err = DecodeError(Unit())
	assert.ErrorIs(t, err, errors.ErrDecode)
}

func TestError_TruncatedMessage(t *testing.T) {
	data := EncodeError(errors.InvalidInput(errors.PhaseHost, "bad pointer"))
	got, err := DecodeError(data[:7])
	require.NoError(t, err)
	assert.Equal(t, errors.KindTruncatedInput, got.Kind)
}

func TestHandleAndPayload(t *testing.T) {
	data := EncodeHandle(0xfffffffe00000001)
	require.Len(t, data, 9)
	assert.Equal(t, TagNone, data[0])

	h, err := DecodeHandle(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xfffffffe00000001), h)

	payload, err := Payload(EncodeBytes([]byte("abc")))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), payload)

	payload, err = Payload(Unit())
	require.NoError(t, err)
	assert.Empty(t, payload)

	_, err = Payload(EncodeError(errors.InvalidHandle(errors.PhaseHandle, 1, "null handle")))
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)

	_, err = Payload([]byte{TagStandard})
	assert.ErrorIs(t, err, errors.ErrDecode)
}

func TestReader_Strings(t *testing.T) {
	w := NewWriter(0)
	name := "collection"
	w.String("abc")
	w.OptionalString(nil)
	w.OptionalString(&name)
	w.I32(100) // declared length beyond the buffer

	r := NewReader(w.Bytes(), "strings")
	s, err := r.String()
	require.NoError(t, err)
	assert.Equal(t, "abc", s)

	opt, err := r.OptionalString()
	require.NoError(t, err)
	assert.Nil(t, opt)

	opt, err = r.OptionalString()
	require.NoError(t, err)
	require.NotNil(t, opt)
	assert.Equal(t, name, *opt)

	_, err = r.String()
	assert.ErrorIs(t, err, errors.ErrTruncatedInput)
}

func TestMode(t *testing.T) {
	for _, m := range []Mode{ModeStandard, ModeTaiko, ModeCatch, ModeMania} {
		got, ok := ModeFromTag(m.Tag())
		require.True(t, ok)
		assert.Equal(t, m, got)
		assert.Equal(t, m, ModeFromByte(uint8(m)))
	}
	_, ok := ModeFromTag(TagNone)
	assert.False(t, ok)
	assert.Equal(t, TagNone, ModeUnspecified.Tag())
	assert.Equal(t, "mania", ModeMania.String())
	assert.Equal(t, "default", ModeUnspecified.String())
}
