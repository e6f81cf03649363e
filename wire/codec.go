package wire

import (
	"github.com/wippyai/rosu-bridge/errors"
)

// EncodeMapAttributes returns the 21-byte attribute layout.
func EncodeMapAttributes(a MapAttributes) []byte {
	w := NewWriter(MapAttributesSize)
	writeMapAttributes(w, a)
	return w.Bytes()
}

func writeMapAttributes(w *Writer, a MapAttributes) {
	w.U8(uint8(a.Mode))
	w.U32(a.Mods)
	w.F64(a.ClockRate)
	w.F64(a.Accuracy)
}

// DecodeMapAttributes reads the first 21 bytes of data.
func DecodeMapAttributes(data []byte) (MapAttributes, error) {
	if len(data) < MapAttributesSize {
		return MapAttributes{}, errors.Truncated(errors.PhaseDecode, []string{"map_attributes"}, MapAttributesSize, len(data))
	}
	return readMapAttributes(NewReader(data, "map_attributes"))
}

func readMapAttributes(r *Reader) (MapAttributes, error) {
	var a MapAttributes
	mode, err := r.U8()
	if err != nil {
		return a, err
	}
	a.Mode = ModeFromByte(mode)
	if a.Mods, err = r.U32(); err != nil {
		return a, err
	}
	if a.ClockRate, err = r.F64(); err != nil {
		return a, err
	}
	if a.Accuracy, err = r.F64(); err != nil {
		return a, err
	}
	return a, nil
}

// EncodeScore returns the attribute header followed by the state suffix
// when s.State is present.
func EncodeScore(s Score) []byte {
	w := NewWriter(ScoreSize)
	writeMapAttributes(w, s.Attributes)
	if s.State != nil {
		writeScoreState(w, *s.State)
	}
	return w.Bytes()
}

func writeScoreState(w *Writer, s ScoreState) {
	w.U32(s.MaxCombo)
	w.U32(s.NGeki)
	w.U32(s.NKatu)
	w.U32(s.N300)
	w.U32(s.N100)
	w.U32(s.N50)
	w.U32(s.Misses)
}

// DecodeScore reads an attribute header and, if the buffer is long enough
// for it, the 28-byte state suffix. Exactly 21 bytes means no state; a
// partial suffix is truncated input. Trailing bytes are ignored.
func DecodeScore(data []byte) (Score, error) {
	var s Score
	attrs, err := DecodeMapAttributes(data)
	if err != nil {
		return s, err
	}
	s.Attributes = attrs
	if len(data) == MapAttributesSize {
		return s, nil
	}
	if len(data) < ScoreSize {
		return s, errors.Truncated(errors.PhaseDecode, []string{"score_state"}, ScoreSize, len(data))
	}

	r := NewReader(data[MapAttributesSize:ScoreSize], "score_state")
	var st ScoreState
	for _, dst := range []*uint32{&st.MaxCombo, &st.NGeki, &st.NKatu, &st.N300, &st.N100, &st.N50, &st.Misses} {
		if *dst, err = r.U32(); err != nil {
			return s, err
		}
	}
	s.State = &st
	return s, nil
}

// EncodePerformance returns the tagged result layout for p.Mode.
func EncodePerformance(p PerformanceResult) []byte {
	w := NewWriter(1 + 8 + 8 + 4 + 4*8)
	w.U8(p.Mode.Tag())
	w.F64(p.PP)
	w.F64(p.Stars)
	w.U32(p.MaxCombo)

	switch p.Mode {
	case ModeStandard:
		w.F64(p.PPAcc)
		w.F64(p.PPAim)
		w.F64(p.PPSpeed)
		w.F64(p.PPFlashlight)
	case ModeTaiko:
		w.F64(p.PPAcc)
		w.F64(p.PPDifficulty)
	case ModeMania:
		w.F64(p.PPDifficulty)
	}
	return w.Bytes()
}

// DecodePerformance parses a performance response. An error envelope is
// returned as its *errors.Error.
func DecodePerformance(data []byte) (PerformanceResult, error) {
	var p PerformanceResult
	r := NewReader(data, "performance")
	tag, err := r.U8()
	if err != nil {
		return p, err
	}
	if IsErrorTag(tag) {
		return p, decodeErrorBody(tag, r)
	}
	mode, ok := ModeFromTag(tag)
	if !ok {
		return p, errors.New(errors.PhaseDecode, errors.KindDecode).
			Path("performance").
			Value(tag).
			Detail("unknown mode tag %#x", tag).
			Build()
	}
	p.Mode = mode
	if p.PP, err = r.F64(); err != nil {
		return p, err
	}
	if p.Stars, err = r.F64(); err != nil {
		return p, err
	}
	if p.MaxCombo, err = r.U32(); err != nil {
		return p, err
	}

	var fields []*float64
	switch mode {
	case ModeStandard:
		fields = []*float64{&p.PPAcc, &p.PPAim, &p.PPSpeed, &p.PPFlashlight}
	case ModeTaiko:
		fields = []*float64{&p.PPAcc, &p.PPDifficulty}
	case ModeMania:
		fields = []*float64{&p.PPDifficulty}
	}
	for _, f := range fields {
		if *f, err = r.F64(); err != nil {
			return p, err
		}
	}
	return p, nil
}

// EncodeGradualHeader returns the session creation layout.
func EncodeGradualHeader(h GradualHeader) []byte {
	w := NewWriter(GradualHeaderSize)
	w.U8(h.Mode.Tag())
	w.U32(h.Mods)
	w.I64(int64(h.Handle))
	return w.Bytes()
}

// DecodeGradualHeader parses a session creation response.
func DecodeGradualHeader(data []byte) (GradualHeader, error) {
	var h GradualHeader
	r := NewReader(data, "gradual_header")
	tag, err := r.U8()
	if err != nil {
		return h, err
	}
	if IsErrorTag(tag) {
		return h, decodeErrorBody(tag, r)
	}
	mode, ok := ModeFromTag(tag)
	if !ok {
		return h, errors.New(errors.PhaseDecode, errors.KindDecode).
			Path("gradual_header").
			Value(tag).
			Detail("unknown mode tag %#x", tag).
			Build()
	}
	h.Mode = mode
	if h.Mods, err = r.U32(); err != nil {
		return h, err
	}
	handle, err := r.I64()
	if err != nil {
		return h, err
	}
	h.Handle = uint64(handle)
	return h, nil
}

// EncodeError returns the error envelope for err. Errors without a Kind are
// reported as internal.
func EncodeError(err error) []byte {
	kind := errors.KindOf(err)
	msg := err.Error()
	w := NewWriter(1 + 4 + len(msg))
	w.U8(TagError | kind.Code())
	w.String(msg)
	return w.Bytes()
}

// DecodeError parses an error envelope back into an *errors.Error carrying
// the kind and message. It fails if data is not an error envelope.
func DecodeError(data []byte) (*errors.Error, error) {
	r := NewReader(data, "error")
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	if !IsErrorTag(tag) {
		return nil, errors.New(errors.PhaseDecode, errors.KindDecode).
			Path("error").
			Value(tag).
			Detail("tag %#x is not an error tag", tag).
			Build()
	}
	return decodeErrorBody(tag, r), nil
}

func decodeErrorBody(tag uint8, r *Reader) *errors.Error {
	msg, err := r.String()
	if err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindTruncatedInput, err, "error envelope")
	}
	return &errors.Error{
		Phase:  errors.PhaseDispatch,
		Kind:   errors.KindFromCode(tag),
		Detail: msg,
	}
}

// EncodeHandle returns TagNone followed by the handle as i64.
func EncodeHandle(handle uint64) []byte {
	w := NewWriter(9)
	w.U8(TagNone)
	w.I64(int64(handle))
	return w.Bytes()
}

// DecodeHandle parses a handle response.
func DecodeHandle(data []byte) (uint64, error) {
	payload, err := Payload(data)
	if err != nil {
		return 0, err
	}
	v, err := NewReader(payload, "handle").I64()
	return uint64(v), err
}

// Unit is the response of operations that produce no value.
func Unit() []byte {
	return []byte{TagNone}
}

// EncodeBytes returns TagNone followed by data.
func EncodeBytes(data []byte) []byte {
	out := make([]byte, 1+len(data))
	out[0] = TagNone
	copy(out[1:], data)
	return out
}

// Payload strips the TagNone prefix from an untagged success response.
// Error envelopes are returned as their *errors.Error.
func Payload(data []byte) ([]byte, error) {
	r := NewReader(data, "response")
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	if IsErrorTag(tag) {
		return nil, decodeErrorBody(tag, r)
	}
	if tag != TagNone {
		return nil, errors.New(errors.PhaseDecode, errors.KindDecode).
			Path("response").
			Value(tag).
			Detail("unexpected tag %#x", tag).
			Build()
	}
	return r.Rest(), nil
}
