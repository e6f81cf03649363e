package wire

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/wippyai/rosu-bridge/errors"
)

// Reader decodes big-endian fields from a byte slice with position tracking.
type Reader struct {
	data []byte
	what string
	pos  int
}

// NewReader creates a Reader over data. what names the layout in errors.
func NewReader(data []byte, what string) *Reader {
	return &Reader{data: data, what: what}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return errors.Truncated(errors.PhaseDecode, []string{r.what}, r.pos+n, len(r.data))
	}
	return nil
}

// U8 reads one byte.
func (r *Reader) U8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// I32 reads a big-endian int32.
func (r *Reader) I32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return int32(v), nil
}

// U32 reads a big-endian uint32.
func (r *Reader) U32() (uint32, error) {
	v, err := r.I32()
	return uint32(v), err
}

// I64 reads a big-endian int64.
func (r *Reader) I64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return int64(v), nil
}

// F64 reads a big-endian IEEE-754 double.
func (r *Reader) F64() (float64, error) {
	v, err := r.I64()
	return math.Float64frombits(uint64(v)), err
}

// Bytes reads exactly n bytes. The result aliases the input.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Truncated(errors.PhaseDecode, []string{r.what}, r.pos, len(r.data))
	}
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// String reads an i32 length prefix followed by that many bytes.
// A declared length larger than the remaining buffer is truncated input.
func (r *Reader) String() (string, error) {
	n, err := r.I32()
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// OptionalString reads a string whose negative length marks absence.
func (r *Reader) OptionalString() (*string, error) {
	n, err := r.I32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// Rest returns all unread bytes.
func (r *Reader) Rest() []byte {
	b := r.data[r.pos:]
	r.pos = len(r.data)
	return b
}

// Writer encodes big-endian fields into a growing buffer.
type Writer struct {
	buf bytes.Buffer
	tmp [8]byte
}

// NewWriter creates a Writer with room for size bytes.
func NewWriter(size int) *Writer {
	w := &Writer{}
	w.buf.Grow(size)
	return w
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// U8 writes a single byte.
func (w *Writer) U8(b uint8) {
	w.buf.WriteByte(b)
}

// I32 writes a big-endian int32.
func (w *Writer) I32(v int32) {
	binary.BigEndian.PutUint32(w.tmp[:4], uint32(v))
	w.buf.Write(w.tmp[:4])
}

// U32 writes a big-endian uint32.
func (w *Writer) U32(v uint32) {
	w.I32(int32(v))
}

// I64 writes a big-endian int64.
func (w *Writer) I64(v int64) {
	binary.BigEndian.PutUint64(w.tmp[:8], uint64(v))
	w.buf.Write(w.tmp[:8])
}

// F64 writes a big-endian IEEE-754 double.
func (w *Writer) F64(v float64) {
	w.I64(int64(math.Float64bits(v)))
}

// Raw writes data unchanged.
func (w *Writer) Raw(data []byte) {
	w.buf.Write(data)
}

// String writes an i32 length prefix followed by the UTF-8 bytes.
func (w *Writer) String(s string) {
	w.I32(int32(len(s)))
	w.buf.WriteString(s)
}

// OptionalString writes s, or a length of -1 when s is nil.
func (w *Writer) OptionalString(s *string) {
	if s == nil {
		w.I32(-1)
		return
	}
	w.String(*s)
}
