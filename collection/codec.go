package collection

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/bnch/uleb128"

	"github.com/wippyai/rosu-bridge/errors"
)

// osu! string markers.
const (
	stringAbsent  = 0x00
	stringPresent = 0x0b
)

// Load decodes an on-disk collection.db.
func Load(data []byte) (*List, error) {
	d := &decoder{r: bytes.NewReader(data)}

	version, err := d.u32()
	if err != nil {
		return nil, d.fail("version", err)
	}
	count, err := d.count()
	if err != nil {
		return nil, d.fail("collection count", err)
	}

	l := &List{Version: version, Collections: make([]*Collection, 0, count)}
	for i := 0; i < count; i++ {
		c := &Collection{}
		if c.Name, err = d.string(); err != nil {
			return nil, d.fail(fmt.Sprintf("collection %d name", i), err)
		}
		n, err := d.count()
		if err != nil {
			return nil, d.fail(fmt.Sprintf("collection %d hash count", i), err)
		}
		c.Hashes = make([]*string, 0, n)
		for j := 0; j < n; j++ {
			h, err := d.string()
			if err != nil {
				return nil, d.fail(fmt.Sprintf("collection %d hash %d", i, j), err)
			}
			c.Hashes = append(c.Hashes, h)
		}
		l.Collections = append(l.Collections, c)
	}
	if d.r.Len() != 0 {
		return nil, d.fail("end", fmt.Errorf("%d trailing bytes", d.r.Len()))
	}
	return l, nil
}

type decoder struct {
	r *bytes.Reader
}

func (d *decoder) fail(what string, cause error) error {
	return errors.Decode(errors.PhaseCollection, "collection.db "+what, cause)
}

func (d *decoder) u32() (uint32, error) {
	var v uint32
	if err := binary.Read(d.r, binary.LittleEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// count reads an i32 element count. Counts that could not possibly fit in
// the remaining input are rejected before anything is allocated.
func (d *decoder) count() (int, error) {
	var v int32
	if err := binary.Read(d.r, binary.LittleEndian, &v); err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative count %d", v)
	}
	if int(v) > d.r.Len() {
		return 0, fmt.Errorf("count %d exceeds %d remaining bytes", v, d.r.Len())
	}
	return int(v), nil
}

func (d *decoder) string() (*string, error) {
	marker, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch marker {
	case stringAbsent:
		return nil, nil
	case stringPresent:
	default:
		return nil, fmt.Errorf("invalid string marker %#x", marker)
	}

	n, err := d.length()
	if err != nil {
		return nil, err
	}
	if n < 0 || n > d.r.Len() {
		return nil, fmt.Errorf("string length %d exceeds %d remaining bytes", n, d.r.Len())
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, err
	}
	if !utf8.Valid(buf) {
		return nil, fmt.Errorf("string is not valid UTF-8")
	}
	s := string(buf)
	return &s, nil
}

// maxLengthBytes bounds a ULEB128 string length; anything longer cannot
// describe a string that fits in the input.
const maxLengthBytes = 5

// length reads a ULEB128 string length. The number must end before the
// input does.
func (d *decoder) length() (int, error) {
	start, _ := d.r.Seek(0, io.SeekCurrent)
	for i := 0; ; i++ {
		if i == maxLengthBytes {
			return 0, fmt.Errorf("string length longer than %d bytes", maxLengthBytes)
		}
		b, err := d.r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("string length: %w", io.ErrUnexpectedEOF)
		}
		if b&0x80 == 0 {
			break
		}
	}
	if _, err := d.r.Seek(start, io.SeekStart); err != nil {
		return 0, err
	}
	return uleb128.UnmarshalReader(d.r), nil
}

// Serialize encodes l in the on-disk collection.db format.
func (l *List) Serialize() []byte {
	var buf bytes.Buffer
	_, _ = l.WriteTo(&buf)
	return buf.Bytes()
}

// WriteTo writes the on-disk form of l to w.
func (l *List) WriteTo(w io.Writer) (int64, error) {
	e := &encoder{w: w}
	e.u32(l.Version)
	e.i32(int32(len(l.Collections)))
	for _, c := range l.Collections {
		e.string(c.Name)
		e.i32(int32(len(c.Hashes)))
		for _, h := range c.Hashes {
			e.string(h)
		}
	}
	return e.n, e.err
}

type encoder struct {
	w   io.Writer
	n   int64
	err error
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	n, err := e.w.Write(p)
	e.n += int64(n)
	e.err = err
}

func (e *encoder) u32(v uint32) {
	e.write(binary.LittleEndian.AppendUint32(nil, v))
}

func (e *encoder) i32(v int32) {
	e.u32(uint32(v))
}

func (e *encoder) string(s *string) {
	if s == nil {
		e.write([]byte{stringAbsent})
		return
	}
	e.write([]byte{stringPresent})
	e.write(uleb128.Marshal(len(*s)))
	e.write([]byte(*s))
}
