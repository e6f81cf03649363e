package collection

import (
	"github.com/wippyai/rosu-bridge/errors"
	"github.com/wippyai/rosu-bridge/wire"
)

// Snapshot encodes l in the big-endian host layout:
//
//	version:u32 | count:i32 | { name:optstr | hashCount:i32 | hash:optstr* }*
//
// where optstr is an i32 byte length (-1 when absent) followed by UTF-8.
func (l *List) Snapshot() []byte {
	w := wire.NewWriter(8 + 16*len(l.Collections))
	w.U32(l.Version)
	w.I32(int32(len(l.Collections)))
	for _, c := range l.Collections {
		w.OptionalString(c.Name)
		w.I32(int32(len(c.Hashes)))
		for _, h := range c.Hashes {
			w.OptionalString(h)
		}
	}
	return w.Bytes()
}

// ReadSnapshot decodes the layout produced by Snapshot.
func ReadSnapshot(data []byte) (*List, error) {
	r := wire.NewReader(data, "snapshot")
	version, err := r.U32()
	if err != nil {
		return nil, err
	}
	count, err := snapshotCount(r)
	if err != nil {
		return nil, err
	}

	l := &List{Version: version, Collections: make([]*Collection, 0, count)}
	for i := 0; i < count; i++ {
		c := &Collection{}
		if c.Name, err = r.OptionalString(); err != nil {
			return nil, err
		}
		n, err := snapshotCount(r)
		if err != nil {
			return nil, err
		}
		c.Hashes = make([]*string, 0, n)
		for j := 0; j < n; j++ {
			h, err := r.OptionalString()
			if err != nil {
				return nil, err
			}
			c.Hashes = append(c.Hashes, h)
		}
		l.Collections = append(l.Collections, c)
	}
	return l, nil
}

func snapshotCount(r *wire.Reader) (int, error) {
	n, err := r.I32()
	if err != nil {
		return 0, err
	}
	if n < 0 || int(n) > r.Remaining() {
		return 0, errors.New(errors.PhaseDecode, errors.KindDecode).
			Path("snapshot").
			Value(n).
			Detail("invalid count %d", n).
			Build()
	}
	return int(n), nil
}

// EncodeHashes encodes a hash list as count:i32 followed by optstr hashes.
func EncodeHashes(hashes []*string) []byte {
	w := wire.NewWriter(4 + 36*len(hashes))
	w.I32(int32(len(hashes)))
	for _, h := range hashes {
		w.OptionalString(h)
	}
	return w.Bytes()
}

// DecodeHashes decodes a whole hash list.
func DecodeHashes(data []byte) ([]*string, error) {
	var out []*string
	err := EachHash(data, func(h *string) error {
		out = append(out, h)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EachHash calls fn for every hash in a hash list as it is decoded. It
// stops at the first decode error or error from fn. An empty buffer is an
// empty list.
func EachHash(data []byte, fn func(*string) error) error {
	if len(data) == 0 {
		return nil
	}
	r := wire.NewReader(data, "hashes")
	n, err := r.I32()
	if err != nil {
		return err
	}
	if n < 0 {
		return errors.New(errors.PhaseDecode, errors.KindDecode).
			Path("hashes").
			Value(n).
			Detail("negative count %d", n).
			Build()
	}
	for i := int32(0); i < n; i++ {
		h, err := r.OptionalString()
		if err != nil {
			return err
		}
		if err := fn(h); err != nil {
			return err
		}
	}
	return nil
}
