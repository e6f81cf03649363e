package collection

import (
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/rosu-bridge/errors"
)

// CurrentVersion is the collection.db schema version written by new lists.
const CurrentVersion uint32 = 20220424

// Collection is a named, ordered list of beatmap hashes.
type Collection struct {
	Name   *string
	Hashes []*string
}

// New returns an empty collection. The name must be valid UTF-8.
func New(name *string) (*Collection, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return &Collection{Name: cloneString(name)}, nil
}

// Len returns the number of hashes.
func (c *Collection) Len() int {
	return len(c.Hashes)
}

// AppendHash adds hash at the end.
func (c *Collection) AppendHash(hash *string) error {
	if err := validHash(hash, len(c.Hashes)); err != nil {
		return err
	}
	c.Hashes = append(c.Hashes, cloneString(hash))
	return nil
}

// Clone returns a deep copy.
func (c *Collection) Clone() *Collection {
	out := &Collection{Name: cloneString(c.Name)}
	if c.Hashes != nil {
		out.Hashes = make([]*string, len(c.Hashes))
		for i, h := range c.Hashes {
			out.Hashes[i] = cloneString(h)
		}
	}
	return out
}

// List is a versioned, ordered set of collections.
type List struct {
	Version     uint32
	Collections []*Collection
}

// NewList returns an empty list. A zero version selects CurrentVersion.
func NewList(version uint32) *List {
	if version == 0 {
		version = CurrentVersion
	}
	return &List{Version: version}
}

// Len returns the number of collections.
func (l *List) Len() int {
	return len(l.Collections)
}

// Get returns the collection at index.
func (l *List) Get(index int) (*Collection, error) {
	if index < 0 || index >= len(l.Collections) {
		return nil, errors.OutOfRange(errors.PhaseCollection, []string{"collections"}, index, len(l.Collections))
	}
	return l.Collections[index], nil
}

// Append takes ownership of c and adds it at the end.
func (l *List) Append(c *Collection) {
	l.Collections = append(l.Collections, c)
}

// AddCollection appends a new collection holding hashes.
func (l *List) AddCollection(name *string, hashes []*string) error {
	c, err := New(name)
	if err != nil {
		return err
	}
	for _, h := range hashes {
		if err := c.AppendHash(h); err != nil {
			return err
		}
	}
	l.Append(c)
	return nil
}

// Remove deletes the collection at index.
func (l *List) Remove(index int) error {
	if _, err := l.Get(index); err != nil {
		return err
	}
	l.Collections = append(l.Collections[:index], l.Collections[index+1:]...)
	return nil
}

// SetName renames the collection at index.
func (l *List) SetName(index int, name *string) error {
	c, err := l.Get(index)
	if err != nil {
		return err
	}
	if err := validName(name); err != nil {
		return err
	}
	c.Name = cloneString(name)
	return nil
}

// ClearHashes removes every hash of the collection at index.
func (l *List) ClearHashes(index int) error {
	c, err := l.Get(index)
	if err != nil {
		return err
	}
	c.Hashes = nil
	return nil
}

// AppendHash adds hash to the end of the collection at index.
func (l *List) AppendHash(index int, hash *string) error {
	c, err := l.Get(index)
	if err != nil {
		return err
	}
	return c.AppendHash(hash)
}

// AddHashes appends hashes to the collection at index in order. It stops
// at the first invalid hash and returns how many were appended before it.
func (l *List) AddHashes(index int, hashes []*string) (int, error) {
	c, err := l.Get(index)
	if err != nil {
		return 0, err
	}
	for i, h := range hashes {
		if err := c.AppendHash(h); err != nil {
			return i, err
		}
	}
	return len(hashes), nil
}

// InsertHash inserts hash before position at in the collection at index.
// at may equal the hash count, which appends.
func (l *List) InsertHash(index, at int, hash *string) error {
	c, err := l.Get(index)
	if err != nil {
		return err
	}
	if at < 0 || at > len(c.Hashes) {
		return hashOutOfRange(index, at, len(c.Hashes))
	}
	if err := validHash(hash, at); err != nil {
		return err
	}
	c.Hashes = append(c.Hashes, nil)
	copy(c.Hashes[at+1:], c.Hashes[at:])
	c.Hashes[at] = cloneString(hash)
	return nil
}

// SetHash replaces the hash at position at.
func (l *List) SetHash(index, at int, hash *string) error {
	c, err := l.Get(index)
	if err != nil {
		return err
	}
	if at < 0 || at >= len(c.Hashes) {
		return hashOutOfRange(index, at, len(c.Hashes))
	}
	if err := validHash(hash, at); err != nil {
		return err
	}
	c.Hashes[at] = cloneString(hash)
	return nil
}

// RemoveHash deletes the hash at position at.
func (l *List) RemoveHash(index, at int) error {
	c, err := l.Get(index)
	if err != nil {
		return err
	}
	if at < 0 || at >= len(c.Hashes) {
		return hashOutOfRange(index, at, len(c.Hashes))
	}
	c.Hashes = append(c.Hashes[:at], c.Hashes[at+1:]...)
	return nil
}

// Clone returns a deep copy.
func (l *List) Clone() *List {
	out := &List{Version: l.Version}
	if l.Collections != nil {
		out.Collections = make([]*Collection, len(l.Collections))
		for i, c := range l.Collections {
			out.Collections[i] = c.Clone()
		}
	}
	return out
}

// HashCount returns the total number of hashes across all collections.
func (l *List) HashCount() int {
	n := 0
	for _, c := range l.Collections {
		n += len(c.Hashes)
	}
	return n
}

func hashOutOfRange(index, at, length int) error {
	return errors.OutOfRange(errors.PhaseCollection,
		[]string{"collections", strconv.Itoa(index), "hashes"}, at, length)
}

func validHash(h *string, i int) error {
	return validString(h, "hash", "hashes", strconv.Itoa(i))
}

func validName(name *string) error {
	return validString(name, "name", "name")
}

// validString rejects strings that collection.db could not load back.
func validString(s *string, what string, path ...string) error {
	if s != nil && !utf8.ValidString(*s) {
		return errors.New(errors.PhaseCollection, errors.KindInvalidInput).
			Path(path...).
			Detail("%s is not valid UTF-8", what).
			Build()
	}
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
