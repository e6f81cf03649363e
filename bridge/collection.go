package bridge

import (
	"github.com/wippyai/rosu-bridge/collection"
	"github.com/wippyai/rosu-bridge/errors"
	"github.com/wippyai/rosu-bridge/resource"
	"github.com/wippyai/rosu-bridge/wire"
)

func closedError() error {
	return errors.Internal(errors.PhaseHandle, resource.ErrClosed)
}

func (b *Bridge) insert(h resource.Handle) ([]byte, error) {
	if h == 0 {
		return nil, closedError()
	}
	return wire.EncodeHandle(uint64(h)), nil
}

func (b *Bridge) list(handle uint64) (*collection.List, error) {
	l, err := b.lists.Borrow(resource.Handle(handle))
	if err != nil {
		return nil, handleError(err, handle)
	}
	return l, nil
}

// editList runs fn on the list behind handle and answers with a unit
// response.
func (b *Bridge) editList(op string, handle uint64, fn func(*collection.List) error) []byte {
	return b.dispatch(op, func() ([]byte, error) {
		l, err := b.list(handle)
		if err != nil {
			return nil, err
		}
		if err := fn(l); err != nil {
			return nil, err
		}
		return wire.Unit(), nil
	})
}

// CollectionCreate returns the handle of a new empty collection.
func (b *Bridge) CollectionCreate(name *string) []byte {
	return b.dispatch("collection_create", func() ([]byte, error) {
		c, err := collection.New(name)
		if err != nil {
			return nil, err
		}
		return b.insert(b.collections.Insert(c))
	})
}

// CollectionAddHash appends hash to a standalone collection.
func (b *Bridge) CollectionAddHash(handle uint64, hash *string) []byte {
	return b.dispatch("collection_add_hash", func() ([]byte, error) {
		c, err := b.collections.Borrow(resource.Handle(handle))
		if err != nil {
			return nil, handleError(err, handle)
		}
		if err := c.AppendHash(hash); err != nil {
			return nil, err
		}
		return wire.Unit(), nil
	})
}

// CollectionRelease drops a standalone collection.
func (b *Bridge) CollectionRelease(handle uint64) []byte {
	return b.dispatch("collection_release", func() ([]byte, error) {
		if _, err := b.collections.Release(resource.Handle(handle)); err != nil {
			return nil, handleError(err, handle)
		}
		return wire.Unit(), nil
	})
}

// ListNew returns the handle of an empty list. A zero version selects
// collection.CurrentVersion.
func (b *Bridge) ListNew(version uint32) []byte {
	return b.dispatch("list_new", func() ([]byte, error) {
		return b.insert(b.lists.Insert(collection.NewList(version)))
	})
}

// ListLoad decodes a collection.db and returns the handle of its list.
func (b *Bridge) ListLoad(data []byte) []byte {
	return b.dispatch("list_load", func() ([]byte, error) {
		l, err := collection.Load(data)
		if err != nil {
			return nil, err
		}
		return b.insert(b.lists.Insert(l))
	})
}

// ListWrite returns the collection.db encoding of a list.
func (b *Bridge) ListWrite(handle uint64) []byte {
	return b.dispatch("list_write", func() ([]byte, error) {
		l, err := b.list(handle)
		if err != nil {
			return nil, err
		}
		return wire.EncodeBytes(l.Serialize()), nil
	})
}

// ListRead returns the big-endian snapshot of a list.
func (b *Bridge) ListRead(handle uint64) []byte {
	return b.dispatch("list_read", func() ([]byte, error) {
		l, err := b.list(handle)
		if err != nil {
			return nil, err
		}
		return wire.EncodeBytes(l.Snapshot()), nil
	})
}

// ListRelease drops a list.
func (b *Bridge) ListRelease(handle uint64) []byte {
	return b.dispatch("list_release", func() ([]byte, error) {
		if _, err := b.lists.Release(resource.Handle(handle)); err != nil {
			return nil, handleError(err, handle)
		}
		return wire.Unit(), nil
	})
}

// ListAppend moves a standalone collection into a list. The collection
// handle is consumed on success and left untouched on failure.
func (b *Bridge) ListAppend(list, coll uint64) []byte {
	return b.editList("list_append", list, func(l *collection.List) error {
		c, err := b.collections.Release(resource.Handle(coll))
		if err != nil {
			return handleError(err, coll)
		}
		l.Append(c)
		return nil
	})
}

// ListAddCollection appends a new collection. hashes uses the hash list
// layout, see collection.EncodeHashes.
func (b *Bridge) ListAddCollection(list uint64, name *string, hashes []byte) []byte {
	return b.editList("list_add_collection", list, func(l *collection.List) error {
		hs, err := collection.DecodeHashes(hashes)
		if err != nil {
			return err
		}
		return l.AddCollection(name, hs)
	})
}

// ListRemove deletes the collection at index.
func (b *Bridge) ListRemove(list uint64, index int32) []byte {
	return b.editList("list_remove", list, func(l *collection.List) error {
		return l.Remove(int(index))
	})
}

// ListSetName renames the collection at index.
func (b *Bridge) ListSetName(list uint64, index int32, name *string) []byte {
	return b.editList("list_set_name", list, func(l *collection.List) error {
		return l.SetName(int(index), name)
	})
}

// ListClearHashes empties the collection at index.
func (b *Bridge) ListClearHashes(list uint64, index int32) []byte {
	return b.editList("list_clear_hashes", list, func(l *collection.List) error {
		return l.ClearHashes(int(index))
	})
}

// ListAppendHash appends hash to the collection at index.
func (b *Bridge) ListAppendHash(list uint64, index int32, hash *string) []byte {
	return b.editList("list_append_hash", list, func(l *collection.List) error {
		return l.AppendHash(int(index), hash)
	})
}

// ListAddHashes appends each hash of the hash list buffer in order. Hashes
// are applied as they are decoded, so a buffer that breaks off midway
// leaves the hashes before the break appended.
func (b *Bridge) ListAddHashes(list uint64, index int32, hashes []byte) []byte {
	return b.editList("list_add_hashes", list, func(l *collection.List) error {
		if _, err := l.Get(int(index)); err != nil {
			return err
		}
		return collection.EachHash(hashes, func(h *string) error {
			_, err := l.AddHashes(int(index), []*string{h})
			return err
		})
	})
}

// ListInsertHash inserts hash before position at.
func (b *Bridge) ListInsertHash(list uint64, index, at int32, hash *string) []byte {
	return b.editList("list_insert_hash", list, func(l *collection.List) error {
		return l.InsertHash(int(index), int(at), hash)
	})
}

// ListSetHash replaces the hash at position at.
func (b *Bridge) ListSetHash(list uint64, index, at int32, hash *string) []byte {
	return b.editList("list_set_hash", list, func(l *collection.List) error {
		return l.SetHash(int(index), int(at), hash)
	})
}

// ListRemoveHash deletes the hash at position at.
func (b *Bridge) ListRemoveHash(list uint64, index, at int32) []byte {
	return b.editList("list_remove_hash", list, func(l *collection.List) error {
		return l.RemoveHash(int(index), int(at))
	})
}
