package resource

import (
	"sync"

	"github.com/wippyai/rosu-bridge/errors"
)

// ErrClosed is returned by Create after Close.
var ErrClosed = errors.New(errors.PhaseHandle, errors.KindInternal).
	Detail("resource backend closed").
	Build()

// LocalBackend is an in-memory slot map keyed by generation-tagged handles.
//
// The mutex guards slot bookkeeping only. Values handed out by Get are not
// synchronized; callers serialize access to the same handle themselves.
type LocalBackend struct {
	entries  []entry
	freeList []uint32
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value      any
	typeID     uint32
	generation uint32
	valid      bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Create stores a value and returns a handle.
func (b *LocalBackend) Create(typeID uint32, value any) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	if n := len(b.freeList); n > 0 {
		slot := b.freeList[n-1]
		b.freeList = b.freeList[:n-1]
		e := &b.entries[slot]
		e.value = value
		e.typeID = typeID
		e.valid = true
		return newHandle(slot, e.generation), nil
	}

	b.entries = append(b.entries, entry{
		value:      value,
		typeID:     typeID,
		generation: 1,
		valid:      true,
	})
	return newHandle(uint32(len(b.entries)-1), 1), nil
}

// lookup must be called with b.mu held.
func (b *LocalBackend) lookup(handle Handle) (*entry, error) {
	slot, ok := handle.slot()
	if !ok {
		return nil, errors.InvalidHandle(errors.PhaseHandle, uint64(handle), "null handle")
	}
	if int(slot) >= len(b.entries) {
		return nil, errors.InvalidHandle(errors.PhaseHandle, uint64(handle), "unknown slot")
	}
	e := &b.entries[slot]
	if e.generation != handle.generation() {
		return nil, errors.InvalidHandle(errors.PhaseHandle, uint64(handle), "stale generation")
	}
	if !e.valid {
		return nil, errors.InvalidHandle(errors.PhaseHandle, uint64(handle), "already released")
	}
	return e, nil
}

// Get retrieves a value by handle.
func (b *LocalBackend) Get(handle Handle) (any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, err := b.lookup(handle)
	if err != nil {
		return nil, err
	}
	return e.value, nil
}

// TypeID returns the type ID for a handle.
func (b *LocalBackend) TypeID(handle Handle) (uint32, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, err := b.lookup(handle)
	if err != nil {
		return 0, err
	}
	return e.typeID, nil
}

// Drop removes a resource and returns its value. The slot generation is
// bumped so the released handle stays invalid after the slot is reused.
func (b *LocalBackend) Drop(handle Handle) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.dropLocked(handle, nil)
}

// DropTyped removes a resource only if it was created with typeID.
func (b *LocalBackend) DropTyped(handle Handle, typeID uint32) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.dropLocked(handle, &typeID)
}

func (b *LocalBackend) dropLocked(handle Handle, typeID *uint32) (any, error) {
	e, err := b.lookup(handle)
	if err != nil {
		return nil, err
	}
	if typeID != nil && e.typeID != *typeID {
		return nil, typeMismatch(handle, e.typeID, *typeID)
	}

	value := e.value
	e.valid = false
	e.value = nil
	e.generation++
	if e.generation == 0 {
		e.generation = 1
	}
	slot, _ := handle.slot()
	b.freeList = append(b.freeList, slot)

	return value, nil
}

// Close releases all resources.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for i := range b.entries {
		if b.entries[i].valid {
			if d, ok := b.entries[i].value.(Dropper); ok {
				d.Drop()
			}
			b.entries[i].valid = false
			b.entries[i].value = nil
		}
	}

	b.entries = nil
	b.freeList = nil
	return nil
}

// Len returns the number of active resources.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.entries) - len(b.freeList)
}

// Each iterates over all active resources.
func (b *LocalBackend) Each(fn func(Handle, uint32, any) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e.valid {
			if !fn(newHandle(uint32(i), e.generation), e.typeID, e.value) {
				break
			}
		}
	}
}

func typeMismatch(handle Handle, got, want uint32) *errors.Error {
	return errors.New(errors.PhaseHandle, errors.KindInvalidHandle).
		Value(uint64(handle)).
		Detail("handle %#x: refers to type %d, want %d", uint64(handle), got, want).
		Build()
}
