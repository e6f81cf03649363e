package resource

import (
	"sync"
)

// UnifiedTable stores typed resources in a LocalBackend and notifies
// observers when they are created or dropped.
type UnifiedTable struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new unified table with a LocalBackend.
func NewTable() *UnifiedTable {
	return &UnifiedTable{
		backend: NewLocalBackend(),
	}
}

// Insert takes ownership of value and returns its handle.
// It returns 0 only after Close.
func (t *UnifiedTable) Insert(typeID uint32, value any) Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	handle, err := t.backend.Create(typeID, value)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})

	return handle
}

// Get retrieves a value by handle.
func (t *UnifiedTable) Get(handle Handle) (any, error) {
	return t.backend.Get(handle)
}

// GetTyped retrieves a value only if it matches the expected type.
func (t *UnifiedTable) GetTyped(handle Handle, typeID uint32) (any, error) {
	actual, err := t.backend.TypeID(handle)
	if err != nil {
		return nil, err
	}
	if actual != typeID {
		return nil, typeMismatch(handle, actual, typeID)
	}
	return t.backend.Get(handle)
}

// Remove drops a resource and returns its value.
func (t *UnifiedTable) Remove(handle Handle) (any, error) {
	typeID, err := t.backend.TypeID(handle)
	if err != nil {
		return nil, err
	}
	value, err := t.backend.Drop(handle)
	if err != nil {
		return nil, err
	}
	t.dropped(handle, typeID, value)
	return value, nil
}

// RemoveTyped drops a resource only if it matches the expected type.
// A mismatched handle stays valid.
func (t *UnifiedTable) RemoveTyped(handle Handle, typeID uint32) (any, error) {
	value, err := t.backend.DropTyped(handle, typeID)
	if err != nil {
		return nil, err
	}
	t.dropped(handle, typeID, value)
	return value, nil
}

func (t *UnifiedTable) dropped(handle Handle, typeID uint32, value any) {
	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})
}

// Subscribe adds an observer for lifecycle events.
func (t *UnifiedTable) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Len returns the number of active resources.
func (t *UnifiedTable) Len() int {
	return t.backend.Len()
}

// CountType returns the number of active resources of one type.
func (t *UnifiedTable) CountType(typeID uint32) int {
	n := 0
	t.backend.Each(func(_ Handle, id uint32, _ any) bool {
		if id == typeID {
			n++
		}
		return true
	})
	return n
}

// Clear drops all resources and returns how many were dropped. Unlike
// Close, the table keeps accepting inserts.
func (t *UnifiedTable) Clear() int {
	// Collect handles first to avoid holding lock during Remove
	var handles []Handle
	t.backend.Each(func(h Handle, typeID uint32, value any) bool {
		handles = append(handles, h)
		return true
	})
	n := 0
	for _, h := range handles {
		if _, err := t.Remove(h); err == nil {
			n++
		}
	}
	return n
}

// Close releases all resources and stops accepting operations.
func (t *UnifiedTable) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.backend.Close()
}

func (t *UnifiedTable) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
