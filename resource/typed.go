package resource

// TypedTable gives type-safe access to one resource type of a UnifiedTable.
// Handles of other types fail validation instead of being reinterpreted.
type TypedTable[T any] struct {
	table  *UnifiedTable
	typeID uint32
}

// NewTyped binds typeID to T on table.
func NewTyped[T any](table *UnifiedTable, typeID uint32) *TypedTable[T] {
	return &TypedTable[T]{table: table, typeID: typeID}
}

// TypeID returns the type ID values are stored under.
func (t *TypedTable[T]) TypeID() uint32 {
	return t.typeID
}

// Insert takes ownership of value and returns its handle.
func (t *TypedTable[T]) Insert(value T) Handle {
	return t.table.Insert(t.typeID, value)
}

// Borrow validates handle and returns its value without transferring ownership.
func (t *TypedTable[T]) Borrow(handle Handle) (T, error) {
	var zero T
	v, err := t.table.GetTyped(handle, t.typeID)
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// Release validates handle, removes its value and returns it.
// The handle is invalid afterwards.
func (t *TypedTable[T]) Release(handle Handle) (T, error) {
	var zero T
	v, err := t.table.RemoveTyped(handle, t.typeID)
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// Len returns the number of live values of this type.
func (t *TypedTable[T]) Len() int {
	return t.table.CountType(t.typeID)
}
