package resource

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/rosu-bridge/errors"
)

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend()

	handle, err := b.Create(1, "test value")
	require.NoError(t, err)
	require.NotZero(t, handle)

	val, err := b.Get(handle)
	require.NoError(t, err)
	assert.Equal(t, "test value", val)

	val, err = b.Drop(handle)
	require.NoError(t, err)
	assert.Equal(t, "test value", val)

	_, err = b.Get(handle)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)
}

func TestLocalBackend_ReleasedHandleStaysInvalid(t *testing.T) {
	b := NewLocalBackend()

	h1, err := b.Create(1, "first")
	require.NoError(t, err)
	_, err = b.Drop(h1)
	require.NoError(t, err)

	// The slot is reused but the generation differs.
	h2, err := b.Create(1, "second")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	s1, _ := h1.slot()
	s2, _ := h2.slot()
	assert.Equal(t, s1, s2, "freed slot should be reused")

	_, err = b.Get(h1)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)
	assert.Contains(t, err.Error(), "stale generation")

	_, err = b.Drop(h1)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)

	val, err := b.Get(h2)
	require.NoError(t, err)
	assert.Equal(t, "second", val)
}

func TestLocalBackend_DoubleDrop(t *testing.T) {
	b := NewLocalBackend()

	h, err := b.Create(1, 42)
	require.NoError(t, err)

	_, err = b.Drop(h)
	require.NoError(t, err)

	_, err = b.Drop(h)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)
}

func TestLocalBackend_DropTyped(t *testing.T) {
	b := NewLocalBackend()

	h, err := b.Create(1, "value")
	require.NoError(t, err)

	_, err = b.DropTyped(h, 2)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)

	// a failed typed drop leaves the handle alive
	val, err := b.Get(h)
	require.NoError(t, err)
	assert.Equal(t, "value", val)

	_, err = b.DropTyped(h, 1)
	require.NoError(t, err)
}

func TestLocalBackend_Close(t *testing.T) {
	b := NewLocalBackend()

	_, err := b.Create(1, "a")
	require.NoError(t, err)
	_, err = b.Create(1, "b")
	require.NoError(t, err)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close(), "second Close is a no-op")

	_, err = b.Create(1, "test")
	assert.ErrorIs(t, err, ErrClosed)
	assert.Zero(t, b.Len())
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			h, err := b.Create(1, id)
			if err != nil {
				t.Error(err)
				return
			}
			v, err := b.Get(h)
			if err != nil || v != id {
				t.Errorf("Get(%#x) = %v, %v", uint64(h), v, err)
			}
			if _, err := b.Drop(h); err != nil {
				t.Error(err)
			}
		}(i)
	}

	wg.Wait()
	assert.Zero(t, b.Len())
}

func TestLocalBackend_Len(t *testing.T) {
	b := NewLocalBackend()
	assert.Zero(t, b.Len())

	h1, _ := b.Create(1, "a")
	h2, _ := b.Create(1, "b")
	_, _ = b.Create(1, "c")
	assert.Equal(t, 3, b.Len())

	_, _ = b.Drop(h1)
	assert.Equal(t, 2, b.Len())

	_, _ = b.Drop(h2)
	assert.Equal(t, 1, b.Len())
}

func TestLocalBackend_Each(t *testing.T) {
	b := NewLocalBackend()

	_, _ = b.Create(1, "a")
	_, _ = b.Create(2, "b")
	_, _ = b.Create(1, "c")

	count := 0
	b.Each(func(h Handle, typeID uint32, value any) bool {
		v, err := b.backendGetUnlocked(h)
		assert.NoError(t, err)
		assert.Equal(t, value, v)
		count++
		return true
	})
	assert.Equal(t, 3, count)

	count = 0
	b.Each(func(Handle, uint32, any) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count, "early termination")
}

// backendGetUnlocked is Get without taking the lock, for use inside Each.
func (b *LocalBackend) backendGetUnlocked(h Handle) (any, error) {
	e, err := b.lookup(h)
	if err != nil {
		return nil, err
	}
	return e.value, nil
}

func TestLocalBackend_InvalidHandle(t *testing.T) {
	b := NewLocalBackend()

	tests := []struct {
		name   string
		handle Handle
		reason string
	}{
		{"null", 0, "null handle"},
		{"unknown slot", newHandle(999, 1), "unknown slot"},
		{"generation only", Handle(1 << 32), "null handle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Get(tt.handle)
			require.ErrorIs(t, err, errors.ErrInvalidHandle)
			assert.Contains(t, err.Error(), tt.reason)

			_, err = b.Drop(tt.handle)
			assert.ErrorIs(t, err, errors.ErrInvalidHandle)

			_, err = b.TypeID(tt.handle)
			assert.ErrorIs(t, err, errors.ErrInvalidHandle)
		})
	}
}

func TestHandle_Layout(t *testing.T) {
	h := newHandle(4, 9)
	slot, ok := h.slot()
	require.True(t, ok)
	assert.Equal(t, uint32(4), slot)
	assert.Equal(t, uint32(9), h.generation())
	assert.Equal(t, Handle(9<<32|5), h)
}
