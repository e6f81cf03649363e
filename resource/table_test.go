package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/rosu-bridge/errors"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

func TestUnifiedTable_Basic(t *testing.T) {
	table := NewTable()

	h := table.Insert(1, "test")
	require.NotZero(t, h)

	val, err := table.Get(h)
	require.NoError(t, err)
	assert.Equal(t, "test", val)

	_, err = table.GetTyped(h, 1)
	require.NoError(t, err)

	_, err = table.GetTyped(h, 2)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)

	val, err = table.Remove(h)
	require.NoError(t, err)
	assert.Equal(t, "test", val)
	assert.Zero(t, table.Len())

	_, err = table.Remove(h)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)
}

func TestUnifiedTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	h := table.Insert(1, "test")
	require.Len(t, obs.events, 1)
	assert.Equal(t, EventCreated, obs.events[0].Type)
	assert.Equal(t, h, obs.events[0].Handle)

	_, err := table.Remove(h)
	require.NoError(t, err)
	require.Len(t, obs.events, 2)
	assert.Equal(t, EventDropped, obs.events[1].Type)

	// failed removals are silent
	_, _ = table.Remove(h)
	assert.Len(t, obs.events, 2)

}

func TestUnifiedTable_ObserverFunc(t *testing.T) {
	table := NewTable()
	var got []EventType
	table.Subscribe(ObserverFunc(func(e Event) { got = append(got, e.Type) }))

	h := table.Insert(3, 1.5)
	_, err := table.RemoveTyped(h, 3)
	require.NoError(t, err)

	assert.Equal(t, []EventType{EventCreated, EventDropped}, got)
	assert.Equal(t, "dropped", got[1].String())
}

func TestUnifiedTable_CountType(t *testing.T) {
	table := NewTable()
	table.Insert(1, "a")
	table.Insert(2, "b")
	table.Insert(1, "c")

	assert.Equal(t, 2, table.CountType(1))
	assert.Equal(t, 1, table.CountType(2))
	assert.Zero(t, table.CountType(3))
}

func TestUnifiedTable_Clear(t *testing.T) {
	table := NewTable()

	table.Insert(1, "a")
	table.Insert(1, "b")
	table.Insert(1, "c")
	require.Equal(t, 3, table.Len())

	obs := &testObserver{}
	table.Subscribe(obs)
	d := &dropCounter{}
	table.Insert(2, d)

	assert.Equal(t, 4, table.Clear())
	assert.Zero(t, table.Len())
	assert.Equal(t, 1, d.count)
	assert.Len(t, obs.events, 5, "one create, four drops")

	h := table.Insert(1, "after")
	assert.NotZero(t, h, "clear keeps the table open")
	assert.Equal(t, 1, table.Clear())
}

func TestUnifiedTable_Close(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	table.Insert(1, "a")
	table.Insert(1, d)

	require.NoError(t, table.Close())
	assert.Equal(t, 1, d.count, "Close drops live values")

	assert.Zero(t, table.Insert(1, "c"), "Insert fails after Close")
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestUnifiedTable_DropperInterface(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	h := table.Insert(1, d)
	_, err := table.Remove(h)
	require.NoError(t, err)
	assert.Equal(t, 1, d.count)

	_, _ = table.Remove(h)
	assert.Equal(t, 1, d.count, "a stale release must not drop twice")
}

func TestTypedTable(t *testing.T) {
	table := NewTable()
	names := NewTyped[string](table, 1)
	counts := NewTyped[*dropCounter](table, 2)

	hn := names.Insert("osu")
	hc := counts.Insert(&dropCounter{})

	name, err := names.Borrow(hn)
	require.NoError(t, err)
	assert.Equal(t, "osu", name)

	// a handle is never reinterpreted as another type
	_, err = counts.Borrow(hn)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)
	_, err = names.Release(hc)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)

	c, err := counts.Borrow(hc)
	require.NoError(t, err)
	assert.Zero(t, c.count)

	assert.Equal(t, 1, names.Len())
	assert.Equal(t, 1, counts.Len())
	assert.Equal(t, uint32(2), counts.TypeID())

	c, err = counts.Release(hc)
	require.NoError(t, err)
	assert.Equal(t, 1, c.count)
	assert.Zero(t, counts.Len())

	_, err = counts.Borrow(hc)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)
}
