package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/rosu-bridge/errors"
)

func sampleList() *List {
	return &List{
		Version: CurrentVersion,
		Collections: []*Collection{
			{Name: str("favourites"), Hashes: []*string{str("d41d8cd98f00b204e9800998ecf8427e"), nil, str("")}},
			{Name: nil, Hashes: []*string{}},
			{Name: str("日本語"), Hashes: []*string{str("x")}},
		},
	}
}

func TestSerialize_Layout(t *testing.T) {
	l := &List{
		Version:     20220424,
		Collections: []*Collection{{Name: str("ab"), Hashes: []*string{nil, str("c")}}},
	}
	want := []byte{
		0x08, 0x8a, 0x34, 0x01, // 20220424
		0x01, 0x00, 0x00, 0x00,
		0x0b, 0x02, 'a', 'b',
		0x02, 0x00, 0x00, 0x00,
		0x00,
		0x0b, 0x01, 'c',
	}
	assert.Equal(t, want, l.Serialize())
}

func TestLoad_RoundTrip(t *testing.T) {
	data := sampleList().Serialize()

	first, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, sampleList(), first)

	second, err := Load(first.Serialize())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, data, second.Serialize())
}

func TestLoad_LongString(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a' + byte(i%26)
	}
	l := NewList(0)
	require.NoError(t, l.AddCollection(str(string(long)), nil))

	got, err := Load(l.Serialize())
	require.NoError(t, err)
	assert.Equal(t, string(long), *got.Collections[0].Name)
}

func TestLoad_Empty(t *testing.T) {
	got, err := Load(NewList(0).Serialize())
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, got.Version)
	assert.Empty(t, got.Collections)
}

func TestLoad_Malformed(t *testing.T) {
	valid := sampleList().Serialize()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short version", []byte{1, 2}},
		{"missing count", []byte{1, 2, 3, 4}},
		{"negative count", []byte{1, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}},
		{"huge count", []byte{1, 0, 0, 0, 0x00, 0x00, 0x00, 0x10}},
		{"bad marker", []byte{1, 0, 0, 0, 1, 0, 0, 0, 0x07}},
		{"marker at end", []byte{0xa0, 0x7e, 0x34, 0x01, 1, 0, 0, 0, 0x00, 1, 0, 0, 0, 0x0b}},
		{"length past end", []byte{0xa0, 0x7e, 0x34, 0x01, 1, 0, 0, 0, 0x0b, 0x85}},
		{"overlong length", []byte{1, 0, 0, 0, 1, 0, 0, 0, 0x0b, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}},
		{"string past end", []byte{1, 0, 0, 0, 1, 0, 0, 0, 0x0b, 0x05, 'a'}},
		{"invalid utf8", []byte{1, 0, 0, 0, 1, 0, 0, 0, 0x0b, 0x01, 0xff, 0, 0, 0, 0}},
		{"truncated", valid[:len(valid)-1]},
		{"trailing", append(append([]byte{}, valid...), 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrDecode)
		})
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	l := sampleList()
	got, err := ReadSnapshot(l.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, l, got)
}

func TestSnapshot_Layout(t *testing.T) {
	l := &List{Version: 7, Collections: []*Collection{{Name: nil, Hashes: []*string{str("h")}}}}
	want := []byte{
		0, 0, 0, 7,
		0, 0, 0, 1,
		0xff, 0xff, 0xff, 0xff,
		0, 0, 0, 1,
		0, 0, 0, 1, 'h',
	}
	assert.Equal(t, want, l.Snapshot())
}

func TestReadSnapshot_Malformed(t *testing.T) {
	_, err := ReadSnapshot([]byte{0, 0, 0, 1, 0, 0, 0, 2})
	assert.ErrorIs(t, err, errors.ErrDecode)

	_, err = ReadSnapshot([]byte{0, 0, 0, 1})
	assert.ErrorIs(t, err, errors.ErrTruncatedInput)

	_, err = ReadSnapshot([]byte{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 9, 'a'})
	assert.ErrorIs(t, err, errors.ErrTruncatedInput)
}
