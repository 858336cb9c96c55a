package spec_test

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/eak1mov/go-libktx/ktx/spec"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPaddedLength(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 4, 3: 4, 4: 4, 5: 8, 8: 8} {
		if got := spec.PaddedLength(n); got != want {
			t.Errorf("PaddedLength(%d) = %d, want = %d", n, got, want)
		}
	}
}

func TestKeyValueSerializer(t *testing.T) {
	entries := []spec.KeyValue{
		{Key: "KTXorientation", Value: []byte("S=r,T=d\x00")},
		{Key: "a", Value: []byte{}},
		{Key: "bin", Value: []byte{0, 1, 2, 3, 4}},
	}
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			size := 0
			for _, kv := range entries {
				size += spec.KeyValueLength(kv.Key, kv.Value)
			}
			data := make([]byte, size)
			offset := 0
			for _, kv := range entries {
				n := spec.EncodeKeyValue(data[offset:], kv.Key, kv.Value, order)
				require.Zero(t, n%4)
				offset += n
			}
			require.Equal(t, size, offset)

			decoded, err := spec.DeserializeKeyValues(data, order)
			require.NoError(t, err)
			if diff := cmp.Diff(entries, decoded); diff != "" {
				t.Errorf("DeserializeKeyValues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeyValueLayout(t *testing.T) {
	data := make([]byte, spec.KeyValueLength("ab", []byte("c")))
	spec.EncodeKeyValue(data, "ab", []byte("c"), binary.LittleEndian)
	require.Equal(t, []byte{4, 0, 0, 0, 'a', 'b', 0, 'c'}, data)
}

func TestKeyValueErrors(t *testing.T) {
	le := binary.LittleEndian
	for _, tc := range []struct {
		Name string
		Data []byte
	}{
		{Name: "ShortPrefix", Data: []byte{1, 0}},
		{Name: "Overrun", Data: []byte{9, 0, 0, 0, 'a', 0, 'b', 'c'}},
		{Name: "NoTerminator", Data: []byte{4, 0, 0, 0, 'a', 'b', 'c', 'd'}},
		{Name: "EmptyKey", Data: []byte{4, 0, 0, 0, 0, 'b', 'c', 'd'}},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := spec.DeserializeKeyValues(tc.Data, le)
			require.ErrorIs(t, err, spec.ErrInvalidKeyValue)
		})
	}

	_, err := spec.DeserializeKeyValues([]byte{1, 0}, le)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestKeyValueEmptySection(t *testing.T) {
	decoded, err := spec.DeserializeKeyValues(nil, binary.LittleEndian)
	require.NoError(t, err)
	require.Empty(t, decoded)
}
