package spec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

type KeyValue struct {
	Key   string
	Value []byte
}

var ErrInvalidKeyValue = errors.New("invalid key/value data")

// lengthPrefix is the size of the uint32 that precedes every key/value entry and image.
const lengthPrefix = 4

// PaddedLength rounds n up to the next multiple of 4.
func PaddedLength(n int) int {
	return (n + 3) &^ 3
}

// KeyValueLength returns the number of bytes the entry occupies in the key/value section,
// including its length prefix and padding.
func KeyValueLength(key string, value []byte) int {
	return lengthPrefix + PaddedLength(len(key)+1+len(value))
}

// EncodeKeyValue writes a single padded entry into dst, which must hold at least
// KeyValueLength(key, value) bytes. Returns the number of bytes written.
func EncodeKeyValue(dst []byte, key string, value []byte, order binary.ByteOrder) int {
	size := len(key) + 1 + len(value)
	order.PutUint32(dst, uint32(size))
	n := lengthPrefix
	n += copy(dst[n:], key)
	dst[n] = 0
	n++
	n += copy(dst[n:], value)
	end := lengthPrefix + PaddedLength(size)
	clear(dst[n:end])
	return end
}

// DeserializeKeyValues decodes a whole key/value section. Keys and values are copied,
// the result does not alias data.
func DeserializeKeyValues(data []byte, order binary.ByteOrder) ([]KeyValue, error) {
	result := make([]KeyValue, 0)
	offset := 0
	for offset < len(data) {
		if len(data)-offset < lengthPrefix {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKeyValue, io.ErrUnexpectedEOF)
		}
		size := int(order.Uint32(data[offset:]))
		offset += lengthPrefix
		if size > len(data)-offset {
			return nil, fmt.Errorf("%w: entry of %d bytes exceeds section", ErrInvalidKeyValue, size)
		}

		entry := data[offset : offset+size]
		keyEnd := bytes.IndexByte(entry, 0)
		if keyEnd < 0 {
			return nil, fmt.Errorf("%w: key is not terminated", ErrInvalidKeyValue)
		}
		if keyEnd == 0 {
			return nil, fmt.Errorf("%w: empty key", ErrInvalidKeyValue)
		}
		result = append(result, KeyValue{
			Key:   string(entry[:keyEnd]),
			Value: bytes.Clone(entry[keyEnd+1:]),
		})

		// The last entry may omit its padding when the section length says so.
		offset = min(offset+PaddedLength(size), len(data))
	}
	return result, nil
}
