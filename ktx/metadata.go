package ktx

import (
	"bytes"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/eak1mov/go-libktx/ktx/spec"
)

// metadataStore keeps key/value pairs in insertion order.
type metadataStore struct {
	keys   []string
	values map[string][]byte
}

func newMetadataStore() metadataStore {
	return metadataStore{values: make(map[string][]byte)}
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if strings.IndexByte(key, 0) >= 0 {
		return fmt.Errorf("%w: %q contains NUL", ErrInvalidKey, key)
	}
	return nil
}

// set overwrites an existing key in place, keeping its position.
func (m *metadataStore) set(key string, value []byte) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(make([]byte, 0, len(value)), value...)
}

func (m *metadataStore) get(key string) ([]byte, bool) {
	value, ok := m.values[key]
	return value, ok
}

func (m *metadataStore) delete(key string) bool {
	if _, exists := m.values[key]; !exists {
		return false
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	return true
}

func (m *metadataStore) all() iter.Seq2[string, []byte] {
	return func(yield func(string, []byte) bool) {
		for _, key := range m.keys {
			if !yield(key, m.values[key]) {
				return
			}
		}
	}
}

// serializedLength is the size of the key/value section, padding included.
func (m *metadataStore) serializedLength() int {
	n := 0
	for key, value := range m.all() {
		n += spec.KeyValueLength(key, value)
	}
	return n
}

func (m *metadataStore) clone() metadataStore {
	result := newMetadataStore()
	for key, value := range m.all() {
		result.set(key, value)
	}
	return result
}

// SetMetadata stores a copy of value under key, replacing any previous value.
func (b *Bundle) SetMetadata(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	b.metadata.set(key, value)
	return nil
}

// SetMetadataString stores value followed by a NUL terminator, the usual KTX encoding
// of text values such as KTXorientation.
func (b *Bundle) SetMetadataString(key, value string) error {
	return b.SetMetadata(key, append([]byte(value), 0))
}

// Metadata returns the value stored under key. The slice is owned by the bundle
// and must not be modified.
func (b *Bundle) Metadata(key string) ([]byte, bool) {
	return b.metadata.get(key)
}

// MetadataString returns the value stored under key with a single trailing NUL removed.
func (b *Bundle) MetadataString(key string) (string, bool) {
	value, ok := b.metadata.get(key)
	if !ok {
		return "", false
	}
	return string(bytes.TrimSuffix(value, []byte{0})), true
}

// MetadataKeys yields metadata keys in insertion order.
func (b *Bundle) MetadataKeys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for key := range b.metadata.all() {
			if !yield(key) {
				return
			}
		}
	}
}

func (b *Bundle) DeleteMetadata(key string) bool {
	return b.metadata.delete(key)
}
