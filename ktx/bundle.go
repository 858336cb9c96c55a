// Package ktx provides an in-memory KTX 1.1 texture bundle that can be built blob by blob,
// serialized to bytes and parsed back.
//
// A bundle holds one opaque blob per combination of mip level, array layer and cube face.
// The number of blobs is fixed at construction:
//
//	blob_count = mip_count * array_length * (cubemap ? 6 : 1)
//
// Blobs are not decoded; they are passed through as-is, which suits block-compressed
// texture data that goes straight to the GPU.
package ktx

import (
	"bytes"
	"fmt"
	"iter"
	"log/slog"
	"runtime"

	"github.com/eak1mov/go-libktx/ktx/spec"
)

const cubeFaces = 6

// Bundle is not safe for concurrent mutation. Read-only methods may run concurrently
// with each other. After AllocateBlob, distinct blobs may be filled concurrently
// with SetBlob or through the slices returned by Blob.
type Bundle struct {
	info     Info
	blobs    blobTable
	metadata metadataStore
}

type bundleConfig struct {
	Logger          *slog.Logger
	DiscardMetadata bool
	Concurrency     int
}

type Option func(*bundleConfig)

// WithLogger sets the logger used by Parse and Fill.
func WithLogger(logger *slog.Logger) Option {
	return func(c *bundleConfig) { c.Logger = logger }
}

// WithoutMetadata makes Parse skip the key/value section of the input.
func WithoutMetadata() Option {
	return func(c *bundleConfig) { c.DiscardMetadata = true }
}

// WithConcurrency limits the number of blobs Fill processes at once.
func WithConcurrency(n int) Option {
	return func(c *bundleConfig) { c.Concurrency = n }
}

func newConfig(opts []Option) bundleConfig {
	c := bundleConfig{
		Logger:      slog.New(slog.DiscardHandler),
		Concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewBundle creates a hierarchy of empty blobs, to be filled later with SetBlob.
// numMipLevels and arrayLength must not be zero.
func NewBundle(numMipLevels, arrayLength uint32, isCubemap bool) (*Bundle, error) {
	numCubeFaces := uint32(1)
	if isCubemap {
		numCubeFaces = cubeFaces
	}
	blobs, err := newBlobTable(numMipLevels, arrayLength, numCubeFaces)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		info:     Info{Endianness: EndianDefault},
		blobs:    blobs,
		metadata: newMetadataStore(),
	}, nil
}

// Parse creates a bundle from the contents of a KTX file. The bundle does not retain data.
// Key/value pairs from the file are kept unless WithoutMetadata is given.
// Any failure wraps ErrMalformedInput and yields no bundle.
func Parse(data []byte, opts ...Option) (*Bundle, error) {
	config := newConfig(opts)
	logger := config.Logger

	header, order, err := spec.DeserializeHeader(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if header.NumberOfMipmapLevels == 0 {
		return nil, fmt.Errorf("%w: zero mipmap levels", ErrMalformedInput)
	}
	if header.NumberOfFaces != 1 && header.NumberOfFaces != cubeFaces {
		return nil, fmt.Errorf("%w: %d faces", ErrMalformedInput, header.NumberOfFaces)
	}
	// Zero array elements denotes a non-array texture.
	arrayLength := max(header.NumberOfArrayElements, 1)

	rest := data[spec.HeaderLength:]
	if uint64(header.BytesOfKeyValueData) > uint64(len(rest)) {
		return nil, fmt.Errorf("%w: %d bytes of key/value data exceed input",
			ErrMalformedInput, header.BytesOfKeyValueData)
	}
	keyValueData := rest[:header.BytesOfKeyValueData]
	rest = rest[header.BytesOfKeyValueData:]

	// Every image takes at least its 4-byte size field.
	count, ok := blobCount(header.NumberOfMipmapLevels, arrayLength, header.NumberOfFaces)
	if !ok || count > len(rest)/4 {
		return nil, fmt.Errorf("%w: hierarchy of %dx%dx%d images exceeds input",
			ErrMalformedInput, header.NumberOfMipmapLevels, arrayLength, header.NumberOfFaces)
	}

	logger.Debug("libktx: parse header",
		"mips", header.NumberOfMipmapLevels, "layers", arrayLength, "faces", header.NumberOfFaces)

	b, err := NewBundle(header.NumberOfMipmapLevels, arrayLength, header.NumberOfFaces == cubeFaces)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	b.info.CopyFromHeader(header)
	b.info.Endianness = spec.Endianness(order)

	if config.DiscardMetadata {
		logger.Debug("libktx: discard key/value data", "length", len(keyValueData))
	} else {
		keyValues, err := spec.DeserializeKeyValues(keyValueData, order)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
		for _, kv := range keyValues {
			if _, exists := b.metadata.get(kv.Key); exists {
				logger.Warn("libktx: duplicate metadata key", "key", kv.Key)
			}
			b.metadata.set(kv.Key, kv.Value)
		}
	}

	logger.Debug("libktx: parse images", "count", count)
	for i := range b.blobs.blobs {
		image, n, err := spec.DecodeImage(rest, order)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d: %w", ErrMalformedInput, i, err)
		}
		b.blobs.blobs[i] = bytes.Clone(image)
		rest = rest[n:]
	}
	if len(rest) > 0 {
		logger.Debug("libktx: ignore trailing bytes", "length", len(rest))
	}

	return b, nil
}

// Clone returns a deep copy of the bundle.
func (b *Bundle) Clone() *Bundle {
	return &Bundle{
		info:     b.info,
		blobs:    b.blobs.clone(),
		metadata: b.metadata.clone(),
	}
}

// Info returns a copy of the texture info.
func (b *Bundle) Info() Info { return b.info }

// MutableInfo returns a reference to the texture info for in-place updates.
func (b *Bundle) MutableInfo() *Info { return &b.info }

// NumMipLevels is never zero.
func (b *Bundle) NumMipLevels() uint32 { return b.blobs.numMipLevels }

// ArrayLength is never zero.
func (b *Bundle) ArrayLength() uint32 { return b.blobs.arrayLength }

func (b *Bundle) NumCubeFaces() uint32 { return b.blobs.numCubeFaces }

func (b *Bundle) IsCubemap() bool { return b.blobs.numCubeFaces > 1 }

func (b *Bundle) BlobCount() int { return len(b.blobs.blobs) }

// Blob returns a view of the blob at index, without copying. The view is valid until
// the blob is next allocated or set with a different size.
func (b *Bundle) Blob(index BlobIndex) ([]byte, error) {
	return b.blobs.get(index)
}

// SetBlob copies data into the blob at index, replacing whatever is already there.
func (b *Bundle) SetBlob(index BlobIndex, data []byte) error {
	return b.blobs.set(index, data)
}

// AllocateBlob replaces the blob at index with size zero bytes. This allows subsequent
// SetBlob calls on distinct blobs to run concurrently.
func (b *Bundle) AllocateBlob(index BlobIndex, size uint32) error {
	return b.blobs.allocate(index, size)
}

// Indices yields every valid blob index in file order.
func (b *Bundle) Indices() iter.Seq[BlobIndex] {
	return func(yield func(BlobIndex) bool) {
		for _, index := range b.blobs.indices() {
			if !yield(index) {
				return
			}
		}
	}
}

// Blobs yields every blob in file order. Empty blobs are yielded as nil.
func (b *Bundle) Blobs() iter.Seq2[BlobIndex, []byte] {
	return func(yield func(BlobIndex, []byte) bool) {
		for i, index := range b.blobs.indices() {
			if !yield(index, b.blobs.blobs[i]) {
				return
			}
		}
	}
}

// VisitBlobs calls visitor for every blob in file order and stops at the first error.
func (b *Bundle) VisitBlobs(visitor func(BlobIndex, []byte) error) error {
	for index, blob := range b.Blobs() {
		if err := visitor(index, blob); err != nil {
			return err
		}
	}
	return nil
}
