package ktx

import (
	"fmt"
	"io"

	"github.com/eak1mov/go-libktx/ktx/spec"
)

// SerializedLength computes the exact number of bytes Serialize writes.
func (b *Bundle) SerializedLength() int {
	n := spec.HeaderLength + b.metadata.serializedLength()
	for _, blob := range b.blobs.blobs {
		n += spec.ImageLength(len(blob))
	}
	return n
}

func (b *Bundle) header() spec.Header {
	header := spec.Header{
		NumberOfFaces:        b.blobs.numCubeFaces,
		NumberOfMipmapLevels: b.blobs.numMipLevels,
		BytesOfKeyValueData:  uint32(b.metadata.serializedLength()),
	}
	if b.blobs.arrayLength > 1 {
		header.NumberOfArrayElements = b.blobs.arrayLength
	}
	b.info.CopyToHeader(&header)
	return header
}

// Serialize writes the bundle in KTX format into dst and returns the number of bytes
// written. If dst is shorter than SerializedLength, nothing is written and
// ErrInsufficientBuffer is returned. Images of empty blobs are written with zero size.
func (b *Bundle) Serialize(dst []byte) (int, error) {
	total := b.SerializedLength()
	if len(dst) < total {
		return 0, fmt.Errorf("%w: need %d bytes, got %d", ErrInsufficientBuffer, total, len(dst))
	}
	order := spec.ByteOrder(b.info.Endianness)

	header := b.header()
	n, err := spec.EncodeHeader(dst, &header, order)
	if err != nil {
		return 0, err
	}
	for key, value := range b.metadata.all() {
		n += spec.EncodeKeyValue(dst[n:], key, value, order)
	}
	for _, blob := range b.blobs.blobs {
		n += spec.EncodeImage(dst[n:], blob, order)
	}
	return n, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	data := make([]byte, b.SerializedLength())
	if _, err := b.Serialize(data); err != nil {
		return nil, err
	}
	return data, nil
}

// WriteTo implements io.WriterTo.
func (b *Bundle) WriteTo(w io.Writer) (int64, error) {
	data, err := b.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}
