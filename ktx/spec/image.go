package spec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidImage = errors.New("invalid image data")

// ImageLength returns the number of bytes an image of the given size occupies in the file:
// the imageSize field, the data and the padding up to a 4-byte boundary.
func ImageLength(size int) int {
	return lengthPrefix + PaddedLength(size)
}

// EncodeImage writes a length-prefixed, zero-padded image into dst, which must hold at
// least ImageLength(len(data)) bytes. Returns the number of bytes written.
func EncodeImage(dst []byte, data []byte, order binary.ByteOrder) int {
	order.PutUint32(dst, uint32(len(data)))
	n := lengthPrefix + copy(dst[lengthPrefix:], data)
	end := ImageLength(len(data))
	clear(dst[n:end])
	return end
}

// DecodeImage reads one image from the start of data. The returned slice aliases data.
// Returns the number of bytes consumed, padding included.
func DecodeImage(data []byte, order binary.ByteOrder) ([]byte, int, error) {
	if len(data) < lengthPrefix {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidImage, io.ErrUnexpectedEOF)
	}
	size := uint64(order.Uint32(data))
	if size > uint64(len(data)-lengthPrefix) {
		return nil, 0, fmt.Errorf("%w: image of %d bytes exceeds remaining %d bytes",
			ErrInvalidImage, size, len(data)-lengthPrefix)
	}
	end := lengthPrefix + int(size)
	image := data[lengthPrefix:end]
	// Padding after the final image may be missing in files written by lax producers.
	return image, min(lengthPrefix+PaddedLength(int(size)), len(data)), nil
}
