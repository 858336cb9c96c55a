// Package spec implements the byte-level layout of KTX 1.1 files:
// the file header, the key/value section and length-prefixed image blobs.
//
// https://registry.khronos.org/KTX/specs/1.0/ktxspec.v1.html
package spec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

type Header struct {
	Identifier            [12]byte
	Endianness            uint32
	GLType                uint32
	GLTypeSize            uint32
	GLFormat              uint32
	GLInternalFormat      uint32
	GLBaseInternalFormat  uint32
	PixelWidth            uint32
	PixelHeight           uint32
	PixelDepth            uint32
	NumberOfArrayElements uint32
	NumberOfFaces         uint32
	NumberOfMipmapLevels  uint32
	BytesOfKeyValueData   uint32
}

// Identifier is the 12-byte sequence every KTX 1.1 file starts with: «KTX 11»\r\n\x1A\n
var Identifier = [12]byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x31, 0x31, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}

const (
	// EndianDefault is the endianness marker as written by the file producer.
	EndianDefault uint32 = 0x04030201
	// EndianSwapped is the marker seen when producer and reader byte orders differ.
	EndianSwapped uint32 = 0x01020304

	HeaderLength = 64

	identifierLength = len(Identifier)
)

var ErrInvalidHeader = errors.New("invalid file header")
var ErrInvalidIdentifier = errors.New("invalid file identifier")
var ErrInvalidEndianness = errors.New("invalid endianness marker")

// ByteOrder returns the byte order a file is written in, given its endianness marker
// decoded as little-endian. Unknown markers map to little-endian.
func ByteOrder(endianness uint32) binary.ByteOrder {
	if endianness == EndianSwapped {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Endianness is the inverse of ByteOrder.
func Endianness(order binary.ByteOrder) uint32 {
	if order == binary.BigEndian {
		return EndianSwapped
	}
	return EndianDefault
}

// EncodeHeader writes the header into dst using the given byte order.
// Identifier and Endianness are always written with their canonical values.
func EncodeHeader(dst []byte, header *Header, order binary.ByteOrder) (int, error) {
	h := *header
	h.Identifier = Identifier
	h.Endianness = EndianDefault
	n, err := binary.Encode(dst, order, &h)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	return n, nil
}

func SerializeHeader(header *Header, order binary.ByteOrder) []byte {
	buffer := make([]byte, HeaderLength)
	EncodeHeader(buffer, header, order)
	return buffer
}

// DeserializeHeader decodes the first HeaderLength bytes of buffer and reports
// the byte order the rest of the file is written in.
func DeserializeHeader(buffer []byte) (*Header, binary.ByteOrder, error) {
	if len(buffer) < HeaderLength {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidHeader, io.ErrUnexpectedEOF)
	}
	if !bytes.Equal(buffer[:identifierLength], Identifier[:]) {
		return nil, nil, ErrInvalidIdentifier
	}

	var order binary.ByteOrder
	switch marker := binary.LittleEndian.Uint32(buffer[identifierLength:]); marker {
	case EndianDefault:
		order = binary.LittleEndian
	case EndianSwapped:
		order = binary.BigEndian
	default:
		return nil, nil, fmt.Errorf("%w: %#08x", ErrInvalidEndianness, marker)
	}

	header := Header{}
	if _, err := binary.Decode(buffer[:HeaderLength], order, &header); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	return &header, order, nil
}
