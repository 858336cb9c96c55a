package ktx

import (
	"fmt"

	"github.com/eak1mov/go-libktx/ktx/spec"
)

// Info describes the texture object: its GL format and type, and pixel dimensions.
// Values are not validated.
type Info struct {
	Endianness           uint32
	GLType               uint32
	GLTypeSize           uint32
	GLFormat             uint32
	GLInternalFormat     uint32
	GLBaseInternalFormat uint32
	PixelWidth           uint32
	PixelHeight          uint32
	PixelDepth           uint32
}

// Most of these have corollary constants in the OpenGL headers.
const (
	FormatRed            uint32 = 0x1903
	FormatRG             uint32 = 0x8227
	FormatRGB            uint32 = 0x1907
	FormatRGBA           uint32 = 0x1908
	FormatBGR            uint32 = 0x80E0
	FormatBGRA           uint32 = 0x80E1
	FormatLuminance      uint32 = 0x1909
	FormatLuminanceAlpha uint32 = 0x190A

	TypeUnsignedByte  uint32 = 0x1401
	TypeUnsignedShort uint32 = 0x1403
	TypeHalfFloat     uint32 = 0x140B
	TypeFloat         uint32 = 0x1406

	// EndianDefault makes a bundle serialize little-endian.
	EndianDefault = spec.EndianDefault
	// EndianBig makes a bundle serialize big-endian. Parsed big-endian files report it.
	EndianBig     = spec.EndianSwapped
)

var formatNames = map[uint32]string{
	FormatRed:            "RED",
	FormatRG:             "RG",
	FormatRGB:            "RGB",
	FormatRGBA:           "RGBA",
	FormatBGR:            "BGR",
	FormatBGRA:           "BGRA",
	FormatLuminance:      "LUMINANCE",
	FormatLuminanceAlpha: "LUMINANCE_ALPHA",
}

var typeNames = map[uint32]string{
	TypeUnsignedByte:  "UNSIGNED_BYTE",
	TypeUnsignedShort: "UNSIGNED_SHORT",
	TypeHalfFloat:     "HALF_FLOAT",
	TypeFloat:         "FLOAT",
}

// FormatName returns a readable name for a GL format enumerant, or its hex value.
func FormatName(format uint32) string {
	if name, ok := formatNames[format]; ok {
		return name
	}
	return fmt.Sprintf("%#04x", format)
}

// TypeName returns a readable name for a GL type enumerant, or its hex value.
// Compressed textures use type 0.
func TypeName(glType uint32) string {
	if name, ok := typeNames[glType]; ok {
		return name
	}
	if glType == 0 {
		return "COMPRESSED"
	}
	return fmt.Sprintf("%#04x", glType)
}

func (info *Info) CopyFromHeader(header *spec.Header) {
	info.GLType = header.GLType
	info.GLTypeSize = header.GLTypeSize
	info.GLFormat = header.GLFormat
	info.GLInternalFormat = header.GLInternalFormat
	info.GLBaseInternalFormat = header.GLBaseInternalFormat
	info.PixelWidth = header.PixelWidth
	info.PixelHeight = header.PixelHeight
	info.PixelDepth = header.PixelDepth
}

func (info *Info) CopyToHeader(header *spec.Header) {
	header.GLType = info.GLType
	header.GLTypeSize = info.GLTypeSize
	header.GLFormat = info.GLFormat
	header.GLInternalFormat = info.GLInternalFormat
	header.GLBaseInternalFormat = info.GLBaseInternalFormat
	header.PixelWidth = info.PixelWidth
	header.PixelHeight = info.PixelHeight
	header.PixelDepth = info.PixelDepth
}
