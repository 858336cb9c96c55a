// Package internal holds fixtures shared by package tests.
package internal

import (
	"bytes"
	"iter"
	"testing"

	"github.com/eak1mov/go-libktx/ktx"
)

type Shape struct {
	NumMipLevels uint32
	ArrayLength  uint32
	IsCubemap    bool
}

var Shapes = map[string]Shape{
	"single":      {NumMipLevels: 1, ArrayLength: 1},
	"mipmapped":   {NumMipLevels: 5, ArrayLength: 1},
	"array":       {NumMipLevels: 1, ArrayLength: 4},
	"cubemap":     {NumMipLevels: 2, ArrayLength: 1, IsCubemap: true},
	"cubearray":   {NumMipLevels: 3, ArrayLength: 2, IsCubemap: true},
	"sparsearray": {NumMipLevels: 2, ArrayLength: 3},
}

// BlobData returns deterministic contents for a blob. Lengths vary so that
// every padding remainder is covered.
func BlobData(index ktx.BlobIndex) []byte {
	seed := byte(index.MipLevel*31 + index.ArrayIndex*7 + index.CubeFace)
	return bytes.Repeat([]byte{seed}, int(seed%9)+1)
}

// TestdataCases yields a filled bundle for every shape. The "sparsearray" bundle
// leaves its last array layer empty and carries metadata.
func TestdataCases(t testing.TB) iter.Seq2[string, *ktx.Bundle] {
	return func(yield func(string, *ktx.Bundle) bool) {
		t.Helper()

		for name, shape := range Shapes {
			bundle, err := ktx.NewBundle(shape.NumMipLevels, shape.ArrayLength, shape.IsCubemap)
			if err != nil {
				t.Fatal(err)
			}

			info := bundle.MutableInfo()
			info.GLType = ktx.TypeUnsignedByte
			info.GLTypeSize = 1
			info.GLFormat = ktx.FormatRGBA
			info.GLInternalFormat = 0x8058 // GL_RGBA8
			info.GLBaseInternalFormat = ktx.FormatRGBA
			info.PixelWidth = 1 << (shape.NumMipLevels - 1)
			info.PixelHeight = 1 << (shape.NumMipLevels - 1)

			for index := range bundle.Indices() {
				if name == "sparsearray" && index.ArrayIndex == shape.ArrayLength-1 {
					continue
				}
				if err := bundle.SetBlob(index, BlobData(index)); err != nil {
					t.Fatal(err)
				}
			}

			if name == "sparsearray" {
				if err := bundle.SetMetadataString("KTXorientation", "S=r,T=d"); err != nil {
					t.Fatal(err)
				}
				if err := bundle.SetMetadata("raw", []byte{0, 1, 2}); err != nil {
					t.Fatal(err)
				}
			}

			if !yield(name, bundle) {
				return
			}
		}
	}
}
