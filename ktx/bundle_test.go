package ktx_test

import (
	"bytes"
	"testing"

	"github.com/eak1mov/go-libktx/internal"
	"github.com/eak1mov/go-libktx/ktx"
	"github.com/stretchr/testify/require"
)

func TestBlobCount(t *testing.T) {
	for name, shape := range internal.Shapes {
		t.Run(name, func(t *testing.T) {
			bundle, err := ktx.NewBundle(shape.NumMipLevels, shape.ArrayLength, shape.IsCubemap)
			require.NoError(t, err)

			faces := 1
			if shape.IsCubemap {
				faces = 6
			}
			want := int(shape.NumMipLevels) * int(shape.ArrayLength) * faces
			require.Equal(t, want, bundle.BlobCount())
			require.Equal(t, shape.NumMipLevels, bundle.NumMipLevels())
			require.Equal(t, shape.ArrayLength, bundle.ArrayLength())
			require.Equal(t, shape.IsCubemap, bundle.IsCubemap())
			require.Equal(t, uint32(faces), bundle.NumCubeFaces())

			for index := range bundle.Indices() {
				require.NoError(t, bundle.SetBlob(index, []byte("x")))
			}
			require.Equal(t, want, bundle.BlobCount())
		})
	}
}

func TestNewBundleErrors(t *testing.T) {
	_, err := ktx.NewBundle(0, 1, false)
	require.ErrorIs(t, err, ktx.ErrInvalidShape)
	_, err = ktx.NewBundle(1, 0, true)
	require.ErrorIs(t, err, ktx.ErrInvalidShape)
}

func TestIndicesOrder(t *testing.T) {
	bundle, err := ktx.NewBundle(2, 2, true)
	require.NoError(t, err)

	var got []ktx.BlobIndex
	for index := range bundle.Indices() {
		got = append(got, index)
	}
	require.Len(t, got, 24)
	require.Equal(t, ktx.BlobIndex{MipLevel: 0, ArrayIndex: 0, CubeFace: 0}, got[0])
	require.Equal(t, ktx.BlobIndex{MipLevel: 0, ArrayIndex: 0, CubeFace: 1}, got[1])
	require.Equal(t, ktx.BlobIndex{MipLevel: 0, ArrayIndex: 1, CubeFace: 0}, got[6])
	require.Equal(t, ktx.BlobIndex{MipLevel: 1, ArrayIndex: 0, CubeFace: 0}, got[12])
	require.Equal(t, ktx.BlobIndex{MipLevel: 1, ArrayIndex: 1, CubeFace: 5}, got[23])
}

func TestBlobOutOfRange(t *testing.T) {
	bundle, err := ktx.NewBundle(2, 1, true)
	require.NoError(t, err)
	require.Equal(t, 12, bundle.BlobCount())

	for _, index := range []ktx.BlobIndex{
		{MipLevel: 2},
		{ArrayIndex: 1},
		{CubeFace: 6},
		{MipLevel: 7, ArrayIndex: 9, CubeFace: 9},
	} {
		_, err := bundle.Blob(index)
		require.ErrorIs(t, err, ktx.ErrOutOfRange, "Blob(%+v)", index)
		require.ErrorIs(t, bundle.SetBlob(index, []byte("AB")), ktx.ErrOutOfRange, "SetBlob(%+v)", index)
		require.ErrorIs(t, bundle.AllocateBlob(index, 4), ktx.ErrOutOfRange, "AllocateBlob(%+v)", index)
	}

	flat, err := ktx.NewBundle(1, 1, false)
	require.NoError(t, err)
	_, err = flat.Blob(ktx.BlobIndex{CubeFace: 1})
	require.ErrorIs(t, err, ktx.ErrOutOfRange)
}

func TestBlobEmpty(t *testing.T) {
	bundle, err := ktx.NewBundle(1, 2, false)
	require.NoError(t, err)

	_, err = bundle.Blob(ktx.BlobIndex{ArrayIndex: 1})
	require.ErrorIs(t, err, ktx.ErrEmptyBlob)

	require.NoError(t, bundle.SetBlob(ktx.BlobIndex{ArrayIndex: 1}, nil))
	blob, err := bundle.Blob(ktx.BlobIndex{ArrayIndex: 1})
	require.NoError(t, err)
	require.NotNil(t, blob)
	require.Empty(t, blob)
}

func TestSetBlob(t *testing.T) {
	bundle, err := ktx.NewBundle(3, 1, false)
	require.NoError(t, err)

	index := ktx.BlobIndex{MipLevel: 1}
	data := []byte("hello")
	require.NoError(t, bundle.SetBlob(index, data))
	data[0] = 'j'

	blob, err := bundle.Blob(index)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), blob)

	require.NoError(t, bundle.SetBlob(index, []byte("AB")))
	blob, err = bundle.Blob(index)
	require.NoError(t, err)
	require.Equal(t, []byte("AB"), blob)
}

func TestAllocateBlob(t *testing.T) {
	bundle, err := ktx.NewBundle(1, 1, true)
	require.NoError(t, err)

	index := ktx.BlobIndex{CubeFace: 3}
	require.NoError(t, bundle.SetBlob(index, []byte("stale")))
	require.NoError(t, bundle.AllocateBlob(index, 16))

	blob, err := bundle.Blob(index)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 16), blob)

	// Blob is a view: writes through it land in the bundle, and a same-size
	// SetBlob reuses the allocated storage.
	copy(blob, "0123456789abcdef")
	view, err := bundle.Blob(index)
	require.NoError(t, err)
	require.Equal(t, []byte("0123456789abcdef"), view)

	require.NoError(t, bundle.SetBlob(index, bytes.Repeat([]byte{'z'}, 16)))
	require.Equal(t, bytes.Repeat([]byte{'z'}, 16), blob)
}

func TestInfo(t *testing.T) {
	bundle, err := ktx.NewBundle(1, 1, false)
	require.NoError(t, err)
	require.Equal(t, ktx.EndianDefault, bundle.Info().Endianness)

	bundle.MutableInfo().PixelWidth = 64
	info := bundle.Info()
	info.PixelHeight = 32
	require.Equal(t, uint32(64), bundle.Info().PixelWidth)
	require.Zero(t, bundle.Info().PixelHeight)

	require.Equal(t, "RGBA", ktx.FormatName(ktx.FormatRGBA))
	require.Equal(t, "HALF_FLOAT", ktx.TypeName(ktx.TypeHalfFloat))
	require.Equal(t, "COMPRESSED", ktx.TypeName(0))
	require.Equal(t, "0x8058", ktx.FormatName(0x8058))
}

func TestClone(t *testing.T) {
	for name, bundle := range internal.TestdataCases(t) {
		t.Run(name, func(t *testing.T) {
			clone := bundle.Clone()
			requireBundlesEqual(t, bundle, clone)

			for index, blob := range clone.Blobs() {
				if len(blob) > 0 {
					blob[0]++
					original, err := bundle.Blob(index)
					require.NoError(t, err)
					require.NotEqual(t, original, blob)
					break
				}
			}
			require.NoError(t, clone.SetMetadata("extra", []byte("1")))
			_, found := bundle.Metadata("extra")
			require.False(t, found)
		})
	}
}
