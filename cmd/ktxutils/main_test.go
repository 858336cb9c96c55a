package main

import (
	"bytes"
	"context"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/eak1mov/go-libktx/internal"
	"github.com/eak1mov/go-libktx/ktx"
	"github.com/google/go-cmp/cmp"
	"github.com/opencontainers/go-digest"
	"github.com/schollz/progressbar/v3"
	"github.com/stretchr/testify/require"
)

func silentBar() *progressbar.ProgressBar {
	return progressbar.NewOptions(-1, progressbar.OptionSetWriter(io.Discard))
}

func TestExtractPack(t *testing.T) {
	for name, bundle := range internal.TestdataCases(t) {
		if name == "sparsearray" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			pattern := filepath.Join(t.TempDir(), "{mip}", "{layer}", "{face}.bin")
			require.NoError(t, extractBlobs(bundle, pattern, silentBar()))

			data, err := os.ReadFile(formatPattern(pattern, ktx.BlobIndex{}))
			require.NoError(t, err)
			require.Equal(t, internal.BlobData(ktx.BlobIndex{}), data)

			packed, err := ktx.NewBundle(bundle.NumMipLevels(), bundle.ArrayLength(), bundle.IsCubemap())
			require.NoError(t, err)
			require.NoError(t, packBlobs(context.Background(), packed, pattern, 3, silentBar()))

			if got, want := maps.Collect(packed.Blobs()), maps.Collect(bundle.Blobs()); !cmp.Equal(got, want) {
				t.Errorf("packBlobs(extractBlobs(input)) != input")
			}
		})
	}
}

func TestPackMissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0.bin"), []byte("mip0"), 0644))

	bundle, err := ktx.NewBundle(2, 1, false)
	require.NoError(t, err)
	err = packBlobs(context.Background(), bundle, filepath.Join(dir, "{mip}.bin"), 1, silentBar())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPackCommandBundle(t *testing.T) {
	c := packCmd{
		numMips:   2,
		numLayers: 3,
		cubemap:   true,
		bigEndian: true,
		glFormat:  uint(ktx.FormatRG),
		width:     8,
		height:    4,
		metadata:  metadataFlag{"KTXorientation=S=r,T=d"},
	}
	bundle, err := c.newBundle()
	require.NoError(t, err)
	require.Equal(t, 36, bundle.BlobCount())
	require.Equal(t, ktx.EndianBig, bundle.Info().Endianness)
	require.Equal(t, ktx.FormatRG, bundle.Info().GLFormat)

	orientation, found := bundle.MetadataString("KTXorientation")
	require.True(t, found)
	require.Equal(t, "S=r,T=d", orientation)
}

func TestMetadataFlag(t *testing.T) {
	var m metadataFlag
	require.NoError(t, m.Set("a=1"))
	require.NoError(t, m.Set("b="))
	require.Error(t, m.Set("novalue"))
	require.Equal(t, "a=1,b=", m.String())
}

func TestRepack(t *testing.T) {
	for name, bundle := range internal.TestdataCases(t) {
		t.Run(name, func(t *testing.T) {
			data, err := bundle.MarshalBinary()
			require.NoError(t, err)

			c := repackCmd{dropMetadata: true, byteOrder: "be", metadata: metadataFlag{"tool=ktxutils"}}
			repacked, err := c.repack(data)
			require.NoError(t, err)
			require.Equal(t, ktx.EndianBig, repacked.Info().Endianness)
			require.Equal(t, []string{"tool"}, slices.Collect(repacked.MetadataKeys()))

			outputPath := filepath.Join(t.TempDir(), "out.ktx")
			require.NoError(t, writeBundle(outputPath, repacked))
			output, err := os.ReadFile(outputPath)
			require.NoError(t, err)
			require.Len(t, output, repacked.SerializedLength())

			parsed, err := ktx.Parse(output)
			require.NoError(t, err)
			require.Equal(t, bundle.BlobCount(), parsed.BlobCount())
		})
	}
}

func TestPrintInfo(t *testing.T) {
	bundle, err := ktx.NewBundle(1, 2, false)
	require.NoError(t, err)
	require.NoError(t, bundle.SetBlob(ktx.BlobIndex{}, []byte("AB")))
	require.NoError(t, bundle.SetMetadataString("KTXorientation", "S=r,T=d"))

	var buffer bytes.Buffer
	printInfo(&buffer, bundle)
	output := buffer.String()

	require.Contains(t, output, "byte order:       little-endian")
	require.Contains(t, output, "array length:     2")
	require.Contains(t, output, `metadata KTXorientation = "S=r,T=d"`)
	require.Contains(t, output, "blob mip=0 layer=0 face=0: 2 bytes "+digest.FromBytes([]byte("AB")).String())
	require.Contains(t, output, "blob mip=0 layer=1 face=0: empty")
	require.Equal(t, 2, strings.Count(output, "blob mip="))
}
