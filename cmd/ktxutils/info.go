package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/eak1mov/go-libktx/ktx"
	"github.com/google/subcommands"
	"github.com/opencontainers/go-digest"
)

type infoCmd struct {
	inputPath string
}

func (c *infoCmd) Name() string     { return "info" }
func (c *infoCmd) Synopsis() string { return "print header, metadata and blob digests of a KTX file" }
func (c *infoCmd) Usage() string {
	return "ktxutils info -i <path>\n"
}
func (c *infoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input KTX file path")
}

func printInfo(w io.Writer, bundle *ktx.Bundle) {
	info := bundle.Info()
	byteOrder := "little-endian"
	if info.Endianness == ktx.EndianBig {
		byteOrder = "big-endian"
	}
	fmt.Fprintf(w, "byte order:       %s\n", byteOrder)
	fmt.Fprintf(w, "type:             %s (size %d)\n", ktx.TypeName(info.GLType), info.GLTypeSize)
	fmt.Fprintf(w, "format:           %s\n", ktx.FormatName(info.GLFormat))
	fmt.Fprintf(w, "internal format:  %#04x (base %s)\n", info.GLInternalFormat, ktx.FormatName(info.GLBaseInternalFormat))
	fmt.Fprintf(w, "dimensions:       %dx%dx%d\n", info.PixelWidth, info.PixelHeight, info.PixelDepth)
	fmt.Fprintf(w, "mip levels:       %d\n", bundle.NumMipLevels())
	fmt.Fprintf(w, "array length:     %d\n", bundle.ArrayLength())
	fmt.Fprintf(w, "cubemap:          %v\n", bundle.IsCubemap())
	fmt.Fprintf(w, "serialized bytes: %d\n", bundle.SerializedLength())

	for key := range bundle.MetadataKeys() {
		value, _ := bundle.MetadataString(key)
		fmt.Fprintf(w, "metadata %s = %s\n", key, strconv.Quote(value))
	}

	for index, blob := range bundle.Blobs() {
		if blob == nil {
			fmt.Fprintf(w, "blob mip=%d layer=%d face=%d: empty\n", index.MipLevel, index.ArrayIndex, index.CubeFace)
			continue
		}
		fmt.Fprintf(w, "blob mip=%d layer=%d face=%d: %d bytes %s\n",
			index.MipLevel, index.ArrayIndex, index.CubeFace, len(blob), digest.FromBytes(blob))
	}
}

func (c *infoCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	data, err := os.ReadFile(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	bundle, err := ktx.Parse(data, ktx.WithLogger(slog.Default()))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	printInfo(os.Stdout, bundle)
	return subcommands.ExitSuccess
}
