package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"runtime"

	"github.com/eak1mov/go-libktx/ktx"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type packCmd struct {
	inputPattern string
	outputPath   string
	numMips      uint
	numLayers    uint
	cubemap      bool
	bigEndian    bool
	concurrency  int
	metadata     metadataFlag

	glType               uint
	glTypeSize           uint
	glFormat             uint
	glInternalFormat     uint
	glBaseInternalFormat uint
	width                uint
	height               uint
	depth                uint
}

func (c *packCmd) Name() string     { return "pack" }
func (c *packCmd) Synopsis() string { return "build a KTX file from one file per blob" }
func (c *packCmd) Usage() string {
	return "ktxutils pack -i <pattern> -o <path> [-mips N -layers N -cube -meta key=value ...]\n" +
		"  pattern placeholders: {mip}, {layer}, {face}\n"
}
func (c *packCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPattern, "i", "", "Input path pattern (e.g. in/{mip}/{layer}_{face}.bin)")
	f.StringVar(&c.outputPath, "o", "", "Output KTX file path")
	f.UintVar(&c.numMips, "mips", 1, "Number of mip levels")
	f.UintVar(&c.numLayers, "layers", 1, "Number of array layers")
	f.BoolVar(&c.cubemap, "cube", false, "Cubemap (six faces per layer)")
	f.BoolVar(&c.bigEndian, "big-endian", false, "Write big-endian output")
	f.IntVar(&c.concurrency, "j", runtime.GOMAXPROCS(0), "Number of blobs read in parallel")
	f.Var(&c.metadata, "meta", "Metadata key=value pair (repeatable)")

	f.UintVar(&c.glType, "type", uint(ktx.TypeUnsignedByte), "glType (0 for compressed formats)")
	f.UintVar(&c.glTypeSize, "typesize", 1, "glTypeSize")
	f.UintVar(&c.glFormat, "format", uint(ktx.FormatRGBA), "glFormat (0 for compressed formats)")
	f.UintVar(&c.glInternalFormat, "internal", 0x8058, "glInternalFormat")
	f.UintVar(&c.glBaseInternalFormat, "base", uint(ktx.FormatRGBA), "glBaseInternalFormat")
	f.UintVar(&c.width, "width", 0, "Pixel width of mip level 0")
	f.UintVar(&c.height, "height", 0, "Pixel height of mip level 0")
	f.UintVar(&c.depth, "depth", 0, "Pixel depth of mip level 0")
}

func (c *packCmd) newBundle() (*ktx.Bundle, error) {
	for _, v := range []uint{c.numMips, c.numLayers, c.glType, c.glTypeSize, c.glFormat,
		c.glInternalFormat, c.glBaseInternalFormat, c.width, c.height, c.depth} {
		if v > math.MaxUint32 {
			return nil, fmt.Errorf("flag value %d out of range", v)
		}
	}

	bundle, err := ktx.NewBundle(uint32(c.numMips), uint32(c.numLayers), c.cubemap)
	if err != nil {
		return nil, err
	}

	info := bundle.MutableInfo()
	if c.bigEndian {
		info.Endianness = ktx.EndianBig
	}
	info.GLType = uint32(c.glType)
	info.GLTypeSize = uint32(c.glTypeSize)
	info.GLFormat = uint32(c.glFormat)
	info.GLInternalFormat = uint32(c.glInternalFormat)
	info.GLBaseInternalFormat = uint32(c.glBaseInternalFormat)
	info.PixelWidth = uint32(c.width)
	info.PixelHeight = uint32(c.height)
	info.PixelDepth = uint32(c.depth)

	if err := c.metadata.apply(bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

// packBlobs reads every blob from the file named by pattern. Sizes are collected first,
// then the files are read in parallel straight into the bundle.
func packBlobs(ctx context.Context, bundle *ktx.Bundle, pattern string, concurrency int, bar *progressbar.ProgressBar) error {
	if err := validatePattern(pattern, bundle); err != nil {
		return err
	}

	sizes := make(map[ktx.BlobIndex]uint32)
	for index := range bundle.Indices() {
		stat, err := os.Stat(formatPattern(pattern, index))
		if err != nil {
			return err
		}
		if stat.Size() > math.MaxUint32 {
			return fmt.Errorf("%w: %v", ktx.ErrBlobTooLarge, stat.Name())
		}
		sizes[index] = uint32(stat.Size())
	}

	sizeOf := func(index ktx.BlobIndex) uint32 { return sizes[index] }
	readBlob := func(ctx context.Context, index ktx.BlobIndex, blob []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		file, err := os.Open(formatPattern(pattern, index))
		if err != nil {
			return err
		}
		defer file.Close()
		if _, err := io.ReadFull(file, blob); err != nil {
			return fmt.Errorf("%v: %w", file.Name(), err)
		}
		return bar.Add(1)
	}

	return bundle.Fill(ctx, sizeOf, readBlob,
		ktx.WithConcurrency(concurrency), ktx.WithLogger(slog.Default()))
}

func (c *packCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	bundle, err := c.newBundle()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	bar := progressbar.NewOptions(bundle.BlobCount(), progressbar.OptionShowCount())
	err = packBlobs(ctx, bundle, c.inputPattern, c.concurrency, bar)
	bar.Finish()
	fmt.Println()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := writeBundle(c.outputPath, bundle); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func writeBundle(filePath string, bundle *ktx.Bundle) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	if _, err := bundle.WriteTo(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
