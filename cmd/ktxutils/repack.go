package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/eak1mov/go-libktx/ktx"
	"github.com/google/subcommands"
)

type repackCmd struct {
	inputPath    string
	outputPath   string
	dropMetadata bool
	byteOrder    string
	metadata     metadataFlag
}

func (c *repackCmd) Name() string     { return "repack" }
func (c *repackCmd) Synopsis() string { return "rewrite a KTX file, editing metadata or byte order" }
func (c *repackCmd) Usage() string {
	return "ktxutils repack -i <path> -o <path> [-drop-metadata] [-endian le|be] [-meta key=value ...]\n"
}
func (c *repackCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input KTX file path")
	f.StringVar(&c.outputPath, "o", "", "Output KTX file path")
	f.BoolVar(&c.dropMetadata, "drop-metadata", false, "Discard key/value data of the input")
	f.StringVar(&c.byteOrder, "endian", "", "Output byte order (le, be); defaults to the input order")
	f.Var(&c.metadata, "meta", "Metadata key=value pair to add (repeatable)")
}

func (c *repackCmd) repack(data []byte) (*ktx.Bundle, error) {
	opts := []ktx.Option{ktx.WithLogger(slog.Default())}
	if c.dropMetadata {
		opts = append(opts, ktx.WithoutMetadata())
	}
	bundle, err := ktx.Parse(data, opts...)
	if err != nil {
		return nil, err
	}

	switch c.byteOrder {
	case "le":
		bundle.MutableInfo().Endianness = ktx.EndianDefault
	case "be":
		bundle.MutableInfo().Endianness = ktx.EndianBig
	}

	if err := c.metadata.apply(bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (c *repackCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	switch c.byteOrder {
	case "", "le", "be":
	default:
		log.Printf("invalid byte order: %q", c.byteOrder)
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	bundle, err := c.repack(data)
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
