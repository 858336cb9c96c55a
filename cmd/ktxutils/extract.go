package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/eak1mov/go-libktx/ktx"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type extractCmd struct {
	inputPath     string
	outputPattern string
}

func (c *extractCmd) Name() string     { return "extract" }
func (c *extractCmd) Synopsis() string { return "write every blob of a KTX file to its own file" }
func (c *extractCmd) Usage() string {
	return "ktxutils extract -i <path> -o <pattern>\n" +
		"  pattern placeholders: {mip}, {layer}, {face}\n"
}
func (c *extractCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input KTX file path")
	f.StringVar(&c.outputPattern, "o", "", "Output path pattern (e.g. out/{mip}/{layer}_{face}.bin)")
}

func extractBlobs(bundle *ktx.Bundle, pattern string, bar *progressbar.ProgressBar) error {
	if err := validatePattern(pattern, bundle); err != nil {
		return err
	}
	return bundle.VisitBlobs(func(index ktx.BlobIndex, blob []byte) error {
		defer bar.Add(1)
		if blob == nil {
			return nil
		}
		filePath := formatPattern(pattern, index)
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return err
		}
		return os.WriteFile(filePath, blob, 0644)
	})
}

func (c *extractCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	data, err := os.ReadFile(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	bundle, err := ktx.Parse(data, ktx.WithoutMetadata(), ktx.WithLogger(slog.Default()))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	bar := progressbar.NewOptions(bundle.BlobCount(), progressbar.OptionShowCount())
	err = extractBlobs(bundle, c.outputPattern, bar)
	bar.Finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
