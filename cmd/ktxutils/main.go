package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"
)

var verbose = flag.Bool("v", false, "Enable debug logging")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&infoCmd{}, "")
	subcommands.Register(&extractCmd{}, "")
	subcommands.Register(&packCmd{}, "")
	subcommands.Register(&repackCmd{}, "")

	flag.Parse()
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	os.Exit(int(subcommands.Execute(context.Background())))
}
