package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   database file path
//	-n int      toast lifetime in seconds
//	-l string   log level
//	-seed bool  seed the demo account
//
// os.Args is filtered with flagx.FilterArgs first, so -c/-config and unknown
// flags do not break parsing.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-n", "-l", "-seed"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path to the SQLite database file")
	toastSeconds := fs.Int("n", int(cfg.ToastDuration.Seconds()), "toast lifetime (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.SeedDemo, "seed", cfg.SeedDemo, "create the demo account on first start")

	if err := fs.Parse(args); err != nil {
		return err
	}

	visited := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "n" {
			visited = true
		}
	})
	if visited {
		cfg.ToastDuration = time.Duration(*toastSeconds) * time.Second
	}
	return nil
}
