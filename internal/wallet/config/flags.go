package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/chaincode/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// os.Args is filtered first so unrelated flags such as -c are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-driver", "-d", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDriver, "driver", cfg.DatabaseDriver, "database driver (sqlite or postgres)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "output directory for exported files")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
