package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/flagx"
)

var configFlags = []string{"-s", "-d", "-p", "-l", "-t"}

// parseFlags overlays cfg with the flags present in args. Flags that belong
// to other parsers are filtered out first.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, configFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Driver, "s", cfg.Driver, "database driver (sqlite or postgres)")
	fs.StringVar(&cfg.DSN, "d", cfg.DSN, "data source name")
	fs.StringVar(&cfg.PicturesDir, "p", cfg.PicturesDir, "profile pictures directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	ttl := fs.Int("t", int(cfg.ResetTokenTTL.Minutes()), "reset token lifetime (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ResetTokenTTL = time.Duration(*ttl) * time.Minute
}
