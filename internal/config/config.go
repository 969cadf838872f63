package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/dbx"
)

// Config holds runtime settings for the lightningpass CLI.
type Config struct {
	Driver        string
	DSN           string
	PicturesDir   string
	LogLevel      string
	LogFormat     string
	ResetTokenTTL time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Driver = string(dbx.SQLite)
	c.DSN = "lightningpass.db"
	c.PicturesDir = "pictures"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ResetTokenTTL = 30 * time.Minute
}

// Dialect is the store dialect selected by Driver.
func (c *Config) Dialect() dbx.Dialect {
	return dbx.Dialect(c.Driver)
}

// LoadConfig builds a Config from defaults, the optional config file and the
// command-line flags, in that order of precedence. It panics when the config
// file or the flags cannot be parsed.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
