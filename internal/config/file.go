package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/lightningpass/internal/flagx"
	"github.com/dmitrijs2005/lightningpass/internal/timex"
)

// FileConfig is the on-disk form of Config. Empty fields leave the current
// value untouched.
type FileConfig struct {
	Driver        string         `json:"driver" toml:"driver"`
	DSN           string         `json:"dsn" toml:"dsn"`
	PicturesDir   string         `json:"pictures_dir" toml:"pictures_dir"`
	LogLevel      string         `json:"log_level" toml:"log_level"`
	LogFormat     string         `json:"log_format" toml:"log_format"`
	ResetTokenTTL timex.Duration `json:"reset_token_ttl" toml:"reset_token_ttl"`
}

// parseFile overlays cfg with the file named by -c/-config in args. Without
// such a flag nothing happens. Read and decode errors panic.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	var fc FileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			panic(err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			panic(err)
		}
		if err := json.Unmarshal(data, &fc); err != nil {
			panic(err)
		}
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	overlay(&cfg.Driver, fc.Driver)
	overlay(&cfg.DSN, fc.DSN)
	overlay(&cfg.PicturesDir, fc.PicturesDir)
	overlay(&cfg.LogLevel, fc.LogLevel)
	overlay(&cfg.LogFormat, fc.LogFormat)
	if fc.ResetTokenTTL.Duration > 0 {
		cfg.ResetTokenTTL = fc.ResetTokenTTL.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
