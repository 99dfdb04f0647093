// Package config resolves meetsched settings from built-in defaults, an
// optional CUE configuration file, and MEETSCHED_* environment variables,
// in that order of increasing precedence. Command-line flags are applied
// on top by the CLI.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/caarlos0/env/v11"
)

//go:embed schema.cue
var schemaSource string

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MEETSCHED_"

// Config holds all settings.
type Config struct {
	Database Database `json:"database" envPrefix:"DATABASE_"`
	Calendar Calendar `json:"calendar" envPrefix:"CALENDAR_"`
	Log      Log      `json:"log" envPrefix:"LOG_"`
}

// Database selects the store backend.
type Database struct {
	// Driver is "sqlite3" or "postgres".
	Driver string `json:"driver,omitempty" env:"DRIVER"`

	// DSN is a file path for sqlite3 or a connection string for postgres.
	DSN string `json:"dsn,omitempty" env:"DSN"`
}

// Calendar controls exported iCalendar documents.
type Calendar struct {
	ProductID string `json:"product_id,omitempty" env:"PRODUCT_ID"`
	UIDDomain string `json:"uid_domain,omitempty" env:"UID_DOMAIN"`
}

// Log controls the slog handler.
type Log struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" env:"LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" env:"FORMAT"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database: Database{Driver: "sqlite3", DSN: "meetsched.db"},
		Calendar: Calendar{ProductID: "-//Meeting Scheduler//EN", UIDDomain: "meetsched.local"},
		Log:      Log{Level: "info", Format: "text"},
	}
}

// Load resolves the configuration. path may be empty, in which case no
// file is read.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		fileCfg, err := Parse(data, path)
		if err != nil {
			return Config{}, err
		}
		cfg.merge(fileCfg)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse checks a CUE (or JSON) configuration document against the schema
// and decodes it. Fields the document leaves out are zero.
func Parse(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}

	file := ctx.CompileBytes(data, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(file)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// merge copies the non-empty fields of other onto c.
func (c *Config) merge(other Config) {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&c.Database.Driver, other.Database.Driver)
	set(&c.Database.DSN, other.Database.DSN)
	set(&c.Calendar.ProductID, other.Calendar.ProductID)
	set(&c.Calendar.UIDDomain, other.Calendar.UIDDomain)
	set(&c.Log.Level, other.Log.Level)
	set(&c.Log.Format, other.Log.Format)
}

// Validate checks the values that environment variables and flags can
// set without passing through the schema.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("invalid config: unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("invalid config: database dsn is required")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid config: unsupported log format %q", c.Log.Format)
	}
	return nil
}

// SlogLevel converts Level to a slog.Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid config: unsupported log level %q", l.Level)
	}
	return level, nil
}
