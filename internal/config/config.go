// Package config provides configuration for sparkfmt. It is decoupled
// from CLI concerns so the formatting pipeline and other tools can load
// it directly.
package config

import (
	"errors"
	"fmt"

	"github.com/sparkfmt/sparkfmt/pkg/region"
)

// Defaults.
const (
	DefaultDialect = "spark"
	DefaultIndent  = 4
)

// ErrInvalidIndent is returned when indent is negative.
var ErrInvalidIndent = errors.New("indent must be non-negative")

// knownDialects is the advisory allow-list. Anything else is accepted
// with a warning, not rejected.
var knownDialects = []string{"spark", "spark2", "databricks"}

// Config holds formatting settings. Treat values as immutable once
// constructed; the pipeline takes a copy and never writes back.
//
// Indent is accepted for compatibility but not forwarded to the
// formatting engine, which applies its own pretty-printer defaults.
// Uppercase likewise stays with the engine's own keyword handling.
type Config struct {
	Dialect   string `koanf:"dialect"`
	Indent    int    `koanf:"indent"`
	Uppercase bool   `koanf:"uppercase"`
	Pretty    bool   `koanf:"pretty"`
	Debug     bool   `koanf:"debug"`

	// Call is the identifier path scanned for SQL string arguments.
	Call string `koanf:"call"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Dialect:   DefaultDialect,
		Indent:    DefaultIndent,
		Uppercase: true,
		Pretty:    true,
		Debug:     false,
		Call:      region.DefaultCallTarget,
	}
}

// Validate checks construction-time invariants. A negative indent is
// fatal; an unknown dialect is not (see KnownDialect).
func (c Config) Validate() error {
	if c.Indent < 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidIndent, c.Indent)
	}
	return nil
}

// KnownDialect reports whether the configured dialect is on the
// advisory allow-list.
func (c Config) KnownDialect() bool {
	for _, d := range knownDialects {
		if c.Dialect == d {
			return true
		}
	}
	return false
}

// KnownDialects returns the advisory allow-list for messages.
func KnownDialects() []string {
	out := make([]string, len(knownDialects))
	copy(out, knownDialects)
	return out
}
