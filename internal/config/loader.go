package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names, searched in order in the working directory.
const (
	ConfigFileName    = "sparkfmt.yaml"
	ConfigFileNameAlt = "sparkfmt.yml"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. SPARKFMT_DIALECT=databricks.
const envPrefix = "SPARKFMT_"

// Load builds a Config from defaults, an optional YAML file, SPARKFMT_
// environment variables, and explicitly-set CLI flags, in that
// precedence order (flags highest). cfgFile may be empty, in which case
// sparkfmt.yaml / sparkfmt.yml in the working directory are tried.
// flags may be nil. The second return is the config file used, if any.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, string, error) {
	k := koanf.New(".")
	def := Default()

	// 1. Defaults.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"dialect":   def.Dialect,
		"indent":    def.Indent,
		"uppercase": def.Uppercase,
		"pretty":    def.Pretty,
		"debug":     def.Debug,
		"call":      def.Call,
	}, "."), nil); err != nil {
		return Config{}, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file.
	fileUsed := findConfigFile(cfgFile)
	if fileUsed != "" {
		if err := k.Load(file.Provider(fileUsed), yaml.Parser()); err != nil {
			return Config{}, "", fmt.Errorf("error reading config file %s: %w", fileUsed, err)
		}
	}

	// 3. Environment variables (SPARKFMT_DIALECT -> dialect).
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return f.Name, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Config{}, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, "", fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, fileUsed, nil
}

// findConfigFile resolves the config file path. An explicit path wins;
// otherwise the default names are probed.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
