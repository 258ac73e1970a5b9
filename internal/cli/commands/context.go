// Package commands implements the sparkfmt subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/sparkfmt/sparkfmt/internal/config"
	"github.com/sparkfmt/sparkfmt/internal/formatter"
	"github.com/sparkfmt/sparkfmt/pkg/sqlfmt"
	"github.com/spf13/cobra"
)

type configKey struct{}
type loggerKey struct{}

// WithConfig stores the loaded config in the context.
func WithConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetConfig retrieves the config from the command context, falling
// back to defaults when the root command did not run (tests).
func GetConfig(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey{}).(config.Config); ok {
		return cfg
	}
	return config.Default()
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.New(slog.DiscardHandler)
}

// newPipeline builds the formatting pipeline for a command invocation,
// wiring the in-process SQL engine.
func newPipeline(cmd *cobra.Command) (*formatter.Pipeline, error) {
	ctx := cmd.Context()
	return formatter.New(GetConfig(ctx), sqlfmt.New(),
		formatter.WithLogger(GetLogger(ctx)))
}
