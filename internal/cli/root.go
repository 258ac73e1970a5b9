// Package cli provides the command-line interface for sparkfmt.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sparkfmt/sparkfmt/internal/cli/commands"
	"github.com/sparkfmt/sparkfmt/internal/config"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sparkfmt",
		Short: "sparkfmt - Spark SQL formatter for notebook cells",
		Long: `sparkfmt formats the Spark SQL embedded in notebook code cells.

It finds %%sql magic blocks and spark.sql() string arguments, formats
the SQL they contain, and splices the result back without touching the
surrounding code. Template interpolations like {table} survive the
round trip untouched.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, fileUsed, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			if cfg.Debug && fileUsed != "" {
				fmt.Fprintf(os.Stderr, "Using config file: %s\n", fileUsed)
			}

			ctx := commands.WithConfig(cmd.Context(), cfg)
			ctx = commands.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Spark SQL cell formatter
`)

	// Global persistent flags mirror the config surface.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sparkfmt.yaml)")
	rootCmd.PersistentFlags().String("dialect", "", "SQL dialect (spark, spark2, databricks)")
	rootCmd.PersistentFlags().Int("indent", config.DefaultIndent, "indentation width (accepted, engine uses its own defaults)")
	rootCmd.PersistentFlags().Bool("uppercase", true, "uppercase SQL keywords")
	rootCmd.PersistentFlags().Bool("pretty", true, "pretty-print SQL across multiple lines")
	rootCmd.PersistentFlags().Bool("debug", false, "print debug messages")
	rootCmd.PersistentFlags().String("call", "", "call path scanned for SQL strings (default: spark.sql)")

	_ = rootCmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.KnownDialects(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewFmtCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	rootCmd.SetContext(context.Background())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
