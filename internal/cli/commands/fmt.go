package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/sparkfmt/sparkfmt/internal/formatter"
	"github.com/sparkfmt/sparkfmt/internal/notebook"
	"github.com/spf13/cobra"
)

var changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt [file...]",
		Short: "Format SQL in notebook files or stdin",
		Long: `Format the Spark SQL found in the given files.

Notebook files (.ipynb) are processed cell by cell; any other file is
treated as a single cell of source text. With no arguments, stdin is
read and the result written to stdout.

SQL that fails to parse is left untouched; the rest of the file still
formats.`,
		Example: `  # Format stdin
  echo 'spark.sql("select 1")' | sparkfmt fmt

  # Rewrite a notebook in place
  sparkfmt fmt --write analysis.ipynb

  # Preview a formatted script on stdout
  sparkfmt fmt etl.py`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := newPipeline(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return fmtStdin(cmd, pipeline)
			}
			for _, path := range args {
				if err := fmtFile(cmd, pipeline, path, write); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite files in place instead of printing")
	return cmd
}

func fmtStdin(cmd *cobra.Command, pipeline *formatter.Pipeline) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	out, _ := pipeline.FormatCell(string(data))
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func fmtFile(cmd *cobra.Command, pipeline *formatter.Pipeline, path string, write bool) error {
	if filepath.Ext(path) == ".ipynb" {
		return fmtNotebook(cmd, pipeline, path, write)
	}
	return fmtScript(cmd, pipeline, path, write)
}

func fmtNotebook(cmd *cobra.Command, pipeline *formatter.Pipeline, path string, write bool) error {
	nb, err := notebook.Load(path)
	if err != nil {
		return err
	}
	changed, err := nb.FormatCells(pipeline.FormatCell)
	if err != nil {
		return fmt.Errorf("format %s: %w", path, err)
	}

	if !write {
		data, err := nb.Encode()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if changed == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: unchanged\n", path)
		return nil
	}
	if err := nb.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path,
		changedStyle.Render(fmt.Sprintf("%d cell(s) formatted", changed)))
	return nil
}

func fmtScript(cmd *cobra.Command, pipeline *formatter.Pipeline, path string, write bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	out, changed := pipeline.FormatCell(string(data))

	if !write {
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}
	if !changed {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: unchanged\n", path)
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, changedStyle.Render("formatted"))
	return nil
}
