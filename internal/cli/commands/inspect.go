package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sparkfmt/sparkfmt/pkg/region"
	"github.com/spf13/cobra"
)

// sqlPreviewLen caps the SQL column width in the inspect table.
const sqlPreviewLen = 48

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "List the SQL regions detected in a cell",
		Long: `Show every SQL-bearing region the locator finds in the input,
with its offsets, quote style, and template flag. Useful for checking
what fmt would touch without formatting anything.`,
		Example: `  sparkfmt inspect etl.py
  echo 'spark.sql("select 1")' | sparkfmt inspect`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read %s: %w", args[0], err)
				}
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			pipeline, err := newPipeline(cmd)
			if err != nil {
				return err
			}
			regions := pipeline.Locate(string(data))
			if len(regions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no sql regions)")
				return nil
			}
			renderRegions(cmd.OutOrStdout(), regions)
			return nil
		},
	}
}

func renderRegions(w io.Writer, regions []region.Region) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "KIND", "QUOTE", "TEMPLATED", "START", "END", "SQL"})
	for i, r := range regions {
		quote := r.Quote.Delim()
		if quote == "" {
			quote = "-"
		}
		t.AppendRow(table.Row{i + 1, r.Kind.String(), quote, r.Templated, r.Start, r.End, preview(r.SQLText)})
	}
	t.Render()
}

// preview flattens and truncates SQL for table display.
func preview(sql string) string {
	flat := strings.Join(strings.Fields(sql), " ")
	if len(flat) > sqlPreviewLen {
		return flat[:sqlPreviewLen-3] + "..."
	}
	return flat
}
