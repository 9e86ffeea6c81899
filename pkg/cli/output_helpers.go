package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/export"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

// getOutputFormat returns the effective output format from the root command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	switch output {
	case "", outputTable, outputJSON, outputCSV:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q: use 'table', 'json' or 'csv'", output)
	}
}

// resolveFormat picks table on a terminal and csv otherwise when no format
// was requested.
func resolveFormat(format string, w io.Writer) string {
	if format != "" {
		return format
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		return outputTable
	}
	return outputCSV
}

// printTable writes t in the requested format. v is what JSON output encodes.
func printTable(cmd *cobra.Command, t domain.Table, v any) error {
	w := cmd.OutOrStdout()
	switch resolveFormat(getOutputFormat(cmd), w) {
	case outputJSON:
		return PrintJSON(w, v)
	case outputTable:
		return PrintTable(w, t.Columns(), t.Records())
	default:
		return export.WriteCSV(w, t)
	}
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintTable writes tab-aligned columns with an upper-cased header.
func PrintTable(w io.Writer, columns []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = strings.ToUpper(c)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
