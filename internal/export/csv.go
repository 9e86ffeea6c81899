// Package export serializes cleaned and derived tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"admissions-explorer/internal/domain"
)

// WriteCSV writes t as comma-separated text: a header row, then one row per
// record. No index column is written.
func WriteCSV(w io.Writer, t domain.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// Filename returns the download name for a dataset export.
func Filename(d domain.Dataset) string {
	return string(d) + ".csv"
}

// AcceptanceRateFilename is the download name for the acceptance rate table.
const AcceptanceRateFilename = "acceptance_rate.csv"

// PercentagesFilename returns the download name for a dataset's
// percentage-of-term table.
func PercentagesFilename(d domain.Dataset) string {
	return string(d) + "_percentages.csv"
}
