// Package cleaning turns raw admissions exports into canonical tables.
//
// Each export has its own explicit transformation: the column renames differ
// per source, and the ethnicity export swaps two column names. The steps are
// the same for all of them: read, require the source columns, rename, coerce
// counts, project to the canonical columns.
package cleaning

import (
	"regexp"
	"strconv"
	"strings"

	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/source"
)

var (
	// Plain digits, or digits grouped in threes by commas.
	countPattern = regexp.MustCompile(`^(\d+|\d{1,3}(,\d{3})+)$`)
	termPattern  = regexp.MustCompile(`^\d{4}$`)
)

// parseCount reads a thousands-separated non-negative count.
func parseCount(tbl *source.RawTable, row source.Row, idx int) (int, error) {
	raw := row.Fields[idx]
	v := strings.TrimSpace(raw)
	if !countPattern.MatchString(v) {
		return 0, domain.ErrValueCoercion(tbl.Path, tbl.Columns[idx], row.Line, raw)
	}
	n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return 0, domain.ErrValueCoercion(tbl.Path, tbl.Columns[idx], row.Line, raw)
	}
	return n, nil
}

// parseOptionalCount is parseCount with an empty field read as 0.
func parseOptionalCount(tbl *source.RawTable, row source.Row, idx int) (int, error) {
	if strings.TrimSpace(row.Fields[idx]) == "" {
		return 0, nil
	}
	return parseCount(tbl, row, idx)
}

// parseTerm reads the four-digit fall term year.
func parseTerm(tbl *source.RawTable, row source.Row, idx int) (int, error) {
	raw := row.Fields[idx]
	v := strings.TrimSpace(raw)
	if !termPattern.MatchString(v) {
		return 0, domain.ErrValueCoercion(tbl.Path, tbl.Columns[idx], row.Line, raw)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.ErrValueCoercion(tbl.Path, tbl.Columns[idx], row.Line, raw)
	}
	return n, nil
}

func field(row source.Row, idx int) string {
	return strings.TrimSpace(row.Fields[idx])
}
