// Package source reads the raw UTF-16 tab-delimited admissions exports into
// header-normalized string tables.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"admissions-explorer/internal/domain"
)

// ErrNoHeader is wrapped by the MalformedSourceError returned for a file
// with no header row.
var ErrNoHeader = errors.New("no header row")

// Row is one data row of a raw export.
type Row struct {
	Line   int      // line in the source file, header is line 1
	Fields []string // padded to the header width
}

// RawTable is a parsed export with trimmed column names and all-empty rows removed.
type RawTable struct {
	Path    string
	Columns []string
	Rows    []Row
}

// Read parses the UTF-16 tab-delimited file at path.
func Read(path string) (*RawTable, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, domain.ErrMalformedSource(path, "read", err)
	}
	return Parse(path, data)
}

// Parse parses raw UTF-16 bytes. path is used only for error messages.
func Parse(path string, data []byte) (*RawTable, error) {
	if len(data) == 0 {
		return nil, domain.ErrMalformedSource(path, "empty file", ErrNoHeader)
	}
	if len(data)%2 != 0 {
		return nil, domain.ErrMalformedSource(path, "odd byte length, not UTF-16", nil)
	}

	// UseBOM strips a leading BOM and honours its byte order; without one the
	// exports are little-endian.
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	text, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, domain.ErrMalformedSource(path, "decode UTF-16", err)
	}
	if bytes.ContainsRune(text, utf8.RuneError) {
		return nil, domain.ErrMalformedSource(path, "invalid UTF-16 sequence", nil)
	}

	return parseText(path, text)
}

func parseText(path string, text []byte) (*RawTable, error) {
	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.ErrMalformedSource(path, "empty file", ErrNoHeader)
	}
	if err != nil {
		return nil, domain.ErrMalformedSource(path, "parse header", err)
	}
	if len(header) < 2 {
		return nil, domain.ErrMalformedSource(path, "header has no tab delimiter", nil)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	table := &RawTable{Path: path, Columns: columns}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.ErrMalformedSource(path, "parse row", err)
		}
		line, _ := r.FieldPos(0)
		if len(rec) > len(columns) {
			return nil, domain.ErrMalformedSource(path,
				fmt.Sprintf("line %d has %d fields, header has %d", line, len(rec), len(columns)), nil)
		}
		if allEmpty(rec) {
			continue
		}
		fields := make([]string, len(columns))
		copy(fields, rec)
		table.Rows = append(table.Rows, Row{Line: line, Fields: fields})
	}
	return table, nil
}

func allEmpty(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Index returns the position of column, or -1.
func (t *RawTable) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Require fails with a SchemaMismatchError naming the first absent column.
func (t *RawTable) Require(columns ...string) error {
	for _, c := range columns {
		if t.Index(c) < 0 {
			return domain.ErrSchemaMismatch(t.Path, c, t.Columns)
		}
	}
	return nil
}

// Rename returns a copy of the table with columns renamed per mapping. All
// renames apply at once, so swapping two names is well defined. A rename that
// leaves two columns with the same name fails with a SchemaMismatchError.
func (t *RawTable) Rename(mapping map[string]string) (*RawTable, error) {
	columns := make([]string, len(t.Columns))
	seen := make(map[string]struct{}, len(t.Columns))
	for i, c := range t.Columns {
		if to, ok := mapping[c]; ok {
			c = to
		}
		if _, dup := seen[c]; dup {
			return nil, domain.ErrDuplicateColumn(t.Path, c, t.Columns)
		}
		seen[c] = struct{}{}
		columns[i] = c
	}
	return &RawTable{Path: t.Path, Columns: columns, Rows: t.Rows}, nil
}
