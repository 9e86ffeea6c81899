// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

// EncodeUTF16 encodes text as little-endian UTF-16 with a BOM, the way the
// admissions exports are written.
func EncodeUTF16(t *testing.T, text string) []byte {
	t.Helper()
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	out, err := enc.Bytes([]byte(text))
	if err != nil {
		t.Fatalf("encode utf-16: %v", err)
	}
	return out
}

// WriteExport writes lines (already tab-joined) as a UTF-16 export named name
// in dir and returns its path.
func WriteExport(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, EncodeUTF16(t, strings.Join(lines, "\r\n")+"\r\n"), 0o600); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

// TSV joins fields with tabs.
func TSV(fields ...string) string {
	return strings.Join(fields, "\t")
}

// Exports is a set of raw export fixture paths.
type Exports struct {
	Dir          string
	Applications string
	GPA          string
	Ethnicity    string
	Admits       string
}

// WriteSampleExports writes a small consistent set of the four exports into a
// temp dir: two terms of applications, GPA and ethnicity, and admits for 2021
// only (2022 is an open cycle).
func WriteSampleExports(t *testing.T) Exports {
	t.Helper()
	dir := t.TempDir()
	return Exports{
		Dir: dir,
		Applications: WriteExport(t, dir, "frosh_app_counts.csv",
			TSV("Fall term ", " Applicant characteristics", "Residency"),
			TSV("2021", "California Resident", "9,000"),
			TSV("2021", "Non-Resident", "3,000"),
			TSV("2022", "California Resident", "10,000"),
			TSV("2022", "Non-Resident", "2,500"),
			TSV("", "", ""),
		),
		GPA: WriteExport(t, dir, "frosh_gpa_distribution.csv",
			TSV("Fall term", "Applicant characteristics", "HS weighted, capped GPA", "Campus"),
			TSV("2021", "4.00+", "6,000", "Universitywide"),
			TSV("2021", "3.50-3.99", "4,000", "Universitywide"),
			TSV("2022", "4.00+", "5,000", "Universitywide"),
			TSV("2022", "3.50-3.99", "5,000", "Universitywide"),
		),
		Ethnicity: WriteExport(t, dir, "frosh_ethnicity.csv",
			TSV("Fall term", "Applicant characteristics", "Race/ethnicity"),
			TSV("2021", "Asian", "3,000"),
			TSV("2021", "Hispanic/ Latinx", "1,000"),
			TSV("2022", "Asian", "2,000"),
			TSV("2022", "Hispanic/ Latinx", "2,000"),
		),
		Admits: WriteExport(t, dir, "frosh_admits.csv",
			TSV("Term", "Admits"),
			TSV("2021", "6,000"),
		),
	}
}
