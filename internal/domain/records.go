package domain

import (
	"strconv"
)

// Canonical column names shared by the cleaned tables.
const (
	ColFallTerm                = "Fall term"
	ColApplicantCharacteristic = "Applicant characteristic"
	ColApplicants              = "Applicants"
	ColGPABand                 = "GPA Band"
	ColRaceEthnicity           = "Race/ethnicity"
	ColAdmits                  = "Admits"
	ColTotal                   = "Total"
	ColPercentage              = "Percentage"
	ColAcceptanceRate          = "Acceptance rate"
)

// Table is implemented by every cleaned or derived table so it can be
// rendered or exported without knowing its concrete record type.
type Table interface {
	Columns() []string
	Records() [][]string
	Len() int
}

// Termed is a row keyed by fall term.
type Termed interface {
	Term() int
}

// CategoryCount is a row carrying a per-term category and applicant count.
type CategoryCount interface {
	Termed
	Category() string
	Count() int
}

// ApplicationRecord is one applicant count for a term and characteristic.
type ApplicationRecord struct {
	FallTerm       int    `json:"fall_term"`
	Characteristic string `json:"applicant_characteristic"`
	Applicants     int    `json:"applicants"`
}

func (r ApplicationRecord) Term() int        { return r.FallTerm }
func (r ApplicationRecord) Category() string { return r.Characteristic }
func (r ApplicationRecord) Count() int       { return r.Applicants }

// ApplicationTable is the cleaned applications export.
type ApplicationTable []ApplicationRecord

func (t ApplicationTable) Columns() []string {
	return []string{ColFallTerm, ColApplicantCharacteristic, ColApplicants}
}

func (t ApplicationTable) Records() [][]string {
	out := make([][]string, 0, len(t))
	for _, r := range t {
		out = append(out, []string{strconv.Itoa(r.FallTerm), r.Characteristic, strconv.Itoa(r.Applicants)})
	}
	return out
}

func (t ApplicationTable) Len() int { return len(t) }

// GPARecord is one applicant count for a term and GPA band.
type GPARecord struct {
	FallTerm   int    `json:"fall_term"`
	Band       string `json:"gpa_band"`
	Applicants int    `json:"applicants"`
}

func (r GPARecord) Term() int        { return r.FallTerm }
func (r GPARecord) Category() string { return r.Band }
func (r GPARecord) Count() int       { return r.Applicants }

// GPATable is the cleaned GPA distribution export.
type GPATable []GPARecord

func (t GPATable) Columns() []string {
	return []string{ColFallTerm, ColGPABand, ColApplicants}
}

func (t GPATable) Records() [][]string {
	out := make([][]string, 0, len(t))
	for _, r := range t {
		out = append(out, []string{strconv.Itoa(r.FallTerm), r.Band, strconv.Itoa(r.Applicants)})
	}
	return out
}

func (t GPATable) Len() int { return len(t) }

// EthnicityRecord is one applicant count for a term and race/ethnicity group.
type EthnicityRecord struct {
	FallTerm   int    `json:"fall_term"`
	Ethnicity  string `json:"race_ethnicity"`
	Applicants int    `json:"applicants"`
}

func (r EthnicityRecord) Term() int        { return r.FallTerm }
func (r EthnicityRecord) Category() string { return r.Ethnicity }
func (r EthnicityRecord) Count() int       { return r.Applicants }

// EthnicityTable is the cleaned ethnicity distribution export.
type EthnicityTable []EthnicityRecord

func (t EthnicityTable) Columns() []string {
	return []string{ColFallTerm, ColRaceEthnicity, ColApplicants}
}

func (t EthnicityTable) Records() [][]string {
	out := make([][]string, 0, len(t))
	for _, r := range t {
		out = append(out, []string{strconv.Itoa(r.FallTerm), r.Ethnicity, strconv.Itoa(r.Applicants)})
	}
	return out
}

func (t EthnicityTable) Len() int { return len(t) }

// AdmitRecord is the admit count for a term.
type AdmitRecord struct {
	FallTerm int `json:"fall_term"`
	Admits   int `json:"admits"`
}

func (r AdmitRecord) Term() int { return r.FallTerm }

// AdmitTable is the cleaned admits export. It may be empty.
type AdmitTable []AdmitRecord

func (t AdmitTable) Columns() []string {
	return []string{ColFallTerm, ColAdmits}
}

func (t AdmitTable) Records() [][]string {
	out := make([][]string, 0, len(t))
	for _, r := range t {
		out = append(out, []string{strconv.Itoa(r.FallTerm), strconv.Itoa(r.Admits)})
	}
	return out
}

func (t AdmitTable) Len() int { return len(t) }

// JoinedRecord is an application row with the admits of its term attached.
type JoinedRecord struct {
	FallTerm       int    `json:"fall_term"`
	Characteristic string `json:"applicant_characteristic"`
	Applicants     int    `json:"applicants"`
	Admits         int    `json:"admits"`
}

func (r JoinedRecord) Term() int        { return r.FallTerm }
func (r JoinedRecord) Category() string { return r.Characteristic }
func (r JoinedRecord) Count() int       { return r.Applicants }

// JoinedTable is applications left-joined with admits on fall term.
type JoinedTable []JoinedRecord

func (t JoinedTable) Columns() []string {
	return []string{ColFallTerm, ColApplicantCharacteristic, ColApplicants, ColAdmits}
}

func (t JoinedTable) Records() [][]string {
	out := make([][]string, 0, len(t))
	for _, r := range t {
		out = append(out, []string{
			strconv.Itoa(r.FallTerm), r.Characteristic,
			strconv.Itoa(r.Applicants), strconv.Itoa(r.Admits),
		})
	}
	return out
}

func (t JoinedTable) Len() int { return len(t) }

// PercentageRecord is a row's share of its term's applicants.
type PercentageRecord struct {
	FallTerm   int     `json:"fall_term"`
	Category   string  `json:"category"`
	Applicants int     `json:"applicants"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

func (r PercentageRecord) Term() int { return r.FallTerm }

// PercentageTable holds percentage-of-term rows. CategoryColumn names the
// category column of the source table ("GPA Band", "Race/ethnicity", ...).
type PercentageTable struct {
	CategoryColumn string             `json:"category_column"`
	Rows           []PercentageRecord `json:"rows"`
}

func (t PercentageTable) Columns() []string {
	return []string{ColFallTerm, t.CategoryColumn, ColApplicants, ColTotal, ColPercentage}
}

func (t PercentageTable) Records() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, []string{
			strconv.Itoa(r.FallTerm), r.Category, strconv.Itoa(r.Applicants),
			strconv.Itoa(r.Total), formatFloat(r.Percentage),
		})
	}
	return out
}

func (t PercentageTable) Len() int { return len(t.Rows) }

// AcceptanceRateRecord is the per-term admit ratio.
type AcceptanceRateRecord struct {
	FallTerm   int     `json:"fall_term"`
	Applicants int     `json:"applicants"`
	Admits     int     `json:"admits"`
	Rate       float64 `json:"acceptance_rate"`
}

func (r AcceptanceRateRecord) Term() int { return r.FallTerm }

// AcceptanceRateTable holds one row per fall term, ordered by term.
type AcceptanceRateTable []AcceptanceRateRecord

func (t AcceptanceRateTable) Columns() []string {
	return []string{ColFallTerm, ColApplicants, ColAdmits, ColAcceptanceRate}
}

func (t AcceptanceRateTable) Records() [][]string {
	out := make([][]string, 0, len(t))
	for _, r := range t {
		out = append(out, []string{
			strconv.Itoa(r.FallTerm), strconv.Itoa(r.Applicants),
			strconv.Itoa(r.Admits), formatFloat(r.Rate),
		})
	}
	return out
}

func (t AcceptanceRateTable) Len() int { return len(t) }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
