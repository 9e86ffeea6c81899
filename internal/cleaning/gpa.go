package cleaning

import (
	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/source"
)

// gpaRenames maps the GPA distribution export onto the canonical schema. The
// band labels live under "Applicant characteristics" and the counts under the
// GPA column header.
var gpaRenames = map[string]string{
	"HS weighted, capped GPA":   domain.ColApplicants,
	"Applicant characteristics": domain.ColGPABand,
}

// LoadGPA reads and cleans the GPA distribution export at path.
func LoadGPA(path string) (domain.GPATable, error) {
	raw, err := source.Read(path)
	if err != nil {
		return nil, err
	}
	return CleanGPA(raw)
}

// CleanGPA cleans an already-parsed GPA distribution export.
func CleanGPA(raw *source.RawTable) (domain.GPATable, error) {
	tbl, err := raw.Rename(gpaRenames)
	if err != nil {
		return nil, err
	}
	if err = tbl.Require(domain.ColFallTerm, domain.ColGPABand, domain.ColApplicants); err != nil {
		return nil, err
	}
	termIdx := tbl.Index(domain.ColFallTerm)
	bandIdx := tbl.Index(domain.ColGPABand)
	countIdx := tbl.Index(domain.ColApplicants)

	out := make(domain.GPATable, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		term, err := parseTerm(tbl, row, termIdx)
		if err != nil {
			return nil, err
		}
		applicants, err := parseCount(tbl, row, countIdx)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.GPARecord{
			FallTerm:   term,
			Band:       field(row, bandIdx),
			Applicants: applicants,
		})
	}
	return out, nil
}
