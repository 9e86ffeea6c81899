package cleaning

import (
	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/source"
)

// applicationRenames maps the applications export onto the canonical schema.
// The export labels its count column "Residency".
var applicationRenames = map[string]string{
	"Residency":                 domain.ColApplicants,
	"Applicant characteristics": domain.ColApplicantCharacteristic,
}

// LoadApplications reads and cleans the applications export at path.
func LoadApplications(path string) (domain.ApplicationTable, error) {
	raw, err := source.Read(path)
	if err != nil {
		return nil, err
	}
	return CleanApplications(raw)
}

// CleanApplications cleans an already-parsed applications export.
func CleanApplications(raw *source.RawTable) (domain.ApplicationTable, error) {
	tbl, err := raw.Rename(applicationRenames)
	if err != nil {
		return nil, err
	}
	if err = tbl.Require(domain.ColFallTerm, domain.ColApplicantCharacteristic, domain.ColApplicants); err != nil {
		return nil, err
	}
	termIdx := tbl.Index(domain.ColFallTerm)
	catIdx := tbl.Index(domain.ColApplicantCharacteristic)
	countIdx := tbl.Index(domain.ColApplicants)

	out := make(domain.ApplicationTable, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		term, err := parseTerm(tbl, row, termIdx)
		if err != nil {
			return nil, err
		}
		applicants, err := parseCount(tbl, row, countIdx)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ApplicationRecord{
			FallTerm:       term,
			Characteristic: field(row, catIdx),
			Applicants:     applicants,
		})
	}
	return out, nil
}
