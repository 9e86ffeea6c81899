package cleaning

import (
	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/source"
)

// ethnicityRenames maps the ethnicity export onto the canonical schema.
//
// The export's headers are swapped relative to their contents: the group
// names sit under "Applicant characteristics" and the counts under
// "Race/ethnicity". Both renames apply at once.
// TODO: confirm the swap against a fresh export from the statistics portal.
var ethnicityRenames = map[string]string{
	"Applicant characteristics": domain.ColRaceEthnicity,
	"Race/ethnicity":            domain.ColApplicants,
}

// LoadEthnicity reads and cleans the ethnicity distribution export at path.
func LoadEthnicity(path string) (domain.EthnicityTable, error) {
	raw, err := source.Read(path)
	if err != nil {
		return nil, err
	}
	return CleanEthnicity(raw)
}

// CleanEthnicity cleans an already-parsed ethnicity distribution export.
func CleanEthnicity(raw *source.RawTable) (domain.EthnicityTable, error) {
	tbl, err := raw.Rename(ethnicityRenames)
	if err != nil {
		return nil, err
	}
	if err = tbl.Require(domain.ColFallTerm, domain.ColRaceEthnicity, domain.ColApplicants); err != nil {
		return nil, err
	}
	termIdx := tbl.Index(domain.ColFallTerm)
	groupIdx := tbl.Index(domain.ColRaceEthnicity)
	countIdx := tbl.Index(domain.ColApplicants)

	out := make(domain.EthnicityTable, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		term, err := parseTerm(tbl, row, termIdx)
		if err != nil {
			return nil, err
		}
		applicants, err := parseCount(tbl, row, countIdx)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.EthnicityRecord{
			FallTerm:   term,
			Ethnicity:  field(row, groupIdx),
			Applicants: applicants,
		})
	}
	return out, nil
}
