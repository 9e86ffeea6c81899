package cleaning

import (
	"errors"
	"io/fs"

	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/source"
)

var admitRenames = map[string]string{
	"Term": domain.ColFallTerm,
}

// LoadAdmits reads and cleans the admits export at path. Admit counts lag
// applications during an open cycle, so a missing or empty file yields an
// empty table instead of an error.
func LoadAdmits(path string) (domain.AdmitTable, error) {
	raw, err := source.Read(path)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, source.ErrNoHeader) {
		return domain.AdmitTable{}, nil
	}
	if err != nil {
		return nil, err
	}
	return CleanAdmits(raw)
}

// CleanAdmits cleans an already-parsed admits export. Empty admit fields
// read as 0.
func CleanAdmits(raw *source.RawTable) (domain.AdmitTable, error) {
	tbl, err := raw.Rename(admitRenames)
	if err != nil {
		return nil, err
	}
	if err = tbl.Require(domain.ColFallTerm, domain.ColAdmits); err != nil {
		return nil, err
	}
	termIdx := tbl.Index(domain.ColFallTerm)
	admitsIdx := tbl.Index(domain.ColAdmits)

	out := make(domain.AdmitTable, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		term, err := parseTerm(tbl, row, termIdx)
		if err != nil {
			return nil, err
		}
		admits, err := parseOptionalCount(tbl, row, admitsIdx)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.AdmitRecord{FallTerm: term, Admits: admits})
	}
	return out, nil
}
