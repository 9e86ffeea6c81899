package cleaning

import "admissions-explorer/internal/domain"

// JoinApplicationsAdmits left-joins applications with admits on fall term.
// Terms without an admits row get Admits = 0; that is the open-cycle default,
// not an error. Duplicate admit rows for one term are summed.
func JoinApplicationsAdmits(apps domain.ApplicationTable, admits domain.AdmitTable) domain.JoinedTable {
	byTerm := make(map[int]int, len(admits))
	for _, a := range admits {
		byTerm[a.FallTerm] += a.Admits
	}

	out := make(domain.JoinedTable, 0, len(apps))
	for _, r := range apps {
		out = append(out, domain.JoinedRecord{
			FallTerm:       r.FallTerm,
			Characteristic: r.Characteristic,
			Applicants:     r.Applicants,
			Admits:         byTerm[r.FallTerm],
		})
	}
	return out
}
