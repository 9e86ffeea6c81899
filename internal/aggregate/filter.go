// Package aggregate filters cleaned tables and computes the per-term metrics
// the charts display. Every function is pure and returns a new table.
package aggregate

import (
	"slices"

	"admissions-explorer/internal/domain"
)

// FilterByTerms keeps rows whose fall term is in terms. An empty term set
// selects nothing.
func FilterByTerms[S ~[]E, E domain.Termed](rows S, terms []int) S {
	keep := make(map[int]struct{}, len(terms))
	for _, t := range terms {
		keep[t] = struct{}{}
	}
	out := make(S, 0, len(rows))
	for _, r := range rows {
		if _, ok := keep[r.Term()]; ok {
			out = append(out, r)
		}
	}
	return out
}

// FilterByCategories keeps rows whose category is in categories. An empty
// category set selects nothing.
func FilterByCategories[S ~[]E, E domain.CategoryCount](rows S, categories []string) S {
	keep := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		keep[c] = struct{}{}
	}
	out := make(S, 0, len(rows))
	for _, r := range rows {
		if _, ok := keep[r.Category()]; ok {
			out = append(out, r)
		}
	}
	return out
}

// FilterGPABands keeps the given GPA bands.
func FilterGPABands(t domain.GPATable, bands []string) domain.GPATable {
	return FilterByCategories(t, bands)
}

// FilterEthnicities keeps the given race/ethnicity groups.
func FilterEthnicities(t domain.EthnicityTable, groups []string) domain.EthnicityTable {
	return FilterByCategories(t, groups)
}

// FilterCharacteristics keeps the given applicant characteristics.
func FilterCharacteristics(t domain.ApplicationTable, characteristics []string) domain.ApplicationTable {
	return FilterByCategories(t, characteristics)
}

// Terms returns the distinct fall terms of rows in ascending order.
func Terms[S ~[]E, E domain.Termed](rows S) []int {
	seen := make(map[int]struct{}, len(rows))
	out := make([]int, 0)
	for _, r := range rows {
		if _, ok := seen[r.Term()]; ok {
			continue
		}
		seen[r.Term()] = struct{}{}
		out = append(out, r.Term())
	}
	slices.Sort(out)
	return out
}

// TermsBetween returns the distinct fall terms of rows within [from, to].
func TermsBetween[S ~[]E, E domain.Termed](rows S, from, to int) []int {
	if from > to {
		from, to = to, from
	}
	out := make([]int, 0)
	for _, t := range Terms(rows) {
		if t >= from && t <= to {
			out = append(out, t)
		}
	}
	return out
}

// Categories returns the distinct categories of rows in first-seen order.
func Categories[S ~[]E, E domain.CategoryCount](rows S) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0)
	for _, r := range rows {
		if _, ok := seen[r.Category()]; ok {
			continue
		}
		seen[r.Category()] = struct{}{}
		out = append(out, r.Category())
	}
	return out
}
