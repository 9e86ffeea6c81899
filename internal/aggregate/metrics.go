package aggregate

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"admissions-explorer/internal/domain"
)

const termColumn = "fall_term"

// sumByTerm groups a frame of term plus count columns by term and sums each
// count column.
func sumByTerm(terms []int, columns map[string][]int) (map[int]map[string]int, error) {
	out := make(map[int]map[string]int)
	if len(terms) == 0 {
		return out, nil
	}
	cols := []series.Series{series.New(terms, series.Int, termColumn)}
	names := make([]string, 0, len(columns))
	for name, values := range columns {
		cols = append(cols, series.New(values, series.Int, name))
		names = append(names, name)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, fmt.Errorf("build frame: %w", df.Err)
	}
	groups := df.GroupBy(termColumn)
	if groups.Err != nil {
		return nil, fmt.Errorf("group by term: %w", groups.Err)
	}
	for _, group := range groups.GetGroups() {
		term, err := group.Col(termColumn).Elem(0).Int()
		if err != nil {
			return nil, fmt.Errorf("read term: %w", err)
		}
		sums := make(map[string]int, len(names))
		for _, name := range names {
			sums[name] = int(math.Round(group.Col(name).Sum()))
		}
		out[term] = sums
	}
	return out, nil
}

// PercentageOfTerm expresses each row's applicants as a percentage of its
// term's total. Row order is preserved. A term whose total is zero fails with
// DivisionByZeroError; callers filter such terms out beforehand.
func PercentageOfTerm[S ~[]E, E domain.CategoryCount](rows S, categoryColumn string) (domain.PercentageTable, error) {
	terms := make([]int, len(rows))
	counts := make([]int, len(rows))
	for i, r := range rows {
		terms[i] = r.Term()
		counts[i] = r.Count()
	}
	sums, err := sumByTerm(terms, map[string][]int{domain.ColApplicants: counts})
	if err != nil {
		return domain.PercentageTable{}, err
	}
	totals := make(map[int]int, len(sums))
	for term, s := range sums {
		totals[term] = s[domain.ColApplicants]
	}
	for _, term := range Terms(rows) {
		if totals[term] == 0 {
			return domain.PercentageTable{}, domain.ErrDivisionByZero("percentage of applicants", term)
		}
	}

	out := domain.PercentageTable{
		CategoryColumn: categoryColumn,
		Rows:           make([]domain.PercentageRecord, 0, len(rows)),
	}
	for _, r := range rows {
		total := totals[r.Term()]
		out.Rows = append(out.Rows, domain.PercentageRecord{
			FallTerm:   r.Term(),
			Category:   r.Category(),
			Applicants: r.Count(),
			Total:      total,
			Percentage: float64(r.Count()) / float64(total) * 100,
		})
	}
	return out, nil
}

// AcceptanceRate sums applicants and admits per term and divides them. Rows
// are ordered by term. A term with zero applicants fails with
// DivisionByZeroError.
func AcceptanceRate(joined domain.JoinedTable) (domain.AcceptanceRateTable, error) {
	terms := make([]int, len(joined))
	applicants := make([]int, len(joined))
	admits := make([]int, len(joined))
	for i, r := range joined {
		terms[i] = r.FallTerm
		applicants[i] = r.Applicants
		admits[i] = r.Admits
	}
	sums, err := sumByTerm(terms, map[string][]int{
		domain.ColApplicants: applicants,
		domain.ColAdmits:     admits,
	})
	if err != nil {
		return nil, err
	}

	out := make(domain.AcceptanceRateTable, 0, len(sums))
	for _, term := range Terms(joined) {
		s := sums[term]
		if s[domain.ColApplicants] == 0 {
			return nil, domain.ErrDivisionByZero("acceptance rate", term)
		}
		out = append(out, domain.AcceptanceRateRecord{
			FallTerm:   term,
			Applicants: s[domain.ColApplicants],
			Admits:     s[domain.ColAdmits],
			Rate:       float64(s[domain.ColAdmits]) / float64(s[domain.ColApplicants]),
		})
	}
	return out, nil
}

// Pivot is a term x category matrix for stacked charts.
type Pivot struct {
	Terms      []int
	Categories []string
	Values     [][]float64 // Values[i][j] is Terms[i] x Categories[j]
}

// Value returns the cell for term and category, or 0.
func (p Pivot) Value(term int, category string) float64 {
	i := slices.Index(p.Terms, term)
	j := slices.Index(p.Categories, category)
	if i < 0 || j < 0 {
		return 0
	}
	return p.Values[i][j]
}

// PivotCounts pivots applicant counts; duplicate cells are summed.
func PivotCounts[S ~[]E, E domain.CategoryCount](rows S) Pivot {
	p := newPivot(Terms(rows), Categories(rows))
	for _, r := range rows {
		p.add(r.Term(), r.Category(), float64(r.Count()))
	}
	return p
}

// PivotPercentages pivots a percentage table.
func PivotPercentages(t domain.PercentageTable) Pivot {
	terms := Terms(t.Rows)
	seen := make(map[string]struct{})
	var categories []string
	for _, r := range t.Rows {
		if _, ok := seen[r.Category]; !ok {
			seen[r.Category] = struct{}{}
			categories = append(categories, r.Category)
		}
	}
	p := newPivot(terms, categories)
	for _, r := range t.Rows {
		p.add(r.FallTerm, r.Category, r.Percentage)
	}
	return p
}

func newPivot(terms []int, categories []string) Pivot {
	values := make([][]float64, len(terms))
	for i := range values {
		values[i] = make([]float64, len(categories))
	}
	return Pivot{Terms: terms, Categories: categories, Values: values}
}

func (p Pivot) add(term int, category string, v float64) {
	i := slices.Index(p.Terms, term)
	j := slices.Index(p.Categories, category)
	p.Values[i][j] += v
}
