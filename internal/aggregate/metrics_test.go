package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-explorer/internal/domain"
)

func TestPercentageOfTerm_SumsToHundred(t *testing.T) {
	pct, err := PercentageOfTerm(gpaRows, domain.ColGPABand)
	require.NoError(t, err)
	require.Equal(t, len(gpaRows), pct.Len())
	assert.Equal(t, domain.ColGPABand, pct.Columns()[1])

	sums := map[int]float64{}
	for _, r := range pct.Rows {
		sums[r.FallTerm] += r.Percentage
	}
	for term, sum := range sums {
		assert.InDelta(t, 100.0, sum, 1e-9, "term %d", term)
	}

	assert.InDelta(t, 60.0, pct.Rows[0].Percentage, 1e-9)
	assert.Equal(t, 100, pct.Rows[0].Total)
	assert.InDelta(t, 50.0, pct.Rows[3].Percentage, 1e-9)
}

func TestPercentageOfTerm_ZeroTotal(t *testing.T) {
	rows := domain.EthnicityTable{
		{FallTerm: 2020, Ethnicity: "Asian", Applicants: 5},
		{FallTerm: 2023, Ethnicity: "Asian", Applicants: 0},
		{FallTerm: 2023, Ethnicity: "White", Applicants: 0},
	}
	_, err := PercentageOfTerm(rows, domain.ColRaceEthnicity)
	var dbz *domain.DivisionByZeroError
	require.ErrorAs(t, err, &dbz)
	assert.Equal(t, 2023, dbz.Term)

	pct, err := PercentageOfTerm(FilterByTerms(rows, []int{2020}), domain.ColRaceEthnicity)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, pct.Rows[0].Percentage, 1e-9)
}

func TestPercentageOfTerm_Empty(t *testing.T) {
	pct, err := PercentageOfTerm(domain.GPATable{}, domain.ColGPABand)
	require.NoError(t, err)
	assert.Equal(t, 0, pct.Len())
}

func TestAcceptanceRate_OpenCycle(t *testing.T) {
	joined := domain.JoinedTable{
		{FallTerm: 2022, Characteristic: "California Resident", Applicants: 10000, Admits: 0},
		{FallTerm: 2022, Characteristic: "Non-Resident", Applicants: 2500, Admits: 0},
	}
	got, err := AcceptanceRate(joined)
	require.NoError(t, err)
	assert.Equal(t, domain.AcceptanceRateTable{
		{FallTerm: 2022, Applicants: 12500, Admits: 0, Rate: 0},
	}, got)
}

func TestAcceptanceRate_SumsPerTerm(t *testing.T) {
	joined := domain.JoinedTable{
		{FallTerm: 2022, Characteristic: "a", Applicants: 300, Admits: 30},
		{FallTerm: 2021, Characteristic: "a", Applicants: 100, Admits: 50},
		{FallTerm: 2022, Characteristic: "b", Applicants: 100, Admits: 10},
	}
	got, err := AcceptanceRate(joined)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2021, got[0].FallTerm)
	assert.InDelta(t, 0.5, got[0].Rate, 1e-9)
	assert.Equal(t, 400, got[1].Applicants)
	assert.Equal(t, 40, got[1].Admits)
	assert.InDelta(t, 0.1, got[1].Rate, 1e-9)
}

func TestAcceptanceRate_ZeroApplicants(t *testing.T) {
	_, err := AcceptanceRate(domain.JoinedTable{{FallTerm: 2019, Characteristic: "a", Applicants: 0, Admits: 0}})
	var dbz *domain.DivisionByZeroError
	require.ErrorAs(t, err, &dbz)
	assert.Equal(t, "acceptance rate", dbz.Metric)
}

func TestPivotCounts(t *testing.T) {
	p := PivotCounts(gpaRows)
	assert.Equal(t, []int{2020, 2021, 2022}, p.Terms)
	assert.Equal(t, []string{"4.00+", "3.50-3.99", "Below 3.00"}, p.Categories)
	assert.InDelta(t, 50.0, p.Value(2021, "3.50-3.99"), 0)
	assert.InDelta(t, 0.0, p.Value(2022, "Below 3.00"), 0)
	assert.InDelta(t, 0.0, p.Value(1999, "4.00+"), 0)
	assert.InDelta(t, 100.0, rowTotal(p, 2021), 0)
}

func TestPivotPercentages(t *testing.T) {
	pct, err := PercentageOfTerm(gpaRows, domain.ColGPABand)
	require.NoError(t, err)
	p := PivotPercentages(pct)
	for _, term := range p.Terms {
		assert.InDelta(t, 100.0, rowTotal(p, term), 1e-9)
	}
}

func rowTotal(p Pivot, term int) float64 {
	var sum float64
	for _, cat := range p.Categories {
		sum += p.Value(term, cat)
	}
	return sum
}

func TestSumByTerm(t *testing.T) {
	sums, err := sumByTerm([]int{2021, 2022, 2021}, map[string][]int{
		"a": {1, 2, 3},
		"b": {10, 0, 5},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int]map[string]int{
		2021: {"a": 4, "b": 15},
		2022: {"a": 2, "b": 0},
	}, sums)

	sums, err = sumByTerm(nil, map[string][]int{"a": nil})
	require.NoError(t, err)
	assert.Empty(t, sums)
}
