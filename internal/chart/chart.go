// Package chart turns aggregated tables into chart artifacts: Vega-Lite specs
// for interactive rendering, or server-rendered SVG for static export.
package chart

import (
	"strconv"

	"admissions-explorer/internal/aggregate"
	"admissions-explorer/internal/domain"
)

// Kind is the chart mark.
type Kind string

const (
	KindStackedBar Kind = "stacked-bar"
	KindLine       Kind = "line"
)

// Series is one named sequence of values aligned with Chart.X.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Chart is a renderer-independent chart description.
type Chart struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Kind   Kind     `json:"kind"`
	XLabel string   `json:"x_label"`
	YLabel string   `json:"y_label"`
	X      []string `json:"x"`
	Series []Series `json:"series"`
}

// Empty reports whether the chart has nothing to draw.
func (c Chart) Empty() bool {
	return len(c.X) == 0 || len(c.Series) == 0
}

// StackedBar builds a stacked bar chart with one bar per term and one stack
// segment per category.
func StackedBar(id, title, yLabel string, p aggregate.Pivot) Chart {
	c := Chart{
		ID:     id,
		Title:  title,
		Kind:   KindStackedBar,
		XLabel: "Fall Term",
		YLabel: yLabel,
		X:      termLabels(p.Terms),
	}
	for _, cat := range p.Categories {
		s := Series{Name: cat, Values: make([]float64, len(p.Terms))}
		for i, term := range p.Terms {
			s.Values[i] = p.Value(term, cat)
		}
		c.Series = append(c.Series, s)
	}
	return c
}

// AcceptanceRateLine builds a line of acceptance rate, in percent, per term.
func AcceptanceRateLine(id, title string, t domain.AcceptanceRateTable) Chart {
	terms := make([]int, 0, len(t))
	s := Series{Name: domain.ColAcceptanceRate, Values: make([]float64, 0, len(t))}
	for _, r := range t {
		terms = append(terms, r.FallTerm)
		s.Values = append(s.Values, r.Rate*100)
	}
	c := Chart{
		ID:     id,
		Title:  title,
		Kind:   KindLine,
		XLabel: "Fall Term",
		YLabel: "Acceptance rate (%)",
		X:      termLabels(terms),
	}
	if len(t) > 0 {
		c.Series = []Series{s}
	}
	return c
}

func termLabels(terms []int) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strconv.Itoa(t)
	}
	return out
}
