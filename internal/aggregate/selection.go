package aggregate

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"admissions-explorer/internal/domain"
)

// Selection is a caller's filter choice. A nil slice means the filter was not
// supplied and keeps every row; a non-nil empty slice selects nothing.
type Selection struct {
	Terms      []int      `json:"terms,omitempty"`
	Range      *TermRange `json:"range,omitempty"`
	Categories []string   `json:"categories,omitempty"`
}

// TermRange is an inclusive range of fall terms.
type TermRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether term lies in the range.
func (r TermRange) Contains(term int) bool {
	return term >= r.From && term <= r.To
}

// Apply filters rows by the selection's terms and range, then its categories.
func Apply[S ~[]E, E domain.CategoryCount](rows S, sel Selection) S {
	rows = ApplyTerms(rows, sel)
	if sel.Categories != nil {
		rows = FilterByCategories(rows, sel.Categories)
	}
	return rows
}

// ApplyTerms filters rows by the selection's terms and range only.
func ApplyTerms[S ~[]E, E domain.Termed](rows S, sel Selection) S {
	if sel.Terms != nil {
		rows = FilterByTerms(rows, sel.Terms)
	}
	if sel.Range != nil {
		rows = FilterByTerms(rows, TermsBetween(rows, sel.Range.From, sel.Range.To))
	}
	return rows
}

// ParseSelection reads a selection from query parameters: repeatable "term"
// and "category", or a "from"/"to" term range. A parameter that is present
// with only empty values selects nothing, so an unchecked filter form still
// reaches the aggregator as an empty set.
func ParseSelection(q url.Values) (Selection, error) {
	var sel Selection

	if raw, ok := q["term"]; ok {
		sel.Terms = make([]int, 0, len(raw))
		for _, v := range nonEmpty(raw) {
			term, err := strconv.Atoi(v)
			if err != nil {
				return Selection{}, domain.ErrValidation("term %q is not a year", v)
			}
			sel.Terms = append(sel.Terms, term)
		}
	}

	from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if from != "" || to != "" {
		r := TermRange{From: math.MinInt, To: math.MaxInt}
		if from != "" {
			v, err := strconv.Atoi(from)
			if err != nil {
				return Selection{}, domain.ErrValidation("from %q is not a year", from)
			}
			r.From = v
		}
		if to != "" {
			v, err := strconv.Atoi(to)
			if err != nil {
				return Selection{}, domain.ErrValidation("to %q is not a year", to)
			}
			r.To = v
		}
		if r.From > r.To {
			r.From, r.To = r.To, r.From
		}
		sel.Range = &r
	}

	if raw, ok := q["category"]; ok {
		sel.Categories = append(make([]string, 0, len(raw)), nonEmpty(raw)...)
	}
	return sel, nil
}

// Query encodes the selection back into query parameters.
func (s Selection) Query() url.Values {
	q := url.Values{}
	if s.Terms != nil {
		q["term"] = []string{""}
		for _, t := range s.Terms {
			q.Add("term", strconv.Itoa(t))
		}
	}
	if s.Range != nil {
		q.Set("from", strconv.Itoa(s.Range.From))
		q.Set("to", strconv.Itoa(s.Range.To))
	}
	if s.Categories != nil {
		q["category"] = append([]string{""}, s.Categories...)
	}
	return q
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
