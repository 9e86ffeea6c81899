package ui

import (
	"fmt"
	"net/http"
	"strconv"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"admissions-explorer/internal/aggregate"
	"admissions-explorer/internal/domain"
)

type overviewCardData struct {
	Title       string
	Description string
	Href        string
	LinkLabel   string
}

var overviewCards = []overviewCardData{
	{Title: "GPA Distribution", Description: "Share of applicants per high-school GPA band, by fall term.", Href: "/ui/gpa", LinkLabel: "Open GPA distribution ->"},
	{Title: "Demographics", Description: "Share of applicants per race/ethnicity group, by fall term.", Href: "/ui/demographics", LinkLabel: "Open demographics ->"},
	{Title: "Applications", Description: "Applicants by characteristic and the acceptance rate over time.", Href: "/ui/applications", LinkLabel: "Open applications ->"},
	{Title: "Raw Data", Description: "Browse and download the cleaned tables.", Href: "/ui/raw", LinkLabel: "Open raw data ->"},
}

type datasetStatus struct {
	Label string
	Path  string
	Rows  string
	Terms string
	Error string
}

// Overview lists the pages and the load status of every dataset. A dataset
// that fails to load is reported in its row rather than failing the page.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	svc := h.datasets(r)
	statuses := make([]datasetStatus, 0, len(domain.Datasets))
	for _, d := range domain.Datasets {
		st := datasetStatus{Label: d.Label(), Path: svc.Path(d), Rows: "-", Terms: "-"}
		t, err := svc.Table(r.Context(), d)
		if err != nil {
			kind := domain.ErrorKind(err)
			if kind == "" {
				kind = "error"
			}
			st.Error = kind + ": " + err.Error()
		} else {
			st.Rows = strconv.Itoa(t.Len())
			st.Terms = termSpan(t)
		}
		statuses = append(statuses, st)
	}
	renderHTML(w, http.StatusOK, h.overviewPage(overviewCards, statuses))
}

func termSpan(t domain.Table) string {
	var terms []int
	switch v := t.(type) {
	case domain.ApplicationTable:
		terms = aggregate.Terms(v)
	case domain.GPATable:
		terms = aggregate.Terms(v)
	case domain.EthnicityTable:
		terms = aggregate.Terms(v)
	case domain.AdmitTable:
		terms = aggregate.Terms(v)
	case domain.JoinedTable:
		terms = aggregate.Terms(v)
	}
	switch len(terms) {
	case 0:
		return "-"
	case 1:
		return strconv.Itoa(terms[0])
	default:
		return fmt.Sprintf("%d-%d", terms[0], terms[len(terms)-1])
	}
}

func (h *Handler) overviewPage(cards []overviewCardData, statuses []datasetStatus) Node {
	cardNodes := make([]Node, 0, len(cards))
	for _, c := range cards {
		cardNodes = append(cardNodes, Div(Class(cardClass()), H2(Text(c.Title)), P(Text(c.Description)), A(Href(c.Href), Text(c.LinkLabel))))
	}

	rows := make([]Node, 0, len(statuses))
	for _, s := range statuses {
		status := Node(Text("ok"))
		if s.Error != "" {
			status = Span(Class("error-kind"), Text(s.Error))
		}
		rows = append(rows, Tr(Td(Text(s.Label)), Td(Code(Text(s.Path))), Td(Class("num"), Text(s.Rows)), Td(Text(s.Terms)), Td(status)))
	}

	return h.appPage("Overview", "home",
		Div(Class("grid"), Group(cardNodes)),
		Div(Class(cardClass("table-wrap")),
			H2(Text("Datasets")),
			Table(Class("data-table"),
				THead(Tr(Th(Text("Dataset")), Th(Text("Source")), Th(Text("Rows")), Th(Text("Terms")), Th(Text("Status")))),
				TBody(Group(rows)),
			),
		),
	)
}
