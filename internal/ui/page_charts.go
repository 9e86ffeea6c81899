package ui

import (
	"net/http"
	"strconv"

	. "maragu.dev/gomponents"

	"admissions-explorer/internal/aggregate"
	"admissions-explorer/internal/chart"
	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/export"
)

// breakdownPageData is a percentage-of-term page: GPA bands or ethnicity.
type breakdownPageData struct {
	Title         string
	Active        string
	Action        string
	CategoryLabel string
	Terms         []int
	Categories    []string
	Selection     aggregate.Selection
	Chart         Node
	Percentages   domain.PercentageTable
	Filename      string
}

func (h *Handler) GPA(w http.ResponseWriter, r *http.Request) {
	svc := h.datasets(r)
	all, err := svc.GPA(r.Context())
	if err != nil {
		h.renderServiceError(w, r, domain.DatasetGPA, err)
		return
	}
	h.breakdown(w, r, domain.DatasetGPA, breakdownPageData{
		Title:         "GPA Distribution Over Time",
		Active:        "gpa",
		Action:        "/ui/gpa",
		CategoryLabel: domain.ColGPABand,
		Terms:         aggregate.Terms(all),
		Categories:    aggregate.Categories(all),
	})
}

func (h *Handler) Demographics(w http.ResponseWriter, r *http.Request) {
	svc := h.datasets(r)
	all, err := svc.Ethnicity(r.Context())
	if err != nil {
		h.renderServiceError(w, r, domain.DatasetEthnicity, err)
		return
	}
	h.breakdown(w, r, domain.DatasetEthnicity, breakdownPageData{
		Title:         "Applicants by Race/Ethnicity",
		Active:        "demographics",
		Action:        "/ui/demographics",
		CategoryLabel: domain.ColRaceEthnicity,
		Terms:         aggregate.Terms(all),
		Categories:    aggregate.Categories(all),
	})
}

// GPACSV downloads the GPA percentage table for the page's selection.
func (h *Handler) GPACSV(w http.ResponseWriter, r *http.Request) {
	h.percentagesCSV(w, r, domain.DatasetGPA, "gpa")
}

// DemographicsCSV downloads the ethnicity percentage table for the page's
// selection.
func (h *Handler) DemographicsCSV(w http.ResponseWriter, r *http.Request) {
	h.percentagesCSV(w, r, domain.DatasetEthnicity, "demographics")
}

func (h *Handler) percentagesCSV(w http.ResponseWriter, r *http.Request, d domain.Dataset, page string) {
	sel, err := h.selection(r, page)
	if err != nil {
		h.renderServiceError(w, r, d, err)
		return
	}
	pct, err := h.datasets(r).Percentages(r.Context(), d, sel)
	if err != nil {
		h.renderServiceError(w, r, d, err)
		return
	}
	h.writeCSV(w, export.PercentagesFilename(d), pct)
}

func (h *Handler) breakdown(w http.ResponseWriter, r *http.Request, d domain.Dataset, page breakdownPageData) {
	sel, err := h.selection(r, page.Active)
	if err != nil {
		h.renderServiceError(w, r, d, err)
		return
	}
	pct, err := h.datasets(r).Percentages(r.Context(), d, sel)
	if err != nil {
		h.renderServiceError(w, r, d, err)
		return
	}
	node, err := h.Charts.Render(chart.StackedBar(page.Active+"-chart", page.Title, "Share of applicants (%)", aggregate.PivotPercentages(pct)))
	if err != nil {
		h.renderServiceError(w, r, d, err)
		return
	}
	page.Selection = sel
	page.Chart = node
	page.Percentages = pct
	page.Filename = export.PercentagesFilename(d)
	renderHTML(w, http.StatusOK, h.breakdownPage(page))
}

func (h *Handler) breakdownPage(d breakdownPageData) Node {
	rows := make([][]string, 0, len(d.Percentages.Rows))
	for _, r := range d.Percentages.Rows {
		rows = append(rows, []string{strconv.Itoa(r.FallTerm), r.Category, strconv.Itoa(r.Applicants), strconv.Itoa(r.Total), formatPercent(r.Percentage)})
	}
	return h.appPage(d.Title, d.Active,
		filterForm(d.Action, d.Terms, d.CategoryLabel, d.Categories, d.Selection),
		chartCard(d.Chart),
		quickFilterCard("Filter rows by term or "+d.CategoryLabel),
		downloadLink(d.Action, d.Filename, d.Selection),
		dataTable(d.Percentages.Columns(), rows, func(col int) bool { return col >= 2 }),
	)
}

type applicationsPageData struct {
	Terms           []int
	Characteristics []string
	Selection       aggregate.Selection
	CountsChart     Node
	RateChart       Node
	Rates           domain.AcceptanceRateTable
}

// Applications shows applicants by characteristic and the acceptance rate
// from the applications/admits join.
func (h *Handler) Applications(w http.ResponseWriter, r *http.Request) {
	svc := h.datasets(r)
	all, err := svc.Applications(r.Context())
	if err != nil {
		h.renderServiceError(w, r, domain.DatasetApplications, err)
		return
	}
	sel, err := h.selection(r, "applications")
	if err != nil {
		h.renderServiceError(w, r, domain.DatasetApplications, err)
		return
	}
	rates, err := svc.AcceptanceRates(r.Context(), sel)
	if err != nil {
		h.renderServiceError(w, r, domain.DatasetJoined, err)
		return
	}

	counts, err := h.Charts.Render(chart.StackedBar("applications-chart", "Applicants by Characteristic", domain.ColApplicants,
		aggregate.PivotCounts(aggregate.Apply(all, sel))))
	if err != nil {
		h.renderServiceError(w, r, domain.DatasetApplications, err)
		return
	}
	rate, err := h.Charts.Render(chart.AcceptanceRateLine("acceptance-rate-chart", "Acceptance Rate Over Time", rates))
	if err != nil {
		h.renderServiceError(w, r, domain.DatasetJoined, err)
		return
	}

	renderHTML(w, http.StatusOK, h.applicationsPage(applicationsPageData{
		Terms:           aggregate.Terms(all),
		Characteristics: aggregate.Categories(all),
		Selection:       sel,
		CountsChart:     counts,
		RateChart:       rate,
		Rates:           rates,
	}))
}

// ApplicationsCSV downloads the acceptance rate table for the page's
// selection.
func (h *Handler) ApplicationsCSV(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r, "applications")
	if err != nil {
		h.renderServiceError(w, r, domain.DatasetApplications, err)
		return
	}
	rates, err := h.datasets(r).AcceptanceRates(r.Context(), sel)
	if err != nil {
		h.renderServiceError(w, r, domain.DatasetJoined, err)
		return
	}
	h.writeCSV(w, export.AcceptanceRateFilename, rates)
}

func (h *Handler) applicationsPage(d applicationsPageData) Node {
	rows := make([][]string, 0, len(d.Rates))
	for _, r := range d.Rates {
		rows = append(rows, []string{strconv.Itoa(r.FallTerm), strconv.Itoa(r.Applicants), strconv.Itoa(r.Admits), formatPercent(r.Rate * 100)})
	}
	return h.appPage("Applications", "applications",
		filterForm("/ui/applications", d.Terms, domain.ColApplicantCharacteristic, d.Characteristics, d.Selection),
		chartCard(d.CountsChart),
		chartCard(d.RateChart),
		note("Admits are reported per term and repeated on every characteristic row, so a term's rate sums them once per selected characteristic."),
		quickFilterCard("Filter rows by term"),
		downloadLink("/ui/applications", export.AcceptanceRateFilename, d.Selection),
		dataTable(d.Rates.Columns(), rows, func(col int) bool { return col >= 1 }),
	)
}
