package ui

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/export"
)

// Raw previews one cleaned table, chosen by ?dataset=, defaulting to GPA.
func (h *Handler) Raw(w http.ResponseWriter, r *http.Request) {
	d := domain.DatasetGPA
	if name := r.URL.Query().Get("dataset"); name != "" {
		parsed, err := domain.ParseDataset(name)
		if err != nil {
			h.renderServiceError(w, r, "", err)
			return
		}
		d = parsed
	}
	t, err := h.datasets(r).Table(r.Context(), d)
	if err != nil {
		h.renderServiceError(w, r, d, err)
		return
	}
	renderHTML(w, http.StatusOK, h.rawPage(d, t))
}

// RawCSV downloads a cleaned table as CSV.
func (h *Handler) RawCSV(w http.ResponseWriter, r *http.Request) {
	d, err := domain.ParseDataset(chi.URLParam(r, "dataset"))
	if err != nil {
		h.renderServiceError(w, r, "", domain.ErrNotFound("dataset %q not found", chi.URLParam(r, "dataset")))
		return
	}
	t, err := h.datasets(r).Table(r.Context(), d)
	if err != nil {
		h.renderServiceError(w, r, d, err)
		return
	}
	h.writeCSV(w, export.Filename(d), t)
}

func (h *Handler) writeCSV(w http.ResponseWriter, filename string, t domain.Table) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteCSV(w, t); err != nil {
		h.Logger.Error("write csv", "file", filename, "error", err)
	}
}

func (h *Handler) rawPage(d domain.Dataset, t domain.Table) Node {
	options := make([]Node, 0, len(domain.Datasets))
	for _, ds := range domain.Datasets {
		options = append(options, Option(Value(string(ds)), If(ds == d, Selected()), Text(ds.Label())))
	}
	columns := t.Columns()
	numeric := func(col int) bool {
		switch columns[col] {
		case domain.ColApplicants, domain.ColAdmits:
			return true
		}
		return false
	}

	return h.appPage("Raw Dataset Preview", "raw",
		Form(
			Method("get"),
			Action("/ui/raw"),
			Class(cardClass("filters")),
			Label(Text("Choose a dataset "), Select(Name("dataset"), Attr("onchange", "this.form.submit()"), Group(options))),
			Button(Type("submit"), Class("btn"), Text("Show")),
			A(Href("/ui/raw/"+string(d)+".csv"), Class("btn btn-primary"), Text("Download "+export.Filename(d))),
		),
		P(Class(mutedClass()), Text(fmt.Sprintf("%d rows", t.Len()))),
		quickFilterCard("Filter rows"),
		dataTable(columns, t.Records(), numeric),
	)
}
