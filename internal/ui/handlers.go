package ui

import (
	"net/http"

	"admissions-explorer/internal/aggregate"
	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/service/session"
)

// selection resolves the filter selection for page. Filter parameters in the
// query replace the session's stored selection; "reset" clears it; otherwise
// the stored selection is reused.
func (h *Handler) selection(r *http.Request, page string) (aggregate.Selection, error) {
	s, ok := session.FromContext(r.Context())
	q := r.URL.Query()

	if q.Has("reset") {
		if ok {
			s.ClearSelection(page)
		}
		return aggregate.Selection{}, nil
	}

	if q.Has("term") || q.Has("category") || q.Has("from") || q.Has("to") {
		sel, err := aggregate.ParseSelection(q)
		if err != nil {
			return aggregate.Selection{}, err
		}
		if ok {
			s.SetSelection(page, sel)
		}
		return sel, nil
	}

	if ok {
		if sel, found := s.Selection(page); found {
			return sel, nil
		}
	}
	return aggregate.Selection{}, nil
}

// renderServiceError renders the failure page for d. Source and computation
// failures are 422 and name the error kind.
func (h *Handler) renderServiceError(w http.ResponseWriter, r *http.Request, d domain.Dataset, err error) {
	status := http.StatusInternalServerError
	title := "Unexpected Error"
	message := "An unexpected error occurred while loading this page."
	kind := domain.ErrorKind(err)

	switch {
	case domain.As[*domain.NotFoundError](err):
		status = http.StatusNotFound
		title = "Not Found"
		message = err.Error()
	case domain.As[*domain.ValidationError](err):
		status = http.StatusBadRequest
		title = "Invalid Request"
		message = err.Error()
	case kind != "":
		status = http.StatusUnprocessableEntity
		title = "Could not load " + d.Label()
		message = err.Error()
	}

	label := ""
	if d != "" {
		label = d.Label()
	}
	if status == http.StatusInternalServerError {
		h.Logger.Error("ui request failed", "path", r.URL.Path, "dataset", d, "error", err)
	} else {
		h.Logger.Warn("ui request rejected", "path", r.URL.Path, "dataset", d, "status", status, "error", err)
	}
	renderHTML(w, status, h.errorPage(title, label, kind, message))
}
