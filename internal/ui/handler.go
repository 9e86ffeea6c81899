// Package ui renders the admissions dashboard: chart pages with term and
// category filters, a raw data browser, and CSV downloads.
package ui

import (
	"log/slog"
	"net/http"

	gomponents "maragu.dev/gomponents"

	"admissions-explorer/internal/chart"
	"admissions-explorer/internal/service/dataset"
	"admissions-explorer/internal/service/session"
)

type Handler struct {
	Sessions *session.Manager
	Charts   chart.Renderer
	Static   bool
	Logger   *slog.Logger
}

func NewHandler(sessions *session.Manager, staticCharts bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		Sessions: sessions,
		Charts:   chart.NewRenderer(staticCharts),
		Static:   staticCharts,
		Logger:   logger,
	}
}

// datasets returns the dataset service of the request's session. Requests
// reaching a page always pass through the session middleware.
func (h *Handler) datasets(r *http.Request) *dataset.Service {
	s, ok := session.FromContext(r.Context())
	if !ok {
		s = h.Sessions.Create()
	}
	return s.Datasets
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}
