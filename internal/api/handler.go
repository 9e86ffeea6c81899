// Package api serves cleaned admissions tables and metrics as JSON and CSV.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"admissions-explorer/internal/aggregate"
	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/export"
	"admissions-explorer/internal/middleware"
	"admissions-explorer/internal/warehouse"
)

// DatasetService is the subset of the dataset service the API needs.
type DatasetService interface {
	Filtered(ctx context.Context, d domain.Dataset, sel aggregate.Selection) (domain.Table, error)
	Percentages(ctx context.Context, d domain.Dataset, sel aggregate.Selection) (domain.PercentageTable, error)
	AcceptanceRates(ctx context.Context, sel aggregate.Selection) (domain.AcceptanceRateTable, error)
	Path(d domain.Dataset) string
}

// PublishHistory reports what the warehouse holds. It is optional.
type PublishHistory interface {
	LatestRun(ctx context.Context) (*warehouse.PublishRun, error)
	ListPublishedTerms(ctx context.Context) ([]int, error)
}

// Handler serves the /v1 API.
type Handler struct {
	datasets DatasetService
	history  PublishHistory
	logger   *slog.Logger
}

// NewHandler creates a Handler. history may be nil.
func NewHandler(datasets DatasetService, history PublishHistory, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{datasets: datasets, history: history, logger: logger}
}

// Mount registers the API routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/healthz", h.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/datasets", h.listDatasets)
		r.Get("/datasets/{name}", h.getDataset)
		r.Get("/datasets/{name}/csv", h.getDatasetCSV)
		r.Get("/metrics/percentages/{name}", h.getPercentages)
		r.Get("/metrics/percentages/{name}/csv", h.getPercentagesCSV)
		r.Get("/metrics/acceptance-rate", h.getAcceptanceRate)
		r.Get("/metrics/acceptance-rate/csv", h.getAcceptanceRateCSV)
	})
}

type datasetInfo struct {
	Name           string   `json:"name"`
	Label          string   `json:"label"`
	Path           string   `json:"path"`
	Columns        []string `json:"columns"`
	CategoryColumn string   `json:"category_column,omitempty"`
}

type datasetResponse struct {
	Dataset string       `json:"dataset"`
	Columns []string     `json:"columns"`
	Count   int          `json:"row_count"`
	Rows    domain.Table `json:"rows"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if h.history != nil {
		run, err := h.history.LatestRun(r.Context())
		switch {
		case err == nil:
			body["last_publish"] = run
			terms, err := h.history.ListPublishedTerms(r.Context())
			if err != nil {
				h.logger.Warn("read published terms", "error", err)
				break
			}
			body["published_terms"] = terms
		case domain.As[*domain.NotFoundError](err):
		default:
			h.logger.Warn("read publish history", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) listDatasets(w http.ResponseWriter, _ *http.Request) {
	out := make([]datasetInfo, 0, len(domain.Datasets))
	for _, d := range domain.Datasets {
		out = append(out, datasetInfo{
			Name:           string(d),
			Label:          d.Label(),
			Path:           h.datasets.Path(d),
			Columns:        emptyTable(d).Columns(),
			CategoryColumn: d.CategoryColumn(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"datasets": out})
}

func (h *Handler) getDataset(w http.ResponseWriter, r *http.Request) {
	d, t, ok := h.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, datasetResponse{Dataset: string(d), Columns: t.Columns(), Count: t.Len(), Rows: t})
}

func (h *Handler) getDatasetCSV(w http.ResponseWriter, r *http.Request) {
	d, t, ok := h.filtered(w, r)
	if !ok {
		return
	}
	h.writeCSV(w, export.Filename(d), t)
}

func (h *Handler) getPercentages(w http.ResponseWriter, r *http.Request) {
	if _, pct, ok := h.percentages(w, r); ok {
		writeJSON(w, http.StatusOK, pct)
	}
}

func (h *Handler) getPercentagesCSV(w http.ResponseWriter, r *http.Request) {
	if d, pct, ok := h.percentages(w, r); ok {
		h.writeCSV(w, export.PercentagesFilename(d), pct)
	}
}

func (h *Handler) getAcceptanceRate(w http.ResponseWriter, r *http.Request) {
	if rates, ok := h.acceptanceRates(w, r); ok {
		writeJSON(w, http.StatusOK, map[string]any{"rows": rates})
	}
}

func (h *Handler) getAcceptanceRateCSV(w http.ResponseWriter, r *http.Request) {
	if rates, ok := h.acceptanceRates(w, r); ok {
		h.writeCSV(w, export.AcceptanceRateFilename, rates)
	}
}

func (h *Handler) percentages(w http.ResponseWriter, r *http.Request) (domain.Dataset, domain.PercentageTable, bool) {
	d, err := parseDataset(r)
	if err != nil {
		h.writeError(w, r, "", err)
		return "", domain.PercentageTable{}, false
	}
	sel, err := aggregate.ParseSelection(r.URL.Query())
	if err != nil {
		h.writeError(w, r, d, err)
		return "", domain.PercentageTable{}, false
	}
	pct, err := h.datasets.Percentages(r.Context(), d, sel)
	if err != nil {
		h.writeError(w, r, d, err)
		return "", domain.PercentageTable{}, false
	}
	return d, pct, true
}

func (h *Handler) acceptanceRates(w http.ResponseWriter, r *http.Request) (domain.AcceptanceRateTable, bool) {
	sel, err := aggregate.ParseSelection(r.URL.Query())
	if err != nil {
		h.writeError(w, r, domain.DatasetJoined, err)
		return nil, false
	}
	rates, err := h.datasets.AcceptanceRates(r.Context(), sel)
	if err != nil {
		h.writeError(w, r, domain.DatasetJoined, err)
		return nil, false
	}
	return rates, true
}

func (h *Handler) writeCSV(w http.ResponseWriter, filename string, t domain.Table) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteCSV(w, t); err != nil {
		h.logger.Error("write csv", "file", filename, "error", err)
	}
}

// filtered resolves {name} and the selection, writing the error response
// itself when either fails.
func (h *Handler) filtered(w http.ResponseWriter, r *http.Request) (domain.Dataset, domain.Table, bool) {
	d, err := parseDataset(r)
	if err != nil {
		h.writeError(w, r, "", err)
		return "", nil, false
	}
	sel, err := aggregate.ParseSelection(r.URL.Query())
	if err != nil {
		h.writeError(w, r, d, err)
		return "", nil, false
	}
	t, err := h.datasets.Filtered(r.Context(), d, sel)
	if err != nil {
		h.writeError(w, r, d, err)
		return "", nil, false
	}
	return d, t, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, d domain.Dataset, err error) {
	status := httpStatusFromDomainError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("api request failed", "path", r.URL.Path, "dataset", d, "error", err)
	} else {
		h.logger.Debug("api request rejected", "path", r.URL.Path, "dataset", d, "status", status, "error", err)
	}
	writeJSON(w, status, errorBody{
		Code:      status,
		Kind:      domain.ErrorKind(err),
		Dataset:   string(d),
		Message:   err.Error(),
		RequestID: middleware.RequestIDFromContext(r.Context()),
	})
}

// parseDataset resolves {name}; unknown names are a 404 on this surface.
func parseDataset(r *http.Request) (domain.Dataset, error) {
	name := chi.URLParam(r, "name")
	d, err := domain.ParseDataset(name)
	if err != nil {
		return "", domain.ErrNotFound("dataset %q not found", name)
	}
	return d, nil
}

func emptyTable(d domain.Dataset) domain.Table {
	switch d {
	case domain.DatasetApplications:
		return domain.ApplicationTable{}
	case domain.DatasetGPA:
		return domain.GPATable{}
	case domain.DatasetEthnicity:
		return domain.EthnicityTable{}
	case domain.DatasetAdmits:
		return domain.AdmitTable{}
	default:
		return domain.JoinedTable{}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
