package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-explorer/internal/cleaning"
	"admissions-explorer/internal/config"
	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/middleware"
	"admissions-explorer/internal/service/dataset"
	"admissions-explorer/internal/testutil"
	"admissions-explorer/internal/warehouse"
)

type stubHistory struct {
	run   *warehouse.PublishRun
	terms []int
	err   error
}

func (s stubHistory) LatestRun(context.Context) (*warehouse.PublishRun, error) { return s.run, s.err }

func (s stubHistory) ListPublishedTerms(context.Context) ([]int, error) { return s.terms, nil }

func setupTestServer(t *testing.T, history PublishHistory) (*httptest.Server, testutil.Exports) {
	t.Helper()
	ex := testutil.WriteSampleExports(t)
	svc := dataset.NewService(cleaning.NewLoader(config.DefaultSources(ex.Dir), nil), nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	NewHandler(svc, history, nil).Mount(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, ex
}

func getJSON(t *testing.T, url string, into any) *http.Response {
	t.Helper()
	resp, err := http.Get(url) //nolint:noctx
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	if into != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := setupTestServer(t, nil)
	var body map[string]any
	resp := getJSON(t, srv.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotContains(t, body, "last_publish")
}

func TestHealth_ReportsLastPublish(t *testing.T) {
	srv, _ := setupTestServer(t, stubHistory{run: &warehouse.PublishRun{ID: "run-1", Applications: 4}, terms: []int{2021, 2022}})
	var body map[string]any
	getJSON(t, srv.URL+"/healthz", &body)
	require.Contains(t, body, "last_publish")
	assert.Equal(t, "run-1", body["last_publish"].(map[string]any)["id"])
	assert.Equal(t, []any{2021.0, 2022.0}, body["published_terms"])

	srv, _ = setupTestServer(t, stubHistory{err: domain.ErrNotFound("no snapshot has been published")})
	body = nil
	resp := getJSON(t, srv.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "last_publish")
	assert.NotContains(t, body, "published_terms")
}

func TestListDatasets(t *testing.T) {
	srv, ex := setupTestServer(t, nil)
	var body struct {
		Datasets []datasetInfo `json:"datasets"`
	}
	getJSON(t, srv.URL+"/v1/datasets", &body)
	require.Len(t, body.Datasets, len(domain.Datasets))
	assert.Equal(t, "gpa", body.Datasets[0].Name)
	assert.Equal(t, ex.GPA, body.Datasets[0].Path)
	assert.Equal(t, []string{"Fall term", "GPA Band", "Applicants"}, body.Datasets[0].Columns)
	assert.Equal(t, "Demographics", body.Datasets[1].Label)
}

func TestGetDataset_Filtered(t *testing.T) {
	srv, _ := setupTestServer(t, nil)
	var body struct {
		Dataset string             `json:"dataset"`
		Count   int                `json:"row_count"`
		Rows    []domain.GPARecord `json:"rows"`
	}
	resp := getJSON(t, srv.URL+"/v1/datasets/gpa?term=2022&category=4.00%2B", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gpa", body.Dataset)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, []domain.GPARecord{{FallTerm: 2022, Band: "4.00+", Applicants: 5000}}, body.Rows)
}

func TestGetDataset_EmptySelection(t *testing.T) {
	srv, _ := setupTestServer(t, nil)
	var body struct {
		Count int   `json:"row_count"`
		Rows  []any `json:"rows"`
	}
	getJSON(t, srv.URL+"/v1/datasets/demographics?term=", &body)
	assert.Equal(t, 0, body.Count)
	assert.NotNil(t, body.Rows)
}

func TestGetDataset_Errors(t *testing.T) {
	srv, ex := setupTestServer(t, nil)

	tests := []struct {
		name     string
		path     string
		prepare  func()
		wantCode int
		wantKind string
	}{
		{name: "unknown dataset", path: "/v1/datasets/majors", wantCode: http.StatusNotFound},
		{name: "bad term", path: "/v1/datasets/gpa?term=fall", wantCode: http.StatusBadRequest},
		{
			name: "coercion",
			path: "/v1/datasets/ethnicity",
			prepare: func() {
				testutil.WriteExport(t, ex.Dir, filepath.Base(ex.Ethnicity),
					testutil.TSV("Fall term", "Applicant characteristics", "Race/ethnicity"),
					testutil.TSV("2021", "Asian", "N/A"))
			},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "value coercion",
		},
		{
			name:     "missing source",
			path:     "/v1/datasets/applications",
			prepare:  func() { require.NoError(t, os.Remove(ex.Applications)) },
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "malformed source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepare != nil {
				tt.prepare()
			}
			var body errorBody
			resp := getJSON(t, srv.URL+tt.path, &body)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantKind, body.Kind)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestGetDatasetCSV(t *testing.T) {
	srv, _ := setupTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/v1/datasets/joined/csv") //nolint:noctx
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="joined.csv"`)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Equal(t, "Fall term,Applicant characteristic,Applicants,Admits", lines[0])
	assert.Contains(t, lines, "2021,California Resident,9000,6000")
	assert.Contains(t, lines, "2022,Non-Resident,2500,0")
}

func TestGetPercentages(t *testing.T) {
	srv, _ := setupTestServer(t, nil)
	var pct domain.PercentageTable
	resp := getJSON(t, srv.URL+"/v1/metrics/percentages/gpa?term=2021", &pct)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "GPA Band", pct.CategoryColumn)
	require.Len(t, pct.Rows, 2)
	assert.InDelta(t, 60.0, pct.Rows[0].Percentage, 1e-9)
	assert.InDelta(t, 40.0, pct.Rows[1].Percentage, 1e-9)

	var body errorBody
	resp = getJSON(t, srv.URL+"/v1/metrics/percentages/admits", &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetAcceptanceRate(t *testing.T) {
	srv, _ := setupTestServer(t, nil)
	var body struct {
		Rows domain.AcceptanceRateTable `json:"rows"`
	}
	resp := getJSON(t, srv.URL+"/v1/metrics/acceptance-rate?term=2022", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.AcceptanceRateTable{{FallTerm: 2022, Applicants: 12500, Admits: 0, Rate: 0}}, body.Rows)
}

func TestHTTPStatusFromDomainError(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, httpStatusFromDomainError(domain.ErrDivisionByZero("acceptance rate", 2020)))
	assert.Equal(t, http.StatusUnprocessableEntity, httpStatusFromDomainError(domain.ErrSchemaMismatch("a.csv", "Fall term", nil)))
	assert.Equal(t, http.StatusInternalServerError, httpStatusFromDomainError(assert.AnError))
}

func getText(t *testing.T, url string) (*http.Response, []string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:noctx
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, strings.Split(strings.TrimSpace(string(body)), "\n")
}

func TestMetricsCSV(t *testing.T) {
	srv, _ := setupTestServer(t, nil)

	tests := []struct {
		name     string
		path     string
		filename string
		want     []string
	}{
		{
			name:     "gpa percentages",
			path:     "/v1/metrics/percentages/gpa/csv?term=2021",
			filename: "gpa_percentages.csv",
			want: []string{
				"Fall term,GPA Band,Applicants,Total,Percentage",
				"2021,4.00+,6000,10000,60",
				"2021,3.50-3.99,4000,10000,40",
			},
		},
		{
			name:     "acceptance rate",
			path:     "/v1/metrics/acceptance-rate/csv?term=2022",
			filename: "acceptance_rate.csv",
			want: []string{
				"Fall term,Applicants,Admits,Acceptance rate",
				"2022,12500,0,0",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, lines := getText(t, srv.URL+tt.path)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
			assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="`+tt.filename+`"`)
			assert.Equal(t, tt.want, lines)
		})
	}
}

func TestMetricsCSV_Errors(t *testing.T) {
	srv, _ := setupTestServer(t, nil)

	resp, _ := getText(t, srv.URL+"/v1/metrics/percentages/admits/csv")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp, _ = getText(t, srv.URL+"/v1/metrics/percentages/nope/csv")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
