package ui

import (
	"io"
	"net/http"
	"net/http/cookiejar"
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
	"admissions-explorer/internal/service/dataset"
	"admissions-explorer/internal/service/session"
	"admissions-explorer/internal/testutil"
)

type testUI struct {
	srv    *httptest.Server
	client *http.Client
	ex     testutil.Exports
}

func newTestUI(t *testing.T, static bool) *testUI {
	t.Helper()
	ex := testutil.WriteSampleExports(t)
	loader := cleaning.NewLoader(config.DefaultSources(ex.Dir), nil)
	sessions := session.NewManager(func() *dataset.Service { return dataset.NewService(loader, nil) }, false, nil)

	r := chi.NewRouter()
	r.Route("/ui", func(r chi.Router) {
		MountRoutes(r, NewHandler(sessions, static, nil))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testUI{srv: srv, client: &http.Client{Jar: jar}, ex: ex}
}

func (u *testUI) get(t *testing.T, path string) (int, string, http.Header) {
	t.Helper()
	resp, err := u.client.Get(u.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func TestOverview(t *testing.T) {
	u := newTestUI(t, true)
	status, body, _ := u.get(t, "/ui")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "UC Admissions Data Explorer")
	assert.Contains(t, body, "/ui/gpa")
	assert.Contains(t, body, "2021-2022")
}

func TestOverview_ReportsBrokenDataset(t *testing.T) {
	u := newTestUI(t, true)
	require.NoError(t, os.Remove(u.ex.Ethnicity))

	status, body, _ := u.get(t, "/ui")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "malformed source")
}

func TestGPAPage_StaticChart(t *testing.T) {
	u := newTestUI(t, true)
	status, body, _ := u.get(t, "/ui/gpa")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "GPA Distribution Over Time")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "60.0%")
	assert.NotContains(t, body, "vegaEmbed")
}

func TestDemographicsPage_InteractiveChart(t *testing.T) {
	u := newTestUI(t, false)
	status, body, _ := u.get(t, "/ui/demographics")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "vegaEmbed")
	assert.Contains(t, body, "vega-lite@5")
	assert.Contains(t, body, "Hispanic/ Latinx")
}

func TestChartPage_SelectionIsRememberedPerSession(t *testing.T) {
	u := newTestUI(t, true)

	_, body, _ := u.get(t, "/ui/gpa?term=&term=2022&category=")
	assert.Contains(t, body, "No data for the current selection.")

	_, body, _ = u.get(t, "/ui/gpa")
	assert.Contains(t, body, "No data for the current selection.", "selection reused from the session")

	other := &http.Client{}
	resp, err := other.Get(u.srv.URL + "/ui/gpa")
	require.NoError(t, err)
	otherBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.NotContains(t, string(otherBody), "No data for the current selection.", "sessions are isolated")

	_, body, _ = u.get(t, "/ui/gpa?reset=1")
	assert.NotContains(t, body, "No data for the current selection.")
}

func TestApplicationsPage(t *testing.T) {
	u := newTestUI(t, true)
	status, body, _ := u.get(t, "/ui/applications?term=2022")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Acceptance Rate Over Time")
	assert.Contains(t, body, "0.0%")
	assert.Contains(t, body, "12500")
	assert.Contains(t, body, "repeated on every characteristic row")
	assert.Contains(t, body, "/ui/applications.csv?")
}

func TestChartPage_ErrorNamesDatasetAndKind(t *testing.T) {
	u := newTestUI(t, true)
	testutil.WriteExport(t, u.ex.Dir, filepath.Base(u.ex.GPA),
		testutil.TSV("Fall term", "Applicant characteristics", "HS weighted, capped GPA"),
		testutil.TSV("2021", "4.00+", "N/A"))

	status, body, _ := u.get(t, "/ui/gpa")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "Could not load GPA")
	assert.Contains(t, body, "value coercion")
	assert.Contains(t, body, "N/A")
}

func TestChartPage_InvalidTerm(t *testing.T) {
	u := newTestUI(t, true)
	status, _, _ := u.get(t, "/ui/demographics?term=fall")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRawPage(t *testing.T) {
	u := newTestUI(t, true)

	status, body, _ := u.get(t, "/ui/raw?dataset=applications")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Applicant characteristic")
	assert.Contains(t, body, "California Resident")
	assert.Contains(t, body, "/ui/raw/applications.csv")
	assert.Contains(t, body, "4 rows")

	status, _, _ = u.get(t, "/ui/raw?dataset=majors")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRawCSV(t *testing.T) {
	u := newTestUI(t, true)

	status, body, header := u.get(t, "/ui/raw/gpa.csv")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "text/csv; charset=utf-8", header.Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(body), "\n")
	assert.Equal(t, []string{"Fall term,GPA Band,Applicants", "2021,4.00+,6000", "2021,3.50-3.99,4000", "2022,4.00+,5000", "2022,3.50-3.99,5000"}, lines)

	status, _, _ = u.get(t, "/ui/raw/majors.csv")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStaticAssets(t *testing.T) {
	u := newTestUI(t, true)
	status, body, _ := u.get(t, "/ui/static/app.css")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, ".app-shell")
}

func TestContainsExpr(t *testing.T) {
	assert.Equal(t, `$q === '' || "2021 asian".includes($q.toLowerCase())`, containsExpr("2021 Asian"))
}

func TestChartCSV_UsesSessionSelection(t *testing.T) {
	u := newTestUI(t, true)

	status, body, _ := u.get(t, "/ui/demographics?term=2021")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "/ui/demographics.csv?term=&amp;term=2021")

	status, body, header := u.get(t, "/ui/demographics.csv")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "text/csv; charset=utf-8", header.Get("Content-Type"))
	assert.Contains(t, header.Get("Content-Disposition"), `filename="ethnicity_percentages.csv"`)
	assert.Equal(t, []string{
		"Fall term,Race/ethnicity,Applicants,Total,Percentage",
		"2021,Asian,3000,4000,75",
		"2021,Hispanic/ Latinx,1000,4000,25",
	}, strings.Split(strings.TrimSpace(body), "\n"))
}

func TestChartCSV_GPAAndApplications(t *testing.T) {
	u := newTestUI(t, true)

	status, body, _ := u.get(t, "/ui/gpa.csv?term=2022&category=4.00%2B")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{
		"Fall term,GPA Band,Applicants,Total,Percentage",
		"2022,4.00+,5000,5000,100",
	}, strings.Split(strings.TrimSpace(body), "\n"))

	status, body, header := u.get(t, "/ui/applications.csv")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, header.Get("Content-Disposition"), `filename="acceptance_rate.csv"`)
	assert.Equal(t, []string{
		"Fall term,Applicants,Admits,Acceptance rate",
		"2021,12000,12000,1",
		"2022,12500,0,0",
	}, strings.Split(strings.TrimSpace(body), "\n"))

	status, _, _ = u.get(t, "/ui/gpa.csv?term=fall")
	assert.Equal(t, http.StatusBadRequest, status)
}
