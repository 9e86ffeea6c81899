package ui

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"admissions-explorer/internal/ui/assets"
)

// MountRoutes registers the dashboard under r, which is expected to be
// mounted at /ui.
func MountRoutes(r chi.Router, h *Handler) {
	staticFS, err := fs.Sub(assets.StaticFS(), "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/ui/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.Middleware)
		r.Get("/", h.Overview)
		r.Get("/gpa", h.GPA)
		r.Get("/gpa.csv", h.GPACSV)
		r.Get("/demographics", h.Demographics)
		r.Get("/demographics.csv", h.DemographicsCSV)
		r.Get("/applications", h.Applications)
		r.Get("/applications.csv", h.ApplicationsCSV)
		r.Get("/raw", h.Raw)
		r.Get("/raw/{dataset}.csv", h.RawCSV)
	})
}
