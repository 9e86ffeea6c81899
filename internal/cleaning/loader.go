package cleaning

import (
	"fmt"
	"log/slog"

	"admissions-explorer/internal/config"
	"admissions-explorer/internal/domain"
)

// Loader loads the cleaned tables from a configured set of source paths.
type Loader struct {
	sources config.Sources
	logger  *slog.Logger
}

// NewLoader creates a Loader. A nil logger discards output.
func NewLoader(sources config.Sources, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{sources: sources, logger: logger}
}

// Sources returns the configured source paths.
func (l *Loader) Sources() config.Sources { return l.sources }

// Path returns the source path backing a dataset. The joined dataset reports
// the applications path.
func (l *Loader) Path(d domain.Dataset) string {
	switch d {
	case domain.DatasetApplications, domain.DatasetJoined:
		return l.sources.Applications
	case domain.DatasetGPA:
		return l.sources.GPA
	case domain.DatasetEthnicity:
		return l.sources.Ethnicity
	case domain.DatasetAdmits:
		return l.sources.Admits
	default:
		return ""
	}
}

// Applications loads the cleaned applications table.
func (l *Loader) Applications() (domain.ApplicationTable, error) {
	t, err := LoadApplications(l.sources.Applications)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	l.logger.Debug("dataset loaded", "dataset", domain.DatasetApplications, "path", l.sources.Applications, "rows", len(t))
	return t, nil
}

// GPA loads the cleaned GPA distribution table.
func (l *Loader) GPA() (domain.GPATable, error) {
	t, err := LoadGPA(l.sources.GPA)
	if err != nil {
		return nil, fmt.Errorf("load gpa distribution: %w", err)
	}
	l.logger.Debug("dataset loaded", "dataset", domain.DatasetGPA, "path", l.sources.GPA, "rows", len(t))
	return t, nil
}

// Ethnicity loads the cleaned ethnicity distribution table.
func (l *Loader) Ethnicity() (domain.EthnicityTable, error) {
	t, err := LoadEthnicity(l.sources.Ethnicity)
	if err != nil {
		return nil, fmt.Errorf("load ethnicity distribution: %w", err)
	}
	l.logger.Debug("dataset loaded", "dataset", domain.DatasetEthnicity, "path", l.sources.Ethnicity, "rows", len(t))
	return t, nil
}

// Admits loads the cleaned admits table, possibly empty.
func (l *Loader) Admits() (domain.AdmitTable, error) {
	t, err := LoadAdmits(l.sources.Admits)
	if err != nil {
		return nil, fmt.Errorf("load admits: %w", err)
	}
	if len(t) == 0 {
		l.logger.Info("no admits published, joined admits default to 0", "path", l.sources.Admits)
	}
	l.logger.Debug("dataset loaded", "dataset", domain.DatasetAdmits, "path", l.sources.Admits, "rows", len(t))
	return t, nil
}

// Joined loads applications and admits and joins them on fall term.
func (l *Loader) Joined() (domain.JoinedTable, error) {
	apps, err := l.Applications()
	if err != nil {
		return nil, err
	}
	admits, err := l.Admits()
	if err != nil {
		return nil, err
	}
	return JoinApplicationsAdmits(apps, admits), nil
}

// Load loads any dataset as a generic table.
func (l *Loader) Load(d domain.Dataset) (domain.Table, error) {
	switch d {
	case domain.DatasetApplications:
		return l.Applications()
	case domain.DatasetGPA:
		return l.GPA()
	case domain.DatasetEthnicity:
		return l.Ethnicity()
	case domain.DatasetAdmits:
		return l.Admits()
	case domain.DatasetJoined:
		return l.Joined()
	default:
		return nil, domain.ErrNotFound("dataset %q not found", d)
	}
}
