// Package dataset serves cleaned admissions tables through a read-through
// cache and computes the filtered views the dashboard displays.
package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"admissions-explorer/internal/aggregate"
	"admissions-explorer/internal/cleaning"
	"admissions-explorer/internal/domain"
)

type cacheKey struct {
	dataset domain.Dataset
	path    string
}

func (k cacheKey) String() string { return string(k.dataset) + "|" + k.path }

// Service memoizes cleaned tables per (dataset, source path). Entries live as
// long as the Service; failed loads are not cached.
type Service struct {
	loader *cleaning.Loader
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[cacheKey]domain.Table
	group singleflight.Group
}

// NewService creates a Service over loader. A nil logger discards output.
func NewService(loader *cleaning.Loader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		loader: loader,
		logger: logger,
		cache:  make(map[cacheKey]domain.Table),
	}
}

// Loader returns the underlying loader.
func (s *Service) Loader() *cleaning.Loader { return s.loader }

// Path returns the source file backing d.
func (s *Service) Path(d domain.Dataset) string { return s.loader.Path(d) }

// Table returns the cleaned table for d, loading it on first use.
func (s *Service) Table(ctx context.Context, d domain.Dataset) (domain.Table, error) {
	key := cacheKey{dataset: d, path: s.loader.Path(d)}
	if d == domain.DatasetJoined {
		key.path += "+" + s.loader.Path(domain.DatasetAdmits)
	}

	s.mu.RLock()
	t, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		s.logger.Debug("dataset cache hit", "dataset", d)
		return t, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, _ := s.group.Do(key.String(), func() (interface{}, error) {
		s.logger.Debug("dataset cache miss", "dataset", d, "path", key.path)
		t, err := s.load(ctx, d)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[key] = t
		s.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.Table), nil
}

func (s *Service) load(ctx context.Context, d domain.Dataset) (domain.Table, error) {
	if d != domain.DatasetJoined {
		return s.loader.Load(d)
	}
	apps, err := s.Applications(ctx)
	if err != nil {
		return nil, err
	}
	admits, err := s.Admits(ctx)
	if err != nil {
		return nil, err
	}
	return cleaning.JoinApplicationsAdmits(apps, admits), nil
}

// Applications returns the cleaned applications table.
func (s *Service) Applications(ctx context.Context) (domain.ApplicationTable, error) {
	return typed[domain.ApplicationTable](s.Table(ctx, domain.DatasetApplications))
}

// GPA returns the cleaned GPA distribution table.
func (s *Service) GPA(ctx context.Context) (domain.GPATable, error) {
	return typed[domain.GPATable](s.Table(ctx, domain.DatasetGPA))
}

// Ethnicity returns the cleaned ethnicity distribution table.
func (s *Service) Ethnicity(ctx context.Context) (domain.EthnicityTable, error) {
	return typed[domain.EthnicityTable](s.Table(ctx, domain.DatasetEthnicity))
}

// Admits returns the cleaned admits table, possibly empty.
func (s *Service) Admits(ctx context.Context) (domain.AdmitTable, error) {
	return typed[domain.AdmitTable](s.Table(ctx, domain.DatasetAdmits))
}

// Joined returns applications left-joined with admits.
func (s *Service) Joined(ctx context.Context) (domain.JoinedTable, error) {
	return typed[domain.JoinedTable](s.Table(ctx, domain.DatasetJoined))
}

func typed[T domain.Table](t domain.Table, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, ok := t.(T)
	if !ok {
		return zero, fmt.Errorf("cached table has type %T, want %T", t, zero)
	}
	return v, nil
}

// Filtered returns the dataset with sel applied.
func (s *Service) Filtered(ctx context.Context, d domain.Dataset, sel aggregate.Selection) (domain.Table, error) {
	switch d {
	case domain.DatasetApplications:
		t, err := s.Applications(ctx)
		return aggregate.Apply(t, sel), err
	case domain.DatasetGPA:
		t, err := s.GPA(ctx)
		return aggregate.Apply(t, sel), err
	case domain.DatasetEthnicity:
		t, err := s.Ethnicity(ctx)
		return aggregate.Apply(t, sel), err
	case domain.DatasetAdmits:
		t, err := s.Admits(ctx)
		return aggregate.ApplyTerms(t, sel), err
	case domain.DatasetJoined:
		t, err := s.Joined(ctx)
		return aggregate.Apply(t, sel), err
	default:
		return nil, domain.ErrNotFound("dataset %q not found", d)
	}
}

// Percentages computes percentage-of-term for a categorical dataset after
// applying sel.
func (s *Service) Percentages(ctx context.Context, d domain.Dataset, sel aggregate.Selection) (domain.PercentageTable, error) {
	switch d {
	case domain.DatasetApplications:
		t, err := s.Applications(ctx)
		if err != nil {
			return domain.PercentageTable{}, err
		}
		return aggregate.PercentageOfTerm(aggregate.Apply(t, sel), d.CategoryColumn())
	case domain.DatasetGPA:
		t, err := s.GPA(ctx)
		if err != nil {
			return domain.PercentageTable{}, err
		}
		return aggregate.PercentageOfTerm(aggregate.Apply(t, sel), d.CategoryColumn())
	case domain.DatasetEthnicity:
		t, err := s.Ethnicity(ctx)
		if err != nil {
			return domain.PercentageTable{}, err
		}
		return aggregate.PercentageOfTerm(aggregate.Apply(t, sel), d.CategoryColumn())
	default:
		return domain.PercentageTable{}, domain.ErrValidation("dataset %q has no categories to take percentages of", d)
	}
}

// AcceptanceRates computes the per-term acceptance rate after applying sel to
// the joined table.
func (s *Service) AcceptanceRates(ctx context.Context, sel aggregate.Selection) (domain.AcceptanceRateTable, error) {
	t, err := s.Joined(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.AcceptanceRate(aggregate.Apply(t, sel))
}
