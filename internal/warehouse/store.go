package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"admissions-explorer/internal/cleaning"
	"admissions-explorer/internal/domain"
)

// Snapshot is one consistent set of cleaned tables.
type Snapshot struct {
	Applications domain.ApplicationTable
	GPA          domain.GPATable
	Ethnicity    domain.EthnicityTable
	Admits       domain.AdmitTable
}

// Tables returns every snapshot table keyed by dataset, including the
// applications/admits join.
func (s Snapshot) Tables() map[domain.Dataset]domain.Table {
	return map[domain.Dataset]domain.Table{
		domain.DatasetApplications: s.Applications,
		domain.DatasetGPA:          s.GPA,
		domain.DatasetEthnicity:    s.Ethnicity,
		domain.DatasetAdmits:       s.Admits,
		domain.DatasetJoined:       cleaning.JoinApplicationsAdmits(s.Applications, s.Admits),
	}
}

// LoadSnapshot reads and cleans the four exports concurrently.
func LoadSnapshot(ctx context.Context, loader *cleaning.Loader) (Snapshot, error) {
	var snap Snapshot
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) { snap.Applications, err = loader.Applications(); return err })
	g.Go(func() (err error) { snap.GPA, err = loader.GPA(); return err })
	g.Go(func() (err error) { snap.Ethnicity, err = loader.Ethnicity(); return err })
	g.Go(func() (err error) { snap.Admits, err = loader.Admits(); return err })
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// PublishRun records one publish of a snapshot.
type PublishRun struct {
	ID           string    `json:"id"`
	PublishedAt  time.Time `json:"published_at"`
	Applications int       `json:"applications"`
	GPA          int       `json:"gpa"`
	Ethnicity    int       `json:"ethnicity"`
	Admits       int       `json:"admits"`
}

// publishedAtLayout is fixed width so published_at sorts as text.
const publishedAtLayout = "2006-01-02T15:04:05.000000000Z"

// Store persists published snapshots.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewStore wraps an opened warehouse database.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger, now: time.Now}
}

// Publish replaces the published tables with snap in a single transaction.
func (s *Store) Publish(ctx context.Context, snap Snapshot) (*PublishRun, error) {
	run := &PublishRun{
		ID:           uuid.New().String(),
		PublishedAt:  s.now().UTC(),
		Applications: len(snap.Applications),
		GPA:          len(snap.GPA),
		Ethnicity:    len(snap.Ethnicity),
		Admits:       len(snap.Admits),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin publish: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"applications", "gpa_distribution", "ethnicity_distribution", "admits"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return nil, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertRows(ctx, tx, "INSERT INTO applications (fall_term, applicant_characteristic, applicants) VALUES (?, ?, ?)",
		snap.Applications, func(r domain.ApplicationRecord) []any { return []any{r.FallTerm, r.Characteristic, r.Applicants} }); err != nil {
		return nil, fmt.Errorf("insert applications: %w", err)
	}
	if err := insertRows(ctx, tx, "INSERT INTO gpa_distribution (fall_term, gpa_band, applicants) VALUES (?, ?, ?)",
		snap.GPA, func(r domain.GPARecord) []any { return []any{r.FallTerm, r.Band, r.Applicants} }); err != nil {
		return nil, fmt.Errorf("insert gpa: %w", err)
	}
	if err := insertRows(ctx, tx, "INSERT INTO ethnicity_distribution (fall_term, race_ethnicity, applicants) VALUES (?, ?, ?)",
		snap.Ethnicity, func(r domain.EthnicityRecord) []any { return []any{r.FallTerm, r.Ethnicity, r.Applicants} }); err != nil {
		return nil, fmt.Errorf("insert ethnicity: %w", err)
	}
	if err := insertRows(ctx, tx, "INSERT INTO admits (fall_term, admits) VALUES (?, ?)",
		snap.Admits, func(r domain.AdmitRecord) []any { return []any{r.FallTerm, r.Admits} }); err != nil {
		return nil, fmt.Errorf("insert admits: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO publish_runs (id, published_at, applications, gpa, ethnicity, admits) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.PublishedAt.Format(publishedAtLayout), run.Applications, run.GPA, run.Ethnicity, run.Admits); err != nil {
		return nil, fmt.Errorf("record publish run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit publish: %w", err)
	}
	s.logger.Info("snapshot published", "run_id", run.ID,
		"applications", run.Applications, "gpa", run.GPA, "ethnicity", run.Ethnicity, "admits", run.Admits)
	return run, nil
}

func insertRows[T any](ctx context.Context, tx *sql.Tx, query string, rows []T, args func(T) []any) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close() //nolint:errcheck
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, args(r)...); err != nil {
			return err
		}
	}
	return nil
}

// LatestRun returns the most recent publish, or NotFoundError when nothing
// has been published.
func (s *Store) LatestRun(ctx context.Context) (*PublishRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, published_at, applications, gpa, ethnicity, admits
		 FROM publish_runs ORDER BY published_at DESC LIMIT 1`)
	var (
		run PublishRun
		at  string
	)
	if err := row.Scan(&run.ID, &at, &run.Applications, &run.GPA, &run.Ethnicity, &run.Admits); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound("no snapshot has been published")
		}
		return nil, fmt.Errorf("latest publish run: %w", err)
	}
	t, err := time.Parse(publishedAtLayout, at)
	if err != nil {
		return nil, fmt.Errorf("parse published_at %q: %w", at, err)
	}
	run.PublishedAt = t
	return &run, nil
}

// ListPublishedTerms returns the distinct fall terms of the published
// applications table in ascending order.
func (s *Store) ListPublishedTerms(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT fall_term FROM applications ORDER BY fall_term`)
	if err != nil {
		return nil, fmt.Errorf("list published terms: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	terms := make([]int, 0)
	for rows.Next() {
		var term int
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}
