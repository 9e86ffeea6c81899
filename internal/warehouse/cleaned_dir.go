package warehouse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/export"
)

// CleanedDir is a cleaned CSV set written to a staging directory inside its
// destination. Commit moves the files into place; Discard drops them.
type CleanedDir struct {
	dir     string
	staging string
}

// StageCleanedDir writes every snapshot table as a comma-separated file into
// a fresh staging directory under dir. Nothing in dir itself changes until
// Commit.
func StageCleanedDir(dir string, snap Snapshot) (*CleanedDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cleaned dir: %w", err)
	}
	staging, err := os.MkdirTemp(dir, ".staging-*")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	tables := snap.Tables()
	for _, d := range domain.Datasets {
		if err := writeFile(filepath.Join(staging, export.Filename(d)), tables[d]); err != nil {
			_ = os.RemoveAll(staging)
			return nil, fmt.Errorf("write %s: %w", d, err)
		}
	}
	return &CleanedDir{dir: dir, staging: staging}, nil
}

// Commit renames the staged files into the destination and returns their
// paths in dataset display order.
func (c *CleanedDir) Commit() ([]string, error) {
	paths := make([]string, 0, len(domain.Datasets))
	for _, d := range domain.Datasets {
		name := export.Filename(d)
		dst := filepath.Join(c.dir, name)
		if err := os.Rename(filepath.Join(c.staging, name), dst); err != nil {
			return paths, fmt.Errorf("move %s into place: %w", name, err)
		}
		paths = append(paths, dst)
	}
	return paths, os.RemoveAll(c.staging)
}

// Discard removes the staged files.
func (c *CleanedDir) Discard() error {
	return os.RemoveAll(c.staging)
}

func writeFile(path string, t domain.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(f, t); err != nil {
		return errors.Join(err, f.Close())
	}
	return f.Close()
}
