package app

import (
	"context"
	"errors"
	"fmt"

	"admissions-explorer/internal/warehouse"
)

// PublishResult reports where a snapshot was written.
type PublishResult struct {
	Run   *warehouse.PublishRun `json:"run"`
	Files []string              `json:"files"`
}

// Publish loads and cleans every export, stages the cleaned CSV files,
// replaces the warehouse tables, then moves the staged files into place.
// Nothing is written if any export fails to clean, and the staged files are
// dropped if the warehouse transaction fails.
func (a *App) Publish(ctx context.Context) (*PublishResult, error) {
	if a.Store == nil {
		return nil, errors.New("warehouse is not open")
	}
	snap, err := warehouse.LoadSnapshot(ctx, a.Loader)
	if err != nil {
		return nil, err
	}
	staged, err := warehouse.StageCleanedDir(a.Cfg.CleanedDataDir, snap)
	if err != nil {
		return nil, fmt.Errorf("write cleaned data: %w", err)
	}
	run, err := a.Store.Publish(ctx, snap)
	if err != nil {
		if derr := staged.Discard(); derr != nil {
			a.Logger.Warn("discard staged cleaned data", "error", derr)
		}
		return nil, err
	}
	files, err := staged.Commit()
	if err != nil {
		return nil, fmt.Errorf("move cleaned data into place: %w", err)
	}
	a.Logger.Info("cleaned data written", "dir", a.Cfg.CleanedDataDir, "files", len(files))
	return &PublishResult{Run: run, Files: files}, nil
}
