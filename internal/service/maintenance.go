package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jask/notefeed/internal/database"
	"github.com/jask/notefeed/internal/database/repository"
)

// MaintenanceService houses cache housekeeping surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// ClearCache drops every cached artifact and returns how many were removed.
func (s *MaintenanceService) ClearCache(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	var n int64
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM generated_artifacts")
		if err != nil {
			return fmt.Errorf("clear artifacts: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	}); err != nil {
		return 0, err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return n, nil
}

// PruneCache drops artifacts older than maxAge.
func (s *MaintenanceService) PruneCache(ctx context.Context, maxAge time.Duration) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	return repository.NewArtifactRepo(s.DB).PruneBefore(ctx, database.Now().Add(-maxAge))
}

// CacheSize reports the number of cached artifacts.
func (s *MaintenanceService) CacheSize(ctx context.Context) (int, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	return repository.NewArtifactRepo(s.DB).Count(ctx)
}
