package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Artifact is a cached result of the external generation service.
type Artifact struct {
	Key          string
	Kind         string
	Inputs       string
	URL          string
	Alternatives []string
	Hits         int
	CreatedAt    time.Time
}

// ArtifactRepo handles generated_artifacts.
type ArtifactRepo struct {
	db *sql.DB
}

func NewArtifactRepo(db *sql.DB) *ArtifactRepo { return &ArtifactRepo{db: db} }

// Get returns the artifact for key, or nil when absent. A hit bumps the counter.
func (r *ArtifactRepo) Get(ctx context.Context, key string) (*Artifact, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT key, kind, inputs, url, alternatives, hits, created_at
	FROM generated_artifacts WHERE key = ?`, key)
	var (
		a    Artifact
		alts string
	)
	if err := row.Scan(&a.Key, &a.Kind, &a.Inputs, &a.URL, &alts, &a.Hits, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(alts), &a.Alternatives); err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE generated_artifacts SET hits = hits + 1 WHERE key = ?`, key); err != nil {
		return nil, err
	}
	a.Hits++
	return &a, nil
}

func (r *ArtifactRepo) Put(ctx context.Context, a Artifact) error {
	alts := a.Alternatives
	if alts == nil {
		alts = []string{}
	}
	raw, err := json.Marshal(alts)
	if err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO generated_artifacts(key, kind, inputs, url, alternatives, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET url=excluded.url, alternatives=excluded.alternatives, created_at=excluded.created_at;
	`, a.Key, a.Kind, a.Inputs, a.URL, string(raw), a.CreatedAt)
	return err
}

func (r *ArtifactRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generated_artifacts`).Scan(&n)
	return n, err
}

// PruneBefore deletes artifacts created before cutoff and returns how many went.
func (r *ArtifactRepo) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM generated_artifacts WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
