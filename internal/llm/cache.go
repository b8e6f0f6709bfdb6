package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jask/notefeed/internal/database/repository"
	"github.com/jask/notefeed/internal/logger"
	"github.com/jask/notefeed/internal/quiz"
)

// ArtifactStore persists generated artifacts; *repository.ArtifactRepo satisfies it.
type ArtifactStore interface {
	Get(ctx context.Context, key string) (*repository.Artifact, error)
	Put(ctx context.Context, a repository.Artifact) error
}

var cacheNamespace = uuid.MustParse("6f1c7a52-2b0e-4b8e-9c4e-4c1f0d6e9a10")

// CachedProvider reuses earlier image search results for identical queries and
// collapses concurrent identical searches into one upstream call. Generated
// images, screen captures and quizzes always go upstream so a regenerate yields
// a fresh artifact. Cache errors are logged, never returned.
type CachedProvider struct {
	next  Provider
	store ArtifactStore
	log   *logger.Logger
	group singleflight.Group
}

func NewCachedProvider(next Provider, store ArtifactStore, log *logger.Logger) *CachedProvider {
	if log == nil {
		log = logger.NewNop()
	}
	return &CachedProvider{next: next, store: store, log: log}
}

func (c *CachedProvider) GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	return c.next.GenerateImage(ctx, req)
}

func (c *CachedProvider) SearchImages(ctx context.Context, req SearchRequest) (ImageResult, error) {
	in := SearchRequest{Query: normInput(req.Query)}
	return c.cached(ctx, "image-search", in, func(ctx context.Context) (ImageResult, error) {
		return c.next.SearchImages(ctx, req)
	})
}

func (c *CachedProvider) CaptureScreen(ctx context.Context) (ImageResult, error) {
	return c.next.CaptureScreen(ctx)
}

func (c *CachedProvider) GenerateQuiz(ctx context.Context, req QuizRequest) ([]quiz.Question, error) {
	return c.next.GenerateQuiz(ctx, req)
}

func (c *CachedProvider) cached(ctx context.Context, kind string, inputs any, call func(context.Context) (ImageResult, error)) (ImageResult, error) {
	raw, err := json.Marshal(inputs)
	if err != nil {
		return ImageResult{}, err
	}
	key := uuid.NewSHA1(cacheNamespace, []byte(kind+"\x00"+string(raw))).String()

	// the shared call outlives any single caller; each caller still honours its own ctx
	ch := c.group.DoChan(key, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		if row, err := c.store.Get(ctx, key); err != nil {
			c.log.Warn("artifact cache read failed", "kind", kind, "err", err)
		} else if row != nil && row.URL != "" {
			c.log.Debug("artifact cache hit", "kind", kind, "hits", row.Hits)
			return ImageResult{URL: row.URL, Alternatives: row.Alternatives}, nil
		}
		res, err := call(ctx)
		if err != nil {
			return ImageResult{}, err
		}
		if err := c.store.Put(ctx, repository.Artifact{
			Key:          key,
			Kind:         kind,
			Inputs:       string(raw),
			URL:          res.URL,
			Alternatives: res.Alternatives,
		}); err != nil {
			c.log.Warn("artifact cache write failed", "kind", kind, "err", err)
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return ImageResult{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return ImageResult{}, r.Err
		}
		res := r.Val.(ImageResult)
		if r.Shared {
			res.Alternatives = append([]string(nil), res.Alternatives...)
		}
		return res, nil
	}
}

func normInput(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
