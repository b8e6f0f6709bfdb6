package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/notefeed/internal/content"
	"github.com/jask/notefeed/internal/database"
	"github.com/jask/notefeed/internal/database/repository"
	"github.com/jask/notefeed/internal/llm"
	"github.com/jask/notefeed/internal/quiz"
)

var fixed = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func TestGenerationServiceCompletesImageCapture(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	nb := content.NewNotebook(nil)
	svc := &GenerationService{Provider: llm.NewOfflineProvider(), Now: func() time.Time { return fixed }}

	c, err := nb.BeginCapture(content.TagImageAI)
	require.NoError(t, err)
	require.NoError(t, c.SetField("prompt", "the water cycle"))

	req, err := c.RunGeneration()
	require.NoError(t, err)
	require.Equal(t, content.Pending, c.State())

	art, err := svc.Run(ctx, req)
	require.NoError(t, err)
	require.Equal(t, fixed, art.At)
	require.True(t, c.Resolve(req, art, nil))
	require.Equal(t, content.Ready, c.State())

	b, err := c.Submit()
	require.NoError(t, err)
	require.Equal(t, "AI Generated", b.Payload["source"])
	require.Equal(t, "diagram", b.Payload["style"])
	require.Equal(t, 1, nb.Store.Len())
}

func TestGenerationServiceSearchAlternatives(t *testing.T) {
	t.Parallel()
	nb := content.NewNotebook(nil)
	svc := &GenerationService{Provider: llm.NewOfflineProvider()}

	c, err := nb.BeginCapture(content.TagImageSearch)
	require.NoError(t, err)
	require.NoError(t, c.SetField("query", "mitochondria"))
	req, err := c.RunGeneration()
	require.NoError(t, err)

	art, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, art.Alternatives, 4)
	require.Equal(t, content.GenerateImageSearch, art.Kind)
}

func TestGenerationServiceFailureAllowsRetry(t *testing.T) {
	t.Parallel()
	nb := content.NewNotebook(nil)
	fail := true
	p := llm.NewOfflineProvider(llm.WithFailureRate(1), llm.WithRoll(func() float64 {
		if fail {
			return 0
		}
		return 1
	}))
	svc := &GenerationService{Provider: p}

	c, err := nb.BeginCapture(content.TagScreenshot)
	require.NoError(t, err)
	req, err := c.RunGeneration()
	require.NoError(t, err)

	art, err := svc.Run(context.Background(), req)
	require.ErrorIs(t, err, llm.ErrUnavailable)
	c.Resolve(req, art, err)
	require.Equal(t, content.Pending, c.State())
	require.Error(t, c.Err())

	fail = false
	req, err = c.RunGeneration()
	require.NoError(t, err)
	art, err = svc.Run(context.Background(), req)
	require.NoError(t, err)
	require.True(t, c.Resolve(req, art, nil))
	_, err = c.Submit()
	require.NoError(t, err)
}

func TestGenerationServiceRejectsUnknownKind(t *testing.T) {
	t.Parallel()
	svc := &GenerationService{Provider: llm.NewOfflineProvider()}
	_, err := svc.Run(context.Background(), content.GenerationRequest{Kind: "hologram"})
	require.Error(t, err)

	_, err = (&GenerationService{}).Run(context.Background(), content.GenerationRequest{Kind: content.GenerateImage})
	require.ErrorIs(t, err, llm.ErrUnavailable)
}

func TestQuizServiceFeedsEngine(t *testing.T) {
	t.Parallel()
	svc := &QuizService{Provider: llm.NewOfflineProvider(), Topic: "Python", Count: 3}
	e := quiz.NewEngine()

	ticket, ok := e.Generate()
	require.True(t, ok)
	qs, err := svc.Questions(context.Background())
	require.NoError(t, err)
	require.True(t, e.Deliver(ticket, qs, nil))
	require.Equal(t, quiz.InProgress, e.Phase())
	require.Equal(t, 3, e.Snapshot().Total)
}

func TestQuizServiceUnknownTopic(t *testing.T) {
	t.Parallel()
	svc := &QuizService{Provider: llm.NewOfflineProvider(), Topic: "Underwater Basketry", Count: 3}
	_, err := svc.Questions(context.Background())
	require.ErrorIs(t, err, llm.ErrNoQuestions)
}

func TestMaintenanceCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewArtifactRepo(db)
	require.NoError(t, repo.Put(ctx, repository.Artifact{Key: "a", Kind: "image", Inputs: "{}", URL: "u1", CreatedAt: database.Now().Add(-72 * time.Hour)}))
	require.NoError(t, repo.Put(ctx, repository.Artifact{Key: "b", Kind: "image", Inputs: "{}", URL: "u2"}))

	svc := &MaintenanceService{DB: db}
	n, err := svc.CacheSize(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	pruned, err := svc.PruneCache(ctx, 24*time.Hour)
	require.NoError(t, err)
	require.EqualValues(t, 1, pruned)

	cleared, err := svc.ClearCache(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, cleared)

	_, err = (&MaintenanceService{}).ClearCache(ctx)
	require.Error(t, err)
}
