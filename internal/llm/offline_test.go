package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestOfflineProviderResults(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	ctx := context.Background()
	p := NewOfflineProvider()

	img, err := p.GenerateImage(ctx, ImageRequest{Prompt: "water cycle", Style: "diagram"})
	require.NoError(t, err)
	require.Equal(t, stockDiagram, img.URL)

	search, err := p.SearchImages(ctx, SearchRequest{Query: "photosynthesis"})
	require.NoError(t, err)
	require.Len(t, search.Alternatives, 4)
	require.Equal(t, search.Alternatives[0], search.URL)

	shot, err := p.CaptureScreen(ctx)
	require.NoError(t, err)
	require.Equal(t, stockScreenshot, shot.URL)

	qs, err := p.GenerateQuiz(ctx, QuizRequest{Topic: "Python", Count: 3})
	require.NoError(t, err)
	require.Len(t, qs, 3)
	require.Equal(t, "What is the correct way to define a function in Python?", qs[0].Prompt)
	require.Equal(t, 1, qs[0].CorrectIndex)
}

func TestOfflineProviderHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	p := NewOfflineProvider(WithLatency(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.GenerateImage(ctx, ImageRequest{Prompt: "x"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Minute)
}

func TestOfflineProviderFailureRate(t *testing.T) {
	rolls := []float64{0.1, 0.9}
	p := NewOfflineProvider(WithFailureRate(0.5), WithRoll(func() float64 {
		r := rolls[0]
		rolls = rolls[1:]
		return r
	}))

	_, err := p.SearchImages(context.Background(), SearchRequest{Query: "atoms"})
	require.ErrorIs(t, err, ErrUnavailable)

	res, err := p.SearchImages(context.Background(), SearchRequest{Query: "atoms"})
	require.NoError(t, err)
	require.NotEmpty(t, res.URL)
}

func TestBankPick(t *testing.T) {
	b := DefaultBank()

	all, err := b.Pick("  GO ", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	two, err := b.Pick("python", 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	two[0].Options[0] = "mutated"
	again, _ := b.Pick("python", 2)
	require.NotEqual(t, "mutated", again[0].Options[0])

	_, err = b.Pick("astrophysics", 3)
	require.True(t, errors.Is(err, ErrNoQuestions))
}

func TestParseBankRejectsInvalidQuestions(t *testing.T) {
	_, err := ParseBank([]byte(`
topics:
  bad:
    - id: 1
      prompt: "Only one option?"
      options: [yes]
      correct_index: 0
`))
	require.Error(t, err)

	_, err = ParseBank([]byte("topics: [not, a, map]"))
	require.Error(t, err)
}

func TestLoadBankFromFile(t *testing.T) {
	_, err := LoadBank(t.TempDir() + "/missing.yaml")
	require.Error(t, err)
}
