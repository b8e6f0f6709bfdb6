package llm

import (
	"context"
	"errors"

	"github.com/jask/notefeed/internal/quiz"
)

// Provider is the external generation service used by captures and the quiz.
type Provider interface {
	GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error)
	SearchImages(ctx context.Context, req SearchRequest) (ImageResult, error)
	CaptureScreen(ctx context.Context) (ImageResult, error)
	GenerateQuiz(ctx context.Context, req QuizRequest) ([]quiz.Question, error)
}

// ErrUnavailable is returned when the service cannot answer right now.
var ErrUnavailable = errors.New("llm: service unavailable")

type ImageRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

// ImageResult carries the primary URL and, for searches, every result.
type ImageResult struct {
	URL          string   `json:"url"`
	Alternatives []string `json:"alternatives,omitempty"`
}

type QuizRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}
