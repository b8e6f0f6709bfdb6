package service

import (
	"context"
	"fmt"

	"github.com/jask/notefeed/internal/llm"
	"github.com/jask/notefeed/internal/logger"
	"github.com/jask/notefeed/internal/quiz"
)

// QuizService asks the provider for a question set on the configured topic.
type QuizService struct {
	Provider llm.Provider
	Log      *logger.Logger
	Topic    string
	Count    int
}

func (s *QuizService) Questions(ctx context.Context) ([]quiz.Question, error) {
	if s.Provider == nil {
		return nil, fmt.Errorf("quiz: %w", llm.ErrUnavailable)
	}
	log := s.Log
	if log == nil {
		log = logger.NewNop()
	}
	qs, err := s.Provider.GenerateQuiz(ctx, llm.QuizRequest{Topic: s.Topic, Count: s.Count})
	if err != nil {
		log.Warn("quiz generation failed", "topic", s.Topic, "err", err)
		return nil, fmt.Errorf("quiz %q: %w", s.Topic, err)
	}
	if err := quiz.ValidateSet(qs); err != nil {
		log.Warn("quiz generation returned invalid set", "topic", s.Topic, "err", err)
		return nil, fmt.Errorf("quiz %q: %w", s.Topic, err)
	}
	log.Info("quiz generated", "topic", s.Topic, "questions", len(qs))
	return qs, nil
}
