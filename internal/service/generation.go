package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jask/notefeed/internal/content"
	"github.com/jask/notefeed/internal/llm"
	"github.com/jask/notefeed/internal/logger"
)

// GenerationService performs the external call behind a capture's generation request.
type GenerationService struct {
	Provider llm.Provider
	Log      *logger.Logger
	Now      func() time.Time
}

// Run maps req onto the provider. The returned artifact is handed back to
// Capture.Resolve by the caller together with any error.
func (s *GenerationService) Run(ctx context.Context, req content.GenerationRequest) (content.Artifact, error) {
	if s.Provider == nil {
		return content.Artifact{}, fmt.Errorf("generation: %w", llm.ErrUnavailable)
	}
	log := s.logger().With("capture", req.CaptureID, "tag", string(req.Tag), "kind", string(req.Kind), "seq", req.Seq)
	start := time.Now()

	var (
		res llm.ImageResult
		err error
	)
	switch req.Kind {
	case content.GenerateImage:
		res, err = s.Provider.GenerateImage(ctx, llm.ImageRequest{Prompt: req.Inputs["prompt"], Style: req.Inputs["style"]})
	case content.GenerateImageSearch:
		res, err = s.Provider.SearchImages(ctx, llm.SearchRequest{Query: req.Inputs["query"]})
	case content.GenerateScreenshot:
		res, err = s.Provider.CaptureScreen(ctx)
	default:
		return content.Artifact{}, fmt.Errorf("generation: unsupported kind %q", req.Kind)
	}
	if err != nil {
		log.Warn("generation failed", "err", err, "elapsed", time.Since(start))
		return content.Artifact{}, fmt.Errorf("generation %s: %w", req.Kind, err)
	}
	log.Info("generation done", "elapsed", time.Since(start))

	return content.Artifact{
		Kind:         req.Kind,
		URL:          res.URL,
		Alternatives: res.Alternatives,
		At:           s.now(),
	}, nil
}

func (s *GenerationService) logger() *logger.Logger {
	if s.Log == nil {
		return logger.NewNop()
	}
	return s.Log
}

func (s *GenerationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
