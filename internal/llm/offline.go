package llm

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jask/notefeed/internal/quiz"
)

// Stock images served by the offline provider.
const (
	stockDiagram    = "https://images.pexels.com/photos/1181671/pexels-photo-1181671.jpeg?auto=compress&cs=tinysrgb&w=800"
	stockScreenshot = "https://images.pexels.com/photos/1181244/pexels-photo-1181244.jpeg?auto=compress&cs=tinysrgb&w=800"
)

var stockSearch = []string{
	"https://images.pexels.com/photos/1181671/pexels-photo-1181671.jpeg?auto=compress&cs=tinysrgb&w=400",
	"https://images.pexels.com/photos/574071/pexels-photo-574071.jpeg?auto=compress&cs=tinysrgb&w=400",
	"https://images.pexels.com/photos/1181244/pexels-photo-1181244.jpeg?auto=compress&cs=tinysrgb&w=400",
	"https://images.pexels.com/photos/1181263/pexels-photo-1181263.jpeg?auto=compress&cs=tinysrgb&w=400",
}

// OfflineProvider answers every request locally after a simulated delay.
// A non-zero failure rate makes a fraction of calls fail with ErrUnavailable.
type OfflineProvider struct {
	latency     time.Duration
	failureRate float64
	bank        Bank
	roll        func() float64
}

type OfflineOption func(*OfflineProvider)

func WithLatency(d time.Duration) OfflineOption {
	return func(p *OfflineProvider) { p.latency = d }
}

func WithFailureRate(rate float64) OfflineOption {
	return func(p *OfflineProvider) { p.failureRate = rate }
}

func WithBank(b Bank) OfflineOption {
	return func(p *OfflineProvider) { p.bank = b }
}

// WithRoll replaces the random source used for failure injection.
func WithRoll(roll func() float64) OfflineOption {
	return func(p *OfflineProvider) { p.roll = roll }
}

func NewOfflineProvider(opts ...OfflineOption) *OfflineProvider {
	p := &OfflineProvider{roll: rand.Float64}
	for _, opt := range opts {
		opt(p)
	}
	if p.bank.Topics == nil {
		p.bank = DefaultBank()
	}
	return p
}

func (p *OfflineProvider) GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	if err := p.wait(ctx, "generate image"); err != nil {
		return ImageResult{}, err
	}
	return ImageResult{URL: stockDiagram}, nil
}

func (p *OfflineProvider) SearchImages(ctx context.Context, req SearchRequest) (ImageResult, error) {
	if err := p.wait(ctx, "search images"); err != nil {
		return ImageResult{}, err
	}
	alts := append([]string(nil), stockSearch...)
	return ImageResult{URL: alts[0], Alternatives: alts}, nil
}

func (p *OfflineProvider) CaptureScreen(ctx context.Context) (ImageResult, error) {
	if err := p.wait(ctx, "capture screen"); err != nil {
		return ImageResult{}, err
	}
	return ImageResult{URL: stockScreenshot}, nil
}

func (p *OfflineProvider) GenerateQuiz(ctx context.Context, req QuizRequest) ([]quiz.Question, error) {
	if err := p.wait(ctx, "generate quiz"); err != nil {
		return nil, err
	}
	return p.bank.Pick(req.Topic, req.Count)
}

func (p *OfflineProvider) wait(ctx context.Context, op string) error {
	if p.latency > 0 {
		t := time.NewTimer(p.latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	if p.failureRate > 0 && p.roll() < p.failureRate {
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	}
	return nil
}
