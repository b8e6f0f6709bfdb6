package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jask/notefeed/internal/quiz"
)

var ErrOpenAINoAPIKey = fmt.Errorf("openai: api key not configured")

// OpenAIProvider generates images with DALL-E and quizzes with chat completions.
// Image search and screen capture have no OpenAI equivalent and go to fallback.
type OpenAIProvider struct {
	apiKey     string
	model      string
	imageModel string
	timeout    time.Duration
	fallback   Provider
	client     *openai.Client
}

// NewOpenAIProvider builds the client up front; with an empty apiKey every
// OpenAI-backed call fails with ErrOpenAINoAPIKey.
func NewOpenAIProvider(apiKey, model, imageModel string, fallback Provider, opts ...option.RequestOption) *OpenAIProvider {
	p := &OpenAIProvider{
		apiKey:     strings.TrimSpace(apiKey),
		model:      strings.TrimSpace(model),
		imageModel: strings.TrimSpace(imageModel),
		timeout:    60 * time.Second,
		fallback:   fallback,
	}
	if p.apiKey != "" {
		c := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(p.apiKey)}, opts...)...)
		p.client = &c
	}
	return p
}

// SetTimeout bounds each request; zero keeps the default.
func (p *OpenAIProvider) SetTimeout(d time.Duration) {
	if d > 0 {
		p.timeout = d
	}
}

func (p *OpenAIProvider) ensureClient() error {
	if p.client == nil {
		return ErrOpenAINoAPIKey
	}
	return nil
}

func (p *OpenAIProvider) GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	if err := p.ensureClient(); err != nil {
		return ImageResult{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	model := p.imageModel
	if model == "" {
		model = string(openai.ImageModelDallE3)
	}
	prompt := req.Prompt
	if s := strings.TrimSpace(req.Style); s != "" {
		prompt = fmt.Sprintf("A clean educational %s. %s", s, req.Prompt)
	}
	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	if err != nil {
		return ImageResult{}, fmt.Errorf("openai: generate image: %w", err)
	}
	if len(resp.Data) == 0 || strings.TrimSpace(resp.Data[0].URL) == "" {
		return ImageResult{}, fmt.Errorf("openai: empty image response")
	}
	return ImageResult{URL: resp.Data[0].URL}, nil
}

func (p *OpenAIProvider) SearchImages(ctx context.Context, req SearchRequest) (ImageResult, error) {
	if p.fallback == nil {
		return ImageResult{}, fmt.Errorf("search images: %w", ErrUnavailable)
	}
	return p.fallback.SearchImages(ctx, req)
}

func (p *OpenAIProvider) CaptureScreen(ctx context.Context) (ImageResult, error) {
	if p.fallback == nil {
		return ImageResult{}, fmt.Errorf("capture screen: %w", ErrUnavailable)
	}
	return p.fallback.CaptureScreen(ctx)
}

func (p *OpenAIProvider) GenerateQuiz(ctx context.Context, req QuizRequest) ([]quiz.Question, error) {
	if err := p.ensureClient(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	count := req.Count
	if count <= 0 {
		count = 3
	}
	system := "You write multiple-choice study quizzes. Return ONLY valid JSON with key questions: an array of objects with keys prompt (string), options (array of 4 strings), correct_index (0-based integer), explanation (string)."
	user := fmt.Sprintf("Topic: %s\nNumber of questions: %d", req.Topic, count)
	text, err := p.chat(ctx, system, user)
	if err != nil {
		return nil, err
	}
	qs, err := decodeQuestions(text)
	if err != nil {
		return nil, fmt.Errorf("openai: parse quiz: %w", err)
	}
	if len(qs) > count {
		qs = qs[:count]
	}
	return qs, nil
}

func (p *OpenAIProvider) chat(ctx context.Context, system, user string) (string, error) {
	model := p.model
	if model == "" {
		model = "gpt-4o-mini"
	}
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// decodeQuestions accepts a bare JSON object, optionally wrapped in a markdown fence.
func decodeQuestions(text string) ([]quiz.Question, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	var out struct {
		Questions []quiz.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, err
	}
	for i := range out.Questions {
		out.Questions[i].ID = i + 1
	}
	if err := quiz.ValidateSet(out.Questions); err != nil {
		return nil, err
	}
	return out.Questions, nil
}
