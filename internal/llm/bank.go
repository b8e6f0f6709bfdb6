package llm

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jask/notefeed/internal/quiz"
)

//go:embed bankdata/questions.yaml
var defaultBankYAML []byte

// ErrNoQuestions is returned when a bank has nothing for the requested topic.
var ErrNoQuestions = errors.New("llm: no questions for topic")

// Bank is a set of canned questions grouped by topic.
type Bank struct {
	Topics map[string][]quiz.Question `yaml:"topics"`
}

// DefaultBank returns the question bank compiled into the binary.
func DefaultBank() Bank {
	b, err := ParseBank(defaultBankYAML)
	if err != nil {
		panic(fmt.Sprintf("llm: embedded question bank: %v", err))
	}
	return b
}

// LoadBank reads a YAML bank from path.
func LoadBank(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("read question bank: %w", err)
	}
	b, err := ParseBank(data)
	if err != nil {
		return Bank{}, fmt.Errorf("question bank %s: %w", path, err)
	}
	return b, nil
}

// ParseBank decodes YAML and validates every question. Topic keys are case-insensitive.
func ParseBank(data []byte) (Bank, error) {
	var raw Bank
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Bank{}, err
	}
	out := Bank{Topics: make(map[string][]quiz.Question, len(raw.Topics))}
	for topic, qs := range raw.Topics {
		if err := quiz.ValidateSet(qs); err != nil {
			return Bank{}, fmt.Errorf("topic %q: %w", topic, err)
		}
		out.Topics[normTopic(topic)] = qs
	}
	return out, nil
}

// Pick returns up to count questions for topic; count <= 0 means all of them.
func (b Bank) Pick(topic string, count int) ([]quiz.Question, error) {
	qs, ok := b.Topics[normTopic(topic)]
	if !ok || len(qs) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoQuestions, topic)
	}
	if count > 0 && count < len(qs) {
		qs = qs[:count]
	}
	out := make([]quiz.Question, len(qs))
	for i, q := range qs {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out, nil
}

func normTopic(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
