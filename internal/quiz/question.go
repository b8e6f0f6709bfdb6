package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidQuestion = errors.New("quiz: invalid question")

// Question is one multiple-choice item. Options are shown in order.
type Question struct {
	ID           int      `json:"id" yaml:"id"`
	Prompt       string   `json:"prompt" yaml:"prompt"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correct_index" yaml:"correct_index"`
	Explanation  string   `json:"explanation" yaml:"explanation"`
}

func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: question %d has no prompt", ErrInvalidQuestion, q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %d needs at least 2 options, has %d", ErrInvalidQuestion, q.ID, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: question %d correct index %d out of range", ErrInvalidQuestion, q.ID, q.CorrectIndex)
	}
	return nil
}

// ValidateSet checks a question set for one quiz instance.
func ValidateSet(qs []Question) error {
	if len(qs) == 0 {
		return fmt.Errorf("%w: empty question set", ErrInvalidQuestion)
	}
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func cloneQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
