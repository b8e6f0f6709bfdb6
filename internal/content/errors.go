package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTag        = errors.New("content: unknown tag")
	ErrDuplicateTag      = errors.New("content: duplicate tag")
	ErrInvalidDescriptor = errors.New("content: invalid descriptor")
	ErrUnknownField      = errors.New("content: unknown field")
	ErrFieldType         = errors.New("content: wrong value type for field")
	ErrNotGenerative     = errors.New("content: tag has no generation step")
	ErrCaptureClosed     = errors.New("content: capture already finished")

	errNilStore      = errors.New("content: capture needs a store")
	errEmptyArtifact = errors.New("empty artifact")
)

// ValidationError reports a submission attempted with required fields missing.
// The capture stays where it was.
type ValidationError struct {
	Tag     Tag
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content: %s: missing %s", e.Tag, strings.Join(e.Missing, ", "))
}

// GenerationFailure wraps an error reported by the external generation service.
type GenerationFailure struct {
	Kind GenerationKind
	Err  error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("content: %s generation failed: %v", e.Kind, e.Err)
}

func (e *GenerationFailure) Unwrap() error { return e.Err }

func unknownTag(tag Tag) error {
	return fmt.Errorf("%w: %q", ErrUnknownTag, string(tag))
}
