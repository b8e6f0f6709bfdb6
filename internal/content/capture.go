package content

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type CaptureState int

const (
	Collecting CaptureState = iota
	Pending
	Ready
	Committed
	Abandoned
)

func (s CaptureState) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Committed:
		return "committed"
	case Abandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("CaptureState(%d)", int(s))
	}
}

func (s CaptureState) Terminal() bool { return s == Committed || s == Abandoned }

// GenerationRequest is handed to the caller by RunGeneration. The caller runs
// the external step and reports back through Capture.Resolve.
type GenerationRequest struct {
	CaptureID string
	Seq       uint64
	Tag       Tag
	Kind      GenerationKind
	Inputs    map[string]string
}

// Capture is one run of a content type's capture flow. It is not safe for
// concurrent use; results of async work are delivered through Resolve.
type Capture struct {
	id       string
	desc     Descriptor
	store    *Store
	values   Values
	phase    CaptureState // Collecting, Pending or a terminal state; Ready is derived
	seq      uint64
	inFlight bool
	artifact *Artifact
	err      error
}

func newCapture(d Descriptor, store *Store) *Capture {
	c := &Capture{
		id:     uuid.NewString(),
		desc:   d,
		store:  store,
		values: make(Values, len(d.Fields)),
		phase:  Collecting,
	}
	for _, f := range d.Fields {
		if f.Default != nil {
			c.values[f.Name] = f.Default
		}
	}
	return c
}

func (c *Capture) ID() string             { return c.id }
func (c *Capture) Tag() Tag               { return c.desc.Tag }
func (c *Capture) Descriptor() Descriptor { return c.desc }
func (c *Capture) Values() Values         { return c.values.clone() }

// Err returns the last generation failure, cleared by a later success.
func (c *Capture) Err() error { return c.err }

// InFlight reports whether a generation request is awaiting its result.
func (c *Capture) InFlight() bool { return c.inFlight }

func (c *Capture) Artifact() (Artifact, bool) {
	if c.artifact == nil {
		return Artifact{}, false
	}
	return *c.artifact, true
}

func (c *Capture) State() CaptureState {
	switch c.phase {
	case Committed, Abandoned, Pending:
		return c.phase
	}
	if len(c.missing()) == 0 {
		return Ready
	}
	return Collecting
}

// Missing lists what still blocks submission.
func (c *Capture) Missing() []string { return c.missing() }

func (c *Capture) missing() []string {
	var out []string
	for _, f := range c.desc.Fields {
		if f.Required && !populated(f, c.values[f.Name]) {
			out = append(out, f.Name)
		}
	}
	if c.desc.Generative() && c.artifact == nil {
		out = append(out, "artifact")
	}
	return out
}

// SetField stores a field value. Presence is only checked at submission.
func (c *Capture) SetField(name string, value any) error {
	if c.phase.Terminal() {
		return ErrCaptureClosed
	}
	f, ok := c.desc.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, c.desc.Tag, name)
	}
	if value == nil {
		delete(c.values, name)
		return nil
	}
	if !accepts(f.Kind, value) {
		return fmt.Errorf("%w: %s.%s wants %s, got %T", ErrFieldType, c.desc.Tag, name, f.Kind, value)
	}
	c.values[name] = value
	return nil
}

// RunGeneration starts (or restarts) the external step. Any earlier request
// becomes stale and its result will be ignored.
func (c *Capture) RunGeneration() (GenerationRequest, error) {
	if c.phase.Terminal() {
		return GenerationRequest{}, ErrCaptureClosed
	}
	if !c.desc.Generative() {
		return GenerationRequest{}, fmt.Errorf("%w: %s", ErrNotGenerative, c.desc.Tag)
	}
	var missing []string
	inputs := make(map[string]string, len(c.desc.Capture.Inputs))
	for _, name := range c.desc.Capture.Inputs {
		f, _ := c.desc.Field(name)
		if !populated(f, c.values[name]) {
			missing = append(missing, name)
			continue
		}
		inputs[name] = strings.TrimSpace(fmt.Sprint(c.values[name]))
	}
	if len(missing) > 0 {
		return GenerationRequest{}, &ValidationError{Tag: c.desc.Tag, Missing: missing}
	}
	c.seq++
	c.inFlight = true
	c.artifact = nil
	c.phase = Pending
	return GenerationRequest{
		CaptureID: c.id,
		Seq:       c.seq,
		Tag:       c.desc.Tag,
		Kind:      c.desc.Capture.Generation,
		Inputs:    inputs,
	}, nil
}

// Resolve delivers the completion of req. It returns false when the result was
// ignored: the capture is finished, or req is not the latest request.
// A failure leaves the capture Pending so generation can be retried.
func (c *Capture) Resolve(req GenerationRequest, art Artifact, err error) bool {
	if c.phase.Terminal() || !c.inFlight {
		return false
	}
	if req.CaptureID != c.id || req.Seq != c.seq {
		return false
	}
	c.inFlight = false
	if err == nil && strings.TrimSpace(art.URL) == "" {
		err = errEmptyArtifact
	}
	if err != nil {
		c.err = &GenerationFailure{Kind: req.Kind, Err: err}
		return true
	}
	art.Kind = req.Kind
	art.Alternatives = append([]string(nil), art.Alternatives...)
	if art.At.IsZero() {
		art.At = c.store.now()
	}
	c.artifact = &art
	c.err = nil
	c.phase = Collecting
	return true
}

// Submit validates the capture and appends exactly one block to the store.
func (c *Capture) Submit() (Block, error) {
	if c.phase.Terminal() {
		return Block{}, ErrCaptureClosed
	}
	if missing := c.missing(); len(missing) > 0 {
		return Block{}, &ValidationError{Tag: c.desc.Tag, Missing: missing}
	}
	var art *Artifact
	if c.artifact != nil {
		a := *c.artifact
		art = &a
	}
	payload := c.desc.Capture.Build(c.values.clone(), art)
	b := c.store.Append(c.desc.Tag, payload)
	c.phase = Committed
	return b, nil
}

// Cancel abandons the capture. Results arriving later are ignored.
func (c *Capture) Cancel() {
	if c.phase.Terminal() {
		return
	}
	c.inFlight = false
	c.phase = Abandoned
}
