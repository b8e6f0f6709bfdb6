package content

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
)

// Tag selects which content-type rules apply to a block.
type Tag string

type FieldKind int

const (
	FieldText FieldKind = iota
	FieldURL
	FieldFile
	FieldChoice
	FieldNumber
)

func (k FieldKind) String() string {
	switch k {
	case FieldText:
		return "text"
	case FieldURL:
		return "url"
	case FieldFile:
		return "file"
	case FieldChoice:
		return "choice"
	case FieldNumber:
		return "number"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Field is one named input of a capture flow.
type Field struct {
	Name      string
	Label     string
	Kind      FieldKind
	Required  bool
	Default   any
	Choices   []string
	Multiline bool // FieldText whose value may span lines
}

// FileRef is the opaque reference a file chooser hands back.
type FileRef struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
	MIME string `json:"mime,omitempty"`
	Size int64  `json:"size,omitempty"`
}

func (f FileRef) IsZero() bool {
	return strings.TrimSpace(f.Name) == "" && strings.TrimSpace(f.Path) == ""
}

// GenerationKind names the external step a capture waits on. Empty means none.
type GenerationKind string

const (
	GenerateNone        GenerationKind = ""
	GenerateImage       GenerationKind = "image"
	GenerateImageSearch GenerationKind = "image-search"
	GenerateScreenshot  GenerationKind = "screenshot"
)

// Artifact is the result of a completed generation step.
type Artifact struct {
	Kind         GenerationKind
	URL          string
	Alternatives []string
	At           time.Time
}

func (a Artifact) has(url string) bool {
	if url == a.URL {
		return true
	}
	for _, alt := range a.Alternatives {
		if alt == url {
			return true
		}
	}
	return false
}

// BuildFunc assembles the payload of a finished capture. art is nil for tags
// without a generation step.
type BuildFunc func(v Values, art *Artifact) Payload

// RenderFunc maps a stored block to its display representation.
type RenderFunc func(b Block) View

// CaptureSpec describes the capture-flow variant of a content type.
type CaptureSpec struct {
	Generation GenerationKind
	// Inputs lists the fields that must be populated before generation runs.
	Inputs []string
	Build  BuildFunc
}

// Descriptor is one registered content type.
type Descriptor struct {
	Tag         Tag
	Name        string
	Description string
	Category    string
	Fields      []Field
	Capture     CaptureSpec
	Render      RenderFunc
}

func (d Descriptor) Generative() bool { return d.Capture.Generation != GenerateNone }

func (d Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (d Descriptor) validate() error {
	if strings.TrimSpace(string(d.Tag)) == "" {
		return fmt.Errorf("%w: empty tag", ErrInvalidDescriptor)
	}
	if d.Capture.Build == nil {
		return fmt.Errorf("%w: %s: nil build", ErrInvalidDescriptor, d.Tag)
	}
	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("%w: %s: unnamed field", ErrInvalidDescriptor, d.Tag)
		}
		if seen[name] {
			return fmt.Errorf("%w: %s: duplicate field %q", ErrInvalidDescriptor, d.Tag, name)
		}
		seen[name] = true
	}
	for _, in := range d.Capture.Inputs {
		if !seen[in] {
			return fmt.Errorf("%w: %s: generation input %q is not a field", ErrInvalidDescriptor, d.Tag, in)
		}
	}
	return nil
}

// Registry maps tags to descriptors. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byTag map[Tag]Descriptor
	order []Tag
}

func NewRegistry() *Registry {
	return &Registry{byTag: make(map[Tag]Descriptor)}
}

// NewDefaultRegistry returns a registry holding every built-in content type.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range Builtins() {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byTag[d.Tag]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTag, string(d.Tag))
	}
	d.Fields = append([]Field(nil), d.Fields...)
	r.byTag[d.Tag] = d
	r.order = append(r.order, d.Tag)
	return nil
}

func (r *Registry) Descriptor(tag Tag) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byTag[tag]
	if !ok {
		return Descriptor{}, unknownTag(tag)
	}
	return d, nil
}

func (r *Registry) Has(tag Tag) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byTag[tag]
	return ok
}

func (r *Registry) Tags() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Tag(nil), r.order...)
}

func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.byTag[t])
	}
	return out
}

// Suggest returns the registered tag closest to tag, for "did you mean" hints.
// Nothing is suggested when the best candidate differs in more than half its length.
func (r *Registry) Suggest(tag Tag) (Tag, bool) {
	needle := strings.ToLower(strings.TrimSpace(string(tag)))
	if needle == "" {
		return "", false
	}
	type candidate struct {
		tag  Tag
		dist int
	}
	r.mu.RLock()
	cands := make([]candidate, 0, len(r.order))
	for _, t := range r.order {
		cands = append(cands, candidate{tag: t, dist: levenshtein.ComputeDistance(needle, string(t))})
	}
	r.mu.RUnlock()
	if len(cands) == 0 {
		return "", false
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	best := cands[0]
	limit := len(best.tag) / 2
	if limit < 1 {
		limit = 1
	}
	if best.dist > limit {
		return "", false
	}
	return best.tag, true
}

// BeginCapture starts a capture flow for tag.
func (r *Registry) BeginCapture(tag Tag, store *Store) (*Capture, error) {
	if store == nil {
		return nil, errNilStore
	}
	d, err := r.Descriptor(tag)
	if err != nil {
		return nil, err
	}
	return newCapture(d, store), nil
}
