package content

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type ViewKind string

const (
	ViewDocument ViewKind = "document"
	ViewImage    ViewKind = "image"
	ViewVideo    ViewKind = "video"
	ViewAudio    ViewKind = "audio"
	ViewCode     ViewKind = "code"
	ViewLink     ViewKind = "link"
	ViewWidget   ViewKind = "widget"
	ViewGeneric  ViewKind = "generic"
)

type ViewField struct {
	Label string
	Value string
}

// View is the display representation of a block, consumed by a view layer.
type View struct {
	Kind     ViewKind
	Tag      Tag
	BlockID  int64
	Title    string
	Fields   []ViewField
	URL      string
	Body     string
	Language string
	Captions []string
	Grid     [][]string
}

// Dispatcher maps blocks to views by tag.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(r *Registry) *Dispatcher {
	return &Dispatcher{registry: r}
}

// Render is total: unregistered tags, tags without a renderer and renderers
// that panic all produce the generic view.
func (d *Dispatcher) Render(b Block) (v View) {
	var fn RenderFunc
	if d != nil && d.registry != nil {
		if desc, err := d.registry.Descriptor(b.Tag); err == nil {
			fn = desc.Render
		}
	}
	if fn == nil {
		return Generic(b)
	}
	defer func() {
		if r := recover(); r != nil {
			v = Generic(b)
		}
	}()
	v = fn(copyBlock(b))
	if v.Kind == "" {
		v.Kind = ViewGeneric
	}
	v.Tag = b.Tag
	v.BlockID = b.ID
	return v
}

func (d *Dispatcher) RenderAll(blocks []Block) []View {
	out := make([]View, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, d.Render(b))
	}
	return out
}

// Generic surfaces the raw payload of any block.
func Generic(b Block) View {
	body, err := json.MarshalIndent(b.Payload, "", "  ")
	text := string(body)
	if err != nil {
		text = describePayload(b.Payload)
	}
	return View{
		Kind:    ViewGeneric,
		Tag:     b.Tag,
		BlockID: b.ID,
		Title:   fmt.Sprintf("%s Content", b.Tag),
		Body:    text,
	}
}

// describePayload lists keys and value types for payloads JSON cannot encode.
func describePayload(p Payload) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := p[k].(type) {
		case string, bool, int, int64, float64:
			lines = append(lines, fmt.Sprintf("%s: %v", k, v))
		default:
			lines = append(lines, fmt.Sprintf("%s: <%T>", k, v))
		}
	}
	return strings.Join(lines, "\n")
}
