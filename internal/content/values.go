package content

import (
	"strings"
)

// Values holds the field values collected by a capture.
type Values map[string]any

func (v Values) Text(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v Values) File(name string) (FileRef, bool) {
	f, ok := v[name].(FileRef)
	if !ok || f.IsZero() {
		return FileRef{}, false
	}
	return f, true
}

func (v Values) Number(name string) (float64, bool) {
	switch n := v[name].(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Payload is the tag-specific data carried by a block.
type Payload map[string]any

func (p Payload) String(key string) string {
	switch s := p[key].(type) {
	case string:
		return s
	case FileRef:
		return s.Name
	default:
		return ""
	}
}

func (p Payload) clone() Payload {
	if p == nil {
		return Payload{}
	}
	out := make(Payload, len(p))
	for k, val := range p {
		out[k] = deepCopy(val)
	}
	return out
}

// deepCopy copies the map and slice shapes a Build func can put in a payload.
// Other values (scalars, FileRef) are copied by assignment.
func deepCopy(val any) any {
	switch v := val.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = deepCopy(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = deepCopy(e)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, e := range v {
			out[k] = e
		}
		return out
	case Payload:
		return v.clone()
	case []Payload:
		out := make([]Payload, len(v))
		for i, e := range v {
			out[i] = e.clone()
		}
		return out
	default:
		return val
	}
}

// accepts reports whether value has the Go type expected for kind.
func accepts(kind FieldKind, value any) bool {
	switch kind {
	case FieldText, FieldURL, FieldChoice:
		_, ok := value.(string)
		return ok
	case FieldFile:
		_, ok := value.(FileRef)
		return ok
	case FieldNumber:
		switch value.(type) {
		case int, int64, float64:
			return true
		}
		return false
	default:
		return false
	}
}

// populated applies the submit-time presence rule for a field.
func populated(f Field, value any) bool {
	if value == nil {
		return false
	}
	switch f.Kind {
	case FieldFile:
		ref, ok := value.(FileRef)
		return ok && !ref.IsZero()
	case FieldURL, FieldText:
		s, ok := value.(string)
		return ok && strings.TrimSpace(s) != ""
	case FieldChoice:
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return false
		}
		if len(f.Choices) == 0 {
			return true
		}
		for _, c := range f.Choices {
			if c == s {
				return true
			}
		}
		return false
	case FieldNumber:
		return accepts(FieldNumber, value)
	default:
		return false
	}
}
