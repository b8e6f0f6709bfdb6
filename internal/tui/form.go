package tui

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/notefeed/internal/content"
)

// fieldInput edits one descriptor field. Choice fields and search results
// cycle with left/right, multiline fields use a text area and everything else
// is a text input.
type fieldInput struct {
	field   content.Field
	input   textinput.Model
	area    textarea.Model
	choice  int
	results bool
}

func (f *fieldInput) cycles() bool {
	return f.field.Kind == content.FieldChoice || f.results
}

func (f *fieldInput) multiline() bool {
	return f.field.Multiline && !f.cycles()
}

func (f *fieldInput) value() string {
	if f.multiline() {
		return f.area.Value()
	}
	return f.input.Value()
}

// captureForm drives one content.Capture from the keyboard.
type captureForm struct {
	capture *content.Capture
	fields  []fieldInput
	focus   int
	alt     int
	problem string
}

func newCaptureForm(c *content.Capture) *captureForm {
	d := c.Descriptor()
	values := c.Values()
	f := &captureForm{capture: c}
	for _, field := range d.Fields {
		fi := fieldInput{field: field}
		switch {
		case field.Kind == content.FieldChoice:
			if def, ok := values[field.Name].(string); ok {
				for i, choice := range field.Choices {
					if choice == def {
						fi.choice = i
					}
				}
			}
		case field.Kind == content.FieldURL && d.Capture.Generation == content.GenerateImageSearch:
			fi.results = true
		case field.Multiline:
			ta := textarea.New()
			ta.Placeholder = field.Label
			ta.CharLimit = 16384
			ta.MaxHeight = 0
			ta.SetWidth(64)
			ta.SetHeight(6)
			ta.Cursor.SetMode(cursor.CursorStatic)
			if s, ok := values[field.Name].(string); ok {
				ta.SetValue(s)
			}
			fi.area = ta
		default:
			ti := textinput.New()
			ti.Placeholder = field.Label
			ti.Prompt = ""
			ti.CharLimit = 4096
			ti.Cursor.SetMode(cursor.CursorStatic)
			if s, ok := values[field.Name].(string); ok {
				ti.SetValue(s)
			}
			fi.input = ti
		}
		f.fields = append(f.fields, fi)
	}
	f.setFocus(0)
	return f
}

func (f *captureForm) setFocus(i int) {
	if len(f.fields) == 0 {
		return
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	for idx := range f.fields {
		fi := &f.fields[idx]
		switch {
		case fi.cycles():
		case fi.multiline() && idx == f.focus:
			fi.area.Focus()
		case fi.multiline():
			fi.area.Blur()
		case idx == f.focus:
			fi.input.Focus()
		default:
			fi.input.Blur()
		}
	}
}

// focusedMultiline reports whether the focused field takes enter and arrow keys itself.
func (f *captureForm) focusedMultiline() bool {
	return len(f.fields) > 0 && f.fields[f.focus].multiline()
}

// handleKey edits the focused field. Submit, generate and cancel are handled by the App.
func (f *captureForm) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		f.setFocus(f.focus + 1)
		return nil
	case "shift+tab":
		f.setFocus(f.focus - 1)
		return nil
	case "down":
		if !f.focusedMultiline() {
			f.setFocus(f.focus + 1)
			return nil
		}
	case "up":
		if !f.focusedMultiline() {
			f.setFocus(f.focus - 1)
			return nil
		}
	}
	if len(f.fields) == 0 {
		return nil
	}
	fi := &f.fields[f.focus]
	if fi.multiline() {
		var cmd tea.Cmd
		fi.area, cmd = fi.area.Update(msg)
		return cmd
	}
	if fi.cycles() {
		switch msg.String() {
		case "left", "h":
			f.cycle(fi, -1)
		case "right", "l", " ":
			f.cycle(fi, 1)
		}
		return nil
	}
	var cmd tea.Cmd
	fi.input, cmd = fi.input.Update(msg)
	return cmd
}

func (f *captureForm) cycle(fi *fieldInput, step int) {
	if fi.results {
		alts := f.alternatives()
		if len(alts) > 0 {
			f.alt = (f.alt + step + len(alts)) % len(alts)
		}
		return
	}
	if n := len(fi.field.Choices); n > 0 {
		fi.choice = (fi.choice + step + n) % n
	}
}

func (f *captureForm) alternatives() []string {
	art, ok := f.capture.Artifact()
	if !ok {
		return nil
	}
	return art.Alternatives
}

// sync pushes every edited value into the capture.
func (f *captureForm) sync() error {
	var errs []error
	for i := range f.fields {
		fi := &f.fields[i]
		name := fi.field.Name
		var value any
		switch {
		case fi.field.Kind == content.FieldChoice:
			if len(fi.field.Choices) > 0 {
				value = fi.field.Choices[fi.choice]
			}
		case fi.results:
			alts := f.alternatives()
			if len(alts) == 0 {
				continue
			}
			value = alts[min(f.alt, len(alts)-1)]
		default:
			raw := fi.value()
			if strings.TrimSpace(raw) == "" {
				value = nil
				break
			}
			v, err := parseField(fi.field, raw)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", fi.field.Label, err))
				continue
			}
			value = v
		}
		if err := f.capture.SetField(name, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func parseField(field content.Field, raw string) (any, error) {
	switch field.Kind {
	case content.FieldNumber:
		return strconv.ParseFloat(strings.TrimSpace(raw), 64)
	case content.FieldFile:
		return fileRef(strings.TrimSpace(raw))
	case content.FieldText:
		return raw, nil
	default:
		return strings.TrimSpace(raw), nil
	}
}

func fileRef(path string) (content.FileRef, error) {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return content.FileRef{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return content.FileRef{}, err
	}
	if info.IsDir() {
		return content.FileRef{}, fmt.Errorf("%s is a directory", path)
	}
	return content.FileRef{
		Name: filepath.Base(abs),
		Path: abs,
		MIME: mime.TypeByExtension(strings.ToLower(filepath.Ext(abs))),
		Size: info.Size(),
	}, nil
}
