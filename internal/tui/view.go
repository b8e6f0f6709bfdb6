package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/notefeed/internal/content"
	"github.com/jask/notefeed/internal/quiz"
)

func (a *App) renderFeed() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("notefeed") + "\n")
	views := a.notebook.Feed()
	if len(views) == 0 {
		b.WriteString(mutedStyle.Render("Nothing here yet. Press a to add content.") + "\n")
	}
	for i, v := range views {
		b.WriteString(a.renderCard(v, i == a.cursor) + "\n")
	}
	b.WriteString(mutedStyle.Render("a add • z quiz • j/k move • q quit"))
	return b.String()
}

func (a *App) renderCard(v content.View, focused bool) string {
	var b strings.Builder
	badge := lipgloss.NewStyle().Bold(true).Foreground(kindColor(v.Kind)).Render(string(v.Kind))
	b.WriteString(badge + " " + headerStyle.Render(v.Title))
	for _, f := range v.Fields {
		if f.Value == "" {
			continue
		}
		b.WriteString("\n" + labelStyle.Render(f.Label+": ") + f.Value)
	}
	if v.URL != "" {
		b.WriteString("\n" + linkStyle.Render(v.URL))
	}
	for _, c := range v.Captions {
		b.WriteString("\n" + mutedStyle.Render(c))
	}
	switch {
	case v.Kind == content.ViewCode:
		b.WriteString("\n" + a.renderCode(v))
	case v.Body != "":
		b.WriteString("\n" + v.Body)
	}
	if len(v.Grid) > 0 {
		b.WriteString("\n" + renderGrid(v.Grid))
	}
	style := cardStyle
	if focused {
		style = focusedCardStyle
	}
	return style.Width(max(a.width-4, 20)).Render(b.String())
}

// renderCode highlights through glamour. Blocks are immutable, so the result
// is cached per block.
func (a *App) renderCode(v content.View) string {
	if out, ok := a.codeCache[v.BlockID]; ok {
		return out
	}
	out := v.Body
	if a.md != nil {
		md := fmt.Sprintf("```%s\n%s\n```", v.Language, strings.TrimRight(v.Body, "\n"))
		if rendered, err := a.md.Render(md); err == nil {
			out = strings.Trim(rendered, "\n")
		} else {
			a.log.Warn("code render failed", "block", v.BlockID, "err", err)
		}
	}
	a.codeCache[v.BlockID] = out
	return out
}

func renderGrid(grid [][]string) string {
	width := 0
	for _, row := range grid {
		for _, cell := range row {
			width = max(width, lipgloss.Width(cell))
		}
	}
	var rows []string
	for _, row := range grid {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%*s", width, cell)
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return strings.Join(rows, "\n")
}

func (a *App) renderPicker() string {
	p := a.picker
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add content") + "\n")
	b.WriteString("Filter: " + p.Query() + "\n")
	current, _ := p.CurrentItem()
	section := ""
	items := p.Items()
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("no matching content types") + "\n")
	}
	for _, item := range items {
		if item.Section != section {
			section = item.Section
			b.WriteString("\n" + sectionStyle.Render(section) + "\n")
		}
		line := fmt.Sprintf("  %s  %s", item.Label, mutedStyle.Render(item.Meta))
		if item.Tag == current.Tag {
			line = selectedStyle.Render("> "+item.Label) + "  " + mutedStyle.Render(item.Meta)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("type to filter • ↑/↓ move • enter choose • esc close"))
	return modalStyle.Render(b.String())
}

func (a *App) renderForm() string {
	f := a.form
	c := f.capture
	d := c.Descriptor()
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Name) + "  " + mutedStyle.Render(d.Description) + "\n")
	if len(f.fields) == 0 && !d.Generative() {
		b.WriteString("\nNo details needed.\n")
	}
	for i, fi := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = selectedStyle.Render("> ")
		}
		label := fi.field.Label
		if fi.field.Required {
			label += " *"
		}
		b.WriteString("\n" + marker + labelStyle.Render(label) + "\n    " + a.renderFieldValue(fi))
	}
	if d.Generative() {
		b.WriteString("\n\n")
		switch {
		case c.InFlight():
			b.WriteString(a.spin.View() + " generating...")
		default:
			if art, ok := c.Artifact(); ok {
				b.WriteString(successStyle.Render("ready: ") + linkStyle.Render(art.URL))
			} else {
				b.WriteString(mutedStyle.Render("ctrl+g to generate"))
			}
		}
	}
	if f.problem != "" {
		b.WriteString("\n" + errorStyle.Render(f.problem))
	}
	state := c.State().String()
	add := "enter add"
	if f.focusedMultiline() {
		add = "ctrl+s add"
	}
	b.WriteString("\n\n" + mutedStyle.Render(state+" • tab next field • ctrl+g generate • "+add+" • esc cancel"))
	return modalStyle.Render(b.String())
}

func (a *App) renderFieldValue(fi fieldInput) string {
	switch {
	case fi.field.Kind == content.FieldChoice:
		if len(fi.field.Choices) == 0 {
			return ""
		}
		return "‹ " + fi.field.Choices[fi.choice] + " ›"
	case fi.results:
		alts := a.form.alternatives()
		if len(alts) == 0 {
			return mutedStyle.Render("search first")
		}
		lines := make([]string, len(alts))
		for i, u := range alts {
			if i == a.form.alt {
				lines[i] = selectedStyle.Render("● " + u)
			} else {
				lines[i] = mutedStyle.Render("○ " + u)
			}
		}
		return strings.Join(lines, "\n    ")
	case fi.multiline():
		return strings.ReplaceAll(fi.area.View(), "\n", "\n    ")
	default:
		return fi.input.View()
	}
}

func (a *App) renderQuiz() string {
	s := a.engine.Snapshot()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Smart Quiz") + "\n\n")
	switch s.Phase {
	case quiz.NotStarted:
		if err := a.engine.Err(); err != nil {
			b.WriteString(errorStyle.Render(err.Error()) + "\n")
		}
		b.WriteString("Press g to generate a quiz.")
	case quiz.Generating:
		b.WriteString(a.spin.View() + " generating questions...")
	case quiz.InProgress:
		q := s.Question
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Question %d of %d", s.CurrentIndex+1, s.Total)) + "\n")
		b.WriteString(headerStyle.Render(q.Prompt) + "\n\n")
		chosen, answered := s.Answers[s.CurrentIndex]
		for i, opt := range q.Options {
			line := fmt.Sprintf("%d. %s", i+1, opt)
			if answered && chosen == i {
				line = selectedStyle.Render("● " + line)
			} else {
				line = "○ " + line
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + mutedStyle.Render("1-9 answer • n next • p previous • r reset • esc back"))
	case quiz.Completed:
		sc := s.Score
		b.WriteString(headerStyle.Render(fmt.Sprintf("Score: %d/%d (%d%%)", sc.Correct, sc.Total, sc.Percentage)) + "\n")
		for i, item := range sc.Review {
			mark := successStyle.Render("✓")
			if !item.Correct {
				mark = errorStyle.Render("✗")
			}
			b.WriteString(fmt.Sprintf("\n%s %d. %s\n", mark, i+1, item.Question.Prompt))
			if !item.Correct {
				yours := "no answer"
				if item.Chosen >= 0 {
					yours = item.Question.Options[item.Chosen]
				}
				b.WriteString("   " + warningStyle.Render("your answer: "+yours) + "\n")
			}
			b.WriteString("   answer: " + item.Question.Options[item.Question.CorrectIndex] + "\n")
			if item.Question.Explanation != "" {
				b.WriteString("   " + mutedStyle.Render(item.Question.Explanation) + "\n")
			}
		}
		b.WriteString("\n" + mutedStyle.Render("r retake • esc back"))
	}
	return b.String()
}
