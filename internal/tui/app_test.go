package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/notefeed/internal/config"
	"github.com/jask/notefeed/internal/content"
	"github.com/jask/notefeed/internal/quiz"
)

type fakeGen struct {
	err error
}

func (f *fakeGen) Run(_ context.Context, req content.GenerationRequest) (content.Artifact, error) {
	if f.err != nil {
		return content.Artifact{}, f.err
	}
	url := fmt.Sprintf("https://img/%s/%d", req.Kind, req.Seq)
	art := content.Artifact{Kind: req.Kind, URL: url}
	if req.Kind == content.GenerateImageSearch {
		art.Alternatives = []string{url, url + "-b", url + "-c"}
	}
	return art, nil
}

type fakeQuiz struct {
	questions []quiz.Question
	err       error
}

func (f *fakeQuiz) Questions(context.Context) ([]quiz.Question, error) {
	return f.questions, f.err
}

var pythonQuiz = []quiz.Question{
	{ID: 1, Prompt: "Define a function?", Options: []string{"function f():", "def f():", "define f():", "func f():"}, CorrectIndex: 1},
	{ID: 2, Prompt: "Mutable type?", Options: []string{"String", "Tuple", "List", "Integer"}, CorrectIndex: 2},
	{ID: 3, Prompt: "What does return do?", Options: []string{"Prints", "Ends", "Sends a value back", "Creates"}, CorrectIndex: 2, Explanation: "It hands a value to the caller."},
}

func newTestApp(t *testing.T, gen Generator, qs QuizSource) *App {
	t.Helper()
	return New(context.Background(), config.UIConfig{WrapWidth: 80, GlamourStyle: "ascii"}, content.NewNotebook(nil), Services{Generation: gen, Quiz: qs}, nil)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(a *App, keys ...string) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		_, last = a.Update(key(k))
	}
	return last
}

func typeText(a *App, s string) {
	for _, r := range s {
		a.Update(key(string(r)))
	}
}

// collect runs cmd and returns the messages it produces, skipping spinner ticks.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch m := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range m {
			out = append(out, collect(c)...)
		}
		return out
	case spinner.TickMsg, nil:
		return nil
	default:
		return []tea.Msg{m}
	}
}

func deliver(a *App, msgs []tea.Msg) {
	for _, m := range msgs {
		a.Update(m)
	}
}

func openType(t *testing.T, a *App, filter string, want content.Tag) {
	t.Helper()
	press(a, "a")
	if a.picker == nil {
		t.Fatalf("picker did not open")
	}
	typeText(a, filter)
	item, ok := a.picker.CurrentItem()
	if !ok || item.Tag != want {
		t.Fatalf("filter %q selected %v, want %s", filter, item.Tag, want)
	}
	press(a, "enter")
	if a.form == nil || a.form.capture.Tag() != want {
		t.Fatalf("capture form for %s did not open", want)
	}
}

func TestAddLinkBlock(t *testing.T) {
	a := newTestApp(t, &fakeGen{}, nil)
	openType(t, a, "link", content.TagLink)

	typeText(a, "https://go.dev")
	press(a, "enter")

	if a.form != nil {
		t.Fatalf("form still open: %q", a.form.problem)
	}
	blocks := a.notebook.Blocks()
	if len(blocks) != 1 || blocks[0].Payload["title"] != "https://go.dev" || blocks[0].Payload["source"] != "Web Link" {
		t.Fatalf("unexpected blocks: %+v", blocks)
	}
	if view := a.View(); !strings.Contains(view, "go.dev") {
		t.Fatalf("feed does not show the link:\n%s", view)
	}
}

func TestSubmitWithMissingFieldsKeepsForm(t *testing.T) {
	a := newTestApp(t, &fakeGen{}, nil)
	openType(t, a, "code", content.TagCode)

	press(a, "ctrl+s")
	if a.form == nil {
		t.Fatalf("form closed on invalid submit")
	}
	if a.form.problem != "missing: code" {
		t.Fatalf("problem = %q", a.form.problem)
	}
	if a.notebook.Store.Len() != 0 {
		t.Fatalf("store should be empty")
	}
}

func TestCodeEditorTakesMultipleLines(t *testing.T) {
	a := newTestApp(t, &fakeGen{}, nil)
	openType(t, a, "code", content.TagCode)

	typeText(a, "x = 1")
	press(a, "enter")
	typeText(a, "print(x)")
	if a.form == nil {
		t.Fatalf("enter in the code field submitted the form")
	}
	if !strings.Contains(a.View(), "ctrl+s add") {
		t.Fatalf("form help does not mention ctrl+s:\n%s", a.View())
	}

	press(a, "ctrl+s")
	if a.form != nil {
		t.Fatalf("form still open: %q", a.form.problem)
	}
	blocks := a.notebook.Store.All()
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	if got := blocks[0].Payload.String("code"); got != "x = 1\nprint(x)" {
		t.Fatalf("code = %q", got)
	}
}

func TestImageSearchPicksAlternative(t *testing.T) {
	a := newTestApp(t, &fakeGen{}, nil)
	openType(t, a, "google", content.TagImageSearch)

	typeText(a, "atoms")
	deliver(a, collect(press(a, "ctrl+g")))
	art, ok := a.form.capture.Artifact()
	if !ok || len(art.Alternatives) != 3 {
		t.Fatalf("artifact = %+v, %v", art, ok)
	}

	press(a, "tab", "right")
	press(a, "enter")
	blocks := a.notebook.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("expected one block, got %d (%q)", len(blocks), a.status)
	}
	if got := blocks[0].Payload["url"]; got != art.Alternatives[1] {
		t.Fatalf("url = %v, want %s", got, art.Alternatives[1])
	}
	if blocks[0].Payload["query"] != "atoms" {
		t.Fatalf("query = %v", blocks[0].Payload["query"])
	}
}

func TestLatestGenerationWins(t *testing.T) {
	a := newTestApp(t, &fakeGen{}, nil)
	openType(t, a, "screen", content.TagScreenshot)

	first := collect(press(a, "ctrl+g"))
	second := collect(press(a, "ctrl+g"))
	deliver(a, second)
	deliver(a, first)

	art, ok := a.form.capture.Artifact()
	if !ok || art.URL != "https://img/screenshot/2" {
		t.Fatalf("artifact = %+v, want the second request's result", art)
	}
}

func TestGenerationFailureOffersRetry(t *testing.T) {
	gen := &fakeGen{err: errors.New("quota exceeded")}
	a := newTestApp(t, gen, nil)
	openType(t, a, "screen", content.TagScreenshot)

	deliver(a, collect(press(a, "ctrl+g")))
	if a.form.capture.State() != content.Pending {
		t.Fatalf("state = %s, want pending", a.form.capture.State())
	}
	if !strings.Contains(a.form.problem, "ctrl+g to retry") {
		t.Fatalf("problem = %q", a.form.problem)
	}

	gen.err = nil
	deliver(a, collect(press(a, "ctrl+g")))
	press(a, "enter")
	if a.notebook.Store.Len() != 1 {
		t.Fatalf("retry did not allow submit: %q", a.status)
	}
}

func TestCancelledCaptureIgnoresLateResult(t *testing.T) {
	a := newTestApp(t, &fakeGen{}, nil)
	openType(t, a, "screen", content.TagScreenshot)

	late := collect(press(a, "ctrl+g"))
	press(a, "esc")
	deliver(a, late)

	if a.form != nil || a.notebook.Store.Len() != 0 {
		t.Fatalf("cancelled capture had an effect")
	}
}

func TestPickerEscapeAddsNothing(t *testing.T) {
	a := newTestApp(t, &fakeGen{}, nil)
	press(a, "a", "esc")
	if a.picker != nil || a.form != nil {
		t.Fatalf("picker should be closed")
	}
	if a.notebook.Store.Len() != 0 {
		t.Fatalf("store should be empty")
	}
}

func TestFeedRendersCodeAndUnknownBlocks(t *testing.T) {
	a := newTestApp(t, &fakeGen{}, nil)
	c, err := a.notebook.BeginCapture(content.TagCode)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetField("code", "print('hi')"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Submit(); err != nil {
		t.Fatal(err)
	}
	a.notebook.Store.Append("mystery", content.Payload{"x": 1})

	view := a.View()
	for _, want := range []string{"python code", "print", "mystery Content"} {
		if !strings.Contains(view, want) {
			t.Fatalf("feed missing %q:\n%s", want, view)
		}
	}
}

func TestQuizFlow(t *testing.T) {
	a := newTestApp(t, &fakeGen{}, &fakeQuiz{questions: pythonQuiz})
	press(a, "z")
	if a.screen != screenQuiz {
		t.Fatalf("quiz screen did not open")
	}

	deliver(a, collect(press(a, "g")))
	if a.engine.Phase() != quiz.InProgress {
		t.Fatalf("phase = %s", a.engine.Phase())
	}
	if !strings.Contains(a.View(), "Question 1 of 3") {
		t.Fatalf("unexpected quiz view:\n%s", a.View())
	}

	press(a, "2", "n", "3", "n", "1", "n")
	if a.engine.Phase() != quiz.Completed {
		t.Fatalf("phase = %s", a.engine.Phase())
	}
	view := a.View()
	for _, want := range []string{"Score: 2/3 (67%)", "your answer: Prints", "It hands a value to the caller."} {
		if !strings.Contains(view, want) {
			t.Fatalf("results missing %q:\n%s", want, view)
		}
	}

	press(a, "r")
	if a.engine.Phase() != quiz.NotStarted {
		t.Fatalf("reset left phase %s", a.engine.Phase())
	}
}

func TestQuizFailureReturnsToStart(t *testing.T) {
	a := newTestApp(t, &fakeGen{}, &fakeQuiz{err: errors.New("offline")})
	press(a, "z")
	deliver(a, collect(press(a, "g")))

	if a.engine.Phase() != quiz.NotStarted || a.engine.Err() == nil {
		t.Fatalf("phase = %s, err = %v", a.engine.Phase(), a.engine.Err())
	}
	if !strings.Contains(a.status, "offline") {
		t.Fatalf("status = %q", a.status)
	}
}

func TestStaleQuizResultIgnored(t *testing.T) {
	a := newTestApp(t, &fakeGen{}, &fakeQuiz{questions: pythonQuiz})
	press(a, "z")
	stale := collect(press(a, "g"))
	press(a, "r")
	deliver(a, stale)
	if a.engine.Phase() != quiz.NotStarted {
		t.Fatalf("stale result applied: %s", a.engine.Phase())
	}
}
