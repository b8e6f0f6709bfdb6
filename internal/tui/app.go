package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jask/notefeed/internal/config"
	"github.com/jask/notefeed/internal/content"
	"github.com/jask/notefeed/internal/logger"
	"github.com/jask/notefeed/internal/quiz"
)

// Generator performs a capture's external generation step.
type Generator interface {
	Run(ctx context.Context, req content.GenerationRequest) (content.Artifact, error)
}

// QuizSource supplies question sets for the quiz view.
type QuizSource interface {
	Questions(ctx context.Context) ([]quiz.Question, error)
}

type Services struct {
	Generation Generator
	Quiz       QuizSource
}

type screen string

const (
	screenFeed screen = "feed"
	screenQuiz screen = "quiz"
)

// App is the bubbletea model. Async results arrive as messages and are applied
// one at a time in Update.
type App struct {
	ctx      context.Context
	notebook *content.Notebook
	services Services
	log      *logger.Logger
	cfg      config.UIConfig

	screen    screen
	picker    *typePicker
	form      *captureForm
	engine    *quiz.Engine
	spin      spinner.Model
	md        *glamour.TermRenderer
	codeCache map[int64]string
	cursor    int
	status    string
	width     int
}

func New(ctx context.Context, cfg config.UIConfig, nb *content.Notebook, services Services, log *logger.Logger) *App {
	if nb == nil {
		nb = content.NewNotebook(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.WrapWidth <= 0 {
		cfg.WrapWidth = 80
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle

	a := &App{
		ctx:       ctx,
		notebook:  nb,
		services:  services,
		log:       log,
		cfg:       cfg,
		screen:    screenFeed,
		engine:    quiz.NewEngine(),
		spin:      s,
		codeCache: map[int64]string{},
		width:     cfg.WrapWidth,
	}
	style := cfg.GlamourStyle
	if style == "" {
		style = "dark"
	}
	md, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(cfg.WrapWidth))
	if err != nil {
		log.Warn("markdown renderer unavailable", "style", style, "err", err)
	} else {
		a.md = md
	}
	return a
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		return a, nil
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch {
		case a.form != nil:
			return a, a.handleFormKey(m)
		case a.picker != nil:
			return a, a.handlePickerKey(m)
		case a.screen == screenQuiz:
			return a, a.handleQuizKey(m)
		default:
			return a, a.handleFeedKey(m)
		}
	case generationDoneMsg:
		a.applyGeneration(m)
	case quizReadyMsg:
		if !a.engine.Deliver(m.ticket, m.questions, m.err) {
			a.log.Debug("stale quiz result ignored", "seq", m.ticket.Seq)
			return a, nil
		}
		if m.err != nil {
			a.status = "quiz generation failed: " + m.err.Error()
		} else {
			a.status = ""
		}
	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd
	case statusMsg:
		a.status = string(m)
	}
	return a, nil
}

func (a *App) busy() bool {
	if a.form != nil && a.form.capture.InFlight() {
		return true
	}
	return a.engine.Phase() == quiz.Generating
}

func (a *App) handleFeedKey(m tea.KeyMsg) tea.Cmd {
	blocks := a.notebook.Store.Len()
	switch m.String() {
	case "q":
		return tea.Quit
	case "a", "+":
		a.picker = newTypePicker(a.notebook.Registry)
		a.status = ""
	case "z":
		a.screen = screenQuiz
		a.status = ""
	case "j", "down":
		if a.cursor < blocks-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "G", "end":
		a.cursor = max(blocks-1, 0)
	}
	return nil
}

func (a *App) handlePickerKey(m tea.KeyMsg) tea.Cmd {
	res := a.picker.HandleKey(m.String())
	switch res.Action {
	case pickerActionCancelled:
		a.picker = nil
	case pickerActionSelected:
		a.picker = nil
		c, err := a.notebook.BeginCapture(res.Item.Tag)
		if err != nil {
			a.status = err.Error()
			return nil
		}
		a.form = newCaptureForm(c)
		a.log.Debug("capture started", "tag", string(c.Tag()), "capture", c.ID())
	}
	return nil
}

func (a *App) handleFormKey(m tea.KeyMsg) tea.Cmd {
	f := a.form
	switch m.String() {
	case "esc":
		f.capture.Cancel()
		a.log.Debug("capture abandoned", "tag", string(f.capture.Tag()), "capture", f.capture.ID())
		a.form = nil
		a.status = "cancelled"
		return nil
	case "ctrl+g":
		return a.startGeneration()
	case "ctrl+s":
		a.submit()
		return nil
	case "enter":
		if f.focusedMultiline() {
			break
		}
		a.submit()
		return nil
	}
	return f.handleKey(m)
}

func (a *App) startGeneration() tea.Cmd {
	f := a.form
	if err := f.sync(); err != nil {
		f.problem = err.Error()
		return nil
	}
	req, err := f.capture.RunGeneration()
	if err != nil {
		f.problem = describeErr(err)
		return nil
	}
	f.problem = ""
	f.alt = 0
	if a.services.Generation == nil {
		f.capture.Resolve(req, content.Artifact{}, errors.New("no generation service configured"))
		f.problem = describeErr(f.capture.Err())
		return nil
	}
	gen, ctx := a.services.Generation, a.ctx
	return tea.Batch(a.spin.Tick, func() tea.Msg {
		art, err := gen.Run(ctx, req)
		return generationDoneMsg{req: req, art: art, err: err}
	})
}

func (a *App) applyGeneration(m generationDoneMsg) {
	if a.form == nil || a.form.capture.ID() != m.req.CaptureID {
		a.log.Debug("generation result for closed capture ignored", "capture", m.req.CaptureID)
		return
	}
	if !a.form.capture.Resolve(m.req, m.art, m.err) {
		a.log.Debug("stale generation result ignored", "capture", m.req.CaptureID, "seq", m.req.Seq)
		return
	}
	if err := a.form.capture.Err(); err != nil {
		a.form.problem = describeErr(err) + " (ctrl+g to retry)"
		return
	}
	a.form.problem = ""
}

func (a *App) submit() {
	f := a.form
	if err := f.sync(); err != nil {
		f.problem = err.Error()
		return
	}
	b, err := f.capture.Submit()
	if err != nil {
		f.problem = describeErr(err)
		return
	}
	a.log.Info("block added", "tag", string(b.Tag), "block", b.ID)
	a.form = nil
	a.cursor = a.notebook.Store.Len() - 1
	a.status = fmt.Sprintf("added %s", b.Tag)
}

func (a *App) handleQuizKey(m tea.KeyMsg) tea.Cmd {
	key := m.String()
	switch key {
	case "esc", "q":
		a.screen = screenFeed
		return nil
	case "g", "enter":
		if a.engine.Phase() == quiz.InProgress && key == "enter" {
			a.engine.Next()
			return nil
		}
		return a.generateQuiz()
	case "n", "right":
		a.engine.Next()
	case "p", "left":
		a.engine.Previous()
	case "r":
		a.engine.Reset()
		a.status = ""
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			a.engine.SelectAnswer(int(key[0] - '1'))
		}
	}
	return nil
}

func (a *App) generateQuiz() tea.Cmd {
	ticket, ok := a.engine.Generate()
	if !ok {
		return nil
	}
	if a.services.Quiz == nil {
		a.engine.Deliver(ticket, nil, errors.New("no quiz service configured"))
		a.status = "quiz generation failed: no quiz service configured"
		return nil
	}
	src, ctx := a.services.Quiz, a.ctx
	return tea.Batch(a.spin.Tick, func() tea.Msg {
		qs, err := src.Questions(ctx)
		return quizReadyMsg{ticket: ticket, questions: qs, err: err}
	})
}

func (a *App) View() string {
	var body string
	switch {
	case a.form != nil:
		body = a.renderForm()
	case a.picker != nil:
		body = a.renderPicker()
	case a.screen == screenQuiz:
		body = a.renderQuiz()
	default:
		body = a.renderFeed()
	}
	if a.status != "" {
		body += "\n" + mutedStyle.Render(a.status)
	}
	return body
}

func describeErr(err error) string {
	var verr *content.ValidationError
	if errors.As(err, &verr) {
		return "missing: " + strings.Join(verr.Missing, ", ")
	}
	var gf *content.GenerationFailure
	if errors.As(err, &gf) {
		return fmt.Sprintf("%s failed: %v", gf.Kind, gf.Err)
	}
	return err.Error()
}
