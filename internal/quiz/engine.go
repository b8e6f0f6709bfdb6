// Package quiz implements the self-check quiz: a linear, resumable run through
// a fixed ordered question set with recorded answers and a derived score.
package quiz

import (
	"fmt"
	"math"
)

type Phase int

const (
	NotStarted Phase = iota
	Generating
	InProgress
	Completed
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not-started"
	case Generating:
		return "generating"
	case InProgress:
		return "in-progress"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Ticket identifies one generate request. Only the latest ticket is honoured.
type Ticket struct {
	Seq uint64
}

type ReviewItem struct {
	Question Question
	Chosen   int
	Correct  bool
}

type Score struct {
	Correct    int
	Total      int
	Percentage int
	Review     []ReviewItem
}

type Snapshot struct {
	Phase        Phase
	CurrentIndex int
	Total        int
	Answers      map[int]int
	// Question is the current question while in progress.
	Question *Question
	// Score is only set once the quiz is completed.
	Score *Score
}

// Engine is the quiz state machine. It is not safe for concurrent use; drive
// it from a single event loop.
type Engine struct {
	phase     Phase
	questions []Question
	current   int
	answers   map[int]int
	seq       uint64
	err       error
}

func NewEngine() *Engine {
	return &Engine{answers: map[int]int{}}
}

func (e *Engine) Phase() Phase { return e.phase }

// Err returns why the last generation did not start the quiz.
func (e *Engine) Err() error { return e.err }

// Generate moves NotStarted to Generating. Calling it again while generating
// issues a new ticket and makes the previous one stale.
func (e *Engine) Generate() (Ticket, bool) {
	if e.phase != NotStarted && e.phase != Generating {
		return Ticket{}, false
	}
	e.seq++
	e.phase = Generating
	e.err = nil
	return Ticket{Seq: e.seq}, true
}

// Deliver completes the generation for t. A stale ticket is ignored. A failed
// or invalid question set puts the engine back to NotStarted.
func (e *Engine) Deliver(t Ticket, questions []Question, err error) bool {
	if e.phase != Generating || t.Seq != e.seq {
		return false
	}
	if err == nil {
		err = ValidateSet(questions)
	}
	if err != nil {
		e.phase = NotStarted
		e.err = err
		return true
	}
	e.questions = cloneQuestions(questions)
	e.current = 0
	e.answers = map[int]int{}
	e.phase = InProgress
	return true
}

// SelectAnswer records (or overwrites) the answer for the current question.
func (e *Engine) SelectAnswer(option int) bool {
	if e.phase != InProgress {
		return false
	}
	if option < 0 || option >= len(e.questions[e.current].Options) {
		return false
	}
	e.answers[e.current] = option
	return true
}

// Next advances, or completes the quiz from the last question. It is rejected
// until the current question has an answer.
func (e *Engine) Next() bool {
	if e.phase != InProgress {
		return false
	}
	if _, ok := e.answers[e.current]; !ok {
		return false
	}
	if e.current < len(e.questions)-1 {
		e.current++
		return true
	}
	e.phase = Completed
	return true
}

// Previous steps back without touching recorded answers.
func (e *Engine) Previous() bool {
	if e.phase != InProgress || e.current == 0 {
		return false
	}
	e.current--
	return true
}

// Reset returns to NotStarted from any phase. Pending generation tickets go stale.
func (e *Engine) Reset() {
	e.seq++
	e.phase = NotStarted
	e.questions = nil
	e.current = 0
	e.answers = map[int]int{}
	e.err = nil
}

func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Phase:        e.phase,
		CurrentIndex: e.current,
		Total:        len(e.questions),
		Answers:      make(map[int]int, len(e.answers)),
	}
	for k, v := range e.answers {
		s.Answers[k] = v
	}
	switch e.phase {
	case InProgress:
		q := cloneQuestions(e.questions[e.current : e.current+1])[0]
		s.Question = &q
	case Completed:
		sc := e.score()
		s.Score = &sc
	}
	return s
}

func (e *Engine) score() Score {
	sc := Score{Total: len(e.questions)}
	for i, q := range e.questions {
		chosen, answered := e.answers[i]
		ok := answered && chosen == q.CorrectIndex
		if !answered {
			chosen = -1
		}
		if ok {
			sc.Correct++
		}
		sc.Review = append(sc.Review, ReviewItem{Question: cloneQuestions([]Question{q})[0], Chosen: chosen, Correct: ok})
	}
	if sc.Total > 0 {
		sc.Percentage = int(math.Round(100 * float64(sc.Correct) / float64(sc.Total)))
	}
	return sc
}
