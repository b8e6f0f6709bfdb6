package tui

import (
	"github.com/jask/notefeed/internal/content"
	"github.com/jask/notefeed/internal/quiz"
)

type generationDoneMsg struct {
	req content.GenerationRequest
	art content.Artifact
	err error
}

type quizReadyMsg struct {
	ticket    quiz.Ticket
	questions []quiz.Question
	err       error
}

type statusMsg string
