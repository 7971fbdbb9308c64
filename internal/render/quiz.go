package render

import (
	"strings"

	"academy/internal/domain"
)

// QuizSession is the learner-side state of one quiz block. Once a result
// is shown the answer is locked; only an incorrect result can be retried.
type QuizSession struct {
	quiz domain.QuizPayload

	selected   int
	flag       string
	showResult bool
	correct    bool
	showHint   bool
}

func NewQuizSession(quiz domain.QuizPayload) *QuizSession {
	return &QuizSession{quiz: quiz, selected: -1}
}

// Select picks a multiple-choice option. Out-of-range indexes and
// selections after submission are ignored.
func (s *QuizSession) Select(i int) {
	if s.showResult || s.quiz.Variant != domain.QuizMultipleChoice {
		return
	}
	if i < 0 || i >= len(s.quiz.Options) {
		return
	}
	s.selected = i
}

func (s *QuizSession) SetFlag(v string) {
	if s.showResult || s.quiz.Variant != domain.QuizFlag {
		return
	}
	s.flag = v
}

func (s *QuizSession) CanSubmit() bool {
	if s.showResult {
		return false
	}
	if s.quiz.Variant == domain.QuizFlag {
		return strings.TrimSpace(s.flag) != ""
	}
	return s.selected >= 0
}

// Submit evaluates the current answer and locks input. submitted is false
// when there is nothing to submit yet.
func (s *QuizSession) Submit() (correct, submitted bool) {
	if !s.CanSubmit() {
		return false, false
	}
	if s.quiz.Variant == domain.QuizFlag {
		s.correct = strings.EqualFold(strings.TrimSpace(s.flag), strings.TrimSpace(s.quiz.CorrectFlag))
	} else {
		s.correct = s.selected == s.quiz.CorrectAnswer
	}
	s.showResult = true
	return s.correct, true
}

// Retry clears an incorrect result and its input. It reports false when
// there is no incorrect result to clear.
func (s *QuizSession) Retry() bool {
	if !s.showResult || s.correct {
		return false
	}
	s.showResult = false
	s.selected = -1
	s.flag = ""
	return true
}

func (s *QuizSession) ToggleHint() { s.showHint = !s.showHint }

func (s *QuizSession) Selected() int    { return s.selected }
func (s *QuizSession) Flag() string     { return s.flag }
func (s *QuizSession) ShowResult() bool { return s.showResult }
func (s *QuizSession) Correct() bool    { return s.correct }
func (s *QuizSession) ShowHint() bool   { return s.showHint }
