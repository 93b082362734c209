package course

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrSessionTerminated = errors.New("quiz session already terminated")
	ErrInvalidOption     = errors.New("option is not part of this question")
	ErrAnswerRequired    = errors.New("an answer is required before advancing")
	ErrLastQuestion      = errors.New("already on the last question")
)

// SessionState is the serialized form of an in-flight quiz session.
// Field names and the millisecond EndTime match the original wire format so
// records written by older clients still resume.
type SessionState struct {
	ModuleID             int            `json:"moduleId"`
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	SelectedAnswers      map[int]string `json:"selectedAnswers"`
	EndTime              int64          `json:"endTime"` // ms since epoch
}

// Session runs exactly one timed attempt at a module's question sequence.
// It holds no timer itself: remaining time is always recomputed from the
// absolute deadline, so reloads and clock suspensions self-correct.
type Session struct {
	module     Module
	current    int
	answers    map[int]string
	endTime    time.Time
	terminated bool
}

// NewSession starts a fresh attempt ending at now+duration.
func NewSession(m Module, duration time.Duration, now time.Time) *Session {
	return &Session{
		module:  m,
		answers: make(map[int]string),
		endTime: now.Add(duration),
	}
}

// ResumeSession reconstructs a session from persisted state.
// It reports false when the state belongs to another module or its deadline
// has passed; the caller then starts fresh.
func ResumeSession(m Module, state SessionState, now time.Time) (*Session, bool) {
	endTime := time.Unix(0, state.EndTime*int64(time.Millisecond))
	if state.ModuleID != m.ID || !endTime.After(now) {
		return nil, false
	}
	answers := make(map[int]string, len(state.SelectedAnswers))
	for i, opt := range state.SelectedAnswers {
		answers[i] = opt
	}
	return &Session{
		module:  m,
		current: state.CurrentQuestionIndex,
		answers: answers,
		endTime: endTime,
	}, true
}

func (s *Session) ModuleID() int      { return s.module.ID }
func (s *Session) CurrentIndex() int  { return s.current }
func (s *Session) EndTime() time.Time { return s.endTime }
func (s *Session) Terminated() bool   { return s.terminated }

// Degenerate reports whether the module has no questions at all; such a
// session completes immediately with score=0, total=0 and never runs a timer.
func (s *Session) Degenerate() bool { return len(s.module.Quiz) == 0 }

// CurrentQuestion returns the question at the current index.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.current < 0 || s.current >= len(s.module.Quiz) {
		return Question{}, false
	}
	return s.module.Quiz[s.current], true
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() map[int]string {
	answers := make(map[int]string, len(s.answers))
	for i, opt := range s.answers {
		answers[i] = opt
	}
	return answers
}

// SelectAnswer records option for the current question, overwriting any prior
// choice. Options outside the question's option set are rejected.
func (s *Session) SelectAnswer(option string) error {
	if s.terminated {
		return ErrSessionTerminated
	}
	q, ok := s.CurrentQuestion()
	if !ok {
		return ErrSessionTerminated
	}
	for _, opt := range q.Options {
		if opt == option {
			s.answers[s.current] = option
			return nil
		}
	}
	return ErrInvalidOption
}

// IsLastQuestion reports whether the session is on the final question.
func (s *Session) IsLastQuestion() bool {
	return s.current == len(s.module.Quiz)-1
}

// CanAdvance reports whether the current question has an answer recorded.
// The UI's Next/Submit buttons map onto this guard.
func (s *Session) CanAdvance() bool {
	if s.terminated {
		return false
	}
	_, answered := s.answers[s.current]
	return answered
}

// Advance moves to the next question.
func (s *Session) Advance() error {
	if s.terminated {
		return ErrSessionTerminated
	}
	if s.IsLastQuestion() {
		return ErrLastQuestion
	}
	if !s.CanAdvance() {
		return ErrAnswerRequired
	}
	s.current++
	return nil
}

// Remaining returns the remaining whole seconds, never below zero.
func (s *Session) Remaining(now time.Time) int {
	secs := int(math.Round(s.endTime.Sub(now).Seconds()))
	if secs < 0 {
		return 0
	}
	return secs
}

// Expired reports whether the deadline has passed.
func (s *Session) Expired(now time.Time) bool { return s.Remaining(now) == 0 }

// Submit scores whatever answers are recorded and terminates the session.
// Unanswered questions simply never match the correct answer.
func (s *Session) Submit() (score, total int) {
	s.terminated = true
	total = len(s.module.Quiz)
	for i, q := range s.module.Quiz {
		if s.answers[i] == q.CorrectAnswer {
			score++
		}
	}
	return score, total
}

// State snapshots the session for the persistence bridge.
func (s *Session) State() SessionState {
	return SessionState{
		ModuleID:             s.module.ID,
		CurrentQuestionIndex: s.current,
		SelectedAnswers:      s.Answers(),
		EndTime:              s.endTime.UnixNano() / int64(time.Millisecond),
	}
}
