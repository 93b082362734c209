package course

import (
	"testing"
	"time"
)

var sessionStart = time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)

func TestSessionLifecycle(t *testing.T) {
	mod := testModules()[0]
	s := NewSession(mod, DefaultQuizDuration, sessionStart)

	if s.Degenerate() {
		t.Fatal("Degenerate() = true for a quizzed module")
	}
	if s.IsLastQuestion() {
		t.Error("IsLastQuestion() = true on first question")
	}
	if s.CanAdvance() {
		t.Error("CanAdvance() = true before answering")
	}
	if err := s.Advance(); err != ErrAnswerRequired {
		t.Errorf("Advance() error = %v, want %v", err, ErrAnswerRequired)
	}

	if err := s.SelectAnswer("5"); err != ErrInvalidOption {
		t.Errorf("SelectAnswer() error = %v, want %v", err, ErrInvalidOption)
	}
	if err := s.SelectAnswer("3"); err != nil {
		t.Fatalf("SelectAnswer() error = %v", err)
	}
	// changing one's mind overwrites
	if err := s.SelectAnswer("4"); err != nil {
		t.Fatalf("SelectAnswer() error = %v", err)
	}
	if !s.CanAdvance() {
		t.Error("CanAdvance() = false after answering")
	}

	if err := s.Advance(); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if !s.IsLastQuestion() {
		t.Error("IsLastQuestion() = false on last question")
	}
	if err := s.SelectAnswer("Kinshasa"); err != nil {
		t.Fatalf("SelectAnswer() error = %v", err)
	}
	if err := s.Advance(); err != ErrLastQuestion {
		t.Errorf("Advance() error = %v, want %v", err, ErrLastQuestion)
	}

	score, total := s.Submit()
	if score != 2 || total != 2 {
		t.Errorf("Submit() = (%d, %d), want (2, 2)", score, total)
	}
	if !s.Terminated() {
		t.Error("Terminated() = false after Submit()")
	}
	if err := s.SelectAnswer("4"); err != ErrSessionTerminated {
		t.Errorf("SelectAnswer() error = %v, want %v", err, ErrSessionTerminated)
	}
	if err := s.Advance(); err != ErrSessionTerminated {
		t.Errorf("Advance() error = %v, want %v", err, ErrSessionTerminated)
	}
}

func TestSessionPartialScore(t *testing.T) {
	mod := testModules()[0]
	s := NewSession(mod, DefaultQuizDuration, sessionStart)

	// only the first question is answered, and correctly
	if err := s.SelectAnswer("4"); err != nil {
		t.Fatalf("SelectAnswer() error = %v", err)
	}
	score, total := s.Submit()
	if score != 1 || total != 2 {
		t.Errorf("Submit() = (%d, %d), want (1, 2)", score, total)
	}
}

func TestSessionDegenerate(t *testing.T) {
	s := NewSession(testModules()[2], DefaultQuizDuration, sessionStart)
	if !s.Degenerate() {
		t.Fatal("Degenerate() = false for a module without quiz")
	}
	score, total := s.Submit()
	if score != 0 || total != 0 {
		t.Errorf("Submit() = (%d, %d), want (0, 0)", score, total)
	}
}

func TestSessionRemaining(t *testing.T) {
	s := NewSession(testModules()[0], 10*time.Minute, sessionStart)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{name: "at start", now: sessionStart, want: 600},
		{name: "mid-flight", now: sessionStart.Add(2 * time.Minute), want: 480},
		{name: "rounds to nearest second", now: sessionStart.Add(10*time.Minute - 1400*time.Millisecond), want: 1},
		{name: "at deadline", now: sessionStart.Add(10 * time.Minute), want: 0},
		{name: "past deadline clamps to zero", now: sessionStart.Add(time.Hour), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Remaining(tt.now); got != tt.want {
				t.Errorf("Remaining() = %d, want %d", got, tt.want)
			}
		})
	}

	if s.Expired(sessionStart) {
		t.Error("Expired() = true at start")
	}
	if !s.Expired(sessionStart.Add(10 * time.Minute)) {
		t.Error("Expired() = false at deadline")
	}
}

func TestSessionStateRoundTrip(t *testing.T) {
	mod := testModules()[0]
	s := NewSession(mod, 10*time.Minute, sessionStart)
	if err := s.SelectAnswer("4"); err != nil {
		t.Fatalf("SelectAnswer() error = %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	state := s.State()
	if state.ModuleID != mod.ID {
		t.Errorf("State().ModuleID = %d, want %d", state.ModuleID, mod.ID)
	}
	if state.CurrentQuestionIndex != 1 {
		t.Errorf("State().CurrentQuestionIndex = %d, want 1", state.CurrentQuestionIndex)
	}
	if wantEnd := sessionStart.Add(10 * time.Minute).UnixNano() / int64(time.Millisecond); state.EndTime != wantEnd {
		t.Errorf("State().EndTime = %d, want %d", state.EndTime, wantEnd)
	}

	resumed, ok := ResumeSession(mod, state, sessionStart.Add(time.Minute))
	if !ok {
		t.Fatal("ResumeSession() = false, want true")
	}
	if resumed.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", resumed.CurrentIndex())
	}
	if got := resumed.Answers(); got[0] != "4" {
		t.Errorf("Answers()[0] = %q, want %q", got[0], "4")
	}
	if got, want := resumed.Remaining(sessionStart.Add(time.Minute)), 540; got != want {
		t.Errorf("Remaining() = %d, want %d", got, want)
	}
}

func TestResumeSessionRejections(t *testing.T) {
	modules := testModules()
	s := NewSession(modules[0], 10*time.Minute, sessionStart)
	state := s.State()

	if _, ok := ResumeSession(modules[1], state, sessionStart); ok {
		t.Error("ResumeSession() = true for another module")
	}
	if _, ok := ResumeSession(modules[0], state, sessionStart.Add(10*time.Minute)); ok {
		t.Error("ResumeSession() = true past the deadline")
	}
}
