package course

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/scitech-butterfly/aasira/core"
)

var (
	// errors
	ErrNoActiveSession = errors.New("no active quiz session")
)

type (
	// AttemptView is the live session state as exposed to the transport layer.
	AttemptView struct {
		ModuleID         int            `json:"moduleId"`
		QuestionIndex    int            `json:"currentQuestionIndex"`
		TotalQuestions   int            `json:"totalQuestions"`
		Question         Question       `json:"question"`
		SelectedAnswers  map[int]string `json:"selectedAnswers"`
		RemainingSeconds int            `json:"remainingSeconds"`
		IsLastQuestion   bool           `json:"isLastQuestion"`
		CanAdvance       bool           `json:"canAdvance"`
	}

	attempt struct {
		session *Session
		cancel  context.CancelFunc // stops the ticker goroutine
	}

	// Engine owns every live quiz attempt, at most one per user. It glues the
	// session state machine to the persistence bridge and the progress service,
	// and runs the 1-second countdown that forces submission on expiry.
	Engine struct {
		content  ContentProvider
		progress *ProgressService
		bridge   *SessionBridge
		logger   core.Logger
		duration time.Duration

		mu   sync.Mutex
		live map[string]*attempt // keyed by user ID
	}
)

func NewEngine(
	content ContentProvider,
	progress *ProgressService,
	bridge *SessionBridge,
	logger core.Logger,
	duration time.Duration,
) *Engine {
	if duration <= 0 {
		duration = DefaultQuizDuration
	}
	return &Engine{
		content:  content,
		progress: progress,
		bridge:   bridge,
		logger:   logger,
		duration: duration,
		live:     make(map[string]*attempt),
	}
}

func (e *Engine) view(s *Session, now time.Time) AttemptView {
	q, _ := s.CurrentQuestion()
	return AttemptView{
		ModuleID:         s.ModuleID(),
		QuestionIndex:    s.CurrentIndex(),
		TotalQuestions:   len(s.module.Quiz),
		Question:         q,
		SelectedAnswers:  s.Answers(),
		RemainingSeconds: s.Remaining(now),
		IsLastQuestion:   s.IsLastQuestion(),
		CanAdvance:       s.CanAdvance(),
	}
}

// StartQuiz begins a fresh attempt at a module, discarding any prior attempt
// and its persisted state. A module with no questions completes immediately:
// the returned result is non-nil and no session is left live.
func (e *Engine) StartQuiz(ctx context.Context, userID string, moduleID int) (AttemptView, *QuizResult, error) {
	ok, err := e.progress.CanEnter(ctx, userID, moduleID)
	if err != nil {
		return AttemptView{}, nil, err
	}
	if !ok {
		return AttemptView{}, nil, ErrModuleLocked
	}

	modules, err := e.content.Modules(ctx)
	if err != nil {
		return AttemptView{}, nil, errors.Wrap(err, "loading modules")
	}
	mod, ok := findModule(modules, moduleID)
	if !ok {
		return AttemptView{}, nil, ErrModuleNotFound
	}

	e.mu.Lock()
	e.dropLocked(ctx, userID)

	now := nowFunc()
	session := NewSession(mod, e.duration, now)
	if session.Degenerate() {
		// content error, not a fault: complete on the spot with no timer
		score, total := session.Submit()
		e.mu.Unlock()
		_, result, err := e.progress.RecordQuizOutcome(ctx, userID, moduleID, score, total)
		if err != nil {
			return AttemptView{}, nil, err
		}
		return AttemptView{ModuleID: moduleID}, &result, nil
	}

	e.startLocked(userID, session)
	e.bridge.Save(ctx, userID, session.State())
	view := e.view(session, now)
	e.mu.Unlock()
	return view, nil, nil
}

// Current returns the user's live attempt, resuming from persisted state when
// the process (or page) was restarted mid-quiz.
func (e *Engine) Current(ctx context.Context, userID string) (AttemptView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := nowFunc()
	if att, ok := e.live[userID]; ok {
		return e.view(att.session, now), nil
	}

	modules, err := e.content.Modules(ctx)
	if err != nil {
		return AttemptView{}, errors.Wrap(err, "loading modules")
	}
	state, ok := e.bridge.Load(ctx, userID, modules, now)
	if !ok {
		return AttemptView{}, ErrNoActiveSession
	}
	mod, _ := findModule(modules, state.ModuleID)
	session, ok := ResumeSession(mod, state, now)
	if !ok {
		return AttemptView{}, ErrNoActiveSession
	}
	e.startLocked(userID, session)
	return e.view(session, now), nil
}

// SelectAnswer records an answer for the current question and shadows the
// session state.
func (e *Engine) SelectAnswer(ctx context.Context, userID, option string) (AttemptView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	att, ok := e.live[userID]
	if !ok {
		return AttemptView{}, ErrNoActiveSession
	}
	if err := att.session.SelectAnswer(option); err != nil {
		return AttemptView{}, err
	}
	e.bridge.Save(ctx, userID, att.session.State())
	return e.view(att.session, nowFunc()), nil
}

// Advance moves the live attempt to the next question.
func (e *Engine) Advance(ctx context.Context, userID string) (AttemptView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	att, ok := e.live[userID]
	if !ok {
		return AttemptView{}, ErrNoActiveSession
	}
	if err := att.session.Advance(); err != nil {
		return AttemptView{}, err
	}
	e.bridge.Save(ctx, userID, att.session.State())
	return e.view(att.session, nowFunc()), nil
}

// Submit terminates the live attempt and reports its score to the progress
// state machine.
func (e *Engine) Submit(ctx context.Context, userID string) (UserProgress, QuizResult, error) {
	e.mu.Lock()
	att, ok := e.live[userID]
	if !ok {
		e.mu.Unlock()
		return UserProgress{}, QuizResult{}, ErrNoActiveSession
	}
	moduleID := att.session.ModuleID()
	score, total := att.session.Submit()
	att.cancel()
	delete(e.live, userID)
	e.bridge.Clear(ctx, userID)
	e.mu.Unlock()

	return e.progress.RecordQuizOutcome(ctx, userID, moduleID, score, total)
}

// Abandon cancels the live attempt without scoring it. Navigating away from a
// quiz is the only cancellation path; the persisted state is erased, not kept.
func (e *Engine) Abandon(ctx context.Context, userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dropLocked(ctx, userID)
}

// dropLocked discards any live attempt and its persisted state. Callers hold e.mu.
func (e *Engine) dropLocked(ctx context.Context, userID string) {
	if att, ok := e.live[userID]; ok {
		att.cancel()
		delete(e.live, userID)
	}
	e.bridge.Clear(ctx, userID)
}

// startLocked registers the session and spawns its countdown. Callers hold e.mu.
func (e *Engine) startLocked(userID string, session *Session) {
	ctx, cancel := context.WithCancel(context.Background())
	e.live[userID] = &attempt{session: session, cancel: cancel}
	go e.runCountdown(ctx, userID, session)
}

// runCountdown re-evaluates the remaining time every second and forces
// submission at zero. Recomputing from the absolute deadline means drift and
// suspension self-correct on the next tick.
func (e *Engine) runCountdown(ctx context.Context, userID string, session *Session) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if session.Remaining(nowFunc()) > 0 {
				continue
			}
			e.autoSubmit(userID, session)
			return
		}
	}
}

// autoSubmit forces submission of an expired attempt with whatever answers
// are recorded.
func (e *Engine) autoSubmit(userID string, session *Session) {
	e.mu.Lock()
	att, ok := e.live[userID]
	if !ok || att.session != session {
		// the attempt exited Active through another path
		e.mu.Unlock()
		return
	}
	ctx := context.Background()
	moduleID := session.ModuleID()
	score, total := session.Submit()
	att.cancel()
	delete(e.live, userID)
	e.bridge.Clear(ctx, userID)
	e.mu.Unlock()

	if _, _, err := e.progress.RecordQuizOutcome(ctx, userID, moduleID, score, total); err != nil {
		e.logger.Error("recording auto-submitted quiz outcome", err)
	}
}
