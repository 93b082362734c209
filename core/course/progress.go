package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/scitech-butterfly/aasira/core"
)

var (
	nowFunc = time.Now // mockable

	// errors
	ErrProgressNotFound = errors.New("progress not found")
	ErrModuleLocked     = errors.New("module is locked")
)

type (
	// UserProgress is one user's full progress record: exactly one status per
	// module, plus the history of submitted quiz attempts.
	UserProgress struct {
		UserID    string         `json:"userId"`
		Statuses  []ModuleStatus `json:"moduleStatuses"`
		Results   []QuizOutcome  `json:"quizResults"`
		UpdatedAt time.Time      `json:"lastUpdated"` // UTC
	}

	ProgressRepository interface {
		GetProgress(ctx context.Context, userID string) (UserProgress, error)
		// SaveProgress upserts the user's statuses and appends outcome to the
		// result history when non-nil.
		SaveProgress(ctx context.Context, userID string, statuses []ModuleStatus, outcome *QuizOutcome) error
		QueryAllProgress(ctx context.Context) ([]UserProgress, error)
	}

	ProgressService struct {
		content ContentProvider
		repo    ProgressRepository
		logger  core.Logger
	}
)

func NewProgressService(content ContentProvider, repo ProgressRepository, logger core.Logger) *ProgressService {
	return &ProgressService{content: content, repo: repo, logger: logger}
}

// InitialStatuses produces the first-login statuses: the module with the
// lowest sequence index starts unlocked, all others locked.
func InitialStatuses(modules []Module) []ModuleStatus {
	statuses := make([]ModuleStatus, 0, len(modules))
	for _, m := range modules {
		status := StatusLocked
		if m.SequenceIndex == 0 {
			status = StatusUnlocked
		}
		statuses = append(statuses, ModuleStatus{ModuleID: m.ID, Status: status})
	}
	return statuses
}

// StatusOf returns the user's status for a module; unknown modules are locked.
func StatusOf(statuses []ModuleStatus, moduleID int) Status {
	for _, s := range statuses {
		if s.ModuleID == moduleID {
			return s.Status
		}
	}
	return StatusLocked
}

// raiseStatus promotes a module's status, never demoting it.
func raiseStatus(statuses []ModuleStatus, moduleID int, status Status) []ModuleStatus {
	for i, s := range statuses {
		if s.ModuleID == moduleID {
			if status.Rank() > s.Status.Rank() {
				statuses[i].Status = status
			}
			return statuses
		}
	}
	return statuses
}

// applyOutcome applies the unlock-propagation rule to a copy of statuses.
// A pass completes the module and unlocks the single next module in sequence
// if it is still locked; a fail changes nothing.
func applyOutcome(modules []Module, statuses []ModuleStatus, moduleID, score, total int) ([]ModuleStatus, QuizResult) {
	result := QuizResult{Score: score, Total: total, Passed: Passed(score, total)}

	updated := make([]ModuleStatus, len(statuses))
	copy(updated, statuses)
	if !result.Passed {
		return updated, result
	}

	updated = raiseStatus(updated, moduleID, StatusCompleted)

	mod, ok := findModule(modules, moduleID)
	if !ok {
		return updated, result
	}
	for _, m := range modules {
		if m.SequenceIndex == mod.SequenceIndex+1 {
			updated = raiseStatus(updated, m.ID, StatusUnlocked)
			break
		}
	}
	return updated, result
}

// covers reports whether statuses holds exactly one record per module.
func covers(modules []Module, statuses []ModuleStatus) bool {
	if len(statuses) != len(modules) {
		return false
	}
	for _, m := range modules {
		found := false
		for _, s := range statuses {
			if s.ModuleID == m.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Get returns the user's progress, initializing it on first access or when the
// persisted record no longer matches the module set.
func (svc *ProgressService) Get(ctx context.Context, userID string) (UserProgress, error) {
	modules, err := svc.content.Modules(ctx)
	if err != nil {
		return UserProgress{}, errors.Wrap(err, "loading modules")
	}

	progress, err := svc.repo.GetProgress(ctx, userID)
	if err == nil && covers(modules, progress.Statuses) {
		return progress, nil
	}
	if err != nil && errors.Cause(err) != ErrProgressNotFound {
		return UserProgress{}, errors.Wrap(err, "loading progress")
	}

	progress = UserProgress{
		UserID:    userID,
		Statuses:  InitialStatuses(modules),
		UpdatedAt: nowFunc().UTC(),
	}
	if err := svc.repo.SaveProgress(ctx, userID, progress.Statuses, nil); err != nil {
		// non-fatal: the in-memory record is authoritative for this session
		svc.logger.Warn("saving initial progress", err)
	}
	return progress, nil
}

// CanEnter reports whether the user may open a module.
func (svc *ProgressService) CanEnter(ctx context.Context, userID string, moduleID int) (bool, error) {
	progress, err := svc.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return StatusOf(progress.Statuses, moduleID) != StatusLocked, nil
}

// RecordQuizOutcome applies a submitted attempt to the user's progress.
// The in-memory update always applies; the durable write is best-effort and a
// failure is logged, never surfaced.
func (svc *ProgressService) RecordQuizOutcome(ctx context.Context, userID string, moduleID, score, total int) (UserProgress, QuizResult, error) {
	modules, err := svc.content.Modules(ctx)
	if err != nil {
		return UserProgress{}, QuizResult{}, errors.Wrap(err, "loading modules")
	}
	progress, err := svc.Get(ctx, userID)
	if err != nil {
		return UserProgress{}, QuizResult{}, err
	}

	statuses, result := applyOutcome(modules, progress.Statuses, moduleID, score, total)
	outcome := QuizOutcome{
		ModuleID:    moduleID,
		Score:       result.Score,
		Total:       result.Total,
		Passed:      result.Passed,
		CompletedAt: nowFunc().UTC(),
	}

	progress.Statuses = statuses
	progress.Results = append(progress.Results, outcome)
	progress.UpdatedAt = outcome.CompletedAt

	if err := svc.repo.SaveProgress(ctx, userID, statuses, &outcome); err != nil {
		svc.logger.Warn("saving quiz outcome", err)
	}
	return progress, result, nil
}

// QueryAll returns every user's progress, most recently updated first.
func (svc *ProgressService) QueryAll(ctx context.Context) ([]UserProgress, error) {
	return svc.repo.QueryAllProgress(ctx)
}
