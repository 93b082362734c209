package course

import (
	"context"
	"testing"
	"time"
)

func TestPassed(t *testing.T) {
	tests := []struct {
		name         string
		score, total int
		want         bool
	}{
		{name: "perfect score", score: 2, total: 2, want: true},
		{name: "exactly at threshold", score: 3, total: 5, want: true},
		{name: "just below threshold", score: 59, total: 100, want: false},
		{name: "half is not enough", score: 1, total: 2, want: false},
		{name: "zero of zero never passes", score: 0, total: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Passed(tt.score, tt.total); got != tt.want {
				t.Errorf("Passed(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.want)
			}
		})
	}
}

func TestInitialStatuses(t *testing.T) {
	statuses := InitialStatuses(testModules())
	if len(statuses) != 3 {
		t.Fatalf("len(statuses) = %d, want 3", len(statuses))
	}
	if got := StatusOf(statuses, 1); got != StatusUnlocked {
		t.Errorf("StatusOf(1) = %s, want %s", got, StatusUnlocked)
	}
	if got := StatusOf(statuses, 2); got != StatusLocked {
		t.Errorf("StatusOf(2) = %s, want %s", got, StatusLocked)
	}
	if got := StatusOf(statuses, 3); got != StatusLocked {
		t.Errorf("StatusOf(3) = %s, want %s", got, StatusLocked)
	}
	if got := StatusOf(statuses, 42); got != StatusLocked {
		t.Errorf("StatusOf(42) = %s, want %s", got, StatusLocked)
	}
}

func newTestProgressService(repo ProgressRepository) *ProgressService {
	return NewProgressService(&fakeContent{modules: testModules()}, repo, nopLogger{})
}

func TestProgressServiceGet(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProgressRepo()
	svc := newTestProgressService(repo)

	// first access initializes
	prog, err := svc.Get(ctx, "amara")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := StatusOf(prog.Statuses, 1); got != StatusUnlocked {
		t.Errorf("StatusOf(1) = %s, want %s", got, StatusUnlocked)
	}

	// second access returns the persisted record
	again, err := svc.Get(ctx, "amara")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(again.Statuses) != len(prog.Statuses) {
		t.Errorf("len(Statuses) = %d, want %d", len(again.Statuses), len(prog.Statuses))
	}

	// a record that no longer covers the module set is re-initialized
	_ = repo.SaveProgress(ctx, "beni", []ModuleStatus{{ModuleID: 1, Status: StatusCompleted}}, nil)
	prog, err = svc.Get(ctx, "beni")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(prog.Statuses) != 3 {
		t.Errorf("len(Statuses) = %d, want 3", len(prog.Statuses))
	}
	if got := StatusOf(prog.Statuses, 1); got != StatusUnlocked {
		t.Errorf("StatusOf(1) = %s, want %s", got, StatusUnlocked)
	}
}

func TestProgressServiceCanEnter(t *testing.T) {
	ctx := context.Background()
	svc := newTestProgressService(newFakeProgressRepo())

	tests := []struct {
		name     string
		moduleID int
		want     bool
	}{
		{name: "first module open", moduleID: 1, want: true},
		{name: "second module locked", moduleID: 2, want: false},
		{name: "unknown module locked", moduleID: 42, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := svc.CanEnter(ctx, "amara", tt.moduleID)
			if err != nil {
				t.Fatalf("CanEnter() error = %v", err)
			}
			if ok != tt.want {
				t.Errorf("CanEnter(%d) = %v, want %v", tt.moduleID, ok, tt.want)
			}
		})
	}
}

func TestRecordQuizOutcome(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProgressRepo()
	svc := newTestProgressService(repo)

	// failing keeps everything as is
	prog, result, err := svc.RecordQuizOutcome(ctx, "amara", 1, 1, 2)
	if err != nil {
		t.Fatalf("RecordQuizOutcome() error = %v", err)
	}
	if result.Passed {
		t.Error("result.Passed = true for 1/2")
	}
	if got := StatusOf(prog.Statuses, 1); got != StatusUnlocked {
		t.Errorf("StatusOf(1) = %s, want %s", got, StatusUnlocked)
	}
	if got := StatusOf(prog.Statuses, 2); got != StatusLocked {
		t.Errorf("StatusOf(2) = %s, want %s", got, StatusLocked)
	}
	if len(prog.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1", len(prog.Results))
	}

	// passing completes the module and unlocks the next one only
	prog, result, err = svc.RecordQuizOutcome(ctx, "amara", 1, 2, 2)
	if err != nil {
		t.Fatalf("RecordQuizOutcome() error = %v", err)
	}
	if !result.Passed {
		t.Error("result.Passed = false for 2/2")
	}
	if got := StatusOf(prog.Statuses, 1); got != StatusCompleted {
		t.Errorf("StatusOf(1) = %s, want %s", got, StatusCompleted)
	}
	if got := StatusOf(prog.Statuses, 2); got != StatusUnlocked {
		t.Errorf("StatusOf(2) = %s, want %s", got, StatusUnlocked)
	}
	if got := StatusOf(prog.Statuses, 3); got != StatusLocked {
		t.Errorf("StatusOf(3) = %s, want %s", got, StatusLocked)
	}

	// a later failed retake never demotes
	prog, _, err = svc.RecordQuizOutcome(ctx, "amara", 1, 0, 2)
	if err != nil {
		t.Fatalf("RecordQuizOutcome() error = %v", err)
	}
	if got := StatusOf(prog.Statuses, 1); got != StatusCompleted {
		t.Errorf("StatusOf(1) = %s, want %s", got, StatusCompleted)
	}
	if got := StatusOf(prog.Statuses, 2); got != StatusUnlocked {
		t.Errorf("StatusOf(2) = %s, want %s", got, StatusUnlocked)
	}

	// a passed retake is idempotent
	prog, _, err = svc.RecordQuizOutcome(ctx, "amara", 1, 2, 2)
	if err != nil {
		t.Fatalf("RecordQuizOutcome() error = %v", err)
	}
	if got := StatusOf(prog.Statuses, 1); got != StatusCompleted {
		t.Errorf("StatusOf(1) = %s, want %s", got, StatusCompleted)
	}
	if got := StatusOf(prog.Statuses, 3); got != StatusLocked {
		t.Errorf("StatusOf(3) = %s, want %s", got, StatusLocked)
	}
	if len(prog.Results) != 4 {
		t.Errorf("len(Results) = %d, want 4", len(prog.Results))
	}
}

func TestRecordQuizOutcomeSaveFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProgressRepo()
	svc := newTestProgressService(repo)

	// seed durable progress, then break the repo
	if _, err := svc.Get(ctx, "amara"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	repo.failSave = true

	// the returned in-memory update still applies
	prog, result, err := svc.RecordQuizOutcome(ctx, "amara", 1, 2, 2)
	if err != nil {
		t.Fatalf("RecordQuizOutcome() error = %v", err)
	}
	if !result.Passed {
		t.Error("result.Passed = false for 2/2")
	}
	if got := StatusOf(prog.Statuses, 1); got != StatusCompleted {
		t.Errorf("StatusOf(1) = %s, want %s", got, StatusCompleted)
	}
	if len(prog.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1", len(prog.Results))
	}
}

func TestQueryAllProgress(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProgressRepo()
	svc := newTestProgressService(repo)

	if _, _, err := svc.RecordQuizOutcome(ctx, "amara", 1, 2, 2); err != nil {
		t.Fatalf("RecordQuizOutcome() error = %v", err)
	}
	if _, err := svc.Get(ctx, "beni"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	records, err := svc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("len(records) = %d, want 2", len(records))
	}
}

func TestOutcomeTimestampsAreUTC(t *testing.T) {
	ctx := context.Background()
	svc := newTestProgressService(newFakeProgressRepo())

	before := time.Now().UTC()
	prog, _, err := svc.RecordQuizOutcome(ctx, "amara", 1, 2, 2)
	if err != nil {
		t.Fatalf("RecordQuizOutcome() error = %v", err)
	}
	outcome := prog.Results[len(prog.Results)-1]
	if outcome.CompletedAt.Before(before) || outcome.CompletedAt.After(time.Now().UTC()) {
		t.Errorf("CompletedAt = %v out of range", outcome.CompletedAt)
	}
	if outcome.CompletedAt.Location() != time.UTC {
		t.Errorf("CompletedAt location = %v, want UTC", outcome.CompletedAt.Location())
	}
}
