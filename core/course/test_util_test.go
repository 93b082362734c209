package course

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/scitech-butterfly/aasira/core"
)

var errSaveFailed = errors.New("save failed")

func testModules() []Module {
	return []Module{
		{
			ID:            1,
			SequenceIndex: 0,
			Title:         "Digital Basics",
			Quiz: []Question{
				{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
				{Prompt: "Capital of DRC?", Options: []string{"Goma", "Kinshasa"}, CorrectAnswer: "Kinshasa"},
			},
		},
		{
			ID:            2,
			SequenceIndex: 1,
			Title:         "Financial Literacy",
			Quiz: []Question{
				{Prompt: "1+1?", Options: []string{"2", "11"}, CorrectAnswer: "2"},
			},
		},
		{
			ID:            3,
			SequenceIndex: 2,
			Title:         "Wrap Up",
		},
	}
}

type fakeContent struct {
	modules []Module
}

func (c *fakeContent) Modules(_ context.Context) ([]Module, error) {
	modules := make([]Module, len(c.modules))
	copy(modules, c.modules)
	return modules, nil
}

type fakeProgressRepo struct {
	mu       sync.Mutex
	records  map[string]UserProgress
	failSave bool
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[string]UserProgress)}
}

func (repo *fakeProgressRepo) GetProgress(_ context.Context, userID string) (UserProgress, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if prog, ok := repo.records[userID]; ok {
		return prog, nil
	}
	return UserProgress{}, ErrProgressNotFound
}

func (repo *fakeProgressRepo) SaveProgress(_ context.Context, userID string, statuses []ModuleStatus, outcome *QuizOutcome) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.failSave {
		return errSaveFailed
	}
	prog := repo.records[userID]
	prog.UserID = userID
	prog.Statuses = make([]ModuleStatus, len(statuses))
	copy(prog.Statuses, statuses)
	if outcome != nil {
		prog.Results = append(prog.Results, *outcome)
		prog.UpdatedAt = outcome.CompletedAt
	}
	repo.records[userID] = prog
	return nil
}

func (repo *fakeProgressRepo) QueryAllProgress(_ context.Context) ([]UserProgress, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	records := make([]UserProgress, 0, len(repo.records))
	for _, prog := range repo.records {
		records = append(records, prog)
	}
	return records, nil
}

type fakeKV struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newFakeKV() *fakeKV {
	return &fakeKV{m: make(map[string][]byte)}
}

func (kv *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if data, ok := kv.m[key]; ok {
		return data, nil
	}
	return nil, core.ErrKeyNotFound
}

func (kv *fakeKV) Set(_ context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.m[key] = value
	return nil
}

func (kv *fakeKV) Remove(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.m, key)
	return nil
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}
