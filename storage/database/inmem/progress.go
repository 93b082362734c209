package inmemdb

import (
	"context"
	"sort"
	"sync"

	"github.com/scitech-butterfly/aasira/core/course"
)

type progressRepository struct {
	mutex sync.RWMutex
	table map[string]*course.UserProgress
}

var _ course.ProgressRepository = (*progressRepository)(nil)

func NewProgressRepository() *progressRepository {
	return &progressRepository{table: make(map[string]*course.UserProgress)}
}

func (repo *progressRepository) GetProgress(_ context.Context, userID string) (course.UserProgress, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if progress, ok := repo.table[userID]; ok {
		return *progress, nil
	}
	return course.UserProgress{}, course.ErrProgressNotFound
}

func (repo *progressRepository) SaveProgress(
	_ context.Context,
	userID string,
	statuses []course.ModuleStatus,
	outcome *course.QuizOutcome,
) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	progress, ok := repo.table[userID]
	if !ok {
		progress = &course.UserProgress{UserID: userID}
		repo.table[userID] = progress
	}
	progress.Statuses = make([]course.ModuleStatus, len(statuses))
	copy(progress.Statuses, statuses)
	if outcome != nil {
		progress.Results = append(progress.Results, *outcome)
		progress.UpdatedAt = outcome.CompletedAt
	}
	return nil
}

func (repo *progressRepository) QueryAllProgress(_ context.Context) ([]course.UserProgress, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	all := make([]course.UserProgress, 0, len(repo.table))
	for _, progress := range repo.table {
		all = append(all, *progress)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })
	return all, nil
}
