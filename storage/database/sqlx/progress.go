package sqlxrepos

import (
	"context"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/scitech-butterfly/aasira/core/course"
)

type progressRepository struct {
	db *sqlx.DB
}

var _ course.ProgressRepository = (*progressRepository)(nil)

func NewProgressRepository(db *sqlx.DB) *progressRepository {
	return &progressRepository{db: db}
}

func (repo *progressRepository) GetProgress(ctx context.Context, userID string) (course.UserProgress, error) {
	var statuses []course.ModuleStatus
	query := `SELECT module_id, status FROM module_status WHERE user_id = $1 ORDER BY module_id`
	if err := repo.db.SelectContext(ctx, &statuses, query, userID); err != nil {
		return course.UserProgress{}, errors.Wrap(err, "querying module statuses")
	}
	if len(statuses) == 0 {
		return course.UserProgress{}, course.ErrProgressNotFound
	}

	var results []course.QuizOutcome
	query = `SELECT module_id, score, total, passed, completed_at FROM quiz_result WHERE user_id = $1 ORDER BY completed_at`
	if err := repo.db.SelectContext(ctx, &results, query, userID); err != nil {
		return course.UserProgress{}, errors.Wrap(err, "querying quiz results")
	}

	prog := course.UserProgress{UserID: userID, Statuses: statuses, Results: results}
	query = `SELECT COALESCE(MAX(completed_at), 'epoch'::timestamptz) FROM quiz_result WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &prog.UpdatedAt, query, userID); err != nil {
		return course.UserProgress{}, errors.Wrap(err, "querying last update")
	}
	prog.UpdatedAt = prog.UpdatedAt.UTC()
	return prog, nil
}

func (repo *progressRepository) SaveProgress(ctx context.Context, userID string, statuses []course.ModuleStatus, outcome *course.QuizOutcome) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback()

	query := `
INSERT INTO module_status (user_id, module_id, status) VALUES ($1, $2, $3)
ON CONFLICT (user_id, module_id) DO UPDATE SET status = EXCLUDED.status`
	for _, s := range statuses {
		if _, err = tx.ExecContext(ctx, query, userID, s.ModuleID, s.Status); err != nil {
			return errors.Wrap(err, "upserting module status")
		}
	}

	if outcome != nil {
		completedAt := outcome.CompletedAt
		if completedAt.IsZero() {
			completedAt = time.Now().UTC()
		}
		query = `INSERT INTO quiz_result (user_id, module_id, score, total, passed, completed_at) VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err = tx.ExecContext(ctx, query, userID, outcome.ModuleID, outcome.Score, outcome.Total, outcome.Passed, completedAt); err != nil {
			return errors.Wrap(err, "inserting quiz result")
		}
	}
	return errors.Wrap(tx.Commit(), "committing progress")
}

func (repo *progressRepository) QueryAllProgress(ctx context.Context) ([]course.UserProgress, error) {
	var userIDs []string
	if err := repo.db.SelectContext(ctx, &userIDs, `SELECT DISTINCT user_id FROM module_status`); err != nil {
		return nil, errors.Wrap(err, "querying progress users")
	}

	records := make([]course.UserProgress, 0, len(userIDs))
	for _, uid := range userIDs {
		prog, err := repo.GetProgress(ctx, uid)
		if err != nil {
			return nil, err
		}
		records = append(records, prog)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].UpdatedAt.After(records[j].UpdatedAt) })
	return records, nil
}
