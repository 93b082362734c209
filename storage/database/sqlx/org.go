package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/scitech-butterfly/aasira/core/org"
)

type orgRow struct {
	ID          string       `db:"id"`
	Name        string       `db:"name"`
	Description string       `db:"description"`
	CreatedAt   sql.NullTime `db:"created_at"`
	UpdatedAt   sql.NullTime `db:"updated_at"`
}

type eventRow struct {
	ID             string `db:"id"`
	OrganizationID string `db:"organization_id"`
	Title          string `db:"title"`
	Day            string `db:"day"`
	Date           string `db:"date"`
	Time           string `db:"time"`
}

func (row orgRow) organization(events []org.Event) org.Organization {
	o := org.Organization{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Events:      events,
	}
	if row.CreatedAt.Valid {
		o.CreatedAt = row.CreatedAt.Time.UTC()
	}
	if row.UpdatedAt.Valid {
		o.UpdatedAt = row.UpdatedAt.Time.UTC()
	}
	return o
}

type orgRepository struct {
	db *sqlx.DB
}

var _ org.Repository = (*orgRepository)(nil)

func NewOrgRepository(db *sqlx.DB) *orgRepository {
	return &orgRepository{db: db}
}

func (repo *orgRepository) queryEvents(ctx context.Context, orgID string) ([]org.Event, error) {
	var rows []eventRow
	query := `SELECT * FROM organization_event WHERE organization_id = $1 ORDER BY id`
	if err := repo.db.SelectContext(ctx, &rows, query, orgID); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]org.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, org.Event{ID: row.ID, Title: row.Title, Day: row.Day, Date: row.Date, Time: row.Time})
	}
	return events, nil
}

func insertEvents(ctx context.Context, tx *sqlx.Tx, orgID string, events []org.Event) error {
	query := `INSERT INTO organization_event (id, organization_id, title, day, date, time) VALUES ($1, $2, $3, $4, $5, $6)`
	for _, ev := range events {
		if _, err := tx.ExecContext(ctx, query, ev.ID, orgID, ev.Title, ev.Day, ev.Date, ev.Time); err != nil {
			return errors.Wrap(err, "inserting event")
		}
	}
	return nil
}

func (repo *orgRepository) CreateOrganization(ctx context.Context, o org.Organization) (org.Organization, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return org.Organization{}, errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback()

	query := `INSERT INTO organization (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err = tx.ExecContext(ctx, query, o.ID, o.Name, o.Description, o.CreatedAt, o.UpdatedAt); err != nil {
		return org.Organization{}, errors.Wrap(err, "inserting organization")
	}
	if err = insertEvents(ctx, tx, o.ID, o.Events); err != nil {
		return org.Organization{}, err
	}
	if err = tx.Commit(); err != nil {
		return org.Organization{}, errors.Wrap(err, "committing organization")
	}
	return o, nil
}

func (repo *orgRepository) QueryAllOrganizations(ctx context.Context) ([]org.Organization, error) {
	var rows []orgRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM organization ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying organizations")
	}

	orgs := make([]org.Organization, 0, len(rows))
	for _, row := range rows {
		events, err := repo.queryEvents(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, row.organization(events))
	}
	return orgs, nil
}

func (repo *orgRepository) GetOrganizationByID(ctx context.Context, id string) (org.Organization, error) {
	var row orgRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM organization WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return org.Organization{}, org.ErrNotFound
		}
		return org.Organization{}, errors.Wrap(err, "getting organization")
	}
	events, err := repo.queryEvents(ctx, id)
	if err != nil {
		return org.Organization{}, err
	}
	return row.organization(events), nil
}

func (repo *orgRepository) UpdateOrganization(ctx context.Context, o org.Organization) (org.Organization, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return org.Organization{}, errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback()

	query := `UPDATE organization SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	res, err := tx.ExecContext(ctx, query, o.Name, o.Description, o.UpdatedAt, o.ID)
	if err != nil {
		return org.Organization{}, errors.Wrap(err, "updating organization")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return org.Organization{}, org.ErrNotFound
	}

	// the event list is replaced wholesale
	if _, err = tx.ExecContext(ctx, `DELETE FROM organization_event WHERE organization_id = $1`, o.ID); err != nil {
		return org.Organization{}, errors.Wrap(err, "clearing events")
	}
	if err = insertEvents(ctx, tx, o.ID, o.Events); err != nil {
		return org.Organization{}, err
	}
	if err = tx.Commit(); err != nil {
		return org.Organization{}, errors.Wrap(err, "committing organization")
	}
	return o, nil
}

func (repo *orgRepository) DeleteOrganization(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM organization WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting organization")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return org.ErrNotFound
	}
	return nil
}
