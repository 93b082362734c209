package org

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("organization not found")
)

type (
	Repository interface {
		CreateOrganization(ctx context.Context, o Organization) (Organization, error)
		QueryAllOrganizations(ctx context.Context) ([]Organization, error)
		GetOrganizationByID(ctx context.Context, id string) (Organization, error)
		UpdateOrganization(ctx context.Context, o Organization) (Organization, error)
		DeleteOrganization(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// withEventIDs assigns an id to every event that does not have one yet.
func withEventIDs(events []Event) []Event {
	for i, ev := range events {
		if ev.ID == "" {
			events[i].ID = uuid.New().String()
		}
	}
	return events
}

func (svc *Service) Create(ctx context.Context, no NewOrganization) (Organization, error) {
	now := time.Now().UTC()
	o := Organization{
		ID:          uuid.New().String(),
		Name:        no.Name,
		Description: no.Description,
		Events:      withEventIDs(no.Events),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateOrganization(ctx, o)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Organization, error) {
	return svc.repo.QueryAllOrganizations(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Organization, error) {
	return svc.repo.GetOrganizationByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, uo UpdateOrganization) (Organization, error) {
	o, err := svc.repo.GetOrganizationByID(ctx, id)
	if err != nil {
		return Organization{}, err
	}
	o.Name = uo.Name
	o.Description = uo.Description
	if uo.Events != nil {
		o.Events = withEventIDs(uo.Events)
	}
	o.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateOrganization(ctx, o)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteOrganization(ctx, id)
}
