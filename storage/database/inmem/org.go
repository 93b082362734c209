package inmemdb

import (
	"context"
	"sort"
	"sync"

	"github.com/scitech-butterfly/aasira/core/org"
)

type orgRepository struct {
	mutex sync.RWMutex
	table map[string]*org.Organization
}

var _ org.Repository = (*orgRepository)(nil)

func NewOrgRepository() *orgRepository {
	return &orgRepository{table: make(map[string]*org.Organization)}
}

func (repo *orgRepository) CreateOrganization(_ context.Context, o org.Organization) (org.Organization, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.table[o.ID] = &o
	return o, nil
}

func (repo *orgRepository) QueryAllOrganizations(_ context.Context) ([]org.Organization, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	orgs := make([]org.Organization, 0, len(repo.table))
	for _, o := range repo.table {
		orgs = append(orgs, *o)
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })
	return orgs, nil
}

func (repo *orgRepository) GetOrganizationByID(_ context.Context, id string) (org.Organization, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if o, ok := repo.table[id]; ok {
		return *o, nil
	}
	return org.Organization{}, org.ErrNotFound
}

func (repo *orgRepository) UpdateOrganization(_ context.Context, o org.Organization) (org.Organization, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.table[o.ID]; !ok {
		return org.Organization{}, org.ErrNotFound
	}
	repo.table[o.ID] = &o
	return o, nil
}

func (repo *orgRepository) DeleteOrganization(_ context.Context, id string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.table[id]; !ok {
		return org.ErrNotFound
	}
	delete(repo.table, id)
	return nil
}
