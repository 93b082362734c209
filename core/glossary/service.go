package glossary

import (
	"context"
	"sort"
	"strings"

	"github.com/scitech-butterfly/aasira/core"
)

// Term is a single glossary entry.
type Term struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
}

// Provider supplies the glossary content, fixed at deploy time.
type Provider interface {
	Terms(ctx context.Context) ([]Term, error)
}

type Service struct {
	provider Provider
}

func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// Search returns the terms whose name or definition contains search,
// case-insensitively, sorted alphabetically. An empty search returns all terms.
func (svc *Service) Search(ctx context.Context, search string) ([]Term, error) {
	terms, err := svc.provider.Terms(ctx)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(core.CleanString(search))
	matches := make([]Term, 0, len(terms))
	for _, t := range terms {
		if search == "" ||
			strings.Contains(strings.ToLower(t.Term), search) ||
			strings.Contains(strings.ToLower(t.Definition), search) {
			matches = append(matches, t)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Term < matches[j].Term })
	return matches, nil
}
