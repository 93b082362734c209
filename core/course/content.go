package course

import (
	"context"

	"github.com/pkg/errors"
)

// ErrModuleNotFound is returned when a module id is not part of the course.
var ErrModuleNotFound = errors.New("module not found")

// ContentProvider supplies the course content.
// The module ordering is fixed at deploy time; implementations must return
// modules with contiguous SequenceIndex values starting at 0.
type ContentProvider interface {
	Modules(ctx context.Context) ([]Module, error)
}

func findModule(modules []Module, moduleID int) (Module, bool) {
	for _, m := range modules {
		if m.ID == moduleID {
			return m, true
		}
	}
	return Module{}, false
}
