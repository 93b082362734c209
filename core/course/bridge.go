package course

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/scitech-butterfly/aasira/core"
)

const sessionKeyPrefix = "quizstate:"

func sessionKey(userID string) string { return sessionKeyPrefix + userID }

// SessionBridge shadows a live quiz session into a user-scoped key-value store
// so the session survives process and page restarts. There is no history:
// only the single current session is ever stored.
type SessionBridge struct {
	kv     core.KeyValueStore
	logger core.Logger
}

func NewSessionBridge(kv core.KeyValueStore, logger core.Logger) *SessionBridge {
	return &SessionBridge{kv: kv, logger: logger}
}

// Save durably writes the session state. Failures are logged and swallowed:
// a failed write only risks losing resumability, never the live session.
func (b *SessionBridge) Save(ctx context.Context, userID string, state SessionState) {
	data, err := json.Marshal(state)
	if err != nil {
		b.logger.Warn("marshalling quiz state", err)
		return
	}
	if err := b.kv.Set(ctx, sessionKey(userID), data); err != nil {
		b.logger.Warn("saving quiz state", err)
	}
}

// Load returns the user's saved session state if it can still seed a session:
// its module must exist and its deadline must be in the future. Anything else
// (missing, corrupt, stale) is discarded and reported as absent.
func (b *SessionBridge) Load(ctx context.Context, userID string, modules []Module, now time.Time) (SessionState, bool) {
	data, err := b.kv.Get(ctx, sessionKey(userID))
	if err != nil {
		if errors.Cause(err) != core.ErrKeyNotFound {
			b.logger.Warn("loading quiz state", err)
		}
		return SessionState{}, false
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		b.logger.Warn("parsing quiz state", err)
		b.Clear(ctx, userID)
		return SessionState{}, false
	}

	if _, ok := findModule(modules, state.ModuleID); !ok {
		b.Clear(ctx, userID)
		return SessionState{}, false
	}
	endTime := time.Unix(0, state.EndTime*int64(time.Millisecond))
	if !endTime.After(now) {
		b.Clear(ctx, userID)
		return SessionState{}, false
	}
	return state, true
}

// Clear erases the user's saved session state.
func (b *SessionBridge) Clear(ctx context.Context, userID string) {
	if err := b.kv.Remove(ctx, sessionKey(userID)); err != nil && errors.Cause(err) != core.ErrKeyNotFound {
		b.logger.Warn("clearing quiz state", err)
	}
}
