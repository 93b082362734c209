package course

import (
	"context"
	"testing"
	"time"
)

func TestSessionBridgeRoundTrip(t *testing.T) {
	ctx := context.Background()
	bridge := NewSessionBridge(newFakeKV(), nopLogger{})
	modules := testModules()
	now := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)

	state := SessionState{
		ModuleID:             1,
		CurrentQuestionIndex: 1,
		SelectedAnswers:      map[int]string{0: "4"},
		EndTime:              now.Add(10*time.Minute).UnixNano() / int64(time.Millisecond),
	}
	bridge.Save(ctx, "amara", state)

	got, ok := bridge.Load(ctx, "amara", modules, now)
	if !ok {
		t.Fatal("Load() = false, want true")
	}
	if got.ModuleID != 1 || got.CurrentQuestionIndex != 1 {
		t.Errorf("Load() = %+v", got)
	}
	if got.SelectedAnswers[0] != "4" {
		t.Errorf("SelectedAnswers[0] = %q, want %q", got.SelectedAnswers[0], "4")
	}
	if got.EndTime != state.EndTime {
		t.Errorf("EndTime = %d, want %d", got.EndTime, state.EndTime)
	}

	// state is per user
	if _, ok := bridge.Load(ctx, "beni", modules, now); ok {
		t.Error("Load() = true for another user")
	}
}

func TestSessionBridgeDiscards(t *testing.T) {
	modules := testModules()
	now := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)
	future := now.Add(10*time.Minute).UnixNano() / int64(time.Millisecond)

	tests := []struct {
		name  string
		state SessionState
		now   time.Time
	}{
		{
			name:  "unknown module",
			state: SessionState{ModuleID: 42, EndTime: future},
			now:   now,
		},
		{
			name:  "expired deadline",
			state: SessionState{ModuleID: 1, EndTime: future},
			now:   now.Add(time.Hour),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := newFakeKV()
			bridge := NewSessionBridge(kv, nopLogger{})

			bridge.Save(ctx, "amara", tt.state)
			if _, ok := bridge.Load(ctx, "amara", modules, tt.now); ok {
				t.Fatal("Load() = true, want false")
			}
			// the stale record is erased, not kept
			if _, err := kv.Get(ctx, sessionKey("amara")); err == nil {
				t.Error("stale state still stored after Load()")
			}
		})
	}
}

func TestSessionBridgeCorruptState(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	bridge := NewSessionBridge(kv, nopLogger{})

	if err := kv.Set(ctx, sessionKey("amara"), []byte("{not json")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := bridge.Load(ctx, "amara", testModules(), time.Now()); ok {
		t.Fatal("Load() = true for corrupt state")
	}
	if _, err := kv.Get(ctx, sessionKey("amara")); err == nil {
		t.Error("corrupt state still stored after Load()")
	}
}

func TestSessionBridgeClear(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	bridge := NewSessionBridge(kv, nopLogger{})
	now := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)

	bridge.Save(ctx, "amara", SessionState{
		ModuleID: 1,
		EndTime:  now.Add(10*time.Minute).UnixNano() / int64(time.Millisecond),
	})
	bridge.Clear(ctx, "amara")

	if _, ok := bridge.Load(ctx, "amara", testModules(), now); ok {
		t.Error("Load() = true after Clear()")
	}

	// clearing an absent record is fine
	bridge.Clear(ctx, "amara")
}
