package session

import (
	"testing"
	"time"

	"github.com/waterwatch/dashboard/internal/chart"
	"github.com/waterwatch/dashboard/internal/models"
	"github.com/waterwatch/dashboard/internal/testutil"
)

func TestManager_StartAndGet(t *testing.T) {
	m := NewManager()

	state := m.Start("tok-1", 42, "Alice")
	if state.ID == "" {
		t.Fatal("session id is empty")
	}
	if state.Token != "tok-1" || state.UserID != 42 || state.UserName != "Alice" {
		t.Errorf("session identity = %+v", state)
	}
	if state.Editor == nil {
		t.Fatal("session has no editor")
	}

	got, ok := m.Get(state.ID)
	if !ok || got.ID != state.ID {
		t.Errorf("Get(%q) = %v, %v", state.ID, got, ok)
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

func TestManager_GetUnknown(t *testing.T) {
	m := NewManager()
	if _, ok := m.Get("nope"); ok {
		t.Error("Get should miss for an unknown id")
	}
}

func TestManager_GetTouchesAccessTime(t *testing.T) {
	m := NewManager()
	state := m.Start("tok", 1, "u")

	before := state.LastAccessed
	time.Sleep(5 * time.Millisecond)
	m.Get(state.ID)
	if !state.LastAccessed.After(before) {
		t.Error("Get did not refresh LastAccessed")
	}
}

func TestManager_End(t *testing.T) {
	m := NewManager()
	state := m.Start("tok", 1, "u")

	b := chart.NewBinder(testutil.NewMockBackend(), "tok")
	b.Bind(models.Panel{ID: "p1"}, models.TimeRange{From: "now-1h", To: "now"}, 1, models.DashboardOptions{})
	state.PutBinder("p1", b)

	m.End(state.ID)
	if _, ok := m.Get(state.ID); ok {
		t.Error("ended session still retrievable")
	}
	if b.Polling() {
		t.Error("ending the session should stop its pollers")
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	m := NewManager()
	fresh := m.Start("tok-fresh", 1, "u1")
	stale := m.Start("tok-stale", 2, "u2")

	b := chart.NewBinder(testutil.NewMockBackend(), "tok")
	b.Bind(models.Panel{ID: "p1"}, models.TimeRange{From: "now-1h", To: "now"}, 1, models.DashboardOptions{})
	stale.PutBinder("p1", b)

	m.mu.Lock()
	stale.LastAccessed = time.Now().Add(-2 * time.Hour)
	m.mu.Unlock()

	removed := m.CleanupExpired(time.Hour)
	if removed != 1 {
		t.Errorf("CleanupExpired removed %d, want 1", removed)
	}
	if _, ok := m.Get(stale.ID); ok {
		t.Error("stale session survived cleanup")
	}
	if _, ok := m.Get(fresh.ID); !ok {
		t.Error("fresh session removed by cleanup")
	}
	if b.Polling() {
		t.Error("cleanup should stop pollers of expired sessions")
	}
}

func TestManager_EvictsOldestAtCapacity(t *testing.T) {
	m := NewManager()

	first := m.Start("tok-0", 0, "u0")
	m.mu.Lock()
	first.LastAccessed = time.Now().Add(-time.Hour)
	m.mu.Unlock()

	for i := 1; i < MaxSessions; i++ {
		m.Start("tok", int64(i), "u")
	}
	if m.Count() != MaxSessions {
		t.Fatalf("Count() = %d, want %d", m.Count(), MaxSessions)
	}

	m.Start("tok-new", 9999, "new")
	if m.Count() != MaxSessions {
		t.Errorf("Count() = %d after overflow, want %d", m.Count(), MaxSessions)
	}
	if _, ok := m.Get(first.ID); ok {
		t.Error("oldest session should have been evicted")
	}
}

func TestState_Binders(t *testing.T) {
	m := NewManager()
	state := m.Start("tok", 1, "u")
	mock := testutil.NewMockBackend()

	if state.Binder("p1") != nil {
		t.Error("binder present before registration")
	}

	b1 := chart.NewBinder(mock, "tok")
	b1.Bind(models.Panel{ID: "p1"}, models.TimeRange{From: "now-1h", To: "now"}, 1, models.DashboardOptions{})
	state.PutBinder("p1", b1)
	if state.Binder("p1") != b1 {
		t.Error("registered binder not returned")
	}

	// Replacing a binder closes the previous one.
	b2 := chart.NewBinder(mock, "tok")
	state.PutBinder("p1", b2)
	if b1.Polling() {
		t.Error("replaced binder still polling")
	}
	if state.Binder("p1") != b2 {
		t.Error("replacement binder not returned")
	}

	state.DropBinder("p1")
	if state.Binder("p1") != nil {
		t.Error("dropped binder still registered")
	}
}
