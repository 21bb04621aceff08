package model

import (
	"testing"
	"time"
)

func TestRecordID_Deterministic(t *testing.T) {
	t.Parallel()
	a := RecordID("parent", "GitHub", "dev@example.com")
	b := RecordID("parent", "GitHub", "dev@example.com")
	if a != b {
		t.Fatalf("same triple must derive same id: %s != %s", a, b)
	}
	if RecordID("son", "GitHub", "dev@example.com") == a {
		t.Fatalf("different owner must derive different id")
	}
	if RecordID("parent", "GitLab", "dev@example.com") == a {
		t.Fatalf("different service must derive different id")
	}
}

func TestTaskID_Deterministic(t *testing.T) {
	t.Parallel()
	rid := RecordID("parent", "GitHub", "dev@example.com")
	a := TaskID(rid, ActionRotatePassword)
	if a != TaskID(rid, ActionRotatePassword) {
		t.Fatalf("same pair must derive same task id")
	}
	if a == TaskID(rid, ActionDeleteAccount) {
		t.Fatalf("different action must derive different task id")
	}
}

func TestNewRecord_DerivesIdentityAndCategory(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := NewRecord("parent", "GitHub", "https://github.com/login", "dev@example.com", "hunter2", "chrome", now)
	if rec.RecordID != RecordID("parent", "GitHub", "dev@example.com") {
		t.Fatalf("record id not derived from triple")
	}
	if rec.Category != CategoryDeveloper {
		t.Fatalf("category want developer, got %s", rec.Category)
	}
	if rec.LifecycleState != StateActive {
		t.Fatalf("new records start active, got %s", rec.LifecycleState)
	}
	if !rec.CreatedAt.Equal(now) || !rec.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps not stamped")
	}
}

func TestTaskStatus_Terminal(t *testing.T) {
	t.Parallel()
	if TaskPending.Terminal() {
		t.Fatalf("pending is not terminal")
	}
	for _, s := range []TaskStatus{TaskCompleted, TaskSkipped, TaskFailed} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
}
