// Package model defines domain entities shared by the vault, assessor,
// workflow and action queue.
package model

import "time"

// Category is a derived record classification used only for triage ordering.
type Category string

// Known categories, in default triage priority order.
const (
	CategoryEmail     Category = "email"
	CategoryBanking   Category = "banking"
	CategorySocial    Category = "social"
	CategoryDeveloper Category = "developer"
	CategoryOther     Category = "other"
)

// DefaultCategoryOrder is the triage priority used when no custom order is configured.
var DefaultCategoryOrder = []Category{
	CategoryEmail, CategoryBanking, CategorySocial, CategoryDeveloper, CategoryOther,
}

// LifecycleState is a record's triage disposition, distinct from task status.
type LifecycleState string

const (
	StateActive        LifecycleState = "active"
	StateInactive      LifecycleState = "inactive"
	StateReviewLater   LifecycleState = "review_later"
	StateRetirePending LifecycleState = "retire_pending"
)

// ActionType identifies a queued remediation action.
type ActionType string

const (
	ActionRotatePassword ActionType = "rotate_password"
	ActionDeleteAccount  ActionType = "delete_account"
)

// TaskStatus is the execution state of a queued action.
// pending is the only non-terminal status; a task never leaves a terminal status.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskSkipped   TaskStatus = "skipped"
	TaskFailed    TaskStatus = "failed"
)

// Terminal reports whether the status is final.
func (s TaskStatus) Terminal() bool { return s != TaskPending }

// CredentialRecord is one imported login plus its triage state.
// RecordID is a pure function of (owner, service, username), so re-importing
// the same login merges instead of duplicating.
type CredentialRecord struct {
	RecordID        string         `json:"record_id"`
	Owner           string         `json:"owner"`
	Service         string         `json:"service"`
	URL             string         `json:"url"`
	Username        string         `json:"username"`
	Password        string         `json:"password"`
	Source          string         `json:"source"`
	PendingPassword string         `json:"pending_password,omitempty"`
	Category        Category       `json:"category"`
	Notes           string         `json:"notes,omitempty"`
	Compromised     bool           `json:"compromised"`
	BreachCount     int            `json:"breach_count"`
	LifecycleState  LifecycleState `json:"lifecycle_state"`
	LastCheckedAt   *time.Time     `json:"last_checked_at,omitempty"`
	LastRotatedAt   *time.Time     `json:"last_rotated_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ActionTask is a queued remediation action tied to one record.
// TaskID is a pure function of (record_id, action_type): re-queuing the same
// action on the same record is a no-op.
type ActionTask struct {
	TaskID    string     `json:"task_id"`
	RecordID  string     `json:"record_id"`
	Owner     string     `json:"owner"`
	Service   string     `json:"service"`
	URL       string     `json:"url"`
	ActionType ActionType `json:"action_type"`
	Status    TaskStatus `json:"status"`
	Detail    string     `json:"detail"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewRecord builds a CredentialRecord with derived identity and timestamps.
func NewRecord(owner, service, url, username, password, source string, now time.Time) CredentialRecord {
	domain := DomainFromURL(url)
	return CredentialRecord{
		RecordID:       RecordID(owner, service, username),
		Owner:          owner,
		Service:        service,
		URL:            url,
		Username:       username,
		Password:       password,
		Source:         source,
		Category:       ClassifyCategory(domain, service),
		LifecycleState: StateActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NewTask builds a pending ActionTask for the record with derived identity.
func NewTask(rec CredentialRecord, action ActionType, detail string, now time.Time) ActionTask {
	return ActionTask{
		TaskID:     TaskID(rec.RecordID, action),
		RecordID:   rec.RecordID,
		Owner:      rec.Owner,
		Service:    rec.Service,
		URL:        rec.URL,
		ActionType: action,
		Status:     TaskPending,
		Detail:     detail,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
