package models

import (
	"time"
)

type NotificationKind string

const (
	NotificationFIRConfirmation NotificationKind = "fir_confirmation"
	NotificationPasswordReset   NotificationKind = "password_reset"
)

// NotificationTask is one queued transactional email. Tasks live only in
// process memory; they are not persisted.
type NotificationTask struct {
	ID          string                 `json:"id"`
	Kind        NotificationKind       `json:"kind"`
	Email       string                 `json:"email"`
	UserName    string                 `json:"user_name"`
	Payload     map[string]interface{} `json:"-"`
	Attempts    int                    `json:"attempts"`
	MaxAttempts int                    `json:"max_attempts"`
	CreatedAt   time.Time              `json:"created_at"`
}

// TaskSummary is the redacted view exposed by the queue status endpoint:
// no template payload, only delivery bookkeeping.
type TaskSummary struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Email     string           `json:"email"`
	Attempts  int              `json:"attempts"`
	CreatedAt time.Time        `json:"created_at"`
}

// QueueStatus describes the dispatch queue at a point in time.
type QueueStatus struct {
	Pending    int           `json:"pending"`
	Processing bool          `json:"processing"`
	Tasks      []TaskSummary `json:"tasks"`
}
