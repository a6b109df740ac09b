package models

import "time"

// Event kinds recorded in the task activity log.
const (
	EventCreate        = "create"
	EventStatusChanged = "status-changed"
	EventStateChanged  = "state-changed"
	EventDone          = "done"
	EventOpen          = "open"
	EventArchived      = "archived"
	EventUnarchived    = "unarchived"
	EventComment       = "comment-created"
)

// TaskEvent is one immutable entry in a task's activity log. Events are
// only ever appended; they disappear solely when the owning task is
// deleted. State carries the transition target for status-changed and
// state-changed events, FromState the prior value.
type TaskEvent struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index" json:"task_id"`
	Kind      string    `gorm:"size:32;not null;index" json:"kind"`
	State     string    `gorm:"size:255" json:"state,omitempty"`
	FromState string    `gorm:"size:255" json:"from_state,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
