package models

import "time"

// Board statuses, in workflow order. The order matters only for reading
// a board; transitions may jump between any two statuses.
const (
	StatusBacklog    = "backlog"
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusInReview   = "in-review"
	StatusDone       = "done"
)

// Workflow kinds. A board task carries one of the five fixed statuses.
// A todo task carries only the done flag. A stateful task carries an
// ordered list of caller-defined states with a current-state pointer.
const (
	WorkflowBoard    = "board"
	WorkflowTodo     = "todo"
	WorkflowStateful = "stateful"
)

// Statuses lists the board statuses in workflow order.
var Statuses = []string{
	StatusBacklog,
	StatusTodo,
	StatusInProgress,
	StatusInReview,
	StatusDone,
}

// KnownStatus reports whether s is one of the five board statuses.
func KnownStatus(s string) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Task is the current-state projection of a tracked work item. The full
// history lives in the task's events.
//
// Status is authoritative for board tasks. For todo and stateful tasks it
// is a derived bucket (todo, in-progress or done) kept in sync on every
// mutation, so listings can filter on status regardless of workflow kind.
type Task struct {
	ID           string   `gorm:"primaryKey;size:36" json:"id"`
	Priority     int      `gorm:"default:0;index" json:"priority"`
	Content      string   `gorm:"type:text" json:"content"`
	Group        string   `gorm:"size:255;default:default" json:"group"`
	Workflow     string   `gorm:"size:16;default:todo;index" json:"workflow"`
	Status       string   `gorm:"size:16;default:backlog;index" json:"status"`
	States       []string `gorm:"serializer:json" json:"states,omitempty"`
	CurrentState string   `gorm:"size:255" json:"current_state,omitempty"`
	Done         bool     `gorm:"default:false;index" json:"done"`
	Archived     bool     `gorm:"default:false;index" json:"archived"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Events   []TaskEvent   `gorm:"foreignKey:TaskID" json:"events,omitempty"`
	Comments []TaskComment `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}
