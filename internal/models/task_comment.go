package models

import "time"

// TaskComment is a note attached to a task, immutable once written.
type TaskComment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index" json:"task_id"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
