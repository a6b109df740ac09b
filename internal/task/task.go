// Package task implements task lifecycle operations: creation, edits,
// status transitions, archival and comments. Every mutation persists the
// task together with the events it produces in a single transaction, so
// the activity log never drifts from the task state.
package task

import (
	"errors"
	"fmt"

	"github.com/Kilerd/todoki/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a task.
type CreateOpts struct {
	Priority int
	Content  string
	Group    string   // defaults to "default"
	Workflow string   // board, todo or stateful; empty derives from States
	Status   string   // board only; defaults to backlog
	States   []string // stateful only, at least 2 distinct entries
}

// UpdateOpts replaces a task's editable fields.
type UpdateOpts struct {
	Priority int
	Content  string
	Group    string
	States   []string
}

// Create validates opts, persists the task and its create event in one
// transaction, and returns the stored task.
func Create(db *gorm.DB, opts CreateOpts) (*models.Task, error) {
	workflow, err := resolveWorkflow(opts.Workflow, opts.States)
	if err != nil {
		return nil, err
	}

	if opts.Group == "" {
		opts.Group = "default"
	}

	t := models.Task{
		ID:       uuid.NewString(),
		Priority: opts.Priority,
		Content:  opts.Content,
		Group:    opts.Group,
		Workflow: workflow,
	}

	switch workflow {
	case models.WorkflowBoard:
		t.Status = models.StatusBacklog
		if opts.Status != "" {
			if !models.KnownStatus(opts.Status) {
				return nil, invalidf("unknown status: %q", opts.Status)
			}
			t.Status = opts.Status
		}
		t.Done = t.Status == models.StatusDone
	case models.WorkflowStateful:
		t.States = opts.States
		t.CurrentState = opts.States[0]
		t.Status = deriveStatus(workflow, false)
	default:
		t.Status = deriveStatus(workflow, false)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&t).Error; err != nil {
			return fmt.Errorf("task: create: %w", err)
		}
		return appendEvents(tx, []models.TaskEvent{{TaskID: t.ID, Kind: models.EventCreate}})
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Get returns a task with its events (newest first) and comments (oldest
// first) loaded.
func Get(db *gorm.DB, id string) (*models.Task, error) {
	var t models.Task
	err := db.
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("task: get %s: %w", id, err)
	}
	return &t, nil
}

// Update replaces the task's editable fields. Replacing the state list
// re-derives the workflow kind, the current-state pointer and the done
// flag; the edit path emits no event.
func Update(db *gorm.DB, id string, opts UpdateOpts) (*models.Task, error) {
	var t models.Task
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := loadTask(tx, id, &t); err != nil {
			return err
		}

		t.Priority = opts.Priority
		t.Content = opts.Content
		t.Group = opts.Group
		if t.Group == "" {
			t.Group = "default"
		}

		switch {
		case t.Workflow == models.WorkflowBoard:
			if len(opts.States) > 0 {
				return invalidf("custom states require a stateful task")
			}
		case len(opts.States) > 0:
			if distinctStates(opts.States) < 2 {
				return invalidf("stateful task requires at least 2 distinct states")
			}
			t.Workflow = models.WorkflowStateful
			t.States = opts.States
			t.CurrentState = deriveCurrentState(t.CurrentState, opts.States)
			t.Done = stateIndex(opts.States, t.CurrentState) == len(opts.States)-1
			t.Status = deriveStatus(t.Workflow, t.Done)
		default:
			t.Workflow = models.WorkflowTodo
			t.States = nil
			t.CurrentState = ""
			t.Status = deriveStatus(t.Workflow, t.Done)
		}

		if err := tx.Save(&t).Error; err != nil {
			return fmt.Errorf("task: update %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ChangeStatus moves the task to target per its workflow kind and
// appends the resulting events atomically with the task mutation.
func ChangeStatus(db *gorm.DB, id, target string) (*models.Task, error) {
	var t models.Task
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := loadTask(tx, id, &t); err != nil {
			return err
		}
		out, err := Transition(&t, target)
		if err != nil {
			return err
		}
		t.Status = out.Status
		t.CurrentState = out.CurrentState
		t.Done = out.Done
		if err := tx.Save(&t).Error; err != nil {
			return fmt.Errorf("task: update %s: %w", id, err)
		}
		return appendEvents(tx, out.Events)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Archive sets the archived flag and appends an archived event.
// Archiving an already-archived task appends another event; there is no
// dedup.
func Archive(db *gorm.DB, id string) (*models.Task, error) {
	return setArchived(db, id, true)
}

// Unarchive clears the archived flag and appends an unarchived event.
func Unarchive(db *gorm.DB, id string) (*models.Task, error) {
	return setArchived(db, id, false)
}

func setArchived(db *gorm.DB, id string, archived bool) (*models.Task, error) {
	kind := models.EventArchived
	if !archived {
		kind = models.EventUnarchived
	}

	var t models.Task
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := loadTask(tx, id, &t); err != nil {
			return err
		}
		t.Archived = archived
		if err := tx.Save(&t).Error; err != nil {
			return fmt.Errorf("task: update %s: %w", id, err)
		}
		return appendEvents(tx, []models.TaskEvent{{TaskID: t.ID, Kind: kind}})
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes the task along with its events and comments in one
// transaction.
func Delete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var t models.Task
		if err := loadTask(tx, id, &t); err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskEvent{}).Error; err != nil {
			return fmt.Errorf("task: delete events of %s: %w", id, err)
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskComment{}).Error; err != nil {
			return fmt.Errorf("task: delete comments of %s: %w", id, err)
		}
		if err := tx.Delete(&t).Error; err != nil {
			return fmt.Errorf("task: delete %s: %w", id, err)
		}
		return nil
	})
}

// AddComment attaches a comment and records a comment-created event in
// the same transaction.
func AddComment(db *gorm.DB, id, content string) (*models.TaskComment, error) {
	var comment models.TaskComment
	err := db.Transaction(func(tx *gorm.DB) error {
		var t models.Task
		if err := loadTask(tx, id, &t); err != nil {
			return err
		}
		comment = models.TaskComment{TaskID: t.ID, Content: content}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("task: add comment to %s: %w", id, err)
		}
		return appendEvents(tx, []models.TaskEvent{{TaskID: t.ID, Kind: models.EventComment}})
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// loadTask fetches a bare task row, translating the missing-row case.
func loadTask(db *gorm.DB, id string, t *models.Task) error {
	if err := db.Where("id = ?", id).First(t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("task: get %s: %w", id, err)
	}
	return nil
}

// appendEvents inserts events one by one so each row carries its own
// timestamp and ids stay in emission order.
func appendEvents(tx *gorm.DB, events []models.TaskEvent) error {
	for i := range events {
		if err := tx.Create(&events[i]).Error; err != nil {
			return fmt.Errorf("task: append %s event: %w", events[i].Kind, err)
		}
	}
	return nil
}
