package task

import (
	"fmt"
	"time"

	"github.com/Kilerd/todoki/internal/models"
	"gorm.io/gorm"
)

// listOrder is shared by every listing: urgent first, then newest first.
const listOrder = "priority DESC, created_at DESC"

// ListToday returns the working set for the day: open unarchived tasks,
// plus anything with event activity inside today's calendar day in loc,
// archived or done included.
func ListToday(db *gorm.DB, loc *time.Location) ([]models.Task, error) {
	start, end := dayRange(time.Now(), loc)
	active := db.Model(&models.TaskEvent{}).Select("task_id").
		Where("created_at >= ? AND created_at < ?", start, end)

	var tasks []models.Task
	if err := db.
		Where("(done = ? AND archived = ?) OR id IN (?)", false, false, active).
		Order(listOrder).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("task: list today: %w", err)
	}
	return tasks, nil
}

// ListByStatus returns unarchived tasks in any of the given status
// buckets.
func ListByStatus(db *gorm.DB, statuses ...string) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.
		Where("archived = ? AND status IN ?", false, statuses).
		Order(listOrder).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("task: list by status: %w", err)
	}
	return tasks, nil
}

// ListInbox returns unarchived tasks that are ready or moving.
func ListInbox(db *gorm.DB) ([]models.Task, error) {
	return ListByStatus(db, models.StatusTodo, models.StatusInProgress, models.StatusInReview)
}

// ListBacklog returns unarchived backlog tasks.
func ListBacklog(db *gorm.DB) ([]models.Task, error) {
	return ListByStatus(db, models.StatusBacklog)
}

// ListInProgress returns unarchived tasks in flight, review included.
func ListInProgress(db *gorm.DB) ([]models.Task, error) {
	return ListByStatus(db, models.StatusInProgress, models.StatusInReview)
}

// ListDone returns unarchived finished tasks.
func ListDone(db *gorm.DB) ([]models.Task, error) {
	return ListByStatus(db, models.StatusDone)
}

// ListDoneToday returns done tasks whose closing event happened inside
// today's calendar day in loc.
func ListDoneToday(db *gorm.DB, loc *time.Location) ([]models.Task, error) {
	start, end := dayRange(time.Now(), loc)
	closed := db.Model(&models.TaskEvent{}).Select("task_id").
		Where("created_at >= ? AND created_at < ?", start, end).
		Where("kind = ? OR (kind = ? AND state = ?)",
			models.EventDone, models.EventStatusChanged, models.StatusDone)

	var tasks []models.Task
	if err := db.
		Where("archived = ? AND status = ? AND id IN (?)", false, models.StatusDone, closed).
		Order(listOrder).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("task: list done today: %w", err)
	}
	return tasks, nil
}

// dayRange returns the half-open bounds of now's calendar day in loc.
func dayRange(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
