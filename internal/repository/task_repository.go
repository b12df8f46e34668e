package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"deskbot/internal/model"
)

// ErrTaskNotFound reports an id, key or title that matched no task.
var ErrTaskNotFound = errors.New("task not found")

const createdAtLayout = "2006-01-02T15:04:05"

// TaskRepository handles task persistence and key allocation.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create allocates the task's number and key and inserts the row, all in one
// transaction so concurrent writers cannot observe or reuse the same number.
// ID, Title and Category must be set by the caller; TaskKey, TaskNumber and
// (when empty) CreatedAt are filled in here.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createInTx(tx, task)
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// CreateInstanceIfAbsent inserts a materialized template instance unless one
// already exists for the same template and calendar date. The existence
// check, numbering and insert share a transaction, so repeated day views for
// today cannot double-materialize.
func (r *TaskRepository) CreateInstanceIfAbsent(ctx context.Context, task *model.Task, date string) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.Task{}).
			Where("parent_task_id = ? AND scheduled_date LIKE ?", task.ParentTaskID, date+"%").
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		created = true
		return createInTx(tx, task)
	})
	if err != nil {
		return false, fmt.Errorf("materialize instance: %w", err)
	}
	return created, nil
}

func createInTx(tx *gorm.DB, task *model.Task) error {
	if task.RecurrenceRule != nil && strings.TrimSpace(*task.RecurrenceRule) == "" {
		task.RecurrenceRule = nil
	}
	if task.CreatedAt == "" {
		task.CreatedAt = time.Now().Format(createdAtLayout)
	}

	number, err := allocateNumber(tx, task.Category, task.ScheduledDate, task.IsTemplate)
	if err != nil {
		return err
	}
	task.TaskNumber = number
	task.TaskKey = formatTaskKey(task.Category, number, task.IsTemplate)
	return tx.Create(task).Error
}

// allocateNumber implements the numbering policy. Templates draw from the
// "R-"-prefixed sequential counter for their category. Daily and meeting
// tasks are numbered densely per calendar date by recounting live rows, so
// deletions free up numbers. Everything else draws from a per-category
// counter that is never reset or reused.
func allocateNumber(tx *gorm.DB, category string, scheduledDate *string, isTemplate bool) (int, error) {
	if isTemplate {
		return nextSequenceNumber(tx, model.TemplateKeyPrefix+category)
	}

	if category == model.CategoryDaily || category == model.CategoryMeeting {
		if scheduledDate == nil {
			// Unscheduled daily/meeting tasks fall outside any per-date
			// sequence; they take number 1.
			return 1, nil
		}
		day := model.DatePortion(*scheduledDate)
		var count int64
		err := tx.Model(&model.Task{}).
			Where("is_template = ? AND category = ? AND scheduled_date LIKE ?", false, category, day+"%").
			Count(&count).Error
		if err != nil {
			return 0, fmt.Errorf("count tasks for %s on %s: %w", category, day, err)
		}
		return int(count) + 1, nil
	}

	return nextSequenceNumber(tx, category)
}

// nextSequenceNumber reads and increments the counter row for scope,
// creating it lazily on first use.
func nextSequenceNumber(tx *gorm.DB, scope string) (int, error) {
	var seq model.CategorySequence
	err := tx.Where("category = ?", scope).First(&seq).Error
	switch {
	case err == nil:
		number := seq.NextNumber
		if err := tx.Model(&seq).Update("next_number", number+1).Error; err != nil {
			return 0, fmt.Errorf("advance sequence %q: %w", scope, err)
		}
		return number, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		seq = model.CategorySequence{Category: scope, NextNumber: 2}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, fmt.Errorf("create sequence %q: %w", scope, err)
		}
		return 1, nil
	default:
		return 0, fmt.Errorf("read sequence %q: %w", scope, err)
	}
}

func formatTaskKey(category string, number int, isTemplate bool) string {
	key := fmt.Sprintf("%s-%02d", category, number)
	if isTemplate {
		return model.TemplateKeyPrefix + key
	}
	return key
}

// ListAll returns every task, meetings first, then daily tasks, then the
// rest, ordered by scheduled date and task number within each group.
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Order("CASE category WHEN 'M' THEN 0 WHEN 'D' THEN 1 ELSE 2 END, scheduled_date ASC, task_number ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}
	return &task, nil
}

// FindByTitle returns the first task whose title contains the given text,
// case-insensitively, in storage scan order. With several candidates the
// first one wins; callers that need precision should use task keys.
func (r *TaskRepository) FindByTitle(ctx context.Context, title string) (*model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	needle := strings.ToLower(title)
	for i := range tasks {
		if strings.Contains(strings.ToLower(tasks[i].Title), needle) {
			return &tasks[i], nil
		}
	}
	return nil, ErrTaskNotFound
}

// FindByKey looks a task up by its human-facing key, case-insensitively.
func (r *TaskRepository) FindByKey(ctx context.Context, key string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("UPPER(task_key) = ?", strings.ToUpper(key)).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task by key %q: %w", key, err)
	}
	return &task, nil
}

// UpdateFields writes the given columns for a task id and returns the fresh
// row. An empty update map skips the write but still re-reads.
func (r *TaskRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*model.Task, error) {
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, fmt.Errorf("update task %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrTaskNotFound
		}
	}
	return r.FindByID(ctx, id)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// InstanceExists reports whether a materialized instance of the template
// already exists for the given calendar date. The date-prefix match covers
// instances stored with or without a time-of-day suffix.
func (r *TaskRepository) InstanceExists(ctx context.Context, templateID, date string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("parent_task_id = ? AND scheduled_date LIKE ?", templateID, date+"%").
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check instance for %s on %s: %w", templateID, date, err)
	}
	return count > 0, nil
}
