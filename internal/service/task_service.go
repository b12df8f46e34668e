package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"deskbot/internal/model"
	"deskbot/internal/recurrence"
	"deskbot/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title           string
	Category        string
	ScheduledDate   *string
	RecurrenceRule  *string
	IsTemplate      bool
	ParentTaskID    *string
	DurationMinutes *int
	Priority        *int
}

// TaskService wraps task-related business logic: creation with key
// allocation, patch updates with recurrence-aware completion, and the
// day-view projection of templates.
type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	category := input.Category
	if category == "" {
		category = model.CategoryTask
	}

	task := model.Task{
		ID:              uuid.NewString(),
		Title:           input.Title,
		Category:        category,
		ScheduledDate:   input.ScheduledDate,
		RecurrenceRule:  input.RecurrenceRule,
		IsTemplate:      input.IsTemplate,
		ParentTaskID:    input.ParentTaskID,
		DurationMinutes: input.DurationMinutes,
		Priority:        input.Priority,
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) ListAll(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.ListAll(ctx)
}

func (s *TaskService) FindByKey(ctx context.Context, key string) (*model.Task, error) {
	return s.taskRepo.FindByKey(ctx, key)
}

func (s *TaskService) FindByTitle(ctx context.Context, title string) (*model.Task, error) {
	return s.taskRepo.FindByTitle(ctx, title)
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.taskRepo.Delete(ctx, id)
}

// completionAction is the resolved outcome of asking to complete a task.
type completionAction int

const (
	// markDone closes the task.
	markDone completionAction = iota
	// advanceDate reschedules a recurring task instead of closing it.
	advanceDate
	// markDoneFallback closes the task because its rule could not be
	// advanced.
	markDoneFallback
)

// resolveCompletion decides what completing the task means. A non-template
// task with a recurrence rule and a scheduled date advances to its next
// occurrence, keeping any time-of-day suffix; an unparsable rule degrades to
// a one-shot completion.
func resolveCompletion(task *model.Task) (completionAction, string) {
	if task.IsTemplate || task.RecurrenceRule == nil || task.ScheduledDate == nil {
		return markDone, ""
	}
	next, err := recurrence.NextOccurrence(*task.RecurrenceRule, model.DatePortion(*task.ScheduledDate))
	if err != nil {
		return markDoneFallback, ""
	}
	return advanceDate, next + model.TimeSuffix(*task.ScheduledDate)
}

// UpdateTask applies a partial patch. Only fields that differ from the
// stored row are written; the returned task always reflects the fresh state.
func (s *TaskService) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	current, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}

	if patch.Title != nil && *patch.Title != current.Title {
		fields["title"] = *patch.Title
	}
	if patch.Category != nil && *patch.Category != current.Category {
		fields["category"] = *patch.Category
	}
	if patch.ScheduledDate != nil && !equalString(patch.ScheduledDate, current.ScheduledDate) {
		fields["scheduled_date"] = *patch.ScheduledDate
	}
	if patch.RecurrenceRule != nil {
		if *patch.RecurrenceRule == "" {
			// Empty string clears the rule.
			if current.RecurrenceRule != nil {
				fields["recurrence_rule"] = nil
			}
		} else if !equalString(patch.RecurrenceRule, current.RecurrenceRule) {
			fields["recurrence_rule"] = *patch.RecurrenceRule
		}
	}
	if patch.DurationMinutes != nil && !equalInt(patch.DurationMinutes, current.DurationMinutes) {
		fields["duration_minutes"] = *patch.DurationMinutes
	}
	if patch.Priority != nil && !equalInt(patch.Priority, current.Priority) {
		fields["priority"] = *patch.Priority
	}

	if patch.Completed != nil {
		switch {
		case *patch.Completed && !current.Completed:
			switch action, next := resolveCompletion(current); action {
			case advanceDate:
				fields["scheduled_date"] = next
			default:
				fields["completed"] = true
			}
		case !*patch.Completed && current.Completed:
			fields["completed"] = false
		}
	}

	return s.taskRepo.UpdateFields(ctx, id, fields)
}

// TasksForDate builds the day view for targetDate. Templates whose rule
// matches the date contribute either a persisted instance (materialized when
// targetDate is today and none exists yet) or a transient projection.
// Regular tasks appear on their scheduled date; unscheduled and overdue
// incomplete tasks surface on today's view. Calls for past or future dates
// never write.
func (s *TaskService) TasksForDate(ctx context.Context, targetDate, today string) ([]model.Task, error) {
	all, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := []model.Task{}
	for i := range all {
		task := all[i]
		if task.IsTemplate {
			occurrence, err := s.templateOccurrence(ctx, &task, targetDate, today)
			if err != nil {
				return nil, err
			}
			if occurrence != nil {
				result = append(result, *occurrence)
			}
			continue
		}

		switch {
		case task.ScheduledDate != nil && model.DatePortion(*task.ScheduledDate) == targetDate:
			result = append(result, task)
		case targetDate == today && task.ScheduledDate == nil:
			// Unscheduled tasks always show on today's view.
			result = append(result, task)
		case targetDate == today && task.ScheduledDate != nil &&
			model.DatePortion(*task.ScheduledDate) < today &&
			!task.Completed && task.ParentTaskID == nil:
			// Overdue catch-up. Template instances stay on their own day.
			result = append(result, task)
		}
	}
	return result, nil
}

// templateOccurrence resolves what, if anything, a template contributes to
// the day view for targetDate. A nil task with nil error means the template
// contributes nothing (no match, predates creation, or an existing instance
// row covers the date and is included by the regular branch).
func (s *TaskService) templateOccurrence(ctx context.Context, template *model.Task, targetDate, today string) (*model.Task, error) {
	if template.RecurrenceRule == nil {
		return nil, nil
	}
	// A template cannot produce occurrences before it existed.
	if targetDate < model.DatePortion(template.CreatedAt) {
		return nil, nil
	}
	if !recurrence.Matches(*template.RecurrenceRule, targetDate) {
		return nil, nil
	}

	occurrenceDate := targetDate
	if template.ScheduledDate != nil {
		occurrenceDate += model.TimeSuffix(*template.ScheduledDate)
	}

	if targetDate != today {
		exists, err := s.taskRepo.InstanceExists(ctx, template.ID, targetDate)
		if err != nil || exists {
			return nil, err
		}
		projection := *template
		projection.IsTemplate = false
		projection.ParentTaskID = &template.ID
		projection.ScheduledDate = &occurrenceDate
		projection.Projected = true
		return &projection, nil
	}

	instance := model.Task{
		ID:              uuid.NewString(),
		Title:           template.Title,
		Category:        template.Category,
		ScheduledDate:   &occurrenceDate,
		RecurrenceRule:  template.RecurrenceRule,
		ParentTaskID:    &template.ID,
		DurationMinutes: template.DurationMinutes,
		Priority:        template.Priority,
	}
	created, err := s.taskRepo.CreateInstanceIfAbsent(ctx, &instance, targetDate)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, nil
	}
	return &instance, nil
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
