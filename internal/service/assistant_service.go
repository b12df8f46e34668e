package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deskbot/internal/model"
	"deskbot/internal/repository"
)

// AssistantService executes the structured commands parsed from assistant
// responses against the task store.
type AssistantService struct {
	tasks *TaskService
}

func NewAssistantService(tasks *TaskService) *AssistantService {
	return &AssistantService{tasks: tasks}
}

// Execute runs one command and returns the message to show the user. Lookup
// misses are reported in the returned message rather than as errors; only
// storage failures propagate.
func (s *AssistantService) Execute(ctx context.Context, cmd model.Command, today string) (string, error) {
	message := cmd.Message
	if message == "" {
		message = "Done"
	}

	switch cmd.Operation {
	case model.OpCreate:
		if cmd.Title == "" {
			return message, nil
		}
		category := strings.ToUpper(cmd.Category)
		if category == "" {
			category = model.CategoryTask
		}

		scheduledDate := cmd.ScheduledDate
		if scheduledDate == nil && (category == model.CategoryDaily || category == model.CategoryMeeting) {
			// Daily tasks and meetings default to today.
			scheduledDate = &today
		}

		// A recurrence rule turns the request into a template; occurrences
		// come from the day view.
		isTemplate := cmd.RecurrenceRule != nil && strings.TrimSpace(*cmd.RecurrenceRule) != ""

		_, err := s.tasks.CreateTask(ctx, TaskInput{
			Title:           cmd.Title,
			Category:        category,
			ScheduledDate:   scheduledDate,
			RecurrenceRule:  cmd.RecurrenceRule,
			IsTemplate:      isTemplate,
			DurationMinutes: cmd.DurationMinutes,
			Priority:        cmd.Priority,
		})
		if err != nil {
			return "", err
		}
		return message, nil

	case model.OpUpdate, model.OpDelete:
		task, foundByKey, err := s.findTarget(ctx, cmd)
		if err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				ref := cmd.TaskKey
				if ref == "" {
					ref = cmd.Title
				}
				return fmt.Sprintf("Could not find task matching '%s'", ref), nil
			}
			return "", err
		}

		if cmd.Operation == model.OpDelete {
			if err := s.tasks.DeleteTask(ctx, task.ID); err != nil {
				return "", err
			}
			return message, nil
		}

		patch := model.TaskPatch{
			Completed:       cmd.Completed,
			ScheduledDate:   cmd.ScheduledDate,
			RecurrenceRule:  cmd.RecurrenceRule,
			DurationMinutes: cmd.DurationMinutes,
			Priority:        cmd.Priority,
		}
		// Title is the new title only when the task was identified by key;
		// otherwise it was the lookup needle.
		if foundByKey && cmd.Title != "" {
			patch.Title = &cmd.Title
		}
		if cmd.Category != "" {
			category := strings.ToUpper(cmd.Category)
			patch.Category = &category
		}
		if _, err := s.tasks.UpdateTask(ctx, task.ID, patch); err != nil {
			return "", err
		}
		return message, nil
	}

	// "none" and anything unrecognized only carry the message through.
	return message, nil
}

func (s *AssistantService) findTarget(ctx context.Context, cmd model.Command) (*model.Task, bool, error) {
	if cmd.TaskKey != "" {
		task, err := s.tasks.FindByKey(ctx, cmd.TaskKey)
		if err == nil {
			return task, true, nil
		}
		if !errors.Is(err, repository.ErrTaskNotFound) {
			return nil, false, err
		}
	}
	if cmd.Title != "" {
		task, err := s.tasks.FindByTitle(ctx, cmd.Title)
		if err != nil {
			return nil, false, err
		}
		return task, false, nil
	}
	return nil, false, repository.ErrTaskNotFound
}
