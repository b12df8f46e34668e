package service

import (
	"context"
	"strings"
	"testing"

	"deskbot/internal/model"
)

func newTestAssistant(t *testing.T) (*AssistantService, *TaskService) {
	t.Helper()
	tasks, _ := newTestService(t)
	return NewAssistantService(tasks), tasks
}

func TestExecuteCreateDefaultsToRegularTask(t *testing.T) {
	assistant, tasks := newTestAssistant(t)
	ctx := context.Background()

	msg, err := assistant.Execute(ctx, model.Command{
		Operation: model.OpCreate,
		Title:     "Buy groceries",
		Message:   "Added it!",
	}, "2025-01-20")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if msg != "Added it!" {
		t.Errorf("message = %q, want the assistant's message", msg)
	}

	task, err := tasks.FindByKey(ctx, "T-01")
	if err != nil {
		t.Fatalf("created task not found: %v", err)
	}
	if task.Category != "T" || task.ScheduledDate != nil {
		t.Errorf("created task = %+v, want unscheduled T task", task)
	}
}

func TestExecuteCreateDailyDefaultsToToday(t *testing.T) {
	assistant, tasks := newTestAssistant(t)
	ctx := context.Background()

	_, err := assistant.Execute(ctx, model.Command{
		Operation: model.OpCreate,
		Title:     "Check email",
		Category:  "d",
	}, "2025-01-20")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	task, err := tasks.FindByKey(ctx, "D-01")
	if err != nil {
		t.Fatalf("created task not found: %v", err)
	}
	if task.ScheduledDate == nil || *task.ScheduledDate != "2025-01-20" {
		t.Errorf("daily task date = %v, want today", task.ScheduledDate)
	}
}

func TestExecuteCreateRecurringBecomesTemplate(t *testing.T) {
	assistant, tasks := newTestAssistant(t)
	ctx := context.Background()

	_, err := assistant.Execute(ctx, model.Command{
		Operation:      model.OpCreate,
		Title:          "Morning standup",
		Category:       "D",
		RecurrenceRule: strptr("weekdays"),
	}, "2025-01-20")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	task, err := tasks.FindByKey(ctx, "R-D-01")
	if err != nil {
		t.Fatalf("template not found: %v", err)
	}
	if !task.IsTemplate {
		t.Error("recurring create should produce a template")
	}
}

func TestExecuteUpdateByKeyRenames(t *testing.T) {
	assistant, tasks := newTestAssistant(t)
	ctx := context.Background()

	if _, err := tasks.CreateTask(ctx, TaskInput{Title: "Old title", Category: "T"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := assistant.Execute(ctx, model.Command{
		Operation: model.OpUpdate,
		TaskKey:   "T-01",
		Title:     "New title",
	}, "2025-01-20")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	task, err := tasks.FindByKey(ctx, "T-01")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if task.Title != "New title" {
		t.Errorf("title = %q, want New title", task.Title)
	}
}

func TestExecuteUpdateByTitleDoesNotRename(t *testing.T) {
	assistant, tasks := newTestAssistant(t)
	ctx := context.Background()

	if _, err := tasks.CreateTask(ctx, TaskInput{Title: "Write report", Category: "T"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Identified by title: the title field is the lookup needle, not a new
	// name.
	_, err := assistant.Execute(ctx, model.Command{
		Operation: model.OpUpdate,
		Title:     "report",
		Completed: boolptr(true),
	}, "2025-01-20")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	task, err := tasks.FindByKey(ctx, "T-01")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if task.Title != "Write report" {
		t.Errorf("title changed to %q during title-matched update", task.Title)
	}
	if !task.Completed {
		t.Error("task should be completed")
	}
}

func TestExecuteDeleteByTitle(t *testing.T) {
	assistant, tasks := newTestAssistant(t)
	ctx := context.Background()

	if _, err := tasks.CreateTask(ctx, TaskInput{Title: "Cancel subscription", Category: "T"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := assistant.Execute(ctx, model.Command{
		Operation: model.OpDelete,
		Title:     "subscription",
	}, "2025-01-20")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	all, err := tasks.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("task still present after delete: %+v", all)
	}
}

func TestExecuteUnknownTargetReportsInMessage(t *testing.T) {
	assistant, _ := newTestAssistant(t)

	msg, err := assistant.Execute(context.Background(), model.Command{
		Operation: model.OpDelete,
		TaskKey:   "X-99",
	}, "2025-01-20")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(msg, "X-99") {
		t.Errorf("message = %q, want a could-not-find mention of X-99", msg)
	}
}

func TestExecuteNonePassesMessageThrough(t *testing.T) {
	assistant, _ := newTestAssistant(t)

	msg, err := assistant.Execute(context.Background(), model.Command{
		Operation: model.OpNone,
		Message:   "Could you clarify?",
	}, "2025-01-20")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if msg != "Could you clarify?" {
		t.Errorf("message = %q, want pass-through", msg)
	}
}
