package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"deskbot/internal/config"
	"deskbot/internal/llm"
	"deskbot/internal/model"
	"deskbot/internal/repository"
)

type taskUpdateRequest struct {
	Title           *string `json:"title"`
	Completed       *bool   `json:"completed"`
	ScheduledDate   *string `json:"scheduled_date"`
	RecurrenceRule  *string `json:"recurrence_rule"`
	DurationMinutes *int    `json:"duration_minutes"`
	Priority        *int    `json:"priority"`
}

type chatRequest struct {
	Messages []model.Message `json:"messages"`
}

type chatResponse struct {
	Response string       `json:"response"`
	Tasks    []model.Task `json:"tasks"`
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// GetTasksHandler returns every stored task, sorted.
func (s *Server) GetTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// GetTasksForDateHandler returns the day view for ?date=YYYY-MM-DD.
func (s *Server) GetTasksForDateHandler(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "Missing date parameter", nil)
		return
	}
	tasks, err := s.tasks.TasksForDate(r.Context(), date, today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build day view", err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// UpdateTaskHandler applies a partial patch to one task.
func (s *Server) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var body taskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	task, err := s.tasks.UpdateTask(r.Context(), r.PathValue("id"), model.TaskPatch{
		Title:           body.Title,
		Completed:       body.Completed,
		ScheduledDate:   body.ScheduledDate,
		RecurrenceRule:  body.RecurrenceRule,
		DurationMinutes: body.DurationMinutes,
		Priority:        body.Priority,
	})
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Task not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTaskHandler removes one task.
func (s *Server) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	err := s.tasks.DeleteTask(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Task not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete task", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetConversationHandler returns the saved chat history.
func (s *Server) GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	messages, err := s.conversations.GetLatest(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load conversation", err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// ChatHandler runs one user turn through the assistant: complete, parse,
// execute, persist the conversation, and return the refreshed task list.
// Model and parse failures degrade to a plain response instead of an error
// status so the UI always has something to show.
func (s *Server) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	ctx := r.Context()
	now := today()

	if !s.llm.Configured() {
		s.respondChat(w, r, "API key not configured")
		return
	}

	currentTasks, err := s.tasks.ListAll(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	raw, err := s.llm.Complete(ctx, llm.SystemPrompt(now, currentTasks), body.Messages)
	if err != nil {
		config.Logger.Warn("LLM request failed: ", err)
		s.respondChat(w, r, "API error: "+err.Error())
		return
	}

	cmd, err := llm.ParseCommand(raw)
	if err != nil {
		config.Logger.Warn("Unparsable assistant response: ", err)
		s.respondChat(w, r, "Failed to parse AI response")
		return
	}

	message, err := s.assistant.Execute(ctx, cmd, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to execute operation", err)
		return
	}

	conversation := append(body.Messages, model.Message{Role: "assistant", Content: message})
	if err := s.conversations.SaveLatest(ctx, conversation); err != nil {
		config.Logger.Warn("Failed to save conversation: ", err)
	}

	s.respondChat(w, r, message)
}

func (s *Server) respondChat(w http.ResponseWriter, r *http.Request, message string) {
	tasks, err := s.tasks.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: message, Tasks: tasks})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		config.Logger.Error("Failed to encode response: ", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string, err error) {
	if err != nil {
		config.Logger.Error(detail, ": ", err)
	}
	writeJSON(w, status, map[string]string{"detail": detail})
}
