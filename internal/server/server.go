package server

import (
	"net/http"

	"deskbot/internal/llm"
	"deskbot/internal/repository"
	"deskbot/internal/service"
)

// Server wires the HTTP API to the task core and the assistant.
type Server struct {
	tasks         *service.TaskService
	assistant     *service.AssistantService
	conversations *repository.ConversationRepository
	llm           *llm.Client
	allowedOrigin string
}

func New(tasks *service.TaskService, assistant *service.AssistantService, conversations *repository.ConversationRepository, llmClient *llm.Client, allowedOrigin string) *Server {
	return &Server{
		tasks:         tasks,
		assistant:     assistant,
		conversations: conversations,
		llm:           llmClient,
		allowedOrigin: allowedOrigin,
	}
}

// Handler builds the route table with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /tasks", s.GetTasksHandler)
	mux.HandleFunc("GET /tasks/for-date", s.GetTasksForDateHandler)
	mux.HandleFunc("PATCH /tasks/{id}", s.UpdateTaskHandler)
	mux.HandleFunc("DELETE /tasks/{id}", s.DeleteTaskHandler)
	mux.HandleFunc("GET /conversation", s.GetConversationHandler)
	mux.HandleFunc("POST /chat", s.ChatHandler)

	return CORSMiddleware(s.allowedOrigin, mux)
}
