package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deskbot/internal/config"
	"deskbot/internal/llm"
	"deskbot/internal/repository"
	"deskbot/internal/server"
	"deskbot/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.InitLogger()
	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		config.Logger.Fatal("db: ", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	conversationRepo := repository.NewConversationRepository(db)

	taskSvc := service.NewTaskService(taskRepo)
	assistantSvc := service.NewAssistantService(taskSvc)
	llmClient := llm.NewClient(cfg.AnthropicAPIKey)

	srv := server.New(taskSvc, assistantSvc, conversationRepo, llmClient, cfg.AllowedOrigin)

	if cfg.RolloverTime != "" {
		scheduler := service.NewSchedulerService(time.Local)
		if _, err := scheduler.ScheduleDaily(cfg.RolloverTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			day := time.Now().Format("2006-01-02")
			if _, err := taskSvc.TasksForDate(jobCtx, day, day); err != nil {
				config.Logger.Warn("rollover: ", err)
			}
		}); err != nil {
			config.Logger.Fatal("schedule rollover: ", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Handler(),
	}

	go func() {
		config.Logger.Info("Server is running on port ", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Fatal("server stopped with error: ", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		config.Logger.Warn("shutdown: ", err)
	}
	config.Logger.Info("Shutdown complete.")
}
