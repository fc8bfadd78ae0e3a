package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yukikurage/sitewalk-tasks/internal/config"
	"github.com/yukikurage/sitewalk-tasks/internal/database"
	"github.com/yukikurage/sitewalk-tasks/internal/handlers"
	"github.com/yukikurage/sitewalk-tasks/internal/mailer"
	"github.com/yukikurage/sitewalk-tasks/internal/repository"
	"github.com/yukikurage/sitewalk-tasks/internal/services"
	"github.com/yukikurage/sitewalk-tasks/internal/sheets"
)

// App holds the services shared by the server and the CLI
type App struct {
	Config            *config.Config
	Backend           sheets.Backend
	TaskService       *services.TaskService
	ContractorService *services.ContractorService
	EmailService      *services.EmailService
	ExportService     *services.ExportService
}

// New builds the spreadsheet backend, the optional digest history database
// and every service on top of them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	backend := NewBackend(ctx, cfg.Sheets)

	var history repository.DigestRepository
	switch err := database.Connect(cfg); {
	case errors.Is(err, database.ErrDisabled):
		slog.Info("no database configured, digest history disabled")
	case err != nil:
		return nil, err
	default:
		if err := database.Migrate(); err != nil {
			return nil, err
		}
		history = repository.NewDigestRepository(database.GetDB())
	}

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	tabs := repository.NewTabProvisioner(backend)
	taskRepo := repository.NewTaskRepository(backend, tabs)
	contractorRepo := repository.NewContractorRepository(backend, tabs)

	taskService := services.NewTaskService(taskRepo, aiService)
	return &App{
		Config:            cfg,
		Backend:           backend,
		TaskService:       taskService,
		ContractorService: services.NewContractorService(contractorRepo),
		EmailService:      services.NewEmailService(taskService, contractorRepo, history, mailer.NewSMTPMailer(cfg.Email), cfg.Email),
		ExportService:     services.NewExportService(taskService),
	}, nil
}

// NewBackend selects the spreadsheet backend named by SHEETS_BACKEND. A
// backend that cannot be set up is replaced by one that reports the setup
// error on every call, so the server still starts and answers /health.
func NewBackend(ctx context.Context, cfg config.SheetsConfig) sheets.Backend {
	switch cfg.Backend {
	case "google", "":
		backend, err := sheets.NewGoogleBackend(ctx, cfg)
		if err != nil {
			slog.Error("Google Sheets backend unavailable, spreadsheet operations will fail", "error", err)
			return sheets.NewUnconfiguredBackend(err)
		}
		slog.Info("using Google Sheets backend", "spreadsheetId", cfg.SpreadsheetID, "serviceAccount", backend.ServiceAccountEmail())
		return backend
	case "memory":
		slog.Warn("using in-memory sheets backend, tasks are lost on exit")
		return sheets.NewMemoryBackend()
	}

	err := fmt.Errorf("%w: unknown SHEETS_BACKEND %q", sheets.ErrConfiguration, cfg.Backend)
	slog.Error("spreadsheet operations will fail", "error", err)
	return sheets.NewUnconfiguredBackend(err)
}

// Handlers builds the HTTP handlers for the server
func (a *App) Handlers() handlers.Handlers {
	return handlers.Handlers{
		Tasks:          handlers.NewTaskHandler(a.TaskService),
		Subcontractors: handlers.NewSubcontractorHandler(a.TaskService, a.ExportService),
		Projects:       handlers.NewProjectHandler(a.TaskService),
		Contractors:    handlers.NewContractorHandler(a.ContractorService),
		Emails:         handlers.NewEmailHandler(a.EmailService),
	}
}
