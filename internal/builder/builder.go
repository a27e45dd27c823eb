package builder

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/futig/resume-assistant/internal/api"
	"github.com/futig/resume-assistant/internal/api/web"
	"github.com/futig/resume-assistant/internal/config"
	"github.com/futig/resume-assistant/internal/integration/backend"
	"github.com/futig/resume-assistant/internal/state"
	"github.com/futig/resume-assistant/internal/telegram"
	"github.com/futig/resume-assistant/internal/usecase/workflow"
	"go.uber.org/zap"
)

// Sessions of the CLI and the chat bot are never evicted while the process runs
const noExpiration = time.Duration(0)

// Build assembles the web view server
func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogger(cfg.LogLevel, cfg.LogFile, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("backend_url", cfg.BackendCfg.Url),
	)

	sessions := state.NewMemoryStorage(cfg.WebCfg.SessionTTL)
	workflowUC := BuildWorkflow(cfg, sessions, logger)
	logger.Info("Use cases initialized")

	webHandler := web.NewHandler(workflowUC, cfg.WebCfg.MaxUploadSize)
	router := api.SetupRouter(webHandler, cfg.WebCfg, logger)
	logger.Info("HTTP router configured")

	// Backend calls have no deadline of their own, so WriteTimeout bounds a request instead.
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  time.Minute,
		WriteTimeout: cfg.WebCfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:   server,
		sessions: sessions,
		logger:   logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.TelegramCfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := SetupLogger(cfg.LogLevel, cfg.LogFile, os.Stdout)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
		zap.String("backend_url", cfg.BackendCfg.Url),
	)

	workflowUC := BuildWorkflow(cfg, state.NewMemoryStorage(noExpiration), logger)

	bot, err := telegram.NewBot(&cfg.TelegramCfg, workflowUC, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}

// BuildWorkflow wires the backend connector (or its mock) and the session store into the workflow
func BuildWorkflow(cfg *config.Config, storage state.Storage, logger *zap.Logger) *workflow.WorkflowUsecase {
	var connector workflow.BackendConnector
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the resume backend")
		connector = backend.NewMockConnector(logger)
	} else {
		connector = backend.NewConnector(cfg.BackendCfg, logger)
	}

	return workflow.NewUsecase(connector, state.NewManager(storage), logger)
}

// NewCLIStorage returns the session store used by one CLI run
func NewCLIStorage() *state.MemoryStorage {
	return state.NewMemoryStorage(noExpiration)
}
