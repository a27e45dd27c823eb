package telegram

import (
	"context"
	"fmt"

	"github.com/futig/resume-assistant/internal/config"
	"github.com/futig/resume-assistant/internal/telegram/bot"
	"github.com/futig/resume-assistant/internal/telegram/files"
	"github.com/futig/resume-assistant/internal/telegram/handlers"
	"github.com/futig/resume-assistant/internal/telegram/keyboard"
	pkgHTTP "github.com/futig/resume-assistant/pkg/http"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot authorizes against the Bot API and wires the resume workflow into it
func NewBot(cfg *config.TelegramConfig, workflow handlers.WorkflowUsecase, logger *zap.Logger) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	// no request logging: download links carry the bot token
	downloadConnector := pkgHTTP.NewConnector(
		&pkgHTTP.ConnectorConfig{Logger: logger},
		pkgHTTP.WithRequestTimeout(cfg.DownloadTimeout),
	)
	downloader := files.NewDownloader(api, downloadConnector, cfg.Retry)

	handler := handlers.NewHandler(api, downloader, workflow, keyboard.NewBuilder(), cfg.Retry, cfg.MaxFileSize)

	logger.Info("telegram bot initialized successfully")

	return bot.New(api, cfg, handler, logger), nil
}
