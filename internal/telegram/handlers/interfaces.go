package handlers

import (
	"context"

	"github.com/futig/resume-assistant/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WorkflowUsecase is the part of the resume workflow the chat view drives
type WorkflowUsecase interface {
	Snapshot(ctx context.Context, sessionID string) *entity.Workflow
	SetRole(ctx context.Context, sessionID, role string) (*entity.Workflow, error)
	SetQuery(ctx context.Context, sessionID, query string) (*entity.Workflow, error)
	UploadResume(ctx context.Context, sessionID string, file *entity.ResumeFile, role string) (*entity.Workflow, error)
	AskQuestion(ctx context.Context, sessionID, query string) (*entity.Workflow, error)
	CheckFit(ctx context.Context, sessionID, jobDescription string) (*entity.Workflow, error)
}

// Sender is satisfied by *tgbotapi.BotAPI
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// FileDownloader fetches the content of a Telegram file
type FileDownloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}
