package web

import (
	"context"

	"github.com/futig/resume-assistant/internal/entity"
)

type WorkflowUsecase interface {
	View(ctx context.Context, sessionID string) (*entity.Workflow, error)
	Snapshot(ctx context.Context, sessionID string) *entity.Workflow
	SetRole(ctx context.Context, sessionID, role string) (*entity.Workflow, error)
	SetQuery(ctx context.Context, sessionID, query string) (*entity.Workflow, error)
	SetAlert(ctx context.Context, sessionID, message string) error
	UploadResume(ctx context.Context, sessionID string, file *entity.ResumeFile, role string) (*entity.Workflow, error)
	AskQuestion(ctx context.Context, sessionID, query string) (*entity.Workflow, error)
	CheckFit(ctx context.Context, sessionID, jobDescription string) (*entity.Workflow, error)
}
