package workflow

import (
	"context"

	"github.com/futig/resume-assistant/internal/entity"
)

type BackendConnector interface {
	UploadResume(ctx context.Context, file *entity.ResumeFile) (string, error)
	AskQuestion(ctx context.Context, fileID, query string) (string, error)
	CheckFit(ctx context.Context, fileID, jobDescription string) (*entity.FitResult, error)
}

type StateManager interface {
	Get(ctx context.Context, sessionID string) *entity.Workflow
	Update(ctx context.Context, sessionID string, fn func(*entity.Workflow) error) (*entity.Workflow, error)
}
