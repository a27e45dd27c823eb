package backend

import (
	"context"
	"fmt"

	"github.com/futig/resume-assistant/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers without a backend, for local runs with ENABLE_MOCKS=true
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) UploadResume(ctx context.Context, file *entity.ResumeFile) (string, error) {
	fileID := uuid.New().String()
	ctxzap.Info(ctx, "[MOCK] uploading resume",
		zap.String("filename", file.Filename),
		zap.String("file_id", fileID),
	)
	return fileID, nil
}

func (m *MockConnector) AskQuestion(ctx context.Context, fileID, query string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] asking question", zap.String("file_id", fileID))
	return fmt.Sprintf("Mock answer for %q (resume %s)", query, fileID), nil
}

func (m *MockConnector) CheckFit(ctx context.Context, fileID, jobDescription string) (*entity.FitResult, error) {
	ctxzap.Info(ctx, "[MOCK] checking fit",
		zap.String("file_id", fileID),
		zap.String("job_description", jobDescription),
	)
	return &entity.FitResult{
		Score: "7/10",
		Suggestions: fmt.Sprintf("Mention projects relevant to %s\nQuantify results in recent roles\nMove key skills to the top",
			jobDescription),
	}, nil
}
