package backend

import (
	"context"
	"fmt"

	"github.com/futig/resume-assistant/internal/config"
	"github.com/futig/resume-assistant/internal/entity"
	"github.com/futig/resume-assistant/internal/integration/common"
	pkghttp "github.com/futig/resume-assistant/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to the resume analysis backend. Every call is a single multipart POST, never retried.
type Connector struct {
	config    config.BackendConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.BackendConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// UploadResume sends the document as field "file" and returns the backend file id.
// POST {upload_endpoint}
func (c *Connector) UploadResume(ctx context.Context, file *entity.ResumeFile) (string, error) {
	ctxzap.Info(ctx, "uploading resume to backend",
		zap.String("filename", file.Filename),
		zap.Int("size", len(file.Content)),
	)

	form := &pkghttp.Form{
		Files: []pkghttp.FormFile{{
			Field:       entity.FieldFile,
			Filename:    file.Filename,
			ContentType: file.ContentType,
			Content:     file.Content,
		}},
	}

	var resp entity.UploadResponse
	if err := c.connector.PostForm(ctx, c.config.UploadEndpoint, form, &resp); err != nil {
		return "", fmt.Errorf("post upload: %w", err)
	}

	if resp.FileID == "" {
		return "", fmt.Errorf("%w: upload response has no file_id", entity.ErrInvalidResponse)
	}

	ctxzap.Info(ctx, "resume uploaded", zap.String("file_id", resp.FileID))
	return resp.FileID, nil
}

// AskQuestion sends "file_id" and "query" and returns the answer text.
// POST {ask_endpoint}
func (c *Connector) AskQuestion(ctx context.Context, fileID, query string) (string, error) {
	ctxzap.Info(ctx, "asking backend about resume", zap.String("file_id", fileID))

	form := &pkghttp.Form{
		Fields: []pkghttp.FormField{
			{Name: entity.FieldFileID, Value: fileID},
			{Name: entity.FieldQuery, Value: query},
		},
	}

	var resp entity.AskResponse
	if err := c.connector.PostForm(ctx, c.config.AskEndpoint, form, &resp); err != nil {
		return "", fmt.Errorf("post ask: %w", err)
	}

	ctxzap.Info(ctx, "answer received", zap.Int("answer_length", len(resp.Answer)))
	return resp.Answer, nil
}

// CheckFit sends "file_id" and "job_description" and returns the normalized score and suggestions.
// POST {fit_score_endpoint}
func (c *Connector) CheckFit(ctx context.Context, fileID, jobDescription string) (*entity.FitResult, error) {
	ctxzap.Info(ctx, "requesting fit score from backend", zap.String("file_id", fileID))

	form := &pkghttp.Form{
		Fields: []pkghttp.FormField{
			{Name: entity.FieldFileID, Value: fileID},
			{Name: entity.FieldJobDescription, Value: jobDescription},
		},
	}

	var resp entity.FitScoreResponse
	if err := c.connector.PostForm(ctx, c.config.FitScoreEndpoint, form, &resp); err != nil {
		return nil, fmt.Errorf("post fit score: %w", err)
	}

	ctxzap.Info(ctx, "fit score received", zap.String("score", resp.Score.String()))

	return &entity.FitResult{
		Score:       resp.Score.String(),
		Suggestions: resp.Suggestions,
	}, nil
}
