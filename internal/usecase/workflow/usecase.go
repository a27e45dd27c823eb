package workflow

import (
	"context"
	"fmt"

	"github.com/futig/resume-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// WorkflowUsecase drives the upload → ask / fit workflow of one session.
//
// Backend calls run outside the state lock and their results are written when the
// response arrives, so concurrent calls resolve as last response wins. A failed call
// never touches the fields it would have written.
type WorkflowUsecase struct {
	backend BackendConnector
	state   StateManager
	logger  *zap.Logger
}

// NewUsecase creates a new workflow use case
func NewUsecase(
	backend BackendConnector,
	state StateManager,
	logger *zap.Logger,
) *WorkflowUsecase {
	return &WorkflowUsecase{
		backend: backend,
		state:   state,
		logger:  logger,
	}
}

// Snapshot returns the current state of a session
func (uc *WorkflowUsecase) Snapshot(ctx context.Context, sessionID string) *entity.Workflow {
	return uc.state.Get(ctx, sessionID)
}

// View returns the state to render and consumes the pending alert
func (uc *WorkflowUsecase) View(ctx context.Context, sessionID string) (*entity.Workflow, error) {
	var alert string
	w, err := uc.state.Update(ctx, sessionID, func(w *entity.Workflow) error {
		alert = w.Alert
		w.Alert = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.Alert = alert
	return w, nil
}

func (uc *WorkflowUsecase) SetRole(ctx context.Context, sessionID, role string) (*entity.Workflow, error) {
	return uc.state.Update(ctx, sessionID, func(w *entity.Workflow) error {
		w.Role = role
		return nil
	})
}

func (uc *WorkflowUsecase) SetQuery(ctx context.Context, sessionID, query string) (*entity.Workflow, error) {
	return uc.state.Update(ctx, sessionID, func(w *entity.Workflow) error {
		w.LastQuery = query
		return nil
	})
}

// SetAlert stores a message for the next View
func (uc *WorkflowUsecase) SetAlert(ctx context.Context, sessionID, message string) error {
	_, err := uc.state.Update(ctx, sessionID, func(w *entity.Workflow) error {
		w.Alert = message
		return nil
	})
	return err
}

// UploadResume checks the preconditions, uploads file and records the backend file id.
// Role is only checked here; the backend receives it later as the fit job description.
func (uc *WorkflowUsecase) UploadResume(
	ctx context.Context,
	sessionID string,
	file *entity.ResumeFile,
	role string,
) (*entity.Workflow, error) {
	if file == nil {
		ctxzap.Warn(ctx, "upload requested without a file")
		return nil, entity.NewAlert(entity.MsgMissingFile, entity.ErrMissingFile)
	}

	if role == "" {
		ctxzap.Warn(ctx, "upload requested without a role")
		return nil, entity.NewAlert(entity.MsgMissingRole, entity.ErrMissingRole)
	}

	fileID, err := uc.backend.UploadResume(ctx, file)
	if err != nil {
		ctxzap.Error(ctx, "upload error", zap.Error(err))
		return nil, entity.NewAlert(entity.MsgUploadFailed, fmt.Errorf("%w: %w", entity.ErrUploadFailed, err))
	}

	w, err := uc.state.Update(ctx, sessionID, func(w *entity.Workflow) error {
		w.FileID = fileID
		w.SelectedFile = file.Filename
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save file id: %w", err)
	}

	ctxzap.Info(ctx, "resume uploaded", zap.String("file_id", fileID))
	return w, nil
}

// AskQuestion asks the backend about the uploaded resume and stores the answer
func (uc *WorkflowUsecase) AskQuestion(ctx context.Context, sessionID, query string) (*entity.Workflow, error) {
	current := uc.state.Get(ctx, sessionID)
	if !current.Uploaded() {
		ctxzap.Warn(ctx, "ask requested before upload")
		return nil, entity.NewAlert(entity.MsgNotUploaded, entity.ErrNotUploaded)
	}

	answer, err := uc.backend.AskQuestion(ctx, current.FileID, query)
	if err != nil {
		ctxzap.Error(ctx, "ask error", zap.Error(err))
		return nil, entity.NewAlert(entity.MsgAskFailed, fmt.Errorf("%w: %w", entity.ErrAskFailed, err))
	}

	w, err := uc.state.Update(ctx, sessionID, func(w *entity.Workflow) error {
		w.LastAnswer = answer
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save answer: %w", err)
	}

	return w, nil
}

// CheckFit scores the uploaded resume against jobDescription and stores score and suggestions
func (uc *WorkflowUsecase) CheckFit(ctx context.Context, sessionID, jobDescription string) (*entity.Workflow, error) {
	current := uc.state.Get(ctx, sessionID)
	if !current.Uploaded() {
		ctxzap.Warn(ctx, "fit check requested before upload")
		return nil, entity.NewAlert(entity.MsgNotUploaded, entity.ErrNotUploaded)
	}

	result, err := uc.backend.CheckFit(ctx, current.FileID, jobDescription)
	if err != nil {
		ctxzap.Error(ctx, "fit score error", zap.Error(err))
		return nil, entity.NewAlert(entity.MsgFitFailed, fmt.Errorf("%w: %w", entity.ErrFitFailed, err))
	}

	w, err := uc.state.Update(ctx, sessionID, func(w *entity.Workflow) error {
		w.FitScore = result.Score
		w.Suggestions = result.Suggestions
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save fit score: %w", err)
	}

	return w, nil
}
