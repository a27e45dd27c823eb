package handlers

import (
	"context"
	"errors"

	"github.com/futig/resume-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// HandlerError is an error with the text shown to the user
type HandlerError struct {
	Err         error
	UserMessage string
	Severity    ErrorSeverity
}

// classifyHandlerError maps workflow errors to their alert text. Unmet
// preconditions are the user's to fix and only warrant a warning.
func classifyHandlerError(err error) *HandlerError {
	herr := &HandlerError{
		Err:         err,
		UserMessage: entity.AlertMessage(err),
		Severity:    SeverityError,
	}

	switch {
	case errors.Is(err, entity.ErrMissingFile),
		errors.Is(err, entity.ErrMissingRole),
		errors.Is(err, entity.ErrNotUploaded):
		herr.Severity = SeverityWarning
	}

	return herr
}

// replyError logs err and sends its alert text together with the keyboard for the current stage
func (h *Handler) replyError(ctx context.Context, msg *Message, err error) error {
	herr := classifyHandlerError(err)

	fields := []zap.Field{
		zap.Error(herr.Err),
		zap.Int64("chat_id", msg.ChatID),
		zap.Stringer("severity", herr.Severity),
	}
	if herr.Severity == SeverityWarning {
		ctxzap.Warn(ctx, "workflow precondition failed", fields...)
	} else {
		ctxzap.Error(ctx, "workflow operation failed", fields...)
	}

	return h.reply(ctx, msg, herr.UserMessage)
}
