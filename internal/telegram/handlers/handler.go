package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/futig/resume-assistant/internal/entity"
	"github.com/futig/resume-assistant/internal/pkg/logger"
	pkgRetry "github.com/futig/resume-assistant/internal/pkg/retry"
	"github.com/futig/resume-assistant/internal/telegram/keyboard"
	"github.com/futig/resume-assistant/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const defaultFilename = "resume.pdf"

// Message represents a normalized Telegram message
type Message struct {
	ChatID    int64
	UserID    int64
	MessageID int
	Text      string
	Command   string
	Args      string
	Caption   string
	Document  *Document
}

// Document is the file attached to a message
type Document struct {
	FileID   string
	FileName string
	MimeType string
	FileSize int
}

// SessionID keys the workflow of a chat
func SessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

// Handler runs the resume workflow over chat messages, one workflow per chat
type Handler struct {
	sender      Sender
	messages    *MessageSender
	files       FileDownloader
	workflow    WorkflowUsecase
	keyboard    *keyboard.Builder
	maxFileSize int64
}

// NewHandler creates a new chat handler
func NewHandler(
	sender Sender,
	files FileDownloader,
	workflow WorkflowUsecase,
	kb *keyboard.Builder,
	retryCfg pkgRetry.RetryConfig,
	maxFileSize int64,
) *Handler {
	return &Handler{
		sender:      sender,
		messages:    NewMessageSender(sender, retryCfg),
		files:       files,
		workflow:    workflow,
		keyboard:    kb,
		maxFileSize: maxFileSize,
	}
}

// Handle routes a message. The returned error is only about delivering replies,
// workflow failures are answered in the chat.
func (h *Handler) Handle(ctx context.Context, msg *Message) error {
	ctx = logger.WithSession(ctx, SessionID(msg.ChatID))

	switch {
	case msg.Command != "":
		return h.handleCommand(ctx, msg)
	case msg.Document != nil:
		return h.upload(ctx, msg)
	case msg.Text == keyboard.ButtonCheckFit:
		return h.checkFit(ctx, msg)
	case strings.TrimSpace(msg.Text) != "":
		if h.workflow.Snapshot(ctx, SessionID(msg.ChatID)).Uploaded() {
			return h.ask(ctx, msg, msg.Text)
		}
		return h.setRole(ctx, msg, msg.Text)
	default:
		return h.reply(ctx, msg, render.MsgUnsupported)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *Message) error {
	ctxzap.Info(ctx, "command received", zap.String("command", msg.Command))

	switch msg.Command {
	case "start":
		return h.reply(ctx, msg, render.MsgWelcome)
	case "help":
		return h.reply(ctx, msg, render.MsgHelp)
	case "role":
		if strings.TrimSpace(msg.Args) == "" {
			return h.reply(ctx, msg, render.MsgRoleUsage)
		}
		return h.setRole(ctx, msg, msg.Args)
	case "ask":
		if strings.TrimSpace(msg.Args) == "" {
			return h.reply(ctx, msg, render.MsgAskUsage)
		}
		return h.ask(ctx, msg, msg.Args)
	case "fit":
		return h.checkFit(ctx, msg)
	default:
		return h.reply(ctx, msg, render.MsgUnknownCommand)
	}
}

func (h *Handler) setRole(ctx context.Context, msg *Message, role string) error {
	w, err := h.workflow.SetRole(ctx, SessionID(msg.ChatID), role)
	if err != nil {
		return h.replyError(ctx, msg, err)
	}

	if w.Uploaded() {
		return h.reply(ctx, msg, render.RoleUpdated(role))
	}
	return h.reply(ctx, msg, render.RoleSet(role))
}

func (h *Handler) upload(ctx context.Context, msg *Message) error {
	sessionID := SessionID(msg.ChatID)
	doc := msg.Document

	if msg.Caption != "" {
		if _, err := h.workflow.SetRole(ctx, sessionID, msg.Caption); err != nil {
			return h.replyError(ctx, msg, err)
		}
	}

	// checked before the download so a missing role costs no traffic
	role := h.workflow.Snapshot(ctx, sessionID).Role
	if role == "" {
		return h.replyError(ctx, msg, entity.NewAlert(entity.MsgMissingRole, entity.ErrMissingRole))
	}

	if int64(doc.FileSize) > h.maxFileSize {
		return h.replyError(ctx, msg, entity.NewAlert(entity.MsgFileTooLarge,
			fmt.Errorf("document is %d bytes, limit %d", doc.FileSize, h.maxFileSize)))
	}

	stopTyping := startTyping(ctx, h.sender, msg.ChatID)
	defer stopTyping()

	content, err := h.files.Download(ctx, doc.FileID)
	if err != nil {
		ctxzap.Error(ctx, "failed to download document",
			zap.Error(err),
			zap.String("telegram_file_id", doc.FileID),
		)
		return h.reply(ctx, msg, render.MsgDownloadFailed)
	}

	filename := doc.FileName
	if filename == "" {
		filename = defaultFilename
	}

	w, err := h.workflow.UploadResume(ctx, sessionID, &entity.ResumeFile{
		Filename:    filename,
		ContentType: doc.MimeType,
		Content:     content,
	}, role)
	if err != nil {
		return h.replyError(ctx, msg, err)
	}

	return h.reply(ctx, msg, render.Uploaded(w.SelectedFile))
}

func (h *Handler) ask(ctx context.Context, msg *Message, query string) error {
	sessionID := SessionID(msg.ChatID)

	if _, err := h.workflow.SetQuery(ctx, sessionID, query); err != nil {
		return h.replyError(ctx, msg, err)
	}

	stopTyping := startTyping(ctx, h.sender, msg.ChatID)
	w, err := h.workflow.AskQuestion(ctx, sessionID, query)
	stopTyping()
	if err != nil {
		return h.replyError(ctx, msg, err)
	}

	return h.reply(ctx, msg, render.Answer(w.LastAnswer))
}

func (h *Handler) checkFit(ctx context.Context, msg *Message) error {
	sessionID := SessionID(msg.ChatID)
	role := h.workflow.Snapshot(ctx, sessionID).Role

	stopTyping := startTyping(ctx, h.sender, msg.ChatID)
	w, err := h.workflow.CheckFit(ctx, sessionID, role)
	stopTyping()
	if err != nil {
		return h.replyError(ctx, msg, err)
	}

	return h.reply(ctx, msg, render.FitResult(w.FitScore, w.Suggestions))
}

// reply sends text with the keyboard matching the chat's current stage
func (h *Handler) reply(ctx context.Context, msg *Message, text string) error {
	stage := h.workflow.Snapshot(ctx, SessionID(msg.ChatID)).Stage()
	return h.messages.Send(ctx, msg.ChatID, text, h.keyboard.ForStage(stage))
}
