package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/futig/resume-assistant/internal/api/middleware"
	"github.com/futig/resume-assistant/internal/entity"
	"github.com/futig/resume-assistant/internal/pkg/logger"
	"github.com/futig/resume-assistant/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"lines": splitLines}).
		ParseFS(templatesFS, "templates/index.html"),
)

// Form field names posted by the page
const (
	formRole  = "role"
	formFile  = "file"
	formQuery = "query"
)

type Handler struct {
	usecase       WorkflowUsecase
	maxUploadSize int64
}

func NewHandler(usecase WorkflowUsecase, maxUploadSize int64) *Handler {
	return &Handler{
		usecase:       usecase,
		maxUploadSize: maxUploadSize,
	}
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Index")
	sessionID := middleware.SessionID(ctx)

	workflow, err := h.usecase.View(ctx, sessionID)
	if err != nil {
		ctxzap.Error(ctx, "failed to load workflow", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, workflow); err != nil {
		ctxzap.Error(ctx, "failed to render page", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	response.HTML(w, http.StatusOK, buf.Bytes())
}

// Upload handles POST /upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadResume")
	sessionID := middleware.SessionID(ctx)

	if !h.parseForm(ctx, w, r) {
		return
	}
	defer cleanupForm(r)

	current, err := h.applyInputs(ctx, sessionID, r)
	if err != nil {
		h.finish(ctx, w, r, sessionID, err)
		return
	}

	file, err := readResume(r)
	if err != nil {
		ctxzap.Error(ctx, "failed to read uploaded file", zap.Error(err))
		h.finish(ctx, w, r, sessionID, entity.NewAlert(entity.MsgUploadFailed, err))
		return
	}

	if file != nil {
		ctxzap.Debug(ctx, "selected file",
			zap.String("filename", file.Filename),
			zap.String("content_type", file.ContentType),
			zap.Int("size", len(file.Content)),
		)
	}

	_, err = h.usecase.UploadResume(context.WithoutCancel(ctx), sessionID, file, current.Role)
	h.finish(ctx, w, r, sessionID, err)
}

// Ask handles POST /ask
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AskQuestion")
	sessionID := middleware.SessionID(ctx)

	if !h.parseForm(ctx, w, r) {
		return
	}
	defer cleanupForm(r)

	current, err := h.applyInputs(ctx, sessionID, r)
	if err != nil {
		h.finish(ctx, w, r, sessionID, err)
		return
	}

	_, err = h.usecase.AskQuestion(context.WithoutCancel(ctx), sessionID, current.LastQuery)
	h.finish(ctx, w, r, sessionID, err)
}

// CheckFit handles POST /fit
func (h *Handler) CheckFit(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CheckFit")
	sessionID := middleware.SessionID(ctx)

	if !h.parseForm(ctx, w, r) {
		return
	}
	defer cleanupForm(r)

	current, err := h.applyInputs(ctx, sessionID, r)
	if err != nil {
		h.finish(ctx, w, r, sessionID, err)
		return
	}

	_, err = h.usecase.CheckFit(context.WithoutCancel(ctx), sessionID, current.Role)
	h.finish(ctx, w, r, sessionID, err)
}

// parseForm accepts multipart and urlencoded bodies. It answers the request itself when it returns false.
func (h *Handler) parseForm(ctx context.Context, w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	err := r.ParseMultipartForm(h.maxUploadSize)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		ctxzap.Warn(ctx, "request body too large", zap.Int64("limit", tooLarge.Limit))
		h.finish(ctx, w, r, middleware.SessionID(ctx), entity.NewAlert(entity.MsgFileTooLarge, err))
		return false
	}

	ctxzap.Error(ctx, "failed to parse form", zap.Error(err))
	response.Error(w, http.StatusBadRequest, "invalid form data")
	return false
}

// applyInputs stores the role and query the page posted, if present, and returns the updated state
func (h *Handler) applyInputs(ctx context.Context, sessionID string, r *http.Request) (*entity.Workflow, error) {
	if r.PostForm.Has(formRole) {
		if _, err := h.usecase.SetRole(ctx, sessionID, r.PostForm.Get(formRole)); err != nil {
			return nil, fmt.Errorf("set role: %w", err)
		}
	}

	if r.PostForm.Has(formQuery) {
		if _, err := h.usecase.SetQuery(ctx, sessionID, r.PostForm.Get(formQuery)); err != nil {
			return nil, fmt.Errorf("set query: %w", err)
		}
	}

	return h.usecase.Snapshot(ctx, sessionID), nil
}

// finish records the alert of err, if any, and sends the browser back to the page
func (h *Handler) finish(ctx context.Context, w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	if err != nil {
		if alertErr := h.usecase.SetAlert(ctx, sessionID, entity.AlertMessage(err)); alertErr != nil {
			ctxzap.Error(ctx, "failed to store alert", zap.Error(alertErr))
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// readResume returns nil when no file was chosen
func readResume(r *http.Request) (*entity.ResumeFile, error) {
	f, fh, err := r.FormFile(formFile)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open form file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read form file: %w", err)
	}

	return &entity.ResumeFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		r.MultipartForm.RemoveAll()
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
