package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/futig/resume-assistant/internal/config"
	"github.com/futig/resume-assistant/internal/entity"
	pkghttp "github.com/futig/resume-assistant/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturedRequest struct {
	path   string
	values map[string][]string
	files  map[string]string
}

func (c capturedRequest) partNames() []string {
	names := make([]string, 0, len(c.values)+len(c.files))
	for name := range c.values {
		names = append(names, name)
	}
	for name := range c.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// newBackend starts a fake backend that records the request and replies with status and body
func newBackend(t *testing.T, status int, body any) (*Connector, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		captured.path = r.URL.Path
		captured.values = r.MultipartForm.Value
		captured.files = make(map[string]string)
		for name, headers := range r.MultipartForm.File {
			f, err := headers[0].Open()
			require.NoError(t, err)
			data, _ := io.ReadAll(f)
			captured.files[name] = headers[0].Filename + ":" + string(data)
		}

		w.WriteHeader(status)
		switch b := body.(type) {
		case string:
			w.Write([]byte(b))
		default:
			json.NewEncoder(w).Encode(b)
		}
	}))
	t.Cleanup(srv.Close)

	cfg := config.BackendConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{Url: srv.URL},
		UploadEndpoint:   "/upload",
		AskEndpoint:      "/ask",
		FitScoreEndpoint: "/fit-score",
	}
	return NewConnector(cfg, zap.NewNop()), captured
}

func TestUploadResume(t *testing.T) {
	c, captured := newBackend(t, http.StatusOK, map[string]string{
		"message": "Resume uploaded and indexed.",
		"file_id": "abc123",
	})

	fileID, err := c.UploadResume(context.Background(), &entity.ResumeFile{
		Filename:    "cv.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	assert.Equal(t, "abc123", fileID)
	assert.Equal(t, "/upload", captured.path)
	assert.Equal(t, []string{"file"}, captured.partNames())
	assert.Equal(t, "cv.pdf:%PDF-1.4", captured.files["file"])
}

func TestUploadResume_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `Internal Server Error`},
		{name: "not json", status: http.StatusOK, body: `<html></html>`},
		{name: "missing file_id", status: http.StatusOK, body: map[string]string{"message": "ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newBackend(t, tt.status, tt.body)

			fileID, err := c.UploadResume(context.Background(), &entity.ResumeFile{Filename: "cv.pdf"})
			require.Error(t, err)
			assert.Empty(t, fileID)
		})
	}
}

func TestAskQuestion(t *testing.T) {
	c, captured := newBackend(t, http.StatusOK, map[string]string{"answer": "Senior Engineer at X"})

	answer, err := c.AskQuestion(context.Background(), "abc123", "What is my most recent role?")
	require.NoError(t, err)

	assert.Equal(t, "Senior Engineer at X", answer)
	assert.Equal(t, "/ask", captured.path)
	assert.Equal(t, []string{"file_id", "query"}, captured.partNames())
	assert.Equal(t, []string{"abc123"}, captured.values["file_id"])
	assert.Equal(t, []string{"What is my most recent role?"}, captured.values["query"])
}

func TestAskQuestion_UnknownFile(t *testing.T) {
	c, _ := newBackend(t, http.StatusNotFound, map[string]string{"error": "Invalid file ID."})

	_, err := c.AskQuestion(context.Background(), "nope", "anything")

	var httpErr *pkghttp.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestCheckFit(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantScore string
	}{
		{name: "string score", body: `{"score":"7/10","suggestions":"Add Python projects\nHighlight SQL"}`, wantScore: "7/10"},
		{name: "numeric score", body: `{"score":8,"suggestions":"Add Python projects\nHighlight SQL"}`, wantScore: "8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, captured := newBackend(t, http.StatusOK, tt.body)

			result, err := c.CheckFit(context.Background(), "abc123", "Data Scientist")
			require.NoError(t, err)

			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, "Add Python projects\nHighlight SQL", result.Suggestions)
			assert.Equal(t, "/fit-score", captured.path)
			assert.Equal(t, []string{"file_id", "job_description"}, captured.partNames())
			assert.Equal(t, []string{"Data Scientist"}, captured.values["job_description"])
		})
	}
}

func TestCheckFit_InvalidScore(t *testing.T) {
	c, _ := newBackend(t, http.StatusOK, `{"score":{"x":1},"suggestions":""}`)

	_, err := c.CheckFit(context.Background(), "abc123", "Data Scientist")
	require.Error(t, err)

	var decodeErr *pkghttp.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestMockConnector(t *testing.T) {
	m := NewMockConnector(zap.NewNop())
	ctx := context.Background()

	fileID, err := m.UploadResume(ctx, &entity.ResumeFile{Filename: "cv.pdf"})
	require.NoError(t, err)
	assert.NotEmpty(t, fileID)

	answer, err := m.AskQuestion(ctx, fileID, "Where did I study?")
	require.NoError(t, err)
	assert.Contains(t, answer, "Where did I study?")

	fit, err := m.CheckFit(ctx, fileID, "Data Scientist")
	require.NoError(t, err)
	assert.Equal(t, "7/10", fit.Score)
	assert.Contains(t, fit.Suggestions, "\n")
}
