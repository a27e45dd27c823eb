package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/futig/resume-assistant/internal/entity"
	pkgRetry "github.com/futig/resume-assistant/internal/pkg/retry"
	"github.com/futig/resume-assistant/internal/state"
	"github.com/futig/resume-assistant/internal/telegram/keyboard"
	"github.com/futig/resume-assistant/internal/telegram/render"
	"github.com/futig/resume-assistant/internal/usecase/workflow"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const chatID int64 = 42

type fakeSender struct {
	mu       sync.Mutex
	messages []tgbotapi.MessageConfig
	failures int
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures > 0 {
		s.failures--
		return tgbotapi.Message{}, errors.New("telegram unavailable")
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.messages = append(s.messages, msg)
	}
	return tgbotapi.Message{}, nil
}

func (s *fakeSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (s *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.messages)
	return s.messages[len(s.messages)-1]
}

type fakeDownloader struct {
	content []byte
	err     error
	calls   int
}

func (d *fakeDownloader) Download(context.Context, string) ([]byte, error) {
	d.calls++
	return d.content, d.err
}

type fakeBackend struct {
	uploaded    *entity.ResumeFile
	askErr      error
	fitQueries  []string
	backendHits int
}

func (b *fakeBackend) UploadResume(_ context.Context, file *entity.ResumeFile) (string, error) {
	b.backendHits++
	b.uploaded = file
	return "abc123", nil
}

func (b *fakeBackend) AskQuestion(_ context.Context, fileID, query string) (string, error) {
	b.backendHits++
	if b.askErr != nil {
		return "", b.askErr
	}
	return "Senior Engineer at X", nil
}

func (b *fakeBackend) CheckFit(_ context.Context, fileID, jobDescription string) (*entity.FitResult, error) {
	b.backendHits++
	b.fitQueries = append(b.fitQueries, jobDescription)
	return &entity.FitResult{Score: "7/10", Suggestions: "Add Python projects\nHighlight SQL"}, nil
}

type fixture struct {
	handler    *Handler
	sender     *fakeSender
	downloader *fakeDownloader
	backend    *fakeBackend
}

func newFixture() *fixture {
	sender := &fakeSender{}
	downloader := &fakeDownloader{content: []byte("%PDF-1.4")}
	backend := &fakeBackend{}
	uc := workflow.NewUsecase(backend, state.NewManager(state.NewMemoryStorage(0)), zap.NewNop())

	return &fixture{
		handler:    NewHandler(sender, downloader, uc, keyboard.NewBuilder(), pkgRetry.RetryConfig{Attempts: 2}, 1<<20),
		sender:     sender,
		downloader: downloader,
		backend:    backend,
	}
}

func (f *fixture) send(t *testing.T, msg *Message) tgbotapi.MessageConfig {
	t.Helper()
	msg.ChatID = chatID
	require.NoError(t, f.handler.Handle(context.Background(), msg))
	return f.sender.last(t)
}

func document() *Document {
	return &Document{FileID: "tg-file", FileName: "cv.pdf", MimeType: "application/pdf", FileSize: 8}
}

func TestHandle_FullWorkflow(t *testing.T) {
	f := newFixture()

	reply := f.send(t, &Message{Text: "Data Scientist"})
	assert.Equal(t, render.RoleSet("Data Scientist"), reply.Text)
	assert.IsType(t, tgbotapi.ReplyKeyboardRemove{}, reply.ReplyMarkup)

	reply = f.send(t, &Message{Document: document()})
	assert.Equal(t, render.Uploaded("cv.pdf"), reply.Text)
	assert.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, reply.ReplyMarkup)
	require.NotNil(t, f.backend.uploaded)
	assert.Equal(t, []byte("%PDF-1.4"), f.backend.uploaded.Content)

	reply = f.send(t, &Message{Text: "What is my most recent role?"})
	assert.Equal(t, "Answer: Senior Engineer at X", reply.Text)

	reply = f.send(t, &Message{Text: keyboard.ButtonCheckFit})
	assert.Contains(t, reply.Text, "Fit Score: 7/10")
	assert.Contains(t, reply.Text, "Add Python projects\nHighlight SQL")
	assert.Equal(t, []string{"Data Scientist"}, f.backend.fitQueries)
}

func TestHandle_UploadPreconditions(t *testing.T) {
	t.Run("missing role", func(t *testing.T) {
		f := newFixture()

		reply := f.send(t, &Message{Document: document()})

		assert.Equal(t, entity.MsgMissingRole, reply.Text)
		assert.Zero(t, f.downloader.calls)
		assert.Zero(t, f.backend.backendHits)
	})

	t.Run("caption sets role", func(t *testing.T) {
		f := newFixture()

		reply := f.send(t, &Message{Document: document(), Caption: "Backend Engineer"})

		assert.Equal(t, render.Uploaded("cv.pdf"), reply.Text)
		f.send(t, &Message{Command: "fit"})
		assert.Equal(t, []string{"Backend Engineer"}, f.backend.fitQueries)
	})

	t.Run("too large", func(t *testing.T) {
		f := newFixture()
		f.send(t, &Message{Command: "role", Args: "Data Scientist"})

		doc := document()
		doc.FileSize = 2 << 20
		reply := f.send(t, &Message{Document: doc})

		assert.Equal(t, entity.MsgFileTooLarge, reply.Text)
		assert.Zero(t, f.downloader.calls)
	})

	t.Run("download failure", func(t *testing.T) {
		f := newFixture()
		f.downloader.err = errors.New("telegram unavailable")
		f.send(t, &Message{Command: "role", Args: "Data Scientist"})

		reply := f.send(t, &Message{Document: document()})

		assert.Equal(t, render.MsgDownloadFailed, reply.Text)
		assert.Zero(t, f.backend.backendHits)
	})
}

func TestHandle_GateBeforeUpload(t *testing.T) {
	f := newFixture()

	reply := f.send(t, &Message{Command: "ask", Args: "anything"})
	assert.Equal(t, entity.MsgNotUploaded, reply.Text)

	reply = f.send(t, &Message{Command: "fit"})
	assert.Equal(t, entity.MsgNotUploaded, reply.Text)

	assert.Zero(t, f.backend.backendHits)
}

func TestHandle_AskFailureKeepsUpload(t *testing.T) {
	f := newFixture()
	f.send(t, &Message{Text: "Data Scientist"})
	f.send(t, &Message{Document: document()})

	f.backend.askErr = errors.New("HTTP 500")
	reply := f.send(t, &Message{Command: "ask", Args: "What is my most recent role?"})

	assert.Equal(t, entity.MsgAskFailed, reply.Text)
	assert.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, reply.ReplyMarkup)
}

func TestHandle_Commands(t *testing.T) {
	f := newFixture()

	assert.Equal(t, render.MsgWelcome, f.send(t, &Message{Command: "start"}).Text)
	assert.Equal(t, render.MsgHelp, f.send(t, &Message{Command: "help"}).Text)
	assert.Equal(t, render.MsgRoleUsage, f.send(t, &Message{Command: "role"}).Text)
	assert.Equal(t, render.MsgAskUsage, f.send(t, &Message{Command: "ask", Args: "  "}).Text)
	assert.Equal(t, render.MsgUnknownCommand, f.send(t, &Message{Command: "cancel"}).Text)
	assert.Equal(t, render.MsgUnsupported, f.send(t, &Message{}).Text)
}

func TestMessageSender_Retries(t *testing.T) {
	f := newFixture()
	f.sender.failures = 1

	reply := f.send(t, &Message{Command: "start"})
	assert.Equal(t, render.MsgWelcome, reply.Text)

	f.sender.failures = 2
	err := f.handler.Handle(context.Background(), &Message{ChatID: chatID, Command: "help"})
	assert.Error(t, err)
}

func TestClassifyHandlerError(t *testing.T) {
	warn := classifyHandlerError(entity.NewAlert(entity.MsgNotUploaded, entity.ErrNotUploaded))
	assert.Equal(t, SeverityWarning, warn.Severity)
	assert.Equal(t, entity.MsgNotUploaded, warn.UserMessage)

	fail := classifyHandlerError(errors.New("boom"))
	assert.Equal(t, SeverityError, fail.Severity)
	assert.Equal(t, entity.MsgGeneric, fail.UserMessage)
}
