package files

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	pkgRetry "github.com/futig/resume-assistant/internal/pkg/retry"
	pkgHTTP "github.com/futig/resume-assistant/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticResolver string

func (r staticResolver) GetFileDirectURL(string) (string, error) {
	return string(r), nil
}

func newDownloader(url string) *Downloader {
	connector := pkgHTTP.NewConnector(&pkgHTTP.ConnectorConfig{Logger: zap.NewNop()})
	return NewDownloader(staticResolver(url), connector, pkgRetry.RetryConfig{Attempts: 3})
}

func TestDownload_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	content, err := newDownloader(srv.URL + "/file/bot-token/doc.pdf").Download(context.Background(), "tg-file")

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), content)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDownload_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newDownloader(srv.URL).Download(context.Background(), "tg-file")

	var httpErr *pkgHTTP.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}
