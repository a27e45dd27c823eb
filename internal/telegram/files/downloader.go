package files

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	pkgRetry "github.com/futig/resume-assistant/internal/pkg/retry"
	pkgHTTP "github.com/futig/resume-assistant/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// URLResolver turns a Telegram file id into a download link; *tgbotapi.BotAPI implements it
type URLResolver interface {
	GetFileDirectURL(fileID string) (string, error)
}

// Downloader fetches documents sent to the bot.
// The link embeds the bot token, so the connector must not log URLs.
type Downloader struct {
	resolver  URLResolver
	connector *pkgHTTP.Connector
	retry     pkgRetry.RetryConfig
}

func NewDownloader(resolver URLResolver, connector *pkgHTTP.Connector, retryCfg pkgRetry.RetryConfig) *Downloader {
	return &Downloader{
		resolver:  resolver,
		connector: connector,
		retry:     retryCfg,
	}
}

// Download resolves fileID and fetches its content. Network errors and 5xx responses are retried.
func (d *Downloader) Download(ctx context.Context, fileID string) ([]byte, error) {
	opts := append(d.retry.ToRetryOptions(ctx),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "document download failed, retrying",
				zap.Error(err),
				zap.Uint("attempt", n+1),
				zap.String("telegram_file_id", fileID),
			)
		}),
	)

	return retry.DoWithData(func() ([]byte, error) {
		url, err := d.resolver.GetFileDirectURL(fileID)
		if err != nil {
			return nil, fmt.Errorf("resolve file url: %w", err)
		}

		content, err := d.connector.Download(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("download file: %w", err)
		}
		return content, nil
	}, opts...)
}

func retryable(err error) bool {
	var httpErr *pkgHTTP.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
