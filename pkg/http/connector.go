package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"go.uber.org/zap"
)

const maxErrorBody = 512

type Connector struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
}

func NewConnector(config *ConnectorConfig, options ...HttpOpts) *Connector {
	return &Connector{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: newClient(options...),
		logger:     config.Logger,
	}
}

// BaseURL returns the address endpoints are resolved against
func (c *Connector) BaseURL() string {
	return c.baseURL
}

// FormField is a plain multipart/form-data value
type FormField struct {
	Name  string
	Value string
}

// FormFile is a multipart/form-data file part
type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// Form is the complete body of a multipart request. Only the listed parts are written.
type Form struct {
	Fields []FormField
	Files  []FormFile
}

// Names returns part names in write order
func (f *Form) Names() []string {
	names := make([]string, 0, len(f.Fields)+len(f.Files))
	for _, field := range f.Fields {
		names = append(names, field.Name)
	}
	for _, file := range f.Files {
		names = append(names, file.Field)
	}
	return names
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (f *Form) write(writer *multipart.Writer) error {
	for _, field := range f.Fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return fmt.Errorf("write field %s: %w", field.Name, err)
		}
	}

	for _, file := range f.Files {
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(file.Field), quoteEscaper.Replace(file.Filename)))
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create form file %s: %w", file.Field, err)
		}

		if _, err := part.Write(file.Content); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
	}

	return nil
}

// PostForm sends form as multipart/form-data to baseURL+endpoint and decodes the JSON answer into respBody.
// A 2xx answer that is empty or not valid JSON yields *DecodeError.
func (c *Connector) PostForm(ctx context.Context, endpoint string, form *Form, respBody any) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := form.write(writer); err != nil {
		return fmt.Errorf("prepare multipart body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	ctx = context.WithValue(ctx, formFieldsContextKey{}, form.Names())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	bodyBytes, err := c.do(req)
	if err != nil {
		return err
	}

	if respBody == nil {
		return nil
	}

	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return &DecodeError{Err: errors.New("empty response body")}
	}

	if err := json.Unmarshal(bodyBytes, respBody); err != nil {
		return &DecodeError{Err: err}
	}

	return nil
}

// Download fetches an absolute URL and returns the raw body
func (c *Connector) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return c.do(req)
}

func (c *Connector) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := string(bodyBytes)
		if len(message) > maxErrorBody {
			message = message[:maxErrorBody]
		}
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	return bodyBytes, nil
}

// HTTPError represents an HTTP error response
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NetworkError represents a network-level error (connection, timeout, etc.)
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError means a successful status came with a body that is not the expected JSON
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
