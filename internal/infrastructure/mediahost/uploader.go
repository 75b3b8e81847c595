package mediahost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopkeep/internal/domain/entity"
	"shopkeep/internal/domain/service"
	apperrors "shopkeep/pkg/errors"
	"shopkeep/pkg/logger"
)

// Config is the explicit upload configuration injected at construction;
// nothing here is read from ambient state so tests can swap all of it.
type Config struct {
	BaseURL   string
	AccountID string
	// Presets is the ordered credential list; the first entry is the
	// primary and the rest are fallbacks tried in order.
	Presets []string
	// Timeout bounds each individual attempt.
	Timeout time.Duration
	// RetryBackoff is the fixed wait between credential attempts.
	RetryBackoff time.Duration
	// HTTPClient may be swapped in tests; a default is installed otherwise.
	HTTPClient *http.Client
}

const (
	defaultTimeout      = 60 * time.Second
	defaultRetryBackoff = 500 * time.Millisecond
)

// Client uploads files to the remote media host over its multipart HTTP
// contract. It implements service.MediaHost.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

var _ service.MediaHost = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// Upload tries each preset in order until one succeeds. Every attempt builds
// a fresh request so no state leaks between attempts; a failed attempt waits
// the fixed backoff before the next credential. When the list is exhausted
// the error names the attempt count and the last underlying cause.
func (c *Client) Upload(ctx context.Context, file entity.LocalFile, kind entity.SlotKind, onProgress service.UploadProgressFunc) (*entity.UploadResult, error) {
	if len(c.cfg.Presets) == 0 {
		return nil, apperrors.Internal("No upload presets configured", nil)
	}

	var lastErr error
	attempts := 0
	for i, preset := range c.cfg.Presets {
		if i > 0 {
			select {
			case <-time.After(c.cfg.RetryBackoff):
			case <-ctx.Done():
				return nil, apperrors.UploadFailed(attempts, ctx.Err())
			}
		}

		attempts++
		result, err := c.attempt(ctx, preset, file, kind, onProgress)
		if err == nil {
			if onProgress != nil {
				onProgress(100)
			}
			logger.Info("Uploaded %s image via preset %q on attempt %d", kind, preset, attempts)
			return result, nil
		}

		lastErr = err
		logger.LogUploadAttempt(string(kind), preset, attempts, err)
	}

	return nil, apperrors.UploadFailed(attempts, lastErr)
}

// attempt performs one fully independent upload with one credential.
func (c *Client) attempt(ctx context.Context, preset string, file entity.LocalFile, kind entity.SlotKind, onProgress service.UploadProgressFunc) (*entity.UploadResult, error) {
	body, contentType, err := c.buildRequestBody(preset, file, kind)
	if err != nil {
		return nil, err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	total := int64(body.Len())
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.uploadURL(), newProgressReader(body, total, onProgress))
	if err != nil {
		return nil, apperrors.Internal("Failed to build upload request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = total

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apperrors.Server(resp.StatusCode, extractErrorMessage(raw), nil)
	}

	var result entity.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.Internal("Failed to parse upload response", err)
	}
	if result.URL == "" || result.RemoteID == "" {
		return nil, apperrors.Internal("Upload response is missing url or id", nil)
	}
	return &result, nil
}

func (c *Client) uploadURL() string {
	return fmt.Sprintf("%s/%s/image/upload", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.AccountID)
}

func (c *Client) buildRequestBody(preset string, file entity.LocalFile, kind entity.SlotKind) (*bytes.Buffer, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", apperrors.Internal("Unable to read local file", err)
	}
	defer src.Close()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	part, err := w.CreateFormFile("file", uploadFilename(file, kind))
	if err != nil {
		return nil, "", apperrors.Internal("Failed to build multipart body", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", apperrors.Internal("Unable to read local file", err)
	}

	fields := map[string]string{
		"upload_preset": preset,
		"account_id":    c.cfg.AccountID,
		"folder":        "products/" + string(kind),
		"tags":          "product," + string(kind),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", apperrors.Internal("Failed to build multipart body", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", apperrors.Internal("Failed to build multipart body", err)
	}
	return buf, w.FormDataContentType(), nil
}

// uploadFilename encodes the slot kind and a timestamp, salted so two
// uploads in the same second never collide.
func uploadFilename(file entity.LocalFile, kind entity.SlotKind) string {
	salt := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%s_%s%s", kind, time.Now().Format("20060102150405"), salt, extensionFor(file.MimeType))
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}

func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.Timeout(err)
	}
	return apperrors.Network(err)
}

func extractErrorMessage(raw []byte) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error.Message != "" {
			return body.Error.Message
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return ""
}
