package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"shopkeep/internal/domain/entity"
	"shopkeep/internal/domain/service"
	apperrors "shopkeep/pkg/errors"
	"shopkeep/pkg/logger"
)

// Client talks to the backend product API with a bearer credential read
// from the token store on every call. It implements service.ProductAPI and
// service.CategoryService.
type Client struct {
	baseURL    string
	tokens     service.TokenStore
	httpClient *http.Client
}

var (
	_ service.ProductAPI      = (*Client)(nil)
	_ service.CategoryService = (*Client)(nil)
)

func NewClient(baseURL string, tokens service.TokenStore, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateOrUpdate transmits the assembled payload. Creation and update share
// one endpoint; the payload ID decides which. Calls are independent, a
// repeated submission is a second transmission.
func (c *Client) CreateOrUpdate(ctx context.Context, payload service.ProductPayload) (*entity.Product, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode product payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/seller/products", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Internal("Failed to build product request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	logger.Debug("Submitting product payload (id=%q, images=%v)", payload.ID, payload.MainImage != nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.serverError(resp)
	}

	var product entity.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, apperrors.Internal("Failed to parse product response", err)
	}
	return &product, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]entity.Category, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/categories", nil)
	if err != nil {
		return nil, apperrors.Internal("Failed to build categories request", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.serverError(resp)
	}

	var categories []entity.Category
	if err := json.NewDecoder(resp.Body).Decode(&categories); err != nil {
		return nil, apperrors.Internal("Failed to parse categories response", err)
	}
	return categories, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	token, err := c.tokens.BearerToken(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (c *Client) serverError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	message := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error.Message != "" {
			message = body.Error.Message
		} else if body.Message != "" {
			message = body.Message
		}
	}

	logger.Warn("Backend returned %d: %s", resp.StatusCode, message)
	return apperrors.Server(resp.StatusCode, message, fmt.Errorf("backend status %d", resp.StatusCode))
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
