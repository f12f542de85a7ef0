package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

// Notifier delivers device notifications. Delivery is best effort; callers
// decide whether a failure matters.
type Notifier interface {
	SendToDevices(ctx context.Context, title, body string, personID int64, tokens []string) error
}

// HTTPClient implements Notifier via a push gateway HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// request mirrors the gateway JSON payload.
type request struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	PersonID int64    `json:"person_id"`
	Tokens   []string `json:"tokens"`
}

// NewHTTPClient creates a push gateway client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse push gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("push gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// SendToDevices posts the notification to the gateway.
func (c *HTTPClient) SendToDevices(ctx context.Context, title, body string, personID int64, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/notifications")

	payload, err := json.Marshal(request{Title: title, Body: body, PersonID: personID, Tokens: tokens})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	c.logger.Error("push request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(respBody)))
	return fmt.Errorf("push gateway error: %s", resp.Status)
}

// NoopNotifier drops notifications; used when no gateway is configured.
type NoopNotifier struct{}

// SendToDevices discards the notification.
func (NoopNotifier) SendToDevices(context.Context, string, string, int64, []string) error {
	return nil
}
