// Package mirrorhttp implements the ledger mirror client over plain HTTP.
// Every operation is a single request/response with the configured transport
// timeout; there is no retry policy. Non-2xx responses surface as typed
// mirror.StatusError values so callers can tell a missing entry from a
// server fault.
package mirrorhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smecash/cashflow-ledger/internal/config"
	"github.com/smecash/cashflow-ledger/internal/domain/mirror"
)

// Client is an HTTP implementation of mirror.Client
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a new mirror service client
func NewClient(logger *slog.Logger, cfg *config.MirrorConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:     logger,
	}
}

var _ mirror.Client = (*Client)(nil)

// Health probes the mirror service and returns its reported status
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// List returns every mirrored entry across all tenants
func (c *Client) List(ctx context.Context) ([]mirror.Entry, error) {
	var entries []mirror.Entry
	if err := c.do(ctx, http.MethodGet, "/api/transactions", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListBySme returns the mirrored entries of one tenant
func (c *Client) ListBySme(ctx context.Context, smeID string) ([]mirror.Entry, error) {
	var entries []mirror.Entry
	path := "/api/transactions/sme/" + url.PathEscape(smeID)
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Create appends a new entry and returns it with its assigned id
func (c *Client) Create(ctx context.Context, in mirror.NewEntry) (*mirror.Entry, error) {
	var entry mirror.Entry
	if err := c.do(ctx, http.MethodPost, "/api/transactions", in, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes an entry by id
func (c *Client) Delete(ctx context.Context, id string) error {
	path := "/api/transactions/" + url.PathEscape(id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Summary returns the aggregate totals of one tenant
func (c *Client) Summary(ctx context.Context, smeID string) (*mirror.Summary, error) {
	var summary mirror.Summary
	path := "/api/summary/" + url.PathEscape(smeID)
	if err := c.do(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// do issues one request and decodes the response into out (when non-nil)
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach mirror service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return mirror.StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode mirror response: %w", err)
	}
	return nil
}
