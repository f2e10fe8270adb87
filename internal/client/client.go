package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dm/dfsmon/internal/model"
)

// Coordinator defines the interface for talking to the cluster coordinator's
// HTTP API.
type Coordinator interface {
	Login(ctx context.Context, username, password string) (string, error)
	GetSnapshot(ctx context.Context, token string) (*model.Snapshot, error)
	BaseURL() string
}

// ClientConfig holds configuration for DefaultClient.
type ClientConfig struct {
	BaseURL            string
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
}

// DefaultClient implements Coordinator using the standard net/http package.
type DefaultClient struct {
	http   *http.Client
	config ClientConfig
	now    func() time.Time
}

// NewDefaultClient constructs a DefaultClient from the given config.
// Returns an error if BaseURL is empty.
func NewDefaultClient(cfg ClientConfig) (*DefaultClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	return &DefaultClient{
		http: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		config: cfg,
		now:    time.Now,
	}, nil
}

// BaseURL returns the configured base URL of the coordinator.
func (c *DefaultClient) BaseURL() string {
	return c.config.BaseURL
}

type requestIDKey struct{}

// WithRequestID returns a context whose requests carry id in X-Request-Id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// do performs a request to path (relative to BaseURL) and returns the status
// code and body. Status is not checked here; callers decide what a failure is.
func (c *DefaultClient) do(ctx context.Context, method, path string, body []byte, header http.Header) (int, []byte, error) {
	url := strings.TrimRight(c.config.BaseURL, "/") + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.Header.Set("X-Request-Id", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	const maxResponseBytes = 64 * 1024 * 1024 // snapshots of large namespaces stay well under this
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxResponseBytes {
		return resp.StatusCode, nil, fmt.Errorf("response body exceeds %d MB limit", maxResponseBytes/(1024*1024))
	}

	return resp.StatusCode, data, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
