package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	HeaderTransactionID  = "X-Transaction-Id"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// HttpClient is a small JSON client for the bookings API used by integration tests and tooling.
type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHttpClient(baseURL string) *HttpClient {
	return &HttpClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Response keeps the fully read body next to the original response.
type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

func (r *Response) TransactionID() string {
	return r.Header.Get(HeaderTransactionID)
}

func (r *Response) String() string {
	return fmt.Sprintf("%d %s", r.StatusCode, r.Body)
}

func (c *HttpClient) GET(ctx context.Context, path string) (*Response, error) {
	return c.Send(ctx, http.MethodGet, path, nil, nil)
}

func (c *HttpClient) POST(ctx context.Context, path string, body any, header http.Header) (*Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return c.Send(ctx, http.MethodPost, path, raw, header)
}

func (c *HttpClient) PUT(ctx context.Context, path string, body any, header http.Header) (*Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return c.Send(ctx, http.MethodPut, path, raw, header)
}

// POSTRaw sends rawBody untouched, for exercising malformed payloads.
func (c *HttpClient) POSTRaw(ctx context.Context, path string, rawBody []byte) (*Response, error) {
	return c.Send(ctx, http.MethodPost, path, rawBody, nil)
}

// Send issues one request. A non-nil body is declared as JSON.
func (c *HttpClient) Send(ctx context.Context, method, path string, body []byte, header http.Header) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	for key, values := range header {
		req.Header[key] = values
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	return &Response{Response: resp, Body: data}, nil
}

// WaitForHealthy polls /health until it answers 200 or maxWait elapses.
func (c *HttpClient) WaitForHealthy(ctx context.Context, maxWait time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	for {
		if resp, err := c.GET(ctx, "/health"); err == nil && resp.StatusCode == http.StatusOK {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("service did not become healthy within %v", maxWait)
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// ErrorPayload mirrors the error body returned by the bookings API.
type ErrorPayload struct {
	TransactionID string `json:"transactionId"`
	Errors        []struct {
		Description string `json:"description"`
	} `json:"errors"`
}

// GetErrorMessages returns every error description in resp.
func GetErrorMessages(resp *Response) []string {
	var payload ErrorPayload
	if err := resp.DecodeJSON(&payload); err != nil {
		return []string{fmt.Sprintf("failed to unmarshal error: %v", err)}
	}

	messages := make([]string, 0, len(payload.Errors))
	for _, e := range payload.Errors {
		messages = append(messages, e.Description)
	}
	return messages
}
