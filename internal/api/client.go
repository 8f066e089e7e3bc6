package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// Refresh walks the whole ClickUp space, so the default is generous.
	defaultHTTPTimeout = 2 * time.Minute
	httpTimeoutEnvKey  = "TASKCHAT_HTTP_TIMEOUT"
)

// Client is a simple HTTP client for a running taskchat server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) Stats(ctx context.Context) (StatsResponse, error) {
	var resp StatsResponse
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, nil, &resp)
	return resp, err
}

// Chat sends a message and returns the payload. Payloads of type error that
// arrive with a 2xx status are returned as-is, not as Go errors.
func (c *Client) Chat(ctx context.Context, message string) (Payload, error) {
	var resp Payload
	err := c.do(ctx, http.MethodPost, "/api/chat", nil, ChatRequest{Message: message}, &resp)
	return resp, err
}

// Refresh asks the server to re-fetch its snapshot. A failed refresh is
// returned as an *APIError carrying the server's message.
func (c *Client) Refresh(ctx context.Context) (RefreshResponse, error) {
	var resp RefreshResponse
	err := c.do(ctx, http.MethodPost, "/api/refresh", nil, nil, &resp)
	return resp, err
}

// Export streams the whole snapshot in format to w.
func (c *Client) Export(ctx context.Context, format string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/export/"+url.PathEscape(format), nil)
	if err != nil {
		return err
	}
	return c.stream(req, w)
}

// ExportQuery streams the rows selected by message in format to w.
func (c *Client) ExportQuery(ctx context.Context, message, format string, w io.Writer) error {
	payload, err := json.Marshal(ChatExportRequest{Message: message, Format: format})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/export", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.stream(req, w)
}

func (c *Client) stream(req *http.Request, w io.Writer) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeError understands both error payloads and refresh failures.
func decodeError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: resp.Status}
	}

	var body struct {
		Type      string `json:"type"`
		Message   string `json:"message"`
		Code      string `json:"code"`
		ErrorCode int    `json:"error_code"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return &APIError{
			Status:    resp.StatusCode,
			Code:      body.Code,
			ErrorCode: body.ErrorCode,
			Message:   body.Message,
		}
	}
	return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("api error: %s", resp.Status)}
}

// IsStatus reports whether err is an *APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
