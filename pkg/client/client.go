// Package client is a small Go SDK for the teenfin HTTP API.  It mirrors
// the server's error envelope so callers can branch on coded failures
// without parsing response bodies themselves.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Version is the SDK version reported in the User-Agent header.
const Version = "0.1.0"

// Client talks to one teenfin API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// APIError is a decoded error envelope plus the HTTP status it arrived with.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	RequestID  string `json:"requestId,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("teenfin: %s (HTTP %d): %s [request_id=%s]",
		e.Code, e.StatusCode, e.Message, e.RequestID)
}

// IsNotFound reports whether the server answered 404.
func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// IsConflict reports whether the server answered 409.
func (e *APIError) IsConflict() bool { return e.StatusCode == http.StatusConflict }

// IsRateLimited reports whether the server answered 429.
func (e *APIError) IsRateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }

// IsUnavailable reports whether the server answered 503.
func (e *APIError) IsUnavailable() bool { return e.StatusCode == http.StatusServiceUnavailable }

// NewClient builds a Client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("client: baseURL must not be empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid baseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  fmt.Sprintf("teenfin-go-sdk/%s", Version),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Questions fetches the survey question list.
func (c *Client) Questions(ctx context.Context) ([]SurveyQuestion, error) {
	var wrapper struct {
		Questions []SurveyQuestion `json:"questions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/survey", nil, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Questions, nil
}

// Recommend submits survey answers and returns the recommendation result.
func (c *Client) Recommend(ctx context.Context, req RecommendationRequest) (*RecommendationResult, error) {
	var result RecommendationResult
	if err := c.do(ctx, http.MethodPost, "/api/recommendations", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ChatFinance asks the finance advisor one question.
func (c *Client) ChatFinance(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat/finance", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// User resolves a player record by numeric id, external id, or nickname.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser registers a player record.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, "/api/users", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Reward credits mini-game gold to a player.
func (c *Client) Reward(ctx context.Context, req RewardRequest) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, "/api/users/reward", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Healthy reports whether the server's readiness probe passes.
func (c *Client) Healthy(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/readyz", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && json.Unmarshal(data, apiErr) == nil && apiErr.Code != "" {
		return apiErr
	}
	apiErr.Code = "UNKNOWN"
	apiErr.Message = strings.TrimSpace(string(data))
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}
