package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtlebank/teenfin/internal/config"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
)

// OpenAIGateway calls the OpenAI chat-completions API.  Enablement is derived
// from the presence of an API key; a keyless gateway reports ErrDisabled
// instead of attempting calls.
type OpenAIGateway struct {
	cfg    config.OpenAIConfig
	client *http.Client
	log    logging.Logger
}

// NewOpenAIGateway builds an OpenAIGateway from config.
func NewOpenAIGateway(cfg config.OpenAIConfig, log logging.Logger) *OpenAIGateway {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Enabled reports whether an API key is configured.
func (g *OpenAIGateway) Enabled() bool {
	return strings.TrimSpace(g.cfg.APIKey) != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	TopP           float64        `json:"top_p,omitempty"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate sends one chat-completion request and returns the first non-blank
// choice.
func (g *OpenAIGateway) Generate(ctx context.Context, systemInstruction, userPrompt string, params GenerationParams) (string, error) {
	if !g.Enabled() {
		return "", ErrDisabled
	}

	reqBody := chatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: userPrompt},
		},
		Temperature: params.Temperature,
		TopP:        params.TopP,
	}
	if params.ResponseSchema != nil {
		name := params.SchemaName
		if name == "" {
			name = "response"
		}
		reqBody.ResponseFormat = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   name,
				"schema": params.ResponseSchema,
			},
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llm: marshal chat request: %w", err)
	}

	url := strings.TrimRight(g.cfg.BaseURL, "/") + "/chat/completions"

	attempts := g.cfg.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; ; attempt++ {
		text, retryable, err := g.attempt(ctx, url, payload)
		if err == nil {
			return text, nil
		}
		if !retryable || attempt >= attempts || ctx.Err() != nil {
			return "", err
		}
		g.log.Warn("openai attempt failed, retrying",
			logging.Int("attempt", attempt),
			logging.Err(err))
	}
}

// attempt performs one chat-completion round trip.  Transport failures and
// throttling or server statuses are retryable; everything else is final.
func (g *OpenAIGateway) attempt(ctx context.Context, url string, payload []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("llm: build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Warn("openai chat completion failed", logging.Err(err))
		return "", true, ErrNoResponse
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		g.log.Warn("openai response read failed", logging.Err(err))
		return "", true, ErrNoResponse
	}

	if resp.StatusCode != http.StatusOK {
		g.log.Warn("openai returned non-200 status",
			logging.Int("status", resp.StatusCode),
			logging.String("body", truncate(string(body), 512)))
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retryable, ErrNoResponse
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		g.log.Warn("openai response decode failed", logging.Err(err))
		return "", false, ErrNoResponse
	}
	if parsed.Error != nil {
		g.log.Warn("openai returned an error payload",
			logging.String("type", parsed.Error.Type),
			logging.String("message", parsed.Error.Message))
		return "", false, ErrNoResponse
	}

	for _, choice := range parsed.Choices {
		if content := strings.TrimSpace(choice.Message.Content); content != "" {
			return content, true, nil
		}
	}
	return "", false, ErrNoResponse
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
