package llm

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/turtlebank/teenfin/internal/config"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
)

// GeminiGateway calls the Google Gemini API through the official genai SDK.
type GeminiGateway struct {
	cfg    config.GeminiConfig
	client *genai.Client
	log    logging.Logger
}

// NewGeminiGateway builds a GeminiGateway.  A blank API key yields a gateway
// that reports itself disabled without ever constructing the SDK client.
func NewGeminiGateway(ctx context.Context, cfg config.GeminiConfig, log logging.Logger) (*GeminiGateway, error) {
	g := &GeminiGateway{cfg: cfg, log: log}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	g.client = client
	return g, nil
}

// Enabled reports whether the SDK client was constructed with a credential.
func (g *GeminiGateway) Enabled() bool { return g.client != nil }

// Generate sends one generateContent request.  Structured output is requested
// via the JSON response MIME type plus the raw JSON schema; Gemini does not
// take a schema name the way OpenAI does, so SchemaName goes unused here.
func (g *GeminiGateway) Generate(ctx context.Context, systemInstruction, userPrompt string, params GenerationParams) (string, error) {
	if !g.Enabled() {
		return "", ErrDisabled
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	cfg := requestConfig(systemInstruction, params)

	started := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(userPrompt), cfg)
	if err != nil {
		g.log.Warn("gemini generateContent failed",
			logging.Err(err),
			logging.Duration("elapsed", time.Since(started)))
		return "", ErrNoResponse
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", ErrNoResponse
	}
	return text, nil
}

// requestConfig maps GenerationParams onto the SDK config.
func requestConfig(systemInstruction string, params GenerationParams) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(params.Temperature)),
		TopP:              genai.Ptr(float32(params.TopP)),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}
	if params.ResponseSchema != nil {
		cfg.ResponseJsonSchema = params.ResponseSchema
	}
	return cfg
}
