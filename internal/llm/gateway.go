// Package llm abstracts the upstream language-model vendors behind one
// gateway interface.  The recommendation core never depends on which backend
// is configured; it only sees prompt in, raw text or ErrNoResponse out.
package llm

import (
	"context"
	"errors"
)

// ErrNoResponse reports that the upstream model produced no usable text.
// Callers treat it as a service-unavailable condition, never a crash;
// timeouts are reported the same way.
var ErrNoResponse = errors.New("llm: no response from model")

// ErrDisabled reports that the gateway has no credential configured and is
// administratively disabled.
var ErrDisabled = errors.New("llm: gateway is disabled")

// GenerationParams tune one generation call.
type GenerationParams struct {
	Temperature float64
	TopP        float64
	// ResponseSchema, when non-nil, requests structured JSON output
	// conforming to the given JSON schema.  SchemaName labels it for
	// vendors that require a name.
	ResponseSchema map[string]any
	SchemaName     string
}

// Gateway is the single operation the pipeline needs from a model vendor.
type Gateway interface {
	// Generate sends the prompt pair and returns the raw response text.
	// It returns ErrDisabled when no credential is configured and
	// ErrNoResponse when the vendor returned nothing usable.
	Generate(ctx context.Context, systemInstruction, userPrompt string, params GenerationParams) (string, error)

	// Enabled reports whether a credential is configured.
	Enabled() bool
}

// Disabled is a Gateway that always reports itself unavailable.  It stands in
// when no provider is configured so call sites need no nil checks.
type Disabled struct{}

func (Disabled) Generate(context.Context, string, string, GenerationParams) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Enabled() bool { return false }
