package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates one completion from a hosted model.
type Provider interface {
	// Generate runs req. With a Schema set the returned Content is JSON that
	// has been validated against it; otherwise it is the model's raw text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the concrete model requests are sent to.
	ModelID() string
}

// Request is a single-turn generation request.
type Request struct {
	System   string
	Messages []Message

	// Schema switches the provider to its native structured output mode.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document. Definition is kept as a plain map
// so each vendor adapter can translate it to its own schema type.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a finished generation.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is one of "end", "max_tokens" or "error" regardless of
	// vendor.
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns Content as trimmed text, for requests sent without a Schema.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(string(r.Content))
}
