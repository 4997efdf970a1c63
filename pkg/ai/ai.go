// Package ai defines the model client interface used for structured data
// generation, plus the prompt construction shared by all providers.
package ai

import "context"

// GenerateOptions holds configuration for AI generation requests.
type GenerateOptions struct {
	Model         string   // Model identifier to use for generation
	SystemPrompts []string // System prompts prepended to the request
	Temperature   float64  // Sampling temperature (0.0-2.0)
	Thinking      string   // Extended thinking mode configuration
}

// GenerateOption is a functional option for configuring AI generation requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
// Lower values make the output more deterministic, which structured data
// generation wants.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithThinking returns a GenerateOption that enables extended thinking mode.
// The thinking parameter specifies the thinking budget or mode configuration.
func WithThinking(thinking string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Thinking = thinking
	}
}

// ModelMetrics contains accumulated usage metrics from model calls.
type ModelMetrics struct {
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	DurationMs     int64   `json:"duration_ms"`
	TokenPerSecond float32 `json:"tokens_per_second"`
}

// FragmentDocument is the response envelope for schema-constrained fragment
// generation. Strict response formats cannot describe free-form JSON-LD, so
// the document travels serialized inside a single field and is parsed with
// the same repair path as plain completions.
type FragmentDocument struct {
	Document string `json:"document" jsonschema_description:"The complete JSON-LD document for the page, serialized as a JSON string"`
}

// SchemaAIClient is the model interface the generation pipeline runs on.
// Implementations exist for OpenAI-compatible APIs and Ollama.
type SchemaAIClient interface {
	// GenerateCompletion sends a single-turn prompt and returns assistant
	// text.
	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)

	// GenerateCompletionWithFormat enforces a JSON schema derived from out
	// and unmarshals the response into it.
	GenerateCompletionWithFormat(
		ctx context.Context,
		name string,
		description string,
		prompt string,
		out any,
		opts ...GenerateOption,
	) error

	// LoadModel warms up the configured model where the backend supports it.
	LoadModel(ctx context.Context, opts ...GenerateOption) error

	ResetMetrics()
	GetMetrics() ModelMetrics
}
