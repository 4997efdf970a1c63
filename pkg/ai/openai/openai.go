// Package openai implements ai.SchemaAIClient against OpenAI-compatible
// chat completion APIs.
package openai

import (
	"sync"

	"schemaforge/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// SchemaOpenAIClient generates structured data through an OpenAI-compatible
// chat endpoint. Create one with NewSchemaOpenAIClient.
type SchemaOpenAIClient struct {
	generationModel string

	chatURL string
	chatKey string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewSchemaOpenAIClientParams configures a new client. ChatURL may be left
// empty for the official API, or point at any compatible endpoint.
type NewSchemaOpenAIClientParams struct {
	GenerationModel string

	ChatURL string
	ChatKey string
}

// NewSchemaOpenAIClient creates a client for the given endpoint and model.
func NewSchemaOpenAIClient(params NewSchemaOpenAIClientParams) *SchemaOpenAIClient {
	return &SchemaOpenAIClient{
		generationModel: params.GenerationModel,

		chatURL: params.ChatURL,
		chatKey: params.ChatKey,

		ChatClient: newOpenaiClient(params.ChatURL, params.ChatKey),
	}
}

func newOpenaiClient(baseURL string, apiKey string) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (c *SchemaOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	c.metrics = ai.ModelMetrics{}
	c.metricsLock.Unlock()
}

// GetMetrics returns the accumulated usage metrics since the last reset.
func (c *SchemaOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

func (c *SchemaOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs

	if c.metrics.DurationMs > 0 {
		perSecond := (float64(c.metrics.TotalTokens) * 1000.0) / float64(c.metrics.DurationMs)
		c.metrics.TokenPerSecond = float32(perSecond)
	}
}
