// Package gateway sends composed analysis requests to the external
// inference service and validates what comes back.
package gateway

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"

	"saham-workbench/internal/compose"
	apperrors "saham-workbench/internal/errors"
	"saham-workbench/internal/schema"
)

// CompletionRequest is one inference round trip: a system instruction, a
// user prompt, the fixed decoding policy, and the contract the response must
// satisfy.
type CompletionRequest struct {
	Instruction string
	Prompt      string
	Decoding    compose.DecodingPolicy
	Contract    schema.Contract
}

// LLMClient defines the interface for the external inference service.
type LLMClient interface {
	// Complete performs a single round trip and returns the raw text
	// payload. Failures are *errors.TransportError.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// OpenAIClient implements LLMClient against an OpenAI-compatible endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client for the given endpoint and model. An
// empty endpoint uses the default OpenAI base URL.
func NewOpenAIClient(endpoint, apiKey, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// buildChatRequest maps a completion request onto the wire format. The chat
// completions surface has no top-k parameter; temperature with the narrow
// top-p mass and a fixed seed pins decoding instead.
func buildChatRequest(model string, req CompletionRequest) openai.ChatCompletionRequest {
	seed := req.Decoding.Seed
	system := req.Instruction + "\n\n" + req.Contract.PromptSpec()

	// go-openai marshals Temperature with omitempty, so a literal 0 never
	// reaches the request body and the provider default (usually 1.0) would
	// apply. Substitute the smallest positive float to keep 0 on the wire.
	temperature := req.Decoding.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	return openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: temperature,
		TopP:        req.Decoding.TopP,
		Seed:        &seed,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
}

// Complete sends the request with the fixed decoding policy.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, buildChatRequest(c.model, req))
	if err != nil {
		return "", apperrors.NewTransportError("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewTransportError("chat completion", fmt.Errorf("no choices in response"))
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured model identifier.
func (c *OpenAIClient) Model() string {
	return c.model
}
