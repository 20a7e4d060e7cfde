package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"chronolex_app_go/config"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// InferenceProvider is the single network dependency of the extraction
// pipeline: one prompt in, one raw text response out. No retries, no
// streaming - resilience policy belongs to the caller.
type InferenceProvider interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	CompleteWithImage(ctx context.Context, prompt string, imageData []byte, mediaType string, maxTokens int) (string, error)
	IsConfigured() bool
}

// Inference is the global inference provider instance
var Inference InferenceProvider

// InitializeInference sets up the inference provider based on configuration
func InitializeInference(cfg *config.Config) {
	client := NewAnthropicClient(cfg)
	Inference = client
	if client.IsConfigured() {
		log.Printf("Inference client initialized (model: %s)", cfg.AnthropicModel)
	} else {
		log.Println("[WARNING] ANTHROPIC_API_KEY not set - document analysis is disabled")
	}
}

// AnthropicClient implements InferenceProvider against the Anthropic
// Messages API
type AnthropicClient struct {
	client anthropic.Client
	model  string
	apiKey string
}

// NewAnthropicClient creates a new Anthropic-backed inference client
func NewAnthropicClient(cfg *config.Config) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		model:  cfg.AnthropicModel,
		apiKey: cfg.AnthropicAPIKey,
	}
}

// IsConfigured returns true if an API key is present
func (a *AnthropicClient) IsConfigured() bool {
	return a.apiKey != ""
}

// Complete sends a single text prompt and returns the raw response text.
// Temperature is pinned to zero so repeated runs on identical input are
// stable.
func (a *AnthropicClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !a.IsConfigured() {
		return "", fmt.Errorf("inference client not configured: ANTHROPIC_API_KEY missing")
	}

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}

	return collectText(message), nil
}

// CompleteWithImage sends a prompt together with an image attachment and
// returns the raw response text
func (a *AnthropicClient) CompleteWithImage(ctx context.Context, prompt string, imageData []byte, mediaType string, maxTokens int) (string, error) {
	if !a.IsConfigured() {
		return "", fmt.Errorf("inference client not configured: ANTHROPIC_API_KEY missing")
	}

	encoded := base64.StdEncoding.EncodeToString(imageData)

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, encoded),
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}

	return collectText(message), nil
}

// collectText concatenates the text blocks of a response
func collectText(message *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}
