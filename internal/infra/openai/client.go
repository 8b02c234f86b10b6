package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	openai "github.com/sashabaranov/go-openai"

	"github.com/rv2ven/rv2-relay/internal/biz/domain"
)

const (
	defaultModel = "gpt-4o-mini"
	providerName = "OpenAI"
)

// Message is one chat completion message
type Message struct {
	Role    string
	Content string
}

// Options holds sampling parameters understood by chat completions
type Options struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// Completion is the first choice of a chat completion
type Completion struct {
	Content      string
	FinishReason string
}

// Client is an OpenAI-compatible chat client
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new client. baseURL may point at any
// OpenAI-compatible endpoint; empty means api.openai.com.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if model == "" {
		model = defaultModel
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = timeout
	config.HTTPClient = httpClient

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Chat sends the conversation and returns the first choice
func (c *Client) Chat(ctx context.Context, messages []Message, opts Options) (*Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
		MaxTokens:   opts.MaxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, translateError(err)
	}

	if len(resp.Choices) == 0 {
		return &Completion{}, nil
	}
	choice := resp.Choices[0]
	return &Completion{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
	}, nil
}

func translateError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &domain.GatewayError{Provider: providerName, StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &domain.GatewayError{Provider: providerName, StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}
	return fmt.Errorf("chat completion: %w", err)
}
