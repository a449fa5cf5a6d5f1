// Package llm wraps an OpenAI-compatible chat endpoint used for intent parsing.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps the concatenated streamed reply.
	MaxResponseSize = 1 << 20
)

var (
	ErrMissingAPIKey    = errors.New("llm: API key is not set")
	ErrResponseTooLarge = errors.New("llm: streamed response exceeds size limit")
)

// Config selects the endpoint, credentials and model.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// chunkStream is the part of ssestream.Stream the client consumes.
type chunkStream interface {
	Next() bool
	Current() openai.ChatCompletionChunk
	Err() error
	Close() error
}

type streamFunc func(ctx context.Context, params openai.ChatCompletionNewParams) chunkStream

// Client sends single-prompt requests and returns the streamed reply as one string.
type Client struct {
	stream  streamFunc
	model   string
	timeout time.Duration
}

// NewClient creates a Client for cfg. An empty API key is an error; other
// empty fields fall back to the package defaults.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	oc := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	)
	stream := func(ctx context.Context, params openai.ChatCompletionNewParams) chunkStream {
		return oc.Chat.Completions.NewStreaming(ctx, params)
	}
	return newClient(stream, cfg.Model, cfg.Timeout), nil
}

func newClient(stream streamFunc, model string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{stream: stream, model: model, timeout: timeout}
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as a single user message and concatenates every
// streamed fragment, in arrival order, before returning.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stream := c.stream(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	defer stream.Close()

	var b strings.Builder
	for stream.Next() {
		for _, choice := range stream.Current().Choices {
			b.WriteString(choice.Delta.Content)
		}
		if b.Len() > MaxResponseSize {
			return "", ErrResponseTooLarge
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("stream from %s failed: %w", c.model, err)
	}
	return b.String(), nil
}
