package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/pkg/httpclient"
)

// Config for the chat completion client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Referer     string
	Title       string
}

// Client implements ports.ChatCompleter against the OpenRouter API.
type Client struct {
	cfg  Config
	http *httpclient.Client
}

// New creates a Client. The API key is required.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: api key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	headers := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
		"HTTP-Referer":  cfg.Referer,
		"X-Title":       cfg.Title,
	}
	return &Client{cfg: cfg, http: httpclient.New(cfg.Timeout, headers)}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete sends a system and a user message and returns the first choice.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	body := completionRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"

	var out completionResponse
	err := c.http.DecodeJSON(ctx, func() (*http.Request, error) {
		return c.http.NewRequest(ctx, http.MethodPost, url, body)
	}, &out)
	switch {
	case err == nil:
	case httpclient.IsTimeout(err):
		return "", fmt.Errorf("chat completion: %w", domain.ErrUpstreamTimed)
	default:
		return "", fmt.Errorf("chat completion: %w: %v", domain.ErrUpstream, err)
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completion: %w: no choices returned", domain.ErrUpstream)
	}
	return out.Choices[0].Message.Content, nil
}
