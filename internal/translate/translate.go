// Package translate converts image descriptions into concise English
// generation prompts through an OpenAI-compatible chat-completions
// endpoint. Translation is best effort: on any failure the original
// text is returned so image generation proceeds with the untranslated
// description.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Groq-hosted chat-completions endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the model used when none is configured.
	DefaultModel = "openai/gpt-oss-120b"
)

const systemInstruction = "Act as a translator. Translate the user's text " +
	"into a short, concise English image-generation prompt. Reply with the " +
	"translation only, no explanations."

// Client talks to a chat-completions API.
type Client struct {
	baseURL string
	token   string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// New creates a Client. Empty baseURL/model fall back to the defaults;
// an empty token disables translation entirely.
func New(baseURL, token, model string, client *http.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		model:   model,
		client:  client,
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Translate returns the English prompt for text, or text unchanged
// when the service is unconfigured or the call fails.
func (c *Client) Translate(ctx context.Context, text string) string {
	if c.token == "" {
		return text
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
		MaxTokens:   256,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Warn("translation skipped, marshal failed", "error", err)
		return text
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("translation skipped, bad request", "error", err)
		return text
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("translation skipped, request failed", "error", err)
		return text
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("translation skipped, bad status", "status", resp.StatusCode)
		return text
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("translation skipped, read failed", "error", err)
		return text
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		c.logger.Warn("translation skipped, decode failed", "error", err)
		return text
	}
	if len(parsed.Choices) == 0 {
		c.logger.Warn("translation skipped, empty response")
		return text
	}

	translated := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if translated == "" {
		return text
	}
	return translated
}
