// Package llm wraps the hosted chat-completion endpoint behind a single
// request/response call: no retries, no streaming, one round trip per turn.
package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pawlingo/pawlingo-server/internal/logger"
	"github.com/pawlingo/pawlingo-server/internal/models"
	"github.com/pawlingo/pawlingo-server/internal/notify"
)

const (
	defaultModel     = openai.GPT4o
	temperature      = 0.7
	maxTokens        = 1000
	genericFailure   = "Failed to connect to the assistant. Please try again."
	emptyReplyErrMsg = "the assistant returned an empty reply"
)

var (
	// ErrMissingCredential means no API key is configured; no network
	// call is attempted.
	ErrMissingCredential = errors.New("chat completion API key is missing")
	// ErrRemoteRequestFailed covers non-2xx responses and network-level
	// failures from the chat completion endpoint.
	ErrRemoteRequestFailed = errors.New("chat completion request failed")
)

var log = logger.New("llm")

// Transport sends conversation turns to the chat completion endpoint
type Transport struct {
	apiKey   string
	baseURL  string
	model    string
	notifier notify.Notifier
}

// NewTransport creates a transport for the given credential. An empty
// baseURL uses the provider's production endpoint.
func NewTransport(apiKey, baseURL string, notifier notify.Notifier) *Transport {
	return &Transport{
		apiKey:   apiKey,
		baseURL:  baseURL,
		model:    defaultModel,
		notifier: notifier,
	}
}

// HasCredential reports whether a non-empty API key is configured
func (t *Transport) HasCredential() bool {
	return t.apiKey != ""
}

// Complete sends the full ordered message history (including the leading
// system instruction) and returns the single textual reply from the first
// completion choice. Failures are surfaced through the notifier and
// returned as ErrRemoteRequestFailed.
func (t *Transport) Complete(ctx context.Context, history []models.ChatMessage) (string, error) {
	if t.apiKey == "" {
		return "", ErrMissingCredential
	}

	cfg := openai.DefaultConfig(t.apiKey)
	if t.baseURL != "" {
		cfg.BaseURL = t.baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Messages:    buildMessages(history),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		description := genericFailure
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			description = apiErr.Message
		}
		log.Error("chat completion request failed: %v", err)
		t.notifier.Notify("Assistant error", description, notify.SeverityDestructive)
		return "", ErrRemoteRequestFailed
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Warn("chat completion returned no usable choices")
		t.notifier.Notify("Assistant error", emptyReplyErrMsg, notify.SeverityDestructive)
		return "", ErrRemoteRequestFailed
	}

	return resp.Choices[0].Message.Content, nil
}

// buildMessages serializes the history into the provider's shape. A user
// message carrying an attachment is split into a text part and an image
// part (image embedded as a data URI) instead of plain string content.
func buildMessages(history []models.ChatMessage) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		if m.Attachment != nil && m.Role == models.RoleUser {
			messages = append(messages, openai.ChatCompletionMessage{
				Role: m.Role,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: m.Content,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: models.DataURI(m.Attachment.MimeType, m.Attachment.Data),
						},
					},
				},
			})
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return messages
}
