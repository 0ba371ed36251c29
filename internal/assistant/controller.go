// Package assistant orchestrates the chat page: user input goes to the
// chat transport (or the canned fallback responder), replies are
// appended to the in-memory conversation, and image attachments are
// staged until the next send consumes them.
package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/pawlingo/pawlingo-server/internal/fallback"
	"github.com/pawlingo/pawlingo-server/internal/logger"
	"github.com/pawlingo/pawlingo-server/internal/models"
)

const systemInstruction = "You are PawLingo AI, a helpful pet communication assistant. You specialize in " +
	"understanding pet behavior, health, and training. Provide accurate, compassionate, and concise advice " +
	"about pets. Focus on dogs and cats primarily. Always be supportive and provide actionable advice when " +
	"possible. Keep responses focused and relevant to pet care."

// defaultImagePrompt fills in for an empty text field on an image-only send
const defaultImagePrompt = "What can you tell me about this pet? Please analyze its behavior, mood, and any notable physical characteristics."

var (
	// ErrBusy means a request is already in flight; the send is a no-op
	ErrBusy = errors.New("a request is already in flight")
	// ErrEmptyMessage means neither text nor an attachment was composed
	ErrEmptyMessage = errors.New("message is empty")
)

var log = logger.New("assistant")

// Transport is the remote side of a conversation turn
type Transport interface {
	HasCredential() bool
	Complete(ctx context.Context, history []models.ChatMessage) (string, error)
}

// Suggestion is a pre-canned prompt the client can offer as a chip.
// Selecting one goes through the same send path as typed input.
type Suggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Suggestions returns the fixed chip list shown on the assistant page
func Suggestions() []Suggestion {
	return []Suggestion{
		{ID: "body-language", Title: "What does my pet's body language mean?"},
		{ID: "tail-movement", Title: "What does my pet's tail movement say about their mood?"},
		{ID: "anxious-pet", Title: "How can I tell if my pet is anxious?"},
		{ID: "sick-pet", Title: "How do I know if my pet is sick or in pain?"},
	}
}

// Controller drives one assistant conversation. Only one request may be
// in flight at a time; sends while awaiting a response are rejected
// without touching the history.
type Controller struct {
	transport Transport

	mu       sync.Mutex
	inFlight bool
	history  []models.ChatMessage
	staged   *models.Attachment
}

// NewController creates a controller with the system instruction as the
// conversation's hidden first message.
func NewController(transport Transport) *Controller {
	return &Controller{
		transport: transport,
		history: []models.ChatMessage{{
			Role:      models.RoleSystem,
			Content:   systemInstruction,
			CreatedAt: time.Now(),
		}},
	}
}

// StageAttachment stages an image for the next send, replacing any
// previously staged one. Returns the attachment with its preview URI.
func (c *Controller) StageAttachment(mimeType string, data []byte) *models.Attachment {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staged = models.NewAttachment(mimeType, data)
	return c.staged
}

// ClearAttachment discards the staged attachment, if any
func (c *Controller) ClearAttachment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staged = nil
}

// StagedAttachment returns the currently staged attachment, or nil
func (c *Controller) StagedAttachment() *models.Attachment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.staged
}

// History returns the visible conversation: every message except the
// leading system instruction.
func (c *Controller) History() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := make([]models.ChatMessage, 0, len(c.history))
	for _, m := range c.history {
		if m.Role == models.RoleSystem {
			continue
		}
		visible = append(visible, m)
	}
	return visible
}

// Send composes and submits one user turn. The user message is appended
// immediately; the assistant reply is appended once the transport (or
// fallback responder) resolves. On transport failure the user message
// stays in history and no reply is appended.
func (c *Controller) Send(ctx context.Context, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if text == "" && c.staged == nil {
		c.mu.Unlock()
		return nil, ErrEmptyMessage
	}

	attachment := c.staged
	c.staged = nil
	if text == "" {
		text = defaultImagePrompt
	}

	userMsg := models.ChatMessage{
		Role:       models.RoleUser,
		Content:    text,
		CreatedAt:  time.Now(),
		Attachment: attachment,
	}
	c.history = append(c.history, userMsg)
	history := make([]models.ChatMessage, len(c.history))
	copy(history, c.history)

	c.inFlight = true
	c.mu.Unlock()

	reply, err := c.respond(ctx, history, attachment != nil)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		// The transport already reported the failure; the user's own
		// message remains visible, nothing is rolled back.
		return nil, err
	}

	assistantMsg := models.ChatMessage{
		Role:      models.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}
	c.history = append(c.history, assistantMsg)
	return &assistantMsg, nil
}

func (c *Controller) respond(ctx context.Context, history []models.ChatMessage, hasImage bool) (string, error) {
	if !c.transport.HasCredential() {
		log.Debug("No credential configured, using fallback responder")
		if hasImage {
			return fallback.ObserveImage(), nil
		}
		return fallback.Respond(history[len(history)-1].Content), nil
	}
	return c.transport.Complete(ctx, history)
}
