package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawlingo/pawlingo-server/internal/assistant"
	"github.com/pawlingo/pawlingo-server/internal/models"
)

// Images larger than this are rejected before staging
const maxAttachmentBytes = 10 << 20

// AssistantHandler handles assistant conversation routes
type AssistantHandler struct {
	Controller *assistant.Controller
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(controller *assistant.Controller) *AssistantHandler {
	return &AssistantHandler{Controller: controller}
}

// SendMessage submits one user turn and returns the assistant's reply
func (h *AssistantHandler) SendMessage(c *gin.Context) {
	var req models.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.Controller.Send(c.Request.Context(), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrBusy):
			c.JSON(http.StatusConflict, gin.H{"error": "A request is already in flight"})
		case errors.Is(err, assistant.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is empty"})
		default:
			// The failure was already surfaced through the notification
			// boundary; the user's message stays in history.
			c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant request failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply":   reply,
		"history": h.Controller.History(),
	})
}

// GetHistory returns the visible conversation
func (h *AssistantHandler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.Controller.History())
}

// StageAttachment stages an uploaded image for the next message
func (h *AssistantHandler) StageAttachment(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file required"})
		return
	}
	defer file.Close()

	if header.Size > maxAttachmentBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAttachmentBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	attachment := h.Controller.StageAttachment(mimeType, data)
	c.JSON(http.StatusOK, attachment)
}

// ClearAttachment discards the staged attachment
func (h *AssistantHandler) ClearAttachment(c *gin.Context) {
	h.Controller.ClearAttachment()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// GetSuggestions returns the fixed suggestion chip list
func (h *AssistantHandler) GetSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, assistant.Suggestions())
}
