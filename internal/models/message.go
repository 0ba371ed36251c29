package models

import (
	"encoding/base64"
	"fmt"
	"time"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of the assistant conversation.
// Messages are append-only for the lifetime of a conversation and live
// only in memory; nothing is persisted across restarts.
type ChatMessage struct {
	Role       string      `json:"role"`
	Content    string      `json:"content"`
	CreatedAt  time.Time   `json:"created_at"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// Attachment is a staged image waiting to be sent with the next message
type Attachment struct {
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-"`
	Preview  string `json:"preview"`
}

// NewAttachment builds an attachment with a locally generated data-URI preview
func NewAttachment(mimeType string, data []byte) *Attachment {
	return &Attachment{
		MimeType: mimeType,
		Data:     data,
		Preview:  DataURI(mimeType, data),
	}
}

// DataURI encodes raw image bytes as a base64 data URI
func DataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// MessageRequest is the structure for assistant message requests
type MessageRequest struct {
	Content string `json:"content"`
}
