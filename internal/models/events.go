package models

import (
	"time"
)

// ChatEvent is one event pushed over the conversation WebSocket stream.
type ChatEvent struct {
	Type           string    `json:"type"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role,omitempty"`
	Content        string    `json:"content,omitempty"`
	Proposal       string    `json:"proposal,omitempty"`
	Roadmap        string    `json:"roadmap,omitempty"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Chat event types
const (
	EventTypeMessage   = "chat.message"
	EventTypeProposal  = "chat.proposal"
	EventTypeCompleted = "chat.completed"
	EventTypeError     = "chat.error"
)
