package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation modes.
const (
	// ModeGuided runs the deterministic slot-filling engine.
	ModeGuided = "guided"
	// ModeAssist routes turns through the LLM runtime instead.
	ModeAssist = "assist"
)

// Conversation statuses.
const (
	ConversationStatusActive   = "active"
	ConversationStatusComplete = "complete"
)

// Conversation represents one quoting conversation.
type Conversation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Service   string    `json:"service" db:"service"`
	Mode      string    `json:"mode" db:"mode"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ChatMessage is one persisted message in a conversation.
type ChatMessage struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ConversationID uuid.UUID `json:"conversation_id" db:"conversation_id"`
	Role           string    `json:"role" db:"role"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ProposalDocument is the persisted pair of generated documents for a
// completed conversation.
type ProposalDocument struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ConversationID uuid.UUID `json:"conversation_id" db:"conversation_id"`
	Proposal       string    `json:"proposal" db:"proposal"`
	Roadmap        string    `json:"roadmap" db:"roadmap"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
