package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rishavrawat-ai/freelancer-sub000/internal/engine"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/models"
)

// Store persists conversations, messages and generated documents.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a conversation store on the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Pool exposes the underlying pool for transaction management.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// CreateConversation inserts a new conversation for a user.
func (s *Store) CreateConversation(ctx context.Context, userID uuid.UUID, service, mode string) (models.Conversation, error) {
	var conv models.Conversation
	err := s.pool.QueryRow(ctx,
		`INSERT INTO conversations (user_id, service, mode, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, service, mode, status, created_at, updated_at`,
		userID, service, mode, models.ConversationStatusActive,
	).Scan(&conv.ID, &conv.UserID, &conv.Service, &conv.Mode, &conv.Status, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// GetConversation retrieves a conversation by ID.
func (s *Store) GetConversation(ctx context.Context, id uuid.UUID) (models.Conversation, error) {
	var conv models.Conversation
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, service, mode, status, created_at, updated_at
		 FROM conversations WHERE id = $1`, id,
	).Scan(&conv.ID, &conv.UserID, &conv.Service, &conv.Mode, &conv.Status, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.Conversation{}, fmt.Errorf("conversation not found")
		}
		return models.Conversation{}, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conv, nil
}

// lockConversation locks the conversation row for the duration of the
// transaction, so at most one turn per conversation is in flight.
func (s *Store) lockConversation(ctx context.Context, tx pgx.Tx, id uuid.UUID) (models.Conversation, error) {
	var conv models.Conversation
	err := tx.QueryRow(ctx,
		`SELECT id, user_id, service, mode, status, created_at, updated_at
		 FROM conversations WHERE id = $1
		 FOR UPDATE`, id,
	).Scan(&conv.ID, &conv.UserID, &conv.Service, &conv.Mode, &conv.Status, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.Conversation{}, fmt.Errorf("conversation not found")
		}
		return models.Conversation{}, fmt.Errorf("failed to lock conversation: %w", err)
	}
	return conv, nil
}

// appendMessage inserts one message inside the turn transaction.
func (s *Store) appendMessage(ctx context.Context, tx pgx.Tx, conversationID uuid.UUID, role, content string) (models.ChatMessage, error) {
	var msg models.ChatMessage
	err := tx.QueryRow(ctx,
		`INSERT INTO messages (conversation_id, role, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, conversation_id, role, content, created_at`,
		conversationID, role, content,
	).Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("failed to append message: %w", err)
	}
	return msg, nil
}

// historyTx loads the ordered message history inside a transaction.
func (s *Store) historyTx(ctx context.Context, tx pgx.Tx, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, conversation_id, role, content, created_at
		 FROM messages WHERE conversation_id = $1
		 ORDER BY created_at, id`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// History loads the ordered message history for a conversation.
func (s *Store) History(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, conversation_id, role, content, created_at
		 FROM messages WHERE conversation_id = $1
		 ORDER BY created_at, id`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return msgs, nil
}

// saveProposal persists the generated documents inside the turn transaction.
func (s *Store) saveProposal(ctx context.Context, tx pgx.Tx, conversationID uuid.UUID, proposal, roadmap string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO proposals (conversation_id, proposal, roadmap)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (conversation_id)
		 DO UPDATE SET proposal = EXCLUDED.proposal, roadmap = EXCLUDED.roadmap`,
		conversationID, proposal, roadmap)
	if err != nil {
		return fmt.Errorf("failed to save proposal: %w", err)
	}
	return nil
}

// GetProposal retrieves the generated documents for a conversation.
func (s *Store) GetProposal(ctx context.Context, conversationID uuid.UUID) (models.ProposalDocument, error) {
	var doc models.ProposalDocument
	err := s.pool.QueryRow(ctx,
		`SELECT id, conversation_id, proposal, roadmap, created_at
		 FROM proposals WHERE conversation_id = $1`, conversationID,
	).Scan(&doc.ID, &doc.ConversationID, &doc.Proposal, &doc.Roadmap, &doc.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.ProposalDocument{}, fmt.Errorf("proposal not found")
		}
		return models.ProposalDocument{}, fmt.Errorf("failed to get proposal: %w", err)
	}
	return doc, nil
}

// markComplete flags the conversation as complete inside the transaction.
func (s *Store) markComplete(ctx context.Context, tx pgx.Tx, conversationID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE conversations SET status = $1, updated_at = NOW() WHERE id = $2`,
		models.ConversationStatusComplete, conversationID)
	if err != nil {
		return fmt.Errorf("failed to mark conversation complete: %w", err)
	}
	return nil
}

// engineHistory converts persisted messages to the engine's message form.
func engineHistory(msgs []models.ChatMessage) []engine.Message {
	history := make([]engine.Message, len(msgs))
	for i, m := range msgs {
		history[i] = engine.Message{Role: m.Role, Content: m.Content}
	}
	return history
}
