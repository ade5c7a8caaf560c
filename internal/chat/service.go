package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rishavrawat-ai/freelancer-sub000/internal/engine"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/logger"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/metrics"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/models"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/statecache"
)

// TurnResult is the outcome of one processed user turn.
type TurnResult struct {
	Reply    string                    `json:"reply"`
	Envelope engine.Envelope           `json:"envelope"`
	Done     bool                      `json:"done"`
	Proposal string                    `json:"proposal,omitempty"`
	Roadmap  string                    `json:"roadmap,omitempty"`
	State    *engine.ConversationState `json:"state"`
}

// Service orchestrates conversation turns. A turn is processed inside a
// transaction holding a row lock on the conversation, so concurrent messages
// to the same conversation serialize instead of interleaving.
type Service struct {
	store   *Store
	reg     *engine.Registry
	cache   *statecache.Cache
	metrics *metrics.ChatMetrics
	assist  AssistClientInterface
	log     logger.Logger
}

// NewService creates a chat service. The cache and assist client may be nil;
// the service then always replays history and rejects assist-mode turns.
func NewService(store *Store, reg *engine.Registry, cache *statecache.Cache, cm *metrics.ChatMetrics, assist AssistClientInterface, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Service{
		store:   store,
		reg:     reg,
		cache:   cache,
		metrics: cm,
		assist:  assist,
		log:     log,
	}
}

// StartConversation creates a conversation and seeds it with the opening
// question so the client has something to render immediately.
func (s *Service) StartConversation(ctx context.Context, userID uuid.UUID, service, mode string) (models.Conversation, string, error) {
	if mode == "" {
		mode = models.ModeGuided
	}
	if mode != models.ModeGuided && mode != models.ModeAssist {
		return models.Conversation{}, "", fmt.Errorf("unknown conversation mode: %s", mode)
	}

	conv, err := s.store.CreateConversation(ctx, userID, service, mode)
	if err != nil {
		return models.Conversation{}, "", err
	}

	state := engine.StateFromCollected(s.reg, service, nil)
	env, _ := engine.NextPrompt(state, engine.TurnMeta{})
	opening := env.Encode()

	tx, err := s.store.Pool().Begin(ctx)
	if err != nil {
		return models.Conversation{}, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := s.store.appendMessage(ctx, tx, conv.ID, engine.RoleAssistant, opening); err != nil {
		return models.Conversation{}, "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Conversation{}, "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.cache != nil {
		snap := statecache.Snapshot{
			Service:         state.Service,
			Collected:       state.Collected,
			MessageCount:    1,
			LastQuestionKey: env.QuestionKey,
		}
		if err := s.cache.Put(ctx, conv.ID.String(), snap); err != nil {
			s.log.Warn("failed to cache opening state", zap.Error(err))
		}
	}

	return conv, opening, nil
}

// Respond processes one user message and returns the assistant's reply.
func (s *Service) Respond(ctx context.Context, conversationID uuid.UUID, content string) (*TurnResult, error) {
	start := time.Now()

	tx, err := s.store.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	conv, err := s.store.lockConversation(ctx, tx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.Status == models.ConversationStatusComplete {
		return nil, fmt.Errorf("conversation is complete")
	}

	// Every started turn must release its active-conversation slot, even
	// when a later step fails and returns early.
	completed := false
	if s.metrics != nil {
		s.metrics.RecordTurnStarted(ctx, conv.Service)
		defer func() {
			if !completed {
				s.metrics.RecordTurnAbandoned(ctx, conv.Service)
			}
		}()
	}

	if _, err := s.store.appendMessage(ctx, tx, conv.ID, engine.RoleUser, content); err != nil {
		return nil, err
	}

	history, err := s.store.historyTx(ctx, tx, conv.ID)
	if err != nil {
		return nil, err
	}

	var result *TurnResult
	if conv.Mode == models.ModeAssist {
		result, err = s.respondAssist(ctx, tx, conv, history)
	} else {
		result, err = s.respondGuided(ctx, tx, conv, content, history)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordTurnProcessed(ctx, conv.Service, time.Since(start))
	}
	completed = true
	return result, nil
}

// respondAssist routes the turn through the LLM runtime.
func (s *Service) respondAssist(ctx context.Context, tx pgx.Tx, conv models.Conversation, history []models.ChatMessage) (*TurnResult, error) {
	if s.assist == nil {
		return nil, fmt.Errorf("assist mode is not configured")
	}
	reply, err := s.assist.Invoke(ctx, AssistRequest{
		ConversationID: conv.ID.String(),
		Service:        conv.Service,
		Messages:       engineHistory(history),
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.store.appendMessage(ctx, tx, conv.ID, engine.RoleAssistant, reply); err != nil {
		return nil, err
	}
	return &TurnResult{Reply: reply}, nil
}

// respondGuided runs the deterministic slot-filling engine. The cached
// snapshot is only trusted when it accounts for every message before the one
// just inserted; otherwise the full history is replayed.
func (s *Service) respondGuided(ctx context.Context, tx pgx.Tx, conv models.Conversation, content string, history []models.ChatMessage) (*TurnResult, error) {
	state, meta := s.advanceState(ctx, conv, content, history)

	if state.Questionnaire().IsWebsite() {
		if v := engine.ValidateWebsiteBudget(state.Collected); !v.IsValid && v.Reason == engine.BudgetTooLow {
			if s.metrics != nil {
				s.metrics.RecordBudgetRejected(ctx, conv.Service, v.Requirement.Key)
			}
		}
	}

	result := &TurnResult{State: state}
	if engine.ShouldGenerateProposal(state) {
		result.Done = true
		result.Proposal = engine.GenerateProposal(state)
		result.Roadmap = engine.GenerateRoadmap(state)
		result.Reply = result.Proposal + "\n\n" + result.Roadmap

		if err := s.store.saveProposal(ctx, tx, conv.ID, result.Proposal, result.Roadmap); err != nil {
			return nil, err
		}
		if err := s.store.markComplete(ctx, tx, conv.ID); err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.RecordProposalGenerated(ctx, conv.Service)
		}
	} else {
		env, _ := engine.NextPrompt(state, meta)
		result.Envelope = env
		result.Reply = env.Encode()
	}

	if _, err := s.store.appendMessage(ctx, tx, conv.ID, engine.RoleAssistant, result.Reply); err != nil {
		return nil, err
	}

	s.refreshCache(ctx, conv, state, result.Envelope.QuestionKey, len(history)+1, result.Done)
	return result, nil
}

// advanceState produces the post-turn state, via the cache snapshot when it
// is current and via a full history replay otherwise. The history already
// includes the just-inserted user message, so a snapshot is current when it
// covers exactly the messages before it.
func (s *Service) advanceState(ctx context.Context, conv models.Conversation, content string, history []models.ChatMessage) (*engine.ConversationState, engine.TurnMeta) {
	if s.cache != nil {
		if snap, ok := s.cache.Get(ctx, conv.ID.String()); ok &&
			snap.Service == conv.Service && snap.MessageCount == len(history)-1 {
			state := engine.StateFromCollected(s.reg, conv.Service, snap.Collected)
			meta := state.AdvanceTurn(content, snap.LastQuestionKey)
			if s.metrics != nil {
				s.metrics.RecordCacheHit(ctx, conv.Service)
			}
			return state, meta
		}
	}

	msgs := engineHistory(history)
	prefix := msgs[:len(msgs)-1]
	state := engine.BuildConversationState(s.reg, prefix, conv.Service)
	activeKey := ""
	if len(prefix) > 0 && prefix[len(prefix)-1].Role == engine.RoleAssistant {
		activeKey = engine.QuestionKeyOf(prefix[len(prefix)-1].Content)
	}
	meta := state.AdvanceTurn(content, activeKey)
	return state, meta
}

// refreshCache stores the post-turn snapshot. messageCount counts the user
// message and the assistant reply appended this turn. lastQuestionKey is the
// key of the question actually rendered, which a focus override can pull
// ahead of the literal next slot; it must match the tag written to history so
// the cached path and the replay path agree on the active question.
func (s *Service) refreshCache(ctx context.Context, conv models.Conversation, state *engine.ConversationState, lastQuestionKey string, messageCount int, done bool) {
	if s.cache == nil {
		return
	}
	if done {
		if err := s.cache.Invalidate(ctx, conv.ID.String()); err != nil {
			s.log.Warn("failed to invalidate conversation cache", zap.Error(err))
		}
		return
	}
	snap := statecache.Snapshot{
		Service:         state.Service,
		Collected:       state.Collected,
		MessageCount:    messageCount,
		LastQuestionKey: lastQuestionKey,
	}
	if err := s.cache.Put(ctx, conv.ID.String(), snap); err != nil {
		s.log.Warn("failed to cache conversation state", zap.Error(err))
	}
}

// History returns the ordered messages of a conversation.
func (s *Service) History(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	return s.store.History(ctx, conversationID)
}

// Conversation returns a conversation by ID.
func (s *Service) Conversation(ctx context.Context, id uuid.UUID) (models.Conversation, error) {
	return s.store.GetConversation(ctx, id)
}

// Proposal returns the generated documents for a completed conversation.
func (s *Service) Proposal(ctx context.Context, conversationID uuid.UUID) (models.ProposalDocument, error) {
	return s.store.GetProposal(ctx, conversationID)
}
