package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishavrawat-ai/freelancer-sub000/internal/catalog"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/chat"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/models"
)

// stubConversationService is a test double for the chat service.
type stubConversationService struct {
	conversations map[uuid.UUID]models.Conversation
	messages      map[uuid.UUID][]models.ChatMessage
	proposals     map[uuid.UUID]models.ProposalDocument
	respondResult *chat.TurnResult
	respondErr    error
}

func newStubService() *stubConversationService {
	return &stubConversationService{
		conversations: map[uuid.UUID]models.Conversation{},
		messages:      map[uuid.UUID][]models.ChatMessage{},
		proposals:     map[uuid.UUID]models.ProposalDocument{},
	}
}

func (s *stubConversationService) StartConversation(ctx context.Context, userID uuid.UUID, service, mode string) (models.Conversation, string, error) {
	if mode != "" && mode != models.ModeGuided && mode != models.ModeAssist {
		return models.Conversation{}, "", fmt.Errorf("unknown conversation mode: %s", mode)
	}
	conv := models.Conversation{
		ID:      uuid.New(),
		UserID:  userID,
		Service: service,
		Mode:    mode,
		Status:  models.ConversationStatusActive,
	}
	s.conversations[conv.ID] = conv
	return conv, "Hi! What's your name?\n[QUESTION_KEY: name]", nil
}

func (s *stubConversationService) Respond(ctx context.Context, conversationID uuid.UUID, content string) (*chat.TurnResult, error) {
	if s.respondErr != nil {
		return nil, s.respondErr
	}
	return s.respondResult, nil
}

func (s *stubConversationService) Conversation(ctx context.Context, id uuid.UUID) (models.Conversation, error) {
	conv, ok := s.conversations[id]
	if !ok {
		return models.Conversation{}, fmt.Errorf("conversation not found")
	}
	return conv, nil
}

func (s *stubConversationService) History(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	return s.messages[conversationID], nil
}

func (s *stubConversationService) Proposal(ctx context.Context, conversationID uuid.UUID) (models.ProposalDocument, error) {
	doc, ok := s.proposals[conversationID]
	if !ok {
		return models.ProposalDocument{}, fmt.Errorf("proposal not found")
	}
	return doc, nil
}

// setupRouter wires the handler behind a middleware stub that injects the
// authenticated user, sidestepping real JWT validation.
func setupRouter(svc ConversationService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(svc, catalog.NewRegistry(), nil, nil)

	router := gin.New()
	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Next()
	})
	api.GET("/services", handler.ListServices)
	api.POST("/conversations", handler.CreateConversation)
	api.GET("/conversations/:id", handler.GetConversation)
	api.GET("/conversations/:id/messages", handler.GetMessages)
	api.POST("/conversations/:id/messages", handler.PostMessage)
	api.GET("/conversations/:id/proposal", handler.GetProposal)
	return router
}

func TestHandler_ListServices(t *testing.T) {
	router := setupRouter(newStubService(), uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/services", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Services []string `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Services, "Website Development")
	assert.Contains(t, resp.Services, "App Development")
}

func TestHandler_CreateConversation(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "successful_creation",
			body:           `{"service": "Website Development"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing_service",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown_mode",
			body:           `{"service": "Website Development", "mode": "oracle"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(newStubService(), uuid.New())

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/conversations", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			require.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusCreated {
				var resp CreateConversationResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "Website Development", resp.Conversation.Service)
				assert.Contains(t, resp.Opening, "[QUESTION_KEY: name]")
			}
		})
	}
}

func TestHandler_PostMessage(t *testing.T) {
	userID := uuid.New()
	svc := newStubService()
	conv := models.Conversation{ID: uuid.New(), UserID: userID, Service: "Website Development", Status: models.ConversationStatusActive}
	svc.conversations[conv.ID] = conv
	svc.respondResult = &chat.TurnResult{Reply: "And what's the project about?\n[QUESTION_KEY: description]"}

	router := setupRouter(svc, userID)

	t.Run("successful_turn", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/conversations/"+conv.ID.String()+"/messages",
			bytes.NewBufferString(`{"content": "I'm Kaif"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var result chat.TurnResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Contains(t, result.Reply, "QUESTION_KEY")
	})

	t.Run("empty_content", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/conversations/"+conv.ID.String()+"/messages",
			bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("completed_conversation", func(t *testing.T) {
		svc.respondErr = fmt.Errorf("conversation is complete")
		defer func() { svc.respondErr = nil }()

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/conversations/"+conv.ID.String()+"/messages",
			bytes.NewBufferString(`{"content": "hello again"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown_conversation", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/conversations/"+uuid.NewString()+"/messages",
			bytes.NewBufferString(`{"content": "hello"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid_conversation_id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/conversations/not-a-uuid/messages",
			bytes.NewBufferString(`{"content": "hello"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_OwnershipEnforced(t *testing.T) {
	owner := uuid.New()
	svc := newStubService()
	conv := models.Conversation{ID: uuid.New(), UserID: owner, Service: "Website Development", Status: models.ConversationStatusActive}
	svc.conversations[conv.ID] = conv

	// Authenticated as a different user
	router := setupRouter(svc, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/conversations/"+conv.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_GetMessages(t *testing.T) {
	userID := uuid.New()
	svc := newStubService()
	conv := models.Conversation{ID: uuid.New(), UserID: userID, Service: "Website Development", Status: models.ConversationStatusActive}
	svc.conversations[conv.ID] = conv
	svc.messages[conv.ID] = []models.ChatMessage{
		{ID: uuid.New(), ConversationID: conv.ID, Role: "assistant", Content: "Hi! What's your name?"},
		{ID: uuid.New(), ConversationID: conv.ID, Role: "user", Content: "Kaif"},
	}

	router := setupRouter(svc, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/conversations/"+conv.ID.String()+"/messages", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "assistant", resp.Messages[0].Role)
	assert.Equal(t, "Kaif", resp.Messages[1].Content)
}

func TestHandler_GetProposal(t *testing.T) {
	userID := uuid.New()
	svc := newStubService()
	conv := models.Conversation{ID: uuid.New(), UserID: userID, Service: "Website Development", Status: models.ConversationStatusComplete}
	svc.conversations[conv.ID] = conv

	router := setupRouter(svc, userID)

	t.Run("not_generated_yet", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/conversations/"+conv.ID.String()+"/proposal", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns_document", func(t *testing.T) {
		svc.proposals[conv.ID] = models.ProposalDocument{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			Proposal:       "[PROPOSAL_DATA]...[/PROPOSAL_DATA]",
			Roadmap:        "## Project Roadmap",
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/conversations/"+conv.ID.String()+"/proposal", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var doc models.ProposalDocument
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Contains(t, doc.Proposal, "PROPOSAL_DATA")
	})
}
