package gateway

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/rishavrawat-ai/freelancer-sub000/internal/auth"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/chat"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/engine"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/models"
)

// ConversationService is the chat surface the gateway depends on.
type ConversationService interface {
	StartConversation(ctx context.Context, userID uuid.UUID, service, mode string) (models.Conversation, string, error)
	Respond(ctx context.Context, conversationID uuid.UUID, content string) (*chat.TurnResult, error)
	Conversation(ctx context.Context, id uuid.UUID) (models.Conversation, error)
	History(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error)
	Proposal(ctx context.Context, conversationID uuid.UUID) (models.ProposalDocument, error)
}

// Handler handles HTTP requests for the gateway layer
type Handler struct {
	chatService ConversationService
	registry    *engine.Registry
	jwtManager  *auth.JWTManager
	pool        *pgxpool.Pool
}

// NewHandler creates a new gateway handler
func NewHandler(chatService ConversationService, registry *engine.Registry, jwtManager *auth.JWTManager, pool *pgxpool.Pool) *Handler {
	return &Handler{
		chatService: chatService,
		registry:    registry,
		jwtManager:  jwtManager,
		pool:        pool,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Lookup user in database
	var userID string
	var hashedPassword string
	err := h.pool.QueryRow(c.Request.Context(),
		`SELECT id, hashed_password FROM users WHERE email = $1`,
		req.Email,
	).Scan(&userID, &hashedPassword)

	if err != nil {
		log.Printf(`{"level":"warn","message":"User not found","email":"%s"}`, req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// Verify password using bcrypt
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		log.Printf(`{"level":"warn","message":"Invalid password","email":"%s"}`, req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// Generate JWT token
	token, err := h.jwtManager.GenerateToken(
		c.Request.Context(),
		userID,
		req.Email,
		[]string{"user"},
		24*time.Hour,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:  token,
		UserID: userID,
	})
}

// ListServices godoc
// @Summary List services
// @Description List the services a conversation can be started for
// @Tags services
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /services [get]
func (h *Handler) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": h.registry.Services()})
}

// CreateConversationRequest represents a conversation creation request
type CreateConversationRequest struct {
	Service string `json:"service" binding:"required"`
	Mode    string `json:"mode"`
}

// CreateConversationResponse represents a conversation creation response
type CreateConversationResponse struct {
	Conversation models.Conversation `json:"conversation"`
	Opening      string              `json:"opening"`
}

// CreateConversation godoc
// @Summary Create conversation
// @Description Start a new quoting conversation and return the opening question
// @Tags conversations
// @Accept json
// @Produce json
// @Param request body CreateConversationRequest true "Conversation details"
// @Success 201 {object} CreateConversationResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /conversations [post]
func (h *Handler) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	conv, opening, err := h.chatService.StartConversation(c.Request.Context(), userID, req.Service, req.Mode)
	if err != nil {
		if strings.Contains(err.Error(), "unknown conversation mode") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf(`{"level":"error","message":"Failed to create conversation","error":"%v","user_id":"%s"}`, err, userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}

	c.JSON(http.StatusCreated, CreateConversationResponse{
		Conversation: conv,
		Opening:      opening,
	})
}

// GetConversation godoc
// @Summary Get conversation
// @Description Get a conversation by ID
// @Tags conversations
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} models.Conversation
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /conversations/{id} [get]
func (h *Handler) GetConversation(c *gin.Context) {
	conv, ok := h.ownedConversation(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, conv)
}

// GetMessages godoc
// @Summary Get messages
// @Description Get the ordered message history of a conversation
// @Tags conversations
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} map[string][]models.ChatMessage
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /conversations/{id}/messages [get]
func (h *Handler) GetMessages(c *gin.Context) {
	conv, ok := h.ownedConversation(c)
	if !ok {
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), conv.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostMessageRequest represents a user message
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostMessage godoc
// @Summary Post message
// @Description Send a user message and receive the assistant's reply
// @Tags conversations
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param request body PostMessageRequest true "Message content"
// @Success 200 {object} chat.TurnResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /conversations/{id}/messages [post]
func (h *Handler) PostMessage(c *gin.Context) {
	conv, ok := h.ownedConversation(c)
	if !ok {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.chatService.Respond(c.Request.Context(), conv.ID, req.Content)
	if err != nil {
		if strings.Contains(err.Error(), "conversation is complete") {
			c.JSON(http.StatusConflict, gin.H{"error": "Conversation is complete", "code": models.ErrCodeConversationClosed})
			return
		}
		log.Printf(`{"level":"error","message":"Failed to process turn","error":"%v","conversation_id":"%s"}`, err, conv.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProposal godoc
// @Summary Get proposal
// @Description Get the generated proposal and roadmap for a completed conversation
// @Tags conversations
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} models.ProposalDocument
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /conversations/{id}/proposal [get]
func (h *Handler) GetProposal(c *gin.Context) {
	conv, ok := h.ownedConversation(c)
	if !ok {
		return
	}

	doc, err := h.chatService.Proposal(c.Request.Context(), conv.ID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found", "code": models.ErrCodeNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load proposal"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ownedConversation resolves the :id parameter to a conversation owned by
// the authenticated user. On failure the response is already written.
func (h *Handler) ownedConversation(c *gin.Context) (models.Conversation, bool) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return models.Conversation{}, false
	}

	userID, ok := authedUserID(c)
	if !ok {
		return models.Conversation{}, false
	}

	conv, err := h.chatService.Conversation(c.Request.Context(), conversationID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found", "code": models.ErrCodeConversationNotFound})
		return models.Conversation{}, false
	}
	if conv.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "code": models.ErrCodeForbidden})
		return models.Conversation{}, false
	}
	return conv, true
}

func authedUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDVal.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return uuid.Nil, false
	}
	return userID, true
}
