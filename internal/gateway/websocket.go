package gateway

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rishavrawat-ai/freelancer-sub000/internal/auth"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/models"
)

// ChatSocket serves the conversation WebSocket. Each inbound frame is one
// user message; the reply (and, on completion, the proposal and roadmap)
// comes back as chat events on the same connection.
type ChatSocket struct {
	chatService ConversationService
	jwtManager  *auth.JWTManager
	tracer      trace.Tracer
	upgrader    websocket.Upgrader
}

// inboundFrame is one user message received over the socket.
type inboundFrame struct {
	Content string `json:"content"`
}

// NewChatSocket creates a new conversation WebSocket handler
func NewChatSocket(chatService ConversationService, jwtManager *auth.JWTManager) *ChatSocket {
	return &ChatSocket{
		chatService: chatService,
		jwtManager:  jwtManager,
		tracer:      otel.Tracer("chat-websocket"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Implement proper CORS origin checking for production
				origin := r.Header.Get("Origin")
				log.Printf("WebSocket connection from origin: %s", origin)
				return true
			},
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Stream handles WebSocket /api/ws/conversations/:id
// @Summary Stream a conversation
// @Description WebSocket endpoint for a live conversation turn loop
// @Tags conversations
// @Param id path string true "Conversation ID"
// @Param token query string false "JWT token"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /ws/conversations/{id} [get]
func (ws *ChatSocket) Stream(c *gin.Context) {
	ctx, span := ws.tracer.Start(c.Request.Context(), "chat_websocket.stream")
	defer span.End()

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}
	span.SetAttributes(attribute.String("conversation_id", conversationID.String()))

	userID, err := ws.validateJWTAndGetUserID(c)
	if err != nil {
		span.RecordError(err)
		log.Printf("JWT validation failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	span.SetAttributes(attribute.String("user_id", userID.String()))

	conv, err := ws.chatService.Conversation(ctx, conversationID)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}
	if conv.UserID != userID {
		span.SetAttributes(attribute.Bool("access_denied", true))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	conn, err := ws.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		span.RecordError(err)
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("WebSocket connection upgraded for conversation: %s", conversationID)

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Client connection closed for conversation: %s", conversationID)
			} else {
				log.Printf("Client connection read error for conversation %s: %v", conversationID, err)
			}
			return
		}
		if strings.TrimSpace(frame.Content) == "" {
			ws.sendError(conn, conversationID, "Empty message")
			continue
		}

		result, err := ws.chatService.Respond(ctx, conversationID, frame.Content)
		if err != nil {
			span.RecordError(err)
			ws.sendError(conn, conversationID, err.Error())
			if strings.Contains(err.Error(), "conversation is complete") {
				return
			}
			continue
		}

		if err := conn.WriteJSON(models.ChatEvent{
			Type:           models.EventTypeMessage,
			ConversationID: conversationID.String(),
			Role:           "assistant",
			Content:        result.Reply,
			Timestamp:      time.Now().UTC(),
		}); err != nil {
			log.Printf("Client connection write error for conversation %s: %v", conversationID, err)
			return
		}

		if result.Done {
			if err := conn.WriteJSON(models.ChatEvent{
				Type:           models.EventTypeProposal,
				ConversationID: conversationID.String(),
				Proposal:       result.Proposal,
				Roadmap:        result.Roadmap,
				Timestamp:      time.Now().UTC(),
			}); err != nil {
				log.Printf("Failed to send proposal event for conversation %s: %v", conversationID, err)
				return
			}
			conn.WriteJSON(models.ChatEvent{
				Type:           models.EventTypeCompleted,
				ConversationID: conversationID.String(),
				Timestamp:      time.Now().UTC(),
			})
			log.Printf("Conversation %s completed over WebSocket", conversationID)
			return
		}
	}
}

// validateJWTAndGetUserID validates the JWT token and returns the user ID
func (ws *ChatSocket) validateJWTAndGetUserID(c *gin.Context) (uuid.UUID, error) {
	// Try to get JWT from query parameter first (WebSocket standard)
	token := c.Query("token")
	if token == "" {
		// Fallback to Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}
	}

	if token == "" {
		return uuid.Nil, fmt.Errorf("missing JWT token")
	}

	claims, err := ws.jwtManager.ValidateToken(c.Request.Context(), token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid JWT: %w", err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID in token: %w", err)
	}
	return userID, nil
}

// sendError sends an error event to the WebSocket client
func (ws *ChatSocket) sendError(conn *websocket.Conn, conversationID uuid.UUID, message string) {
	event := models.ChatEvent{
		Type:           models.EventTypeError,
		ConversationID: conversationID.String(),
		Error:          message,
		Timestamp:      time.Now().UTC(),
	}
	if err := conn.WriteJSON(event); err != nil {
		log.Printf("Failed to send error to client: %v", err)
	}
}
