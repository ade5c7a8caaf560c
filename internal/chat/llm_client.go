package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rishavrawat-ai/freelancer-sub000/internal/engine"
	"github.com/rishavrawat-ai/freelancer-sub000/internal/logger"
)

// AssistClientInterface defines the interface for the assist-runtime client
type AssistClientInterface interface {
	Invoke(ctx context.Context, req AssistRequest) (string, error)
	StreamWebSocket(ctx context.Context, conversationID string) (*websocket.Conn, error)
	IsHealthy(ctx context.Context) bool
}

// AssistClient handles communication with the assist-runtime service. It is
// only consulted for conversations in assist mode.
type AssistClient struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	breaker    *gobreaker.CircuitBreaker
	log        logger.Logger
}

// AssistRequest represents an assist-runtime turn request
type AssistRequest struct {
	ConversationID string           `json:"conversation_id"`
	Service        string           `json:"service"`
	Messages       []engine.Message `json:"messages"`
}

// AssistResponse represents the response from the respond endpoint
type AssistResponse struct {
	Reply string `json:"reply"`
}

// NewAssistClient creates a new assist-runtime client
func NewAssistClient(baseURL string, log logger.Logger) *AssistClient {
	settings := gobreaker.Settings{
		Name:        "assist-runtime",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &AssistClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tracer:  otel.Tracer("assist-runtime-client"),
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

// SetBaseURL sets the base URL for testing purposes
func (c *AssistClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// Invoke sends one conversation turn to assist-runtime and returns the reply
func (c *AssistClient) Invoke(ctx context.Context, req AssistRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "assist_runtime.invoke")
	defer span.End()

	span.SetAttributes(
		attribute.String("conversation_id", req.ConversationID),
		attribute.String("service", req.Service),
	)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.invokeInternal(ctx, req)
	})

	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to invoke assist-runtime: %w", err)
	}

	return result.(string), nil
}

// invokeInternal performs the actual HTTP request
func (c *AssistClient) invokeInternal(ctx context.Context, req AssistRequest) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/assist-runtime/respond", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	// Inject trace context
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("assist-runtime returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return "", fmt.Errorf("assist-runtime returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var assistResp AssistResponse
	if err := json.NewDecoder(resp.Body).Decode(&assistResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return assistResp.Reply, nil
}

// StreamWebSocket establishes a WebSocket connection to stream turn events
func (c *AssistClient) StreamWebSocket(ctx context.Context, conversationID string) (*websocket.Conn, error) {
	ctx, span := c.tracer.Start(ctx, "assist_runtime.stream_websocket")
	defer span.End()

	span.SetAttributes(attribute.String("conversation_id", conversationID))

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.streamWebSocketInternal(ctx, conversationID)
	})

	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to establish WebSocket connection: %w", err)
	}

	return result.(*websocket.Conn), nil
}

// streamWebSocketInternal performs the actual WebSocket connection
func (c *AssistClient) streamWebSocketInternal(ctx context.Context, conversationID string) (*websocket.Conn, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
	}

	u.Path = fmt.Sprintf("/assist-runtime/stream/%s", conversationID)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	headers := http.Header{}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))

	conn, resp, err := dialer.DialContext(ctx, u.String(), headers)
	if err != nil {
		if resp != nil {
			bodyBytes, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("failed to dial WebSocket (status %d): %s, error: %w", resp.StatusCode, string(bodyBytes), err)
		}
		return nil, fmt.Errorf("failed to dial WebSocket: %w", err)
	}

	return conn, nil
}

// IsHealthy checks if the assist-runtime service is healthy
func (c *AssistClient) IsHealthy(ctx context.Context) bool {
	ctx, span := c.tracer.Start(ctx, "assist_runtime.health_check")
	defer span.End()

	// An open circuit breaker means recent calls have been failing
	if c.breaker.State() == gobreaker.StateOpen {
		span.SetAttributes(attribute.Bool("healthy", false), attribute.String("reason", "circuit_breaker_open"))
		return false
	}

	url := fmt.Sprintf("%s/health", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		span.RecordError(err)
		return false
	}

	// Short timeout for health checks
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return false
	}
	defer resp.Body.Close()

	healthy := resp.StatusCode == http.StatusOK
	span.SetAttributes(attribute.Bool("healthy", healthy))

	return healthy
}
