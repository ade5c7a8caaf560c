package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("chat-metrics")

// ChatMetrics provides metrics collection for conversation processing.
type ChatMetrics struct {
	turnsCounter            metric.Int64Counter
	proposalsCounter        metric.Int64Counter
	budgetRejectionsCounter metric.Int64Counter
	cacheHitsCounter        metric.Int64Counter
	turnDurationHistogram   metric.Float64Histogram
	activeConversations     metric.Int64UpDownCounter
}

// NewChatMetrics creates a new chat metrics collector.
func NewChatMetrics() (*ChatMetrics, error) {
	turnsCounter, err := meter.Int64Counter(
		"quotebot.turns.processed",
		metric.WithDescription("Total number of conversation turns processed"),
		metric.WithUnit("{turn}"),
	)
	if err != nil {
		return nil, err
	}

	proposalsCounter, err := meter.Int64Counter(
		"quotebot.proposals.generated",
		metric.WithDescription("Total number of proposals generated"),
		metric.WithUnit("{proposal}"),
	)
	if err != nil {
		return nil, err
	}

	budgetRejectionsCounter, err := meter.Int64Counter(
		"quotebot.budget.rejections",
		metric.WithDescription("Total number of budgets rejected as below the policy minimum"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return nil, err
	}

	cacheHitsCounter, err := meter.Int64Counter(
		"quotebot.statecache.hits",
		metric.WithDescription("Total number of conversation state cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	turnDurationHistogram, err := meter.Float64Histogram(
		"quotebot.turn.duration",
		metric.WithDescription("Duration of turn processing in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	activeConversations, err := meter.Int64UpDownCounter(
		"quotebot.conversations.active",
		metric.WithDescription("Number of conversations currently being processed"),
		metric.WithUnit("{conversation}"),
	)
	if err != nil {
		return nil, err
	}

	return &ChatMetrics{
		turnsCounter:            turnsCounter,
		proposalsCounter:        proposalsCounter,
		budgetRejectionsCounter: budgetRejectionsCounter,
		cacheHitsCounter:        cacheHitsCounter,
		turnDurationHistogram:   turnDurationHistogram,
		activeConversations:     activeConversations,
	}, nil
}

// RecordTurnStarted marks a conversation as actively processing a turn.
func (cm *ChatMetrics) RecordTurnStarted(ctx context.Context, service string) {
	cm.activeConversations.Add(ctx, 1,
		metric.WithAttributes(attribute.String("service", service)),
	)
}

// RecordTurnProcessed records a completed turn and its duration.
func (cm *ChatMetrics) RecordTurnProcessed(ctx context.Context, service string, duration time.Duration) {
	cm.turnsCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("service", service)),
	)
	cm.turnDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("service", service)),
	)
	cm.activeConversations.Add(ctx, -1,
		metric.WithAttributes(attribute.String("service", service)),
	)
}

// RecordTurnAbandoned releases the active-conversation slot for a turn that
// failed before completing, so the gauge does not drift upward on errors.
func (cm *ChatMetrics) RecordTurnAbandoned(ctx context.Context, service string) {
	cm.activeConversations.Add(ctx, -1,
		metric.WithAttributes(attribute.String("service", service)),
	)
}

// RecordProposalGenerated records a completed collection that produced a
// proposal and roadmap.
func (cm *ChatMetrics) RecordProposalGenerated(ctx context.Context, service string) {
	cm.proposalsCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("service", service)),
	)
}

// RecordBudgetRejected records a budget answer below the policy minimum.
func (cm *ChatMetrics) RecordBudgetRejected(ctx context.Context, service, tier string) {
	cm.budgetRejectionsCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("service", service),
			attribute.String("tier", tier),
		),
	)
}

// RecordCacheHit records a conversation state served from the cache.
func (cm *ChatMetrics) RecordCacheHit(ctx context.Context, service string) {
	cm.cacheHitsCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("service", service)),
	)
}
