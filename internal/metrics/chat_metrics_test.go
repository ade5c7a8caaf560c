package metrics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestChatMetrics_Creation(t *testing.T) {
	t.Run("successfully create chat metrics", func(t *testing.T) {
		m, err := NewChatMetrics()
		require.NoError(t, err)
		assert.NotNil(t, m)
		assert.NotNil(t, m.turnsCounter)
		assert.NotNil(t, m.proposalsCounter)
		assert.NotNil(t, m.budgetRejectionsCounter)
		assert.NotNil(t, m.cacheHitsCounter)
		assert.NotNil(t, m.turnDurationHistogram)
		assert.NotNil(t, m.activeConversations)
	})
}

func TestChatMetrics_RecordTurn(t *testing.T) {
	m, err := NewChatMetrics()
	require.NoError(t, err)

	t.Run("record turn lifecycle", func(t *testing.T) {
		ctx := context.Background()

		assert.NotPanics(t, func() {
			m.RecordTurnStarted(ctx, "Website Development")
			m.RecordTurnProcessed(ctx, "Website Development", 20*time.Millisecond)
		})
	})

	t.Run("record turns across services", func(t *testing.T) {
		ctx := context.Background()
		for _, service := range []string{"Website Development", "App Development", "default"} {
			m.RecordTurnStarted(ctx, service)
			m.RecordTurnProcessed(ctx, service, 5*time.Millisecond)
		}
	})
}

func TestChatMetrics_ActiveConversationsBalance(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	m, err := NewChatMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	// Two turns start; one completes, one is abandoned on error. The gauge
	// must return to zero either way.
	m.RecordTurnStarted(ctx, "Website Development")
	m.RecordTurnStarted(ctx, "Website Development")
	m.RecordTurnProcessed(ctx, "Website Development", 10*time.Millisecond)
	m.RecordTurnAbandoned(ctx, "Website Development")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	var total int64
	found := false
	for _, scope := range rm.ScopeMetrics {
		for _, metricEntry := range scope.Metrics {
			if metricEntry.Name != "quotebot.conversations.active" {
				continue
			}
			sum, ok := metricEntry.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			found = true
		}
	}
	require.True(t, found, "active conversations gauge not collected")
	assert.Equal(t, int64(0), total)
}

func TestChatMetrics_RecordProposalGenerated(t *testing.T) {
	m, err := NewChatMetrics()
	require.NoError(t, err)

	t.Run("record proposal generation", func(t *testing.T) {
		ctx := context.Background()
		assert.NotPanics(t, func() {
			m.RecordProposalGenerated(ctx, "Website Development")
		})
	})
}

func TestChatMetrics_RecordBudgetRejected(t *testing.T) {
	m, err := NewChatMetrics()
	require.NoError(t, err)

	t.Run("record rejections with different tiers", func(t *testing.T) {
		ctx := context.Background()
		for _, tier := range []string{"shopify", "wordpress", "nextjs", "3d_custom"} {
			m.RecordBudgetRejected(ctx, "Website Development", tier)
		}
	})
}

func TestChatMetrics_ConcurrentRecording(t *testing.T) {
	m, err := NewChatMetrics()
	require.NoError(t, err)

	t.Run("handle concurrent metric recording", func(t *testing.T) {
		ctx := context.Background()
		done := make(chan bool)

		for i := 0; i < 10; i++ {
			go func(id int) {
				service := fmt.Sprintf("service-%d", id)
				m.RecordTurnStarted(ctx, service)
				if id%2 == 0 {
					m.RecordCacheHit(ctx, service)
				}
				m.RecordTurnProcessed(ctx, service, time.Duration(id)*10*time.Millisecond)
				done <- true
			}(i)
		}

		for i := 0; i < 10; i++ {
			<-done
		}
	})
}
