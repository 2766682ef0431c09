package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-risk/internal/domain/event"
	pkgkafka "github.com/bibbank/credit-risk/pkg/kafka"
)

type recordingProducer struct {
	topic    string
	messages []pkgkafka.Message
	err      error
}

func (r *recordingProducer) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	r.topic = topic
	r.messages = append(r.messages, messages...)
	return r.err
}

func TestEventPublisher_Publish(t *testing.T) {
	prod := &recordingProducer{}
	pub := NewEventPublisher(prod, "bib.credit-risk.events", slog.New(slog.DiscardHandler))

	completed := event.NewAssessmentCompleted("a-1", "tenant-1", "CUST-1", 0.85, 382.5, "High", "Rejected", "rule_based_fallback")
	highRisk := event.NewHighRiskDetected("a-1", "tenant-1", "CUST-1", 0.85, "High risk")

	require.NoError(t, pub.Publish(context.Background(), completed, highRisk))
	assert.Equal(t, "bib.credit-risk.events", prod.topic)
	require.Len(t, prod.messages, 2)

	msg := prod.messages[0]
	assert.Equal(t, []byte("a-1"), msg.Key)
	assert.Equal(t, event.TypeAssessmentCompleted, msg.Headers["event_type"])
	assert.Equal(t, completed.EventID(), msg.Headers["event_id"])
	assert.Equal(t, "RiskAssessment", msg.Headers["aggregate_type"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "Rejected", body["status"])
	assert.Equal(t, event.TypeHighRiskDetected, prod.messages[1].Headers["event_type"])
}

func TestEventPublisher_NoEvents(t *testing.T) {
	prod := &recordingProducer{err: errors.New("must not be called")}
	pub := NewEventPublisher(prod, "t", slog.New(slog.DiscardHandler))
	assert.NoError(t, pub.Publish(context.Background()))
	assert.Empty(t, prod.topic)
}

func TestEventPublisher_ProducerError(t *testing.T) {
	prod := &recordingProducer{err: errors.New("broker down")}
	pub := NewEventPublisher(prod, "t", slog.New(slog.DiscardHandler))
	err := pub.Publish(context.Background(), event.NewNPAClassified("r-1", "tenant-1", "LN-1", "", "Standard", 0, "0.00"))
	assert.ErrorContains(t, err, "broker down")
}
