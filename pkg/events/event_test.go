package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewBaseEvent("risk.assessment.completed", "asmt-1", "RiskAssessment", "tenant-1")
	after := time.Now().UTC()

	assert.NotEmpty(t, event.EventID())
	assert.Equal(t, "risk.assessment.completed", event.EventType())
	assert.Equal(t, "asmt-1", event.AggregateID())
	assert.Equal(t, "RiskAssessment", event.AggregateType())
	assert.Equal(t, "tenant-1", event.TenantID())
	assert.False(t, event.OccurredAt().Before(before))
	assert.False(t, event.OccurredAt().After(after))
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a := NewBaseEvent("x", "agg", "T", "tenant")
	b := NewBaseEvent("x", "agg", "T", "tenant")
	assert.NotEqual(t, a.EventID(), b.EventID())
}

func TestBaseEvent_JSONEnvelope(t *testing.T) {
	event := NewBaseEvent("risk.npa.classified", "npa-9", "NPARecord", "tenant-2")

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "risk.npa.classified", decoded["event_type"])
	assert.Equal(t, "npa-9", decoded["aggregate_id"])
	assert.Equal(t, "tenant-2", decoded["tenant_id"])
}
