package kafka

import "time"

// Config holds Kafka producer settings.
type Config struct {
	Brokers []string

	// ClientID is sent to brokers for request attribution.
	ClientID string

	// BatchTimeout bounds how long the writer waits to fill a batch.
	// Zero uses DefaultBatchTimeout.
	BatchTimeout time.Duration

	// WriteTimeout bounds a single write. Zero leaves the kafka-go default.
	WriteTimeout time.Duration
}

// DefaultBatchTimeout keeps per-event latency low for request-path publishing.
const DefaultBatchTimeout = 10 * time.Millisecond

func (c Config) batchTimeout() time.Duration {
	if c.BatchTimeout > 0 {
		return c.BatchTimeout
	}
	return DefaultBatchTimeout
}
