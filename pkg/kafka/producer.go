package kafka

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	kafkago "github.com/segmentio/kafka-go"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("kafka: producer closed")

// Message is a single record to publish.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Producer publishes to any topic through a single kafka-go writer. The
// writer is created on first publish so a service can start before its
// brokers are reachable.
type Producer struct {
	cfg Config

	mu     sync.Mutex
	writer *kafkago.Writer
	closed bool
}

func NewProducer(cfg Config) *Producer {
	return &Producer{cfg: cfg}
}

// Publish writes messages to topic. Records with the same key land on the
// same partition.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	w, err := p.acquire()
	if err != nil {
		return err
	}
	if err := w.WriteMessages(ctx, toKafkaMessages(topic, messages)...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	return nil
}

// Close flushes pending batches. It is safe to call more than once.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.writer == nil {
		return nil
	}
	w := p.writer
	p.writer = nil
	if err := w.Close(); err != nil {
		return fmt.Errorf("kafka: close writer: %w", err)
	}
	return nil
}

func (p *Producer) acquire() (*kafkago.Writer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if p.writer == nil {
		p.writer = p.newWriter()
	}
	return p.writer, nil
}

func (p *Producer) newWriter() *kafkago.Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(p.cfg.Brokers...),
		Balancer:     &kafkago.Hash{},
		BatchTimeout: p.cfg.batchTimeout(),
		WriteTimeout: p.cfg.WriteTimeout,
		RequiredAcks: kafkago.RequireAll,
	}
	if p.cfg.ClientID != "" {
		w.Transport = &kafkago.Transport{ClientID: p.cfg.ClientID}
	}
	return w
}

// toKafkaMessages sets the topic per record, since the shared writer has
// none, and emits headers in key order.
func toKafkaMessages(topic string, messages []Message) []kafkago.Message {
	out := make([]kafkago.Message, len(messages))
	for i, msg := range messages {
		km := kafkago.Message{Topic: topic, Key: msg.Key, Value: msg.Value}
		keys := make([]string, 0, len(msg.Headers))
		for k := range msg.Headers {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			km.Headers = append(km.Headers, kafkago.Header{Key: k, Value: []byte(msg.Headers[k])})
		}
		out[i] = km
	}
	return out
}
