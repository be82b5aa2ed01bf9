package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
)

// mockKafkaReader serves queued messages and then blocks until cancelled.
type mockKafkaReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (m *mockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	if len(m.queue) > 0 {
		msg := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		return msg, nil
	}
	m.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *mockKafkaReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = append(m.committed, msgs...)
	return nil
}

func (m *mockKafkaReader) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockKafkaReader) Stats() kafka.ReaderStats { return kafka.ReaderStats{} }

func (m *mockKafkaReader) commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed)
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*ProducerMessage
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg *ProducerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func newTestConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "test-group",
		Topics:  []string{TopicAnalysisRequests},
		RetryConfig: RetryConfig{
			MaxRetries:   2,
			RetryBackoff: time.Millisecond,
		},
	}
}

func TestValidateConsumerConfig(t *testing.T) {
	assert.NoError(t, ValidateConsumerConfig(newTestConsumerConfig()))

	cases := map[string]func(*ConsumerConfig){
		"no brokers":   func(c *ConsumerConfig) { c.Brokers = nil },
		"no group":     func(c *ConsumerConfig) { c.GroupID = "" },
		"no topics":    func(c *ConsumerConfig) { c.Topics = nil },
		"bad offset":   func(c *ConsumerConfig) { c.AutoOffsetReset = "middle" },
		"sasl no user": func(c *ConsumerConfig) { c.SASLEnabled, c.SASLMechanism = true, "PLAIN" },
		"tls no cert":  func(c *ConsumerConfig) { c.TLSEnabled = true },
		"neg retries":  func(c *ConsumerConfig) { c.RetryConfig.MaxRetries = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := newTestConsumerConfig()
			mutate(&cfg)
			assert.Error(t, ValidateConsumerConfig(cfg))
		})
	}
}

func TestSubscribe(t *testing.T) {
	c := newConsumer(&mockKafkaReader{}, newTestConsumerConfig(), nil, logging.NewNopLogger())
	require.NoError(t, c.Subscribe("topic", func(ctx context.Context, msg *Message) error { return nil }))
	assert.Len(t, c.handlers, 1)
	assert.Error(t, c.Subscribe("", nil))

	require.NoError(t, c.Unsubscribe("topic"))
	assert.Empty(t, c.handlers)
}

func TestStart_AlreadyRunning(t *testing.T) {
	c := newConsumer(&mockKafkaReader{}, newTestConsumerConfig(), nil, logging.NewNopLogger())
	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, ErrAlreadyRunning, c.Start(context.Background()))
	require.NoError(t, c.Close())
}

func TestConsumeLoop_DispatchesAndCommits(t *testing.T) {
	reader := &mockKafkaReader{queue: []kafka.Message{
		{
			Topic:   TopicAnalysisRequests,
			Value:   []byte("value"),
			Headers: []kafka.Header{{Key: "event_type", Value: []byte(EventAnalysisRequested)}},
		},
		{Topic: "unrouted", Value: []byte("x")},
	}}
	c := newConsumer(reader, newTestConsumerConfig(), nil, logging.NewNopLogger())

	handled := make(chan *Message, 1)
	require.NoError(t, c.Subscribe(TopicAnalysisRequests, func(ctx context.Context, msg *Message) error {
		handled <- msg
		return nil
	}))
	require.NoError(t, c.Start(context.Background()))

	select {
	case msg := <-handled:
		assert.Equal(t, "value", string(msg.Value))
		assert.Equal(t, EventAnalysisRequested, msg.Headers["event_type"])
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for handler")
	}

	assert.Eventually(t, func() bool { return reader.commits() == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Close())
	assert.True(t, reader.closed)

	m := c.GetMetrics()
	assert.Equal(t, int64(2), m.MessagesConsumed.Load())
	assert.Equal(t, int64(1), m.MessagesProcessed.Load())
}

func TestProcessMessage_RetrySuccess(t *testing.T) {
	c := newConsumer(&mockKafkaReader{}, newTestConsumerConfig(), nil, logging.NewNopLogger())

	attempts := 0
	ok := c.processMessage(context.Background(), &Message{}, func(ctx context.Context, msg *Message) error {
		attempts++
		if attempts < 2 {
			return errors.New("fail")
		}
		return nil
	})
	assert.True(t, ok)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, int64(1), c.metrics.MessagesRetried.Load())
}

func TestProcessMessage_DeadLettersAfterRetries(t *testing.T) {
	cfg := newTestConsumerConfig()
	cfg.RetryConfig.DeadLetterTopic = TopicDeadLetter
	dl := &recordingPublisher{}
	c := newConsumer(&mockKafkaReader{}, cfg, dl, logging.NewNopLogger())

	attempts := 0
	msg := &Message{Topic: TopicAnalysisRequests, Key: []byte("k"), Value: []byte("v"), Headers: map[string]string{"a": "b"}}
	ok := c.processMessage(context.Background(), msg, func(ctx context.Context, msg *Message) error {
		attempts++
		return errors.New("store unavailable")
	})

	assert.False(t, ok)
	assert.Equal(t, 3, attempts)
	require.Len(t, dl.msgs, 1)
	assert.Equal(t, TopicDeadLetter, dl.msgs[0].Topic)
	assert.Equal(t, TopicAnalysisRequests, dl.msgs[0].Headers["original_topic"])
	assert.Equal(t, "store unavailable", dl.msgs[0].Headers["error_message"])
	assert.Equal(t, "b", dl.msgs[0].Headers["a"])
	assert.NotContains(t, msg.Headers, "original_topic")
	assert.Equal(t, int64(1), c.metrics.MessagesDeadLettered.Load())
}

func TestProcessMessage_CancelledDuringBackoff(t *testing.T) {
	cfg := newTestConsumerConfig()
	cfg.RetryConfig.RetryBackoff = time.Hour
	c := newConsumer(&mockKafkaReader{}, cfg, nil, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := c.processMessage(ctx, &Message{}, func(ctx context.Context, msg *Message) error {
		return errors.New("fail")
	})
	assert.False(t, ok)
}
