// Package kafka delivers outbox messages to Kafka with franz-go.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"veriflow/internal/platform/config"
	"veriflow/pkg/platform/outbox"
)

const headerMessageID = "message-id"

// Producer implements outbox.Deliverer. Each batch is produced synchronously
// so the dispatcher only marks messages delivered after the broker acks them.
type Producer struct {
	client  *kgo.Client
	admin   *kadm.Client
	logger  *slog.Logger
	timeout time.Duration
}

func NewProducer(cfg config.KafkaConfig, logger *slog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	timeout := cfg.ProduceTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Producer{
		client:  client,
		admin:   kadm.NewClient(client),
		logger:  logger,
		timeout: timeout,
	}, nil
}

// EnsureTopics creates topics that do not exist yet.
func (p *Producer) EnsureTopics(ctx context.Context, partitions int32, replicationFactor int16, topics ...string) error {
	resp, err := p.admin.CreateTopics(ctx, partitions, replicationFactor, nil, topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, t := range resp.Sorted() {
		if t.Err != nil && !errors.Is(t.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", t.Topic, t.Err)
		}
	}
	return nil
}

func (p *Producer) Deliver(ctx context.Context, msgs []outbox.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	records := make([]*kgo.Record, len(msgs))
	for i, m := range msgs {
		records[i] = &kgo.Record{
			Topic:     m.Topic,
			Key:       []byte(m.Key),
			Value:     m.Payload,
			Timestamp: m.CreatedAt,
			Headers:   []kgo.RecordHeader{{Key: headerMessageID, Value: []byte(m.ID.String())}},
		}
	}
	if err := p.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce outbox batch: %w", err)
	}
	p.logger.DebugContext(ctx, "outbox batch produced", "messages", len(msgs))
	return nil
}

// Ping checks that at least one broker is reachable.
func (p *Producer) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *Producer) Close() {
	p.client.Close()
}
