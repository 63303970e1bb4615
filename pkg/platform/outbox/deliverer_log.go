package outbox

import (
	"context"
	"log/slog"
)

// LogDeliverer writes messages to a structured logger. It stands in for the
// broker in development when no Kafka brokers are configured.
type LogDeliverer struct {
	logger *slog.Logger
}

func NewLogDeliverer(logger *slog.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

func (d *LogDeliverer) Deliver(ctx context.Context, msgs []Message) error {
	for _, m := range msgs {
		d.logger.InfoContext(ctx, "outbox message delivered",
			"topic", m.Topic,
			"key", m.Key,
			"message_id", m.ID.String(),
			"payload", string(m.Payload),
		)
	}
	return nil
}
