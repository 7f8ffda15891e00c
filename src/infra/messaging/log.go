package messaging

import (
	"context"
	"log/slog"

	"marketplace/src/core/ports"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct {
	prefix string
	log    *slog.Logger
}

// NewLogPublisher logs subjects under prefix.
func NewLogPublisher(prefix string, log *slog.Logger) *LogPublisher {
	return &LogPublisher{prefix: prefix, log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, envelopes ...ports.Envelope) error {
	for _, env := range envelopes {
		p.log.InfoContext(ctx, "event",
			"subject", Subject(p.prefix, env.Event.EventType()),
			"msg_id", env.ID,
			"payload", env.Event,
		)
	}
	return nil
}

func (p *LogPublisher) Health(ctx context.Context) error {
	return nil
}
