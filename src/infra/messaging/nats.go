// Package messaging publishes committed domain events.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"marketplace/src/core/ports"
	"marketplace/src/infra/config"
)

const (
	headerEventType = "Event-Type"
	// headerMsgID carries Envelope.ID so JetStream streams drop redelivered events.
	headerMsgID = "Nats-Msg-Id"
)

var _ ports.EventPublisher = (*NATSPublisher)(nil)

// NATSPublisher sends each event as a JSON message on <prefix>.<EventType>.
type NATSPublisher struct {
	nc           *nats.Conn
	prefix       string
	flushTimeout time.Duration
	log          *slog.Logger
}

// NewNATSPublisher connects to cfg.URL.
func NewNATSPublisher(cfg config.NATSConfig, log *slog.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("marketplace"),
		nats.Timeout(cfg.ConnectTimeout),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			log.Error("nats error", "subject", subject, "error", err)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Info("nats connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	log.Info("nats connection established", "url", nc.ConnectedUrl())

	return &NATSPublisher{
		nc:           nc,
		prefix:       cfg.SubjectPrefix,
		flushTimeout: cfg.ConnectTimeout,
		log:          log,
	}, nil
}

// Publish sends events in order and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, envelopes ...ports.Envelope) error {
	for _, env := range envelopes {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := newMessage(p.prefix, env)
		if err != nil {
			return err
		}
		if err := p.nc.PublishMsg(msg); err != nil {
			return fmt.Errorf("publish %s: %w", msg.Subject, err)
		}
		p.log.Debug("event published", "subject", msg.Subject, "msg_id", env.ID)
	}
	if err := p.nc.FlushTimeout(p.flushTimeout); err != nil {
		return fmt.Errorf("flush nats connection: %w", err)
	}
	return nil
}

func (p *NATSPublisher) Health(ctx context.Context) error {
	if status := p.nc.Status(); status != nats.CONNECTED {
		return errors.New("nats connection " + status.String())
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.log.Warn("nats drain failed", "error", err)
		p.nc.Close()
	}
}

// Subject returns the subject an event of the given type is published on.
func Subject(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

func newMessage(prefix string, env ports.Envelope) (*nats.Msg, error) {
	if env.ID == "" {
		return nil, errors.New("envelope has no message id")
	}
	event := env.Event
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event.EventType(), err)
	}
	msg := nats.NewMsg(Subject(prefix, event.EventType()))
	msg.Data = data
	msg.Header.Set(headerEventType, event.EventType())
	msg.Header.Set(headerMsgID, env.ID)
	return msg, nil
}
