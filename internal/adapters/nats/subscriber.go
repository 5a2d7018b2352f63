package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS and makes sure the FIR stream exists.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := ensureStream(js); err != nil {
		return nil, err
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeFIRFiled delivers each filed FIR to handler through a durable
// consumer. Failed messages are redelivered up to three times.
func (s *Subscriber) SubscribeFIRFiled(ctx context.Context, handler func(ctx context.Context, fir *domain.FIR) error) error {
	sub, err := s.js.Subscribe(firFiledWildcard, func(msg *nats.Msg) {
		if err := handleFIRFiled(ctx, msg.Data, handler); err != nil {
			slog.Warn("fir filed event failed", "subject", msg.Subject, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("fir-intake"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

func handleFIRFiled(ctx context.Context, data []byte, handler func(ctx context.Context, fir *domain.FIR) error) error {
	var fir domain.FIR
	if err := json.Unmarshal(data, &fir); err != nil {
		return fmt.Errorf("decode fir: %w", err)
	}
	if fir.ID == "" {
		return fmt.Errorf("decode fir: missing fir_id")
	}
	return handler(ctx, &fir)
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
