package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// Stream and subject layout for FIR events.
const (
	FIRStream          = "FIR_EVENTS"
	firFiledPrefix     = "fir.filed."
	firStatusPrefix    = "fir.status."
	FIRStatusWildcard  = "fir.status.*"
	firFiledWildcard   = "fir.filed.>"
	firStatusAllEvents = "fir.status.>"
)

// FIRFiledSubject is the subject a new FIR from state is published on.
func FIRFiledSubject(stateCode string) string {
	return firFiledPrefix + subjectToken(stateCode)
}

// FIRStatusSubject is the subject status changes of one FIR are published on.
func FIRStatusSubject(firID string) string {
	return firStatusPrefix + subjectToken(firID)
}

// FIRStatusEvent is the payload of a status change message.
type FIRStatusEvent struct {
	FIRID  string                 `json:"fir_id"`
	Change domain.FIRStatusChange `json:"change"`
}

// subjectToken keeps a value from introducing extra subject levels.
func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_").Replace(s)
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
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

	return &Publisher{conn: conn, js: js}, nil
}

func ensureStream(js nats.JetStreamContext) error {
	cfg := &nats.StreamConfig{
		Name:      FIRStream,
		Subjects:  []string{firFiledWildcard, firStatusAllEvents},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

func (p *Publisher) PublishFIRFiled(ctx context.Context, fir *domain.FIR) error {
	data, err := json.Marshal(fir)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(FIRFiledSubject(fir.StateCode), data, nats.Context(ctx), nats.MsgId(fir.ID))
	return err
}

func (p *Publisher) PublishFIRStatus(ctx context.Context, firID string, change domain.FIRStatusChange) error {
	data, err := json.Marshal(FIRStatusEvent{FIRID: firID, Change: change})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(FIRStatusSubject(firID), data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("legallib"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
