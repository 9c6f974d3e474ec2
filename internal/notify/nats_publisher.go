// Package notify publishes created alerts to NATS for downstream consumers
// (dashboards, pagers). Publication is best-effort: the alert service never
// fails ingestion over a broker problem.
package notify

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/technosupport/ts-sentinel/internal/alerts"
)

type NATSPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
	maxRetries    int
}

func NewNATSPublisher(conn *nats.Conn, subjectPrefix string, maxRetries int) *NATSPublisher {
	return &NATSPublisher{
		conn:          conn,
		subjectPrefix: subjectPrefix,
		maxRetries:    maxRetries,
	}
}

// Publish sends the alert to <prefix>.<severity>, retrying with linear
// backoff up to maxRetries.
func (p *NATSPublisher) Publish(alert *alerts.Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	subject := p.Subject(alert.Severity)
	for i := 0; i <= p.maxRetries; i++ {
		err = p.conn.Publish(subject, data)
		if err == nil {
			return nil
		}
		time.Sleep(time.Duration(i*100) * time.Millisecond)
	}

	return fmt.Errorf("publish to %s failed after %d retries: %w", subject, p.maxRetries, err)
}

// Subject derives the per-severity subject. Severity is free text, so it is
// normalized into a token NATS accepts.
func (p *NATSPublisher) Subject(severity string) string {
	tok := strings.ToLower(strings.TrimSpace(severity))
	tok = strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '_'
		}
		return r
	}, tok)
	if tok == "" {
		tok = "unknown"
	}
	return p.subjectPrefix + "." + tok
}
