// Package notify announces finished summary documents on NATS.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"token-flow-lab/internal/domain"
)

// EventSummaryGenerated is the event type published after a document is written.
const EventSummaryGenerated = "summary.generated"

// SummaryEvent is the payload published for a generated document.
type SummaryEvent struct {
	Type           string `json:"type"`
	RunID          string `json:"run_id"`
	Path           string `json:"path"`
	SyncedAt       string `json:"synced_at"`
	TotalTransfers int64  `json:"total_transfers"`
	Top7d          int    `json:"top_7d"`
	Top30d         int    `json:"top_30d"`
	TopHolders     int    `json:"top_holders"`
	Timestamp      int64  `json:"timestamp"`
}

// Publisher is the subset of *nats.Conn the emitter needs.
type Publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// Emitter publishes summary events to a single subject.
type Emitter struct {
	pub     Publisher
	subject string
	now     func() time.Time
	close   func()
}

// NewEmitter wraps an existing publisher.
func NewEmitter(pub Publisher, subject string) *Emitter {
	return &Emitter{
		pub:     pub,
		subject: subject,
		now:     time.Now,
	}
}

// Connect dials NATS and returns an emitter owning the connection.
func Connect(natsURL, subject string) (*Emitter, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("token-flow-lab"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	e := NewEmitter(conn, subject)
	e.close = conn.Close
	return e, nil
}

// WithClock sets a custom clock function for deterministic timestamps.
func (e *Emitter) WithClock(now func() time.Time) *Emitter {
	e.now = now
	return e
}

// SummaryGenerated publishes a summary.generated event and waits for the server to acknowledge the flush.
func (e *Emitter) SummaryGenerated(ctx context.Context, runID, path string, doc *domain.Summary) error {
	event := SummaryEvent{
		Type:           EventSummaryGenerated,
		RunID:          runID,
		Path:           path,
		SyncedAt:       doc.SyncedAt,
		TotalTransfers: doc.TotalTransfers,
		Top7d:          len(doc.Top7d),
		Top30d:         len(doc.Top30d),
		TopHolders:     len(doc.TopHolders),
		Timestamp:      e.now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := e.pub.Publish(e.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", e.subject, err)
	}
	if err := e.pub.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", e.subject, err)
	}
	return nil
}

// Close releases the connection if the emitter owns one.
func (e *Emitter) Close() {
	if e.close != nil {
		e.close()
	}
}
