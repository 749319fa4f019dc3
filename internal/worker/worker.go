// Package worker provides the NATS-backed eviction sweep queue: a scheduler
// that publishes sweep jobs after write-triggering requests, and a worker
// that consumes them and reclaims expired artifacts.
//
// Sweeps are strictly best-effort. A failed publish or a failed sweep is
// logged and swallowed; the next triggering request schedules another one.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/tts-api/internal/core"
	"github.com/book-expert/tts-api/internal/metrics"
)

// Log formats.
const (
	logFmtPublishFailed   = "Failed to publish sweep request: %v"
	logFmtMarshalFailed   = "Failed to marshal sweep request: %v"
	logFmtUnmarshalFailed = "Failed to unmarshal sweep request: %v"
	logFmtSweepFailed     = "Eviction sweep failed: %v"
	logFmtSweepDone       = "Eviction sweep removed %d artifact(s) (reason: %s)"
)

// SweepRequestedEvent asks the worker to evict artifacts older than the given
// age. The header carries correlation metadata shared with the rest of the
// event fabric.
type SweepRequestedEvent struct {
	Header        events.EventHeader `json:"header"`
	MaxAgeSeconds int                `json:"max_age_seconds"`
	Reason        string             `json:"reason"`
}

// SweepScheduler publishes sweep requests. It implements core.SweepScheduler.
type SweepScheduler struct {
	natsConnection *nats.Conn
	subject        string
	maxAge         time.Duration
	log            *logger.Logger
}

// NewScheduler creates a scheduler that requests sweeps of artifacts older
// than maxAge.
func NewScheduler(
	natsConnection *nats.Conn,
	subject string,
	maxAge time.Duration,
	log *logger.Logger,
) *SweepScheduler {
	return &SweepScheduler{
		natsConnection: natsConnection,
		subject:        subject,
		maxAge:         maxAge,
		log:            log,
	}
}

// Schedule publishes one sweep request. It never blocks on sweep execution
// and never reports failure to the caller; a response in flight must not be
// affected by storage reclamation.
func (s *SweepScheduler) Schedule(reason string) {
	event := SweepRequestedEvent{
		Header: events.EventHeader{
			Timestamp:  time.Now(),
			WorkflowID: uuid.NewString(),
			EventID:    uuid.NewString(),
			UserID:     "",
			TenantID:   "",
		},
		MaxAgeSeconds: int(s.maxAge.Seconds()),
		Reason:        reason,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error(logFmtMarshalFailed, err)

		return
	}

	err = s.natsConnection.Publish(s.subject, data)
	if err != nil {
		s.log.Error(logFmtPublishFailed, err)
	}
}

// SweepWorker listens for sweep requests and evicts expired artifacts.
type SweepWorker struct {
	natsConnection *nats.Conn
	subject        string
	store          core.ArtifactEvictor
	metrics        *metrics.Metrics
	log            *logger.Logger
}

// NewSweepWorker creates a worker draining the given subject.
func NewSweepWorker(
	natsConnection *nats.Conn,
	subject string,
	store core.ArtifactEvictor,
	m *metrics.Metrics,
	log *logger.Logger,
) (*SweepWorker, error) {
	return &SweepWorker{
		natsConnection: natsConnection,
		subject:        subject,
		store:          store,
		metrics:        m,
		log:            log,
	}, nil
}

// Run subscribes and processes sweep requests until the context is done.
func (w *SweepWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *SweepWorker) handleMessage(msg *nats.Msg) {
	var event SweepRequestedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		w.log.Error(logFmtUnmarshalFailed, err)

		return
	}

	maxAge := time.Duration(event.MaxAgeSeconds) * time.Second
	if maxAge <= 0 {
		w.log.Warn("Ignoring sweep request with non-positive max age: %d", event.MaxAgeSeconds)

		return
	}

	removed, evictErr := w.store.EvictOlderThan(maxAge)
	if evictErr != nil {
		w.log.Error(logFmtSweepFailed, evictErr)

		return
	}

	w.metrics.RecordEviction(removed)

	if removed > 0 {
		w.log.Info(logFmtSweepDone, removed, event.Reason)
	}
}
