package alerts

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher fans a created alert out to interested parties (NATS subject,
// websocket hub). Publication is best-effort and never blocks or fails the
// ingestion response.
type Publisher interface {
	Publish(alert *Alert) error
}

// Recorder receives lifecycle signals for metric exposition.
type Recorder interface {
	AlertCreated(severity string)
	AlertDispatched()
	AlertAcknowledged()
	AlertResolved()
	SetActiveAlerts(n int64)
}

// Config tunes dispatch simulation and transition strictness.
type Config struct {
	// StrictTransitions makes Resolved a terminal state: Acknowledge or
	// Resolve on an already-Resolved alert fails with ErrAlertResolved.
	// Default false preserves permissive overwrite semantics.
	StrictTransitions bool

	// Simulated notification latency bounds for dispatched alerts.
	DispatchDelayMin time.Duration
	DispatchDelayMax time.Duration
}

// Service implements the alert ingestion and transition logic on top of the
// store.
type Service struct {
	store      *Store
	logger     *zap.Logger
	cfg        Config
	publishers []Publisher
	rec        Recorder
}

func NewService(store *Store, logger *zap.Logger, cfg Config, rec Recorder, pubs ...Publisher) *Service {
	if cfg.DispatchDelayMin <= 0 {
		cfg.DispatchDelayMin = 50 * time.Millisecond
	}
	if cfg.DispatchDelayMax < cfg.DispatchDelayMin {
		cfg.DispatchDelayMax = cfg.DispatchDelayMin + 100*time.Millisecond
	}
	return &Service{
		store:      store,
		logger:     logger,
		cfg:        cfg,
		publishers: pubs,
		rec:        rec,
	}
}

// CreateAlert assigns identity and initial state, persists the alert, and
// applies the dispatch-decision policy. The returned alert is what the
// response carries; dispatch simulation and fan-out run detached.
func (s *Service) CreateAlert(ctx context.Context, req CreateRequest) *Alert {
	now := time.Now()
	ts := now
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}

	a := &Alert{
		ID:        uuid.New().String(),
		Type:      req.Type,
		Source:    req.Source,
		Severity:  req.Severity,
		Message:   req.Message,
		Timestamp: ts,
		Status:    StatusActive,
		Metadata:  req.Metadata,
	}

	created := s.store.Create(a)
	s.rec.AlertCreated(created.Severity)
	s.rec.SetActiveAlerts(s.store.ActiveCount())

	s.logger.Info("alert created",
		zap.String("alert_id", created.ID),
		zap.String("type", created.Type),
		zap.String("source", created.Source),
		zap.String("severity", created.Severity))

	if s.shouldDispatch(created.Severity) {
		s.rec.AlertDispatched()
		go s.simulateNotification(created.ID, created.Severity)
	}

	for _, p := range s.publishers {
		go func(p Publisher, a Alert) {
			if err := p.Publish(&a); err != nil {
				s.logger.Warn("alert publish failed",
					zap.String("alert_id", a.ID),
					zap.Error(err))
			}
		}(p, *created)
	}

	return created
}

// shouldDispatch flags High/Critical alerts for on-duty notification.
// Case-sensitive exact match.
func (s *Service) shouldDispatch(severity string) bool {
	return severity == SeverityHigh || severity == SeverityCritical
}

// simulateNotification models notification latency. It is never joined by
// the response path.
func (s *Service) simulateNotification(alertID, severity string) {
	span := s.cfg.DispatchDelayMax - s.cfg.DispatchDelayMin
	delay := s.cfg.DispatchDelayMin
	if span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}
	time.Sleep(delay)
	s.logger.Info("alert dispatched to on-duty staff",
		zap.String("alert_id", alertID),
		zap.String("severity", severity),
		zap.Duration("notify_latency", delay))
}

// Acknowledge marks the alert as seen by an operator. The active counter
// drops only when the alert leaves Active for the first time.
func (s *Service) Acknowledge(ctx context.Context, id, operatorID string) (*Alert, error) {
	if err := s.checkTerminal(id); err != nil {
		return nil, err
	}
	updated, err := s.store.Transition(id, func(a *Alert) {
		now := time.Now()
		a.Status = StatusAcknowledged
		a.AcknowledgedBy = operatorID
		a.AcknowledgedAt = &now
	})
	if err != nil {
		return nil, err
	}
	s.rec.AlertAcknowledged()
	s.rec.SetActiveAlerts(s.store.ActiveCount())
	s.logger.Info("alert acknowledged",
		zap.String("alert_id", id),
		zap.String("operator", operatorID))
	return updated, nil
}

// Resolve closes out the alert with a resolution note.
func (s *Service) Resolve(ctx context.Context, id, resolution string) (*Alert, error) {
	if err := s.checkTerminal(id); err != nil {
		return nil, err
	}
	updated, err := s.store.Transition(id, func(a *Alert) {
		now := time.Now()
		a.Status = StatusResolved
		a.Resolution = resolution
		a.ResolvedAt = &now
	})
	if err != nil {
		return nil, err
	}
	s.rec.AlertResolved()
	s.rec.SetActiveAlerts(s.store.ActiveCount())
	s.logger.Info("alert resolved", zap.String("alert_id", id))
	return updated, nil
}

// checkTerminal rejects transitions on Resolved alerts in strict mode.
// The check is advisory: a racing Resolve between check and transition is
// accepted, matching the permissive reference behavior.
func (s *Service) checkTerminal(id string) error {
	if !s.cfg.StrictTransitions {
		return nil
	}
	a, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if a.Status == StatusResolved {
		return ErrAlertResolved
	}
	return nil
}

// Get returns the alert by ID.
func (s *Service) Get(ctx context.Context, id string) (*Alert, error) {
	return s.store.Get(id)
}

// List returns alerts newest-timestamp-first.
func (s *Service) List(ctx context.Context, activeOnly bool) []*Alert {
	return s.store.List(activeOnly)
}

// Stats returns aggregate counts.
func (s *Service) Stats(ctx context.Context) Stats {
	return s.store.Stats()
}
