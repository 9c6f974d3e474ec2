package gateway

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/technosupport/ts-sentinel/internal/alerts"
	"github.com/technosupport/ts-sentinel/internal/cameras"
	"github.com/technosupport/ts-sentinel/internal/events"
	"github.com/technosupport/ts-sentinel/internal/metrics"
)

// Forwarder is what the event pipeline needs from the outbound dispatcher.
type Forwarder interface {
	Dispatch(req alerts.CreateRequest)
}

// Service runs the gateway's event-processing flow: count the event, apply
// the correlation policy, hand any resulting alert request to the
// dispatcher. Health events mutate the camera registry instead.
type Service struct {
	registry   *cameras.Registry
	dispatcher Forwarder
	logger     *zap.Logger
	metrics    *metrics.GatewayMetrics
}

func NewService(registry *cameras.Registry, dispatcher Forwarder, logger *zap.Logger, m *metrics.GatewayMetrics) *Service {
	return &Service{
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    m,
	}
}

// ProcessMotion handles a motion event and returns the assigned event id.
func (s *Service) ProcessMotion(ctx context.Context, e events.MotionEvent) string {
	eventID := uuid.New().String()
	s.metrics.EventReceived("motion")
	s.logger.Info("motion event",
		zap.String("event_id", eventID),
		zap.String("camera_id", e.CameraID),
		zap.String("zone", e.Zone),
		zap.Float64("confidence", e.Confidence))

	if req := events.CorrelateMotion(e); req != nil {
		s.dispatcher.Dispatch(*req)
	}
	return eventID
}

// ProcessAnalytics handles an analytics event and returns the assigned
// event id.
func (s *Service) ProcessAnalytics(ctx context.Context, e events.AnalyticsEvent) string {
	eventID := uuid.New().String()
	s.metrics.EventReceived("analytics")
	s.logger.Info("analytics event",
		zap.String("event_id", eventID),
		zap.String("camera_id", e.CameraID),
		zap.String("object_type", e.ObjectType),
		zap.Bool("restricted_area", e.IsRestrictedArea))

	if req := events.CorrelateAnalytics(e); req != nil {
		s.dispatcher.Dispatch(*req)
	}
	return eventID
}

// ProcessHealth mutates the camera's online flag. Health events never raise
// alerts; online/offline transitions are only logged and counted.
func (s *Service) ProcessHealth(ctx context.Context, e events.HealthEvent) error {
	s.metrics.EventReceived("health")

	changed, err := s.registry.SetOnline(e.CameraID, e.IsOnline)
	if err != nil {
		return err
	}
	if changed {
		s.metrics.CameraStateChange()
		s.logger.Info("camera state change",
			zap.String("camera_id", e.CameraID),
			zap.Bool("online", e.IsOnline),
			zap.String("error_message", e.ErrorMessage))
	}
	return nil
}
