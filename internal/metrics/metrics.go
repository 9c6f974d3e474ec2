// Package metrics exposes Prometheus instrumentation for both services.
// Each service owns a private registry so /metrics never leaks Go runtime
// collectors from other binaries linked into the same module.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AlertMetrics instruments the alert service lifecycle.
type AlertMetrics struct {
	registry *prometheus.Registry

	created      *prometheus.CounterVec
	dispatched   prometheus.Counter
	acknowledged prometheus.Counter
	resolved     prometheus.Counter
	active       prometheus.Gauge
}

func NewAlertMetrics() *AlertMetrics {
	reg := prometheus.NewRegistry()
	m := &AlertMetrics{registry: reg}

	m.created = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_alerts_created_total",
		Help: "Alerts created, by severity",
	}, []string{"severity"})
	reg.MustRegister(m.created)

	m.dispatched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_alerts_dispatched_total",
		Help: "Alerts flagged for on-duty notification",
	})
	reg.MustRegister(m.dispatched)

	m.acknowledged = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_alerts_acknowledged_total",
		Help: "Acknowledge transitions applied",
	})
	reg.MustRegister(m.acknowledged)

	m.resolved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_alerts_resolved_total",
		Help: "Resolve transitions applied",
	})
	reg.MustRegister(m.resolved)

	m.active = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sentinel_alerts_active",
		Help: "Alerts currently in the Active state",
	})
	reg.MustRegister(m.active)

	return m
}

func (m *AlertMetrics) AlertCreated(severity string) {
	m.created.WithLabelValues(severity).Inc()
}

func (m *AlertMetrics) AlertDispatched()        { m.dispatched.Inc() }
func (m *AlertMetrics) AlertAcknowledged()      { m.acknowledged.Inc() }
func (m *AlertMetrics) AlertResolved()          { m.resolved.Inc() }
func (m *AlertMetrics) SetActiveAlerts(n int64) { m.active.Set(float64(n)) }

func (m *AlertMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GatewayMetrics instruments the camera gateway's event pipeline.
type GatewayMetrics struct {
	registry *prometheus.Registry

	eventsReceived  *prometheus.CounterVec
	alertsForwarded prometheus.Counter
	forwardFailures prometheus.Counter
	deduplicated    prometheus.Counter
	stateChanges    prometheus.Counter
}

func NewGatewayMetrics() *GatewayMetrics {
	reg := prometheus.NewRegistry()
	m := &GatewayMetrics{registry: reg}

	m.eventsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_events_received_total",
		Help: "Camera events ingested, by type",
	}, []string{"type"})
	reg.MustRegister(m.eventsReceived)

	m.alertsForwarded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_alerts_forwarded_total",
		Help: "Alert requests handed to the outbound dispatcher",
	})
	reg.MustRegister(m.alertsForwarded)

	m.forwardFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_forward_failures_total",
		Help: "Alert forwards that failed after dispatch",
	})
	reg.MustRegister(m.forwardFailures)

	m.deduplicated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_events_deduplicated_total",
		Help: "Alert forwards suppressed by the dedup window",
	})
	reg.MustRegister(m.deduplicated)

	m.stateChanges = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_camera_state_changes_total",
		Help: "Camera online/offline transitions observed",
	})
	reg.MustRegister(m.stateChanges)

	return m
}

func (m *GatewayMetrics) EventReceived(eventType string) {
	m.eventsReceived.WithLabelValues(eventType).Inc()
}

func (m *GatewayMetrics) AlertForwarded()    { m.alertsForwarded.Inc() }
func (m *GatewayMetrics) ForwardFailed()     { m.forwardFailures.Inc() }
func (m *GatewayMetrics) EventDeduplicated() { m.deduplicated.Inc() }
func (m *GatewayMetrics) CameraStateChange() { m.stateChanges.Inc() }

func (m *GatewayMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
