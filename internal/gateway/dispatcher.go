package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/technosupport/ts-sentinel/internal/alerts"
	"github.com/technosupport/ts-sentinel/internal/metrics"
)

// Dispatcher performs the best-effort forward of an alert-creation request
// to the alert service. Fire-and-forget: failures are logged and counted,
// never retried, and never reach the event endpoint's response.
type Dispatcher struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.GatewayMetrics
	dedup   *AlertDedup // nil disables suppression
}

func NewDispatcher(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.GatewayMetrics, dedup *AlertDedup) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: m,
		dedup:   dedup,
	}
}

// Dispatch hands the request off on a detached goroutine. The caller's
// response path never waits on it.
func (d *Dispatcher) Dispatch(req alerts.CreateRequest) {
	if d.dedup != nil && d.dedup.IsDuplicate(BuildDedupKey(req.Source, req.Type)) {
		d.metrics.EventDeduplicated()
		d.logger.Debug("alert forward suppressed by dedup window",
			zap.String("source", req.Source),
			zap.String("type", req.Type))
		return
	}

	d.metrics.AlertForwarded()
	go func() {
		if err := d.Forward(req); err != nil {
			d.metrics.ForwardFailed()
			d.logger.Warn("alert forward failed",
				zap.String("source", req.Source),
				zap.String("type", req.Type),
				zap.Error(err))
		}
	}()
}

// Forward performs the POST synchronously.
func (d *Dispatcher) Forward(req alerts.CreateRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal alert request: %w", err)
	}

	resp, err := d.client.Post(d.baseURL+"/alerts", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("alert service returned %d", resp.StatusCode)
	}
	return nil
}
