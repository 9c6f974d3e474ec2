package events

import (
	"fmt"

	"github.com/technosupport/ts-sentinel/internal/alerts"
)

// Correlation thresholds. Boundaries are inclusive on both sides: confidence
// exactly 80 yields Medium, exactly 95 yields High.
const (
	MotionAlertThreshold   = 80.0
	MotionHighSevThreshold = 95.0
)

// CorrelateMotion decides whether a motion event warrants an alert.
// Returns nil when confidence is below the alert threshold.
func CorrelateMotion(e MotionEvent) *alerts.CreateRequest {
	if e.Confidence < MotionAlertThreshold {
		return nil
	}
	severity := alerts.SeverityMedium
	if e.Confidence >= MotionHighSevThreshold {
		severity = alerts.SeverityHigh
	}
	return &alerts.CreateRequest{
		Type:     "MotionDetection",
		Source:   e.CameraID,
		Severity: severity,
		Message:  fmt.Sprintf("Motion detected in %s", e.Zone),
		Metadata: map[string]any{
			"zone":       e.Zone,
			"confidence": e.Confidence,
		},
	}
}

// CorrelateAnalytics raises a Critical alert when a person is detected in a
// restricted area. All other analytics events produce no alert.
func CorrelateAnalytics(e AnalyticsEvent) *alerts.CreateRequest {
	if e.ObjectType != "Person" || !e.IsRestrictedArea {
		return nil
	}
	md := map[string]any{
		"objectType": e.ObjectType,
		"confidence": e.Confidence,
	}
	if e.BoundingBox != nil {
		md["boundingBox"] = *e.BoundingBox
	}
	return &alerts.CreateRequest{
		Type:     "RestrictedAreaIntrusion",
		Source:   e.CameraID,
		Severity: alerts.SeverityCritical,
		Message:  "Unauthorized person detected in restricted area",
		Metadata: md,
	}
}
