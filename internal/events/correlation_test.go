package events_test

import (
	"testing"

	"github.com/technosupport/ts-sentinel/internal/alerts"
	"github.com/technosupport/ts-sentinel/internal/events"
)

func TestCorrelateMotion_ConfidenceBoundaries(t *testing.T) {
	cases := []struct {
		confidence float64
		severity   string // "" means no alert
	}{
		{0, ""},
		{79.9, ""},
		{80, alerts.SeverityMedium},
		{94.9, alerts.SeverityMedium},
		{95, alerts.SeverityHigh},
		{99.9, alerts.SeverityHigh},
		{100, alerts.SeverityHigh},
	}

	for _, c := range cases {
		req := events.CorrelateMotion(events.MotionEvent{
			CameraID:   "cam-001",
			Zone:       "Lobby",
			Confidence: c.confidence,
		})
		if c.severity == "" {
			if req != nil {
				t.Errorf("Confidence %.1f: expected no alert, got %s", c.confidence, req.Severity)
			}
			continue
		}
		if req == nil {
			t.Errorf("Confidence %.1f: expected alert, got nil", c.confidence)
			continue
		}
		if req.Severity != c.severity {
			t.Errorf("Confidence %.1f: expected %s, got %s", c.confidence, c.severity, req.Severity)
		}
	}
}

func TestCorrelateMotion_RequestShape(t *testing.T) {
	req := events.CorrelateMotion(events.MotionEvent{
		CameraID:   "cam-003",
		Zone:       "Loading Dock",
		Confidence: 88.5,
	})
	if req == nil {
		t.Fatal("Expected alert request")
	}
	if req.Type != "MotionDetection" {
		t.Errorf("Expected MotionDetection, got %s", req.Type)
	}
	if req.Source != "cam-003" {
		t.Errorf("Expected source cam-003, got %s", req.Source)
	}
	if req.Message != "Motion detected in Loading Dock" {
		t.Errorf("Unexpected message: %s", req.Message)
	}
	if req.Metadata["zone"] != "Loading Dock" || req.Metadata["confidence"] != 88.5 {
		t.Error("Expected zone and confidence in metadata")
	}
}

func TestCorrelateAnalytics_Matrix(t *testing.T) {
	cases := []struct {
		objectType string
		restricted bool
		alert      bool
	}{
		{"Person", true, true},
		{"Person", false, false},
		{"Vehicle", true, false},
		{"Vehicle", false, false},
		{"person", true, false}, // case-sensitive classification
		{"", true, false},
	}

	for _, c := range cases {
		req := events.CorrelateAnalytics(events.AnalyticsEvent{
			CameraID:         "cam-002",
			ObjectType:       c.objectType,
			Confidence:       91.0,
			IsRestrictedArea: c.restricted,
		})
		if c.alert && req == nil {
			t.Errorf("%s/restricted=%v: expected alert, got nil", c.objectType, c.restricted)
		}
		if !c.alert && req != nil {
			t.Errorf("%s/restricted=%v: expected no alert, got %s", c.objectType, c.restricted, req.Type)
		}
	}
}

func TestCorrelateAnalytics_RequestShape(t *testing.T) {
	box := &events.BoundingBox{X: 10, Y: 20, Width: 30, Height: 40}
	req := events.CorrelateAnalytics(events.AnalyticsEvent{
		CameraID:         "cam-002",
		ObjectType:       "Person",
		Confidence:       97.2,
		IsRestrictedArea: true,
		BoundingBox:      box,
	})
	if req == nil {
		t.Fatal("Expected alert request")
	}
	if req.Severity != alerts.SeverityCritical {
		t.Errorf("Expected Critical, got %s", req.Severity)
	}
	if req.Type != "RestrictedAreaIntrusion" {
		t.Errorf("Expected RestrictedAreaIntrusion, got %s", req.Type)
	}
	if req.Metadata["boundingBox"] != *box {
		t.Error("Expected bounding box in metadata")
	}
}

func TestCorrelateAnalytics_NoBoundingBox(t *testing.T) {
	req := events.CorrelateAnalytics(events.AnalyticsEvent{
		CameraID:         "cam-004",
		ObjectType:       "Person",
		IsRestrictedArea: true,
	})
	if req == nil {
		t.Fatal("Expected alert request")
	}
	if _, ok := req.Metadata["boundingBox"]; ok {
		t.Error("Expected no boundingBox key when box absent")
	}
}
