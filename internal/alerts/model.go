package alerts

import "time"

// Status governs the alert lifecycle: Active -> Acknowledged -> Resolved,
// with Acknowledged optional. Strict mode makes Resolved terminal.
type Status string

const (
	StatusActive       Status = "Active"
	StatusAcknowledged Status = "Acknowledged"
	StatusResolved     Status = "Resolved"
)

// Recognized severity values. Severity is an open string set: the correlation
// policy only ever produces these four, but alerts created directly through
// the ingestion endpoint keep whatever the caller sent.
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// Alert is a record of a detected security-relevant condition.
type Alert struct {
	ID             string         `json:"id"`
	Type           string         `json:"type"`
	Source         string         `json:"source"`
	Severity       string         `json:"severity"`
	Message        string         `json:"message"`
	Timestamp      time.Time      `json:"timestamp"`
	Status         Status         `json:"status"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	AcknowledgedBy string         `json:"acknowledgedBy,omitempty"`
	AcknowledgedAt *time.Time     `json:"acknowledgedAt,omitempty"`
	Resolution     string         `json:"resolution,omitempty"`
	ResolvedAt     *time.Time     `json:"resolvedAt,omitempty"`
}

// CreateRequest is the alert creation payload, both on the ingestion endpoint
// and on the wire from the gateway dispatcher.
type CreateRequest struct {
	Type      string         `json:"type"`
	Source    string         `json:"source"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Stats are derived aggregate counts over the store.
type Stats struct {
	Total        int            `json:"total"`
	Active       int            `json:"active"`
	Acknowledged int            `json:"acknowledged"`
	Resolved     int            `json:"resolved"`
	BySeverity   map[string]int `json:"bySeverity"`
	ByType       map[string]int `json:"byType"`
}
