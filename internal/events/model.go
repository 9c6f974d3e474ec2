// Package events defines the camera event variants and the correlation
// policy that maps them to alert-creation requests. Events are ephemeral:
// consumed once, never stored.
package events

// MotionEvent reports motion detected by a camera in a named zone.
// Confidence is a 0-100 score.
type MotionEvent struct {
	CameraID   string  `json:"cameraId"`
	Zone       string  `json:"zone"`
	Confidence float64 `json:"confidence"`
}

// BoundingBox locates a detected object in the frame.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AnalyticsEvent reports an object classification from the analytics plane.
type AnalyticsEvent struct {
	CameraID         string       `json:"cameraId"`
	ObjectType       string       `json:"objectType"`
	Confidence       float64      `json:"confidence"`
	IsRestrictedArea bool         `json:"isRestrictedArea"`
	BoundingBox      *BoundingBox `json:"boundingBox,omitempty"`
}

// HealthEvent reports a camera connectivity change.
type HealthEvent struct {
	CameraID     string `json:"cameraId"`
	IsOnline     bool   `json:"isOnline"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}
