package gateway_test

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/technosupport/ts-sentinel/internal/alerts"
	"github.com/technosupport/ts-sentinel/internal/cameras"
	"github.com/technosupport/ts-sentinel/internal/gateway"
	"github.com/technosupport/ts-sentinel/internal/metrics"
)

type captureForwarder struct {
	mu   sync.Mutex
	reqs []alerts.CreateRequest
}

func (f *captureForwarder) Dispatch(req alerts.CreateRequest) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
}

func (f *captureForwarder) dispatched() []alerts.CreateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]alerts.CreateRequest(nil), f.reqs...)
}

func testRegistry(t *testing.T) *cameras.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cameras.yaml")
	content := `cameras:
  - id: cam-001
    name: Lobby Entrance
    location: Ground Floor
    building: HQ
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	r, err := cameras.LoadRegistry(path)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return r
}

func testRouter(t *testing.T) (*chi.Mux, *captureForwarder, *cameras.Registry) {
	t.Helper()
	registry := testRegistry(t)
	fwd := &captureForwarder{}
	svc := gateway.NewService(registry, fwd, zap.NewNop(), metrics.NewGatewayMetrics())
	h := gateway.NewHandler(svc, registry)

	r := chi.NewRouter()
	h.Register(r)
	return r, fwd, registry
}

func TestMotionEndpoint_HighConfidence(t *testing.T) {
	r, fwd, _ := testRouter(t)

	body := `{"cameraId":"cam-001","zone":"Lobby","confidence":96.5}`
	req := httptest.NewRequest("POST", "/events/motion", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["status"] != "Processed" || resp["eventId"] == "" {
		t.Errorf("Unexpected response: %v", resp)
	}

	reqs := fwd.dispatched()
	if len(reqs) != 1 {
		t.Fatalf("Expected 1 dispatch, got %d", len(reqs))
	}
	if reqs[0].Severity != alerts.SeverityHigh {
		t.Errorf("Expected High severity, got %s", reqs[0].Severity)
	}
}

func TestMotionEndpoint_LowConfidenceNoDispatch(t *testing.T) {
	r, fwd, _ := testRouter(t)

	body := `{"cameraId":"cam-001","zone":"Lobby","confidence":42}`
	req := httptest.NewRequest("POST", "/events/motion", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Errorf("Expected 200 even without an alert, got %d", w.Code)
	}
	if len(fwd.dispatched()) != 0 {
		t.Error("Expected no dispatch below threshold")
	}
}

func TestMotionEndpoint_BadJSON(t *testing.T) {
	r, _, _ := testRouter(t)

	req := httptest.NewRequest("POST", "/events/motion", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 400 {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestAnalyticsEndpoint_RestrictedIntrusion(t *testing.T) {
	r, fwd, _ := testRouter(t)

	body := `{"cameraId":"cam-001","objectType":"Person","confidence":91.2,"isRestrictedArea":true}`
	req := httptest.NewRequest("POST", "/events/analytics", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	reqs := fwd.dispatched()
	if len(reqs) != 1 {
		t.Fatalf("Expected 1 dispatch, got %d", len(reqs))
	}
	if reqs[0].Type != "RestrictedAreaIntrusion" || reqs[0].Severity != alerts.SeverityCritical {
		t.Errorf("Unexpected dispatch: %+v", reqs[0])
	}
}

func TestAnalyticsEndpoint_VehicleIgnored(t *testing.T) {
	r, fwd, _ := testRouter(t)

	body := `{"cameraId":"cam-001","objectType":"Vehicle","confidence":99,"isRestrictedArea":true}`
	req := httptest.NewRequest("POST", "/events/analytics", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if len(fwd.dispatched()) != 0 {
		t.Error("Expected no dispatch for non-person object")
	}
}

func TestHealthEndpoint_UpdatesRegistry(t *testing.T) {
	r, _, registry := testRouter(t)

	body := `{"cameraId":"cam-001","isOnline":true}`
	req := httptest.NewRequest("POST", "/events/health", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	cam, _ := registry.Get("cam-001")
	if !cam.Online {
		t.Error("Expected camera marked online")
	}
}

func TestHealthEndpoint_UnknownCamera(t *testing.T) {
	r, _, _ := testRouter(t)

	body := `{"cameraId":"cam-404","isOnline":false,"errorMessage":"rtsp timeout"}`
	req := httptest.NewRequest("POST", "/events/health", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 404 {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestCameraEndpoints(t *testing.T) {
	r, _, _ := testRouter(t)

	// List
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/cameras", nil))
	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var list []cameras.Record
	json.NewDecoder(w.Body).Decode(&list)
	if len(list) != 1 || list[0].ID != "cam-001" {
		t.Errorf("Unexpected camera list: %+v", list)
	}

	// Get known
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/cameras/cam-001", nil))
	if w.Code != 200 {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	// Get unknown
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/cameras/cam-404", nil))
	if w.Code != 404 {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

// Event ingestion keeps responding even when the alert service is down;
// forwarding is best-effort by contract.
func TestMotionEndpoint_AlertServiceDown(t *testing.T) {
	registry := testRegistry(t)
	d := gateway.NewDispatcher("http://127.0.0.1:1", 0, zap.NewNop(), metrics.NewGatewayMetrics(), nil)
	svc := gateway.NewService(registry, d, zap.NewNop(), metrics.NewGatewayMetrics())
	h := gateway.NewHandler(svc, registry)

	r := chi.NewRouter()
	h.Register(r)

	body := `{"cameraId":"cam-001","zone":"Lobby","confidence":97}`
	req := httptest.NewRequest("POST", "/events/motion", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Errorf("Expected 200 with alert service down, got %d", w.Code)
	}
}
