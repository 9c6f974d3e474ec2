package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/technosupport/ts-sentinel/internal/cameras"
	"github.com/technosupport/ts-sentinel/internal/events"
)

// Handler exposes the gateway HTTP surface: camera registry reads and the
// event ingestion endpoints.
type Handler struct {
	Service  *Service
	Registry *cameras.Registry
}

func NewHandler(svc *Service, registry *cameras.Registry) *Handler {
	return &Handler{Service: svc, Registry: registry}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Register mounts the gateway routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/cameras", h.ListCameras)
	r.Get("/cameras/{id}", h.GetCamera)
	r.Post("/events/motion", h.MotionEvent)
	r.Post("/events/analytics", h.AnalyticsEvent)
	r.Post("/events/health", h.HealthEvent)
}

// GET /cameras
func (h *Handler) ListCameras(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Registry.List())
}

// GET /cameras/{id}
func (h *Handler) GetCamera(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.Registry.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "camera not found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// POST /events/motion
func (h *Handler) MotionEvent(w http.ResponseWriter, r *http.Request) {
	var e events.MotionEvent
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	eventID := h.Service.ProcessMotion(r.Context(), e)
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "Processed",
		"eventId": eventID,
	})
}

// POST /events/analytics
func (h *Handler) AnalyticsEvent(w http.ResponseWriter, r *http.Request) {
	var e events.AnalyticsEvent
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	eventID := h.Service.ProcessAnalytics(r.Context(), e)
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "Processed",
		"eventId": eventID,
	})
}

// POST /events/health
func (h *Handler) HealthEvent(w http.ResponseWriter, r *http.Request) {
	var e events.HealthEvent
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.Service.ProcessHealth(r.Context(), e); err != nil {
		if errors.Is(err, cameras.ErrCameraNotFound) {
			respondError(w, http.StatusNotFound, "camera not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "Updated"})
}
