package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/technosupport/ts-sentinel/internal/alerts"
)

// AlertHandler exposes the alert service REST surface.
type AlertHandler struct {
	Service *alerts.Service
}

func NewAlertHandler(svc *alerts.Service) *AlertHandler {
	return &AlertHandler{Service: svc}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Register mounts the alert routes.
func (h *AlertHandler) Register(r chi.Router) {
	r.Get("/alerts", h.List)
	r.Get("/alerts/stats", h.Stats)
	r.Get("/alerts/{id}", h.Get)
	r.Post("/alerts", h.Create)
	r.Post("/alerts/{id}/acknowledge", h.Acknowledge)
	r.Post("/alerts/{id}/resolve", h.Resolve)
}

// GET /alerts?activeOnly=bool
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activeOnly") == "true"
	list := h.Service.List(r.Context(), activeOnly)
	if list == nil {
		list = []*alerts.Alert{}
	}
	respondJSON(w, http.StatusOK, list)
}

// GET /alerts/{id}
func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.Service.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "alert not found")
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// POST /alerts
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req alerts.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	created := h.Service.CreateAlert(r.Context(), req)
	w.Header().Set("Location", "/alerts/"+created.ID)
	respondJSON(w, http.StatusCreated, created)
}

// POST /alerts/{id}/acknowledge
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		OperatorID string `json:"operatorId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	updated, err := h.Service.Acknowledge(r.Context(), id, req.OperatorID)
	if err != nil {
		h.transitionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// POST /alerts/{id}/resolve
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Resolution string `json:"resolution"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	updated, err := h.Service.Resolve(r.Context(), id, req.Resolution)
	if err != nil {
		h.transitionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// GET /alerts/stats
func (h *AlertHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Service.Stats(r.Context()))
}

func (h *AlertHandler) transitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, alerts.ErrAlertNotFound):
		respondError(w, http.StatusNotFound, "alert not found")
	case errors.Is(err, alerts.ErrAlertResolved):
		respondError(w, http.StatusConflict, "alert already resolved")
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
