package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/dmarkov/weather-requests-api/internal/apperr"
	"github.com/dmarkov/weather-requests-api/internal/model"
	"github.com/dmarkov/weather-requests-api/internal/service"
	"github.com/gorilla/mux"
)

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// writeError maps a service failure to an HTTP status. Tagged failure
// kinds are caller errors; anything untagged is internal.
func writeError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case "":
		log.Printf("Internal error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// CreateRequest handles POST /api/v1/requests
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Location == "" || req.StartDate == "" || req.EndDate == "" {
		http.Error(w, "location, start_date and end_date are required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.CreateRequest(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// GetRequest handles GET /api/v1/requests/{id}
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	req, err := h.service.GetRequest(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if req == nil {
		http.Error(w, "weather request not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// ListRequests handles GET /api/v1/requests
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	listReq := model.ListRequest{
		LocationFilter: r.URL.Query().Get("location"),
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		listReq.Limit = limit
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			http.Error(w, "invalid offset parameter", http.StatusBadRequest)
			return
		}
		listReq.Offset = offset
	}

	resp, err := h.service.ListRequests(r.Context(), listReq)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateRequest handles PUT /api/v1/requests/{id}
func (h *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	var req model.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateRequest(r.Context(), id, req); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Weather request updated successfully"})
}

// DeleteRequest handles DELETE /api/v1/requests/{id}
func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteRequest(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Weather request deleted successfully"})
}

// ValidateLocation handles GET /api/v1/locations/validate
func (h *Handler) ValidateLocation(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "query parameter 'q' is required", http.StatusBadRequest)
		return
	}

	info, err := h.service.ResolveLocation(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func requestID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
