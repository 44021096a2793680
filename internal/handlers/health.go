package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/otcheredev/nurse-call-service/internal/cache"
	"github.com/otcheredev/nurse-call-service/internal/database"
)

type HealthHandler struct {
	cache cache.Cache
}

func NewHealthHandler(c cache.Cache) *HealthHandler {
	return &HealthHandler{cache: c}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	// Check database
	sqlDB, err := database.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		response.Services["database"] = "unhealthy"
		response.Status = "degraded"
	} else {
		response.Services["database"] = "healthy"
	}

	// Check cache
	if h.cache != nil {
		if _, err := h.cache.Exists(r.Context(), "health:ping"); err != nil {
			response.Services["cache"] = "unhealthy"
			response.Status = "degraded"
		} else {
			response.Services["cache"] = "healthy"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response)
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	// Check if service is ready to accept requests
	sqlDB, err := database.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		http.Error(w, "Service not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
