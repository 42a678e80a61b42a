package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
)

// DashboardService Описываем, что нам нужно от сервиса
type DashboardService interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

type DashboardHandler struct {
	service DashboardService
}

func NewDashboardHandler(s DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
