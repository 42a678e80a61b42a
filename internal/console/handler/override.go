package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OverrideManager Описываем, что нам нужно от сервиса
type OverrideManager interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
}

type overrideRequest struct {
	Name string `json:"name"`
}

type OverrideHandler struct {
	service OverrideManager
	logger  *zap.Logger
}

func NewOverrideHandler(s OverrideManager, logger *zap.Logger) *OverrideHandler {
	return &OverrideHandler{service: s, logger: logger.Named("override-handler")}
}

// Routes Маршруты для Chi
func (h *OverrideHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Add)
	r.Delete("/{name}", h.Remove)
	return r
}

func (h *OverrideHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list overrides", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"forced_healthy": names})
}

func (h *OverrideHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	if err := h.service.Add(r.Context(), req.Name); err != nil {
		h.logger.Error("failed to add override", zap.String("name", req.Name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OverrideHandler) Remove(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	if err := h.service.Remove(r.Context(), name); err != nil {
		h.logger.Error("failed to remove override", zap.String("name", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
