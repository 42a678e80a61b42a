package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"go.uber.org/zap"
)

// OrderWorkflow Описываем, что нам нужно от сервиса
type OrderWorkflow interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrderDetail(ctx context.Context, id string) (*domain.OrderDetail, error)
	Simulate(ctx context.Context, id string, override *domain.SampleOverride) (*domain.MetricSample, error)
}

type OrderHandler struct {
	service OrderWorkflow
	logger  *zap.Logger
}

func NewOrderHandler(s OrderWorkflow, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{service: s, logger: logger.Named("order-handler")}
}

// Routes Маршруты для Chi
func (h *OrderHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{orderID}", h.Get)
	return r
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrderPayload) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("order creation failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("order listing failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		http.Error(w, "orderID is required", http.StatusBadRequest)
		return
	}

	detail, err := h.service.GetOrderDetail(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		h.logger.Error("order fetch failed", zap.String("order_id", orderID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// Simulate — ручной запуск одного цикла оценки.
// Тело опционально: переданные поля подменяют замер как есть.
func (h *OrderHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		http.Error(w, "orderID is required", http.StatusBadRequest)
		return
	}

	var override *domain.SampleOverride
	if r.Body != nil && r.ContentLength != 0 {
		override = &domain.SampleOverride{}
		if err := json.NewDecoder(r.Body).Decode(override); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		// Тело без полей ({}) — это не оверрайд, а обычный случайный замер
		if override.UptimePct == nil && override.LatencyMs == nil {
			override = nil
		}
	}

	sample, err := h.service.Simulate(r.Context(), orderID, override)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		h.logger.Error("simulation failed", zap.String("order_id", orderID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sample)
}
