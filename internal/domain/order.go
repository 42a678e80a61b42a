package domain

import (
	"errors"
	"time"
)

type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"  // Заказ создан, замеров еще нет
	StatusOK       OrderStatus = "OK"       // Все замеры окна в пределах SLA
	StatusDegraded OrderStatus = "DEGRADED" // Зарезервирован под частичное нарушение (пока не выставляется)
	StatusBreached OrderStatus = "BREACHED" // В окне есть хотя бы одно нарушение
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidOrderPayload = errors.New("invalid order payload")
)

// Order — заказ клиента с двумя порогами SLA.
// Status всегда производная от последней оценки окна замеров,
// вручную он не меняется нигде, кроме создания (PENDING).
type Order struct {
	ID           string      `json:"id"` // UUID
	UserName     string      `json:"user_name"`
	ServiceType  string      `json:"service_type"`
	SLAUptimePct float64     `json:"sla_uptime_pct"` // Минимально допустимый uptime, %
	SLALatencyMs float64     `json:"sla_latency_ms"` // Максимально допустимая задержка, мс
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// MetricSample — один замер по заказу. Immutable, append-only.
type MetricSample struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Timestamp time.Time `json:"timestamp"`
	UptimePct float64   `json:"uptime_pct"`
	LatencyMs float64   `json:"latency_ms"`
}

// SampleOverride — детерминированная подмена замера для ручной симуляции.
// nil-поле означает "возьми дефолт" (99.0 / 200).
type SampleOverride struct {
	UptimePct *float64 `json:"uptime_pct,omitempty"`
	LatencyMs *float64 `json:"latency_ms,omitempty"`
}

// CreateOrderRequest — входной контракт POST /orders.
// Указатели нужны, чтобы отличить "поле не передали" от нулевого значения.
type CreateOrderRequest struct {
	UserName     string   `json:"user_name"`
	ServiceType  string   `json:"service_type"`
	SLAUptimePct *float64 `json:"sla_uptime_pct"`
	SLALatencyMs *float64 `json:"sla_latency_ms"`
}

// OrderDetail — карточка заказа для фронта: метрики по возрастанию,
// алерты по убыванию времени.
type OrderDetail struct {
	Order
	Metrics []MetricSample `json:"metrics"`
	Alerts  []AlertEvent   `json:"alerts"`
}
