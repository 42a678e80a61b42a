package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"go.uber.org/zap"
)

type fakeOrderRepo struct {
	orders  map[string]*domain.Order
	created []*domain.Order
	listErr error
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*domain.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, o *domain.Order) error {
	o.ID = "generated-id"
	o.Status = domain.StatusPending
	r.created = append(r.created, o)
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	return r.orders[id], nil
}

func (r *fakeOrderRepo) ListOrders(context.Context) ([]*domain.Order, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrderRepo) ListSamples(_ context.Context, orderID string) ([]domain.MetricSample, error) {
	return []domain.MetricSample{{OrderID: orderID, UptimePct: 99.5, LatencyMs: 120}}, nil
}

func (r *fakeOrderRepo) ListAlerts(_ context.Context, orderID string) ([]domain.AlertEvent, error) {
	return []domain.AlertEvent{{OrderID: orderID, Kind: domain.AlertSLABreach}}, nil
}

func (r *fakeOrderRepo) GetDashboardStats(context.Context) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{}, nil
}

type fakeSampleRecorder struct {
	lastOrder    *domain.Order
	lastOverride *domain.SampleOverride
}

func (f *fakeSampleRecorder) RecordSample(_ context.Context, o *domain.Order, ov *domain.SampleOverride) (*domain.MetricSample, error) {
	f.lastOrder = o
	f.lastOverride = ov
	return &domain.MetricSample{OrderID: o.ID, UptimePct: 99.9, LatencyMs: 200}, nil
}

func f64(v float64) *float64 { return &v }

func validRequest() domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		UserName:     "ravi",
		ServiceType:  "hosting",
		SLAUptimePct: f64(99.0),
		SLALatencyMs: f64(500),
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), &fakeSampleRecorder{}, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*domain.CreateOrderRequest)
	}{
		{"missing user_name", func(r *domain.CreateOrderRequest) { r.UserName = "" }},
		{"missing service_type", func(r *domain.CreateOrderRequest) { r.ServiceType = "" }},
		{"missing sla_uptime_pct", func(r *domain.CreateOrderRequest) { r.SLAUptimePct = nil }},
		{"missing sla_latency_ms", func(r *domain.CreateOrderRequest) { r.SLALatencyMs = nil }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			_, err := svc.CreateOrder(ctx, req)
			if !errors.Is(err, domain.ErrInvalidOrderPayload) {
				t.Fatalf("expected ErrInvalidOrderPayload, got %v", err)
			}
		})
	}
}

func TestCreateOrderStartsPending(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, &fakeSampleRecorder{}, zap.NewNop())

	order, err := svc.CreateOrder(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != domain.StatusPending {
		t.Fatalf("new order status = %s, want PENDING", order.Status)
	}
	if order.SLAUptimePct != 99.0 || order.SLALatencyMs != 500 {
		t.Fatalf("thresholds not preserved: %+v", order)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 persisted order, got %d", len(repo.created))
	}
}

func TestListOrdersNeverReturnsNil(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), &fakeSampleRecorder{}, zap.NewNop())

	orders, err := svc.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orders == nil {
		t.Fatal("empty listing must be [], not nil")
	}
	if len(orders) != 0 {
		t.Fatalf("expected empty slice, got %d items", len(orders))
	}
}

func TestGetOrderDetailNotFound(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), &fakeSampleRecorder{}, zap.NewNop())

	_, err := svc.GetOrderDetail(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestGetOrderDetailAggregates(t *testing.T) {
	order := &domain.Order{ID: "ord-1", UserName: "ravi", Status: domain.StatusOK}
	svc := NewOrderService(newFakeOrderRepo(order), &fakeSampleRecorder{}, zap.NewNop())

	detail, err := svc.GetOrderDetail(context.Background(), "ord-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ID != "ord-1" {
		t.Fatalf("detail order id = %s", detail.ID)
	}
	if len(detail.Metrics) != 1 || len(detail.Alerts) != 1 {
		t.Fatalf("aggregation mismatch: %d metrics, %d alerts", len(detail.Metrics), len(detail.Alerts))
	}
}

func TestSimulatePassesOverrideThrough(t *testing.T) {
	order := &domain.Order{ID: "ord-1"}
	rec := &fakeSampleRecorder{}
	svc := NewOrderService(newFakeOrderRepo(order), rec, zap.NewNop())

	override := &domain.SampleOverride{UptimePct: f64(42)}
	sample, err := svc.Simulate(context.Background(), "ord-1", override)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sample.OrderID != "ord-1" {
		t.Fatalf("sample order id = %s", sample.OrderID)
	}
	if rec.lastOverride != override {
		t.Fatal("override must reach the recorder untouched")
	}
}

func TestSimulateUnknownOrder(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), &fakeSampleRecorder{}, zap.NewNop())

	_, err := svc.Simulate(context.Background(), "ghost", nil)
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
