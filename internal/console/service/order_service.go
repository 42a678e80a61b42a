package service

import (
	"context"
	"fmt"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"go.uber.org/zap"
)

// OrderRepository описывает требования сервиса к хранилищу заказов
type OrderRepository interface {
	CreateOrder(ctx context.Context, o *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ListSamples(ctx context.Context, orderID string) ([]domain.MetricSample, error)
	ListAlerts(ctx context.Context, orderID string) ([]domain.AlertEvent, error)
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

// SampleRecorder — вход в движок оценки для ручной симуляции
type SampleRecorder interface {
	RecordSample(ctx context.Context, order *domain.Order, override *domain.SampleOverride) (*domain.MetricSample, error)
}

type OrderService struct {
	repo     OrderRepository
	recorder SampleRecorder
	logger   *zap.Logger
}

func NewOrderService(repo OrderRepository, recorder SampleRecorder, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		recorder: recorder,
		logger:   logger.Named("order-service"),
	}
}

// CreateOrder проверяет контракт и сохраняет заказ в статусе PENDING.
// Все четыре поля обязательны; при ошибке валидации состояние не меняется.
func (s *OrderService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	if req.UserName == "" || req.ServiceType == "" || req.SLAUptimePct == nil || req.SLALatencyMs == nil {
		return nil, fmt.Errorf("%w: user_name, service_type, sla_uptime_pct, sla_latency_ms are required",
			domain.ErrInvalidOrderPayload)
	}

	order := &domain.Order{
		UserName:     req.UserName,
		ServiceType:  req.ServiceType,
		SLAUptimePct: *req.SLAUptimePct,
		SLALatencyMs: *req.SLALatencyMs,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		s.logger.Error("failed to create order", zap.Error(err))
		return nil, fmt.Errorf("service: could not create order: %w", err)
	}

	s.logger.Info("new SLA order created",
		zap.String("order_id", order.ID),
		zap.String("user_name", order.UserName),
		zap.String("service_type", order.ServiceType))
	return order, nil
}

// ListOrders возвращает список всех заказов, свежие первыми.
func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		s.logger.Error("failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("service: could not fetch orders: %w", err)
	}

	// Гарантируем, что фронтенд получит пустой массив [], а не null
	if orders == nil {
		return []*domain.Order{}, nil
	}
	return orders, nil
}

// GetOrderDetail собирает карточку заказа: метрики по возрастанию,
// алерты по убыванию времени.
func (s *OrderService) GetOrderDetail(ctx context.Context, id string) (*domain.OrderDetail, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch order: %w", err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	metrics, err := s.repo.ListSamples(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch samples: %w", err)
	}
	alerts, err := s.repo.ListAlerts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch alerts: %w", err)
	}

	return &domain.OrderDetail{
		Order:   *order,
		Metrics: metrics,
		Alerts:  alerts,
	}, nil
}

// Simulate запускает ровно один цикл оценки с опциональным
// детерминированным замером.
func (s *OrderService) Simulate(ctx context.Context, id string, override *domain.SampleOverride) (*domain.MetricSample, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch order: %w", err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	sample, err := s.recorder.RecordSample(ctx, order, override)
	if err != nil {
		s.logger.Error("simulation failed", zap.String("order_id", id), zap.Error(err))
		return nil, err
	}
	return sample, nil
}

// DashboardStats отдает агрегат для операторской панели.
func (s *OrderService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	return s.repo.GetDashboardStats(ctx)
}
