package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xela07ax/slaguard-prototype/internal/console/handler"
	"github.com/xela07ax/slaguard-prototype/internal/infra"
	"github.com/xela07ax/slaguard-prototype/internal/infra/auth"
	"go.uber.org/zap"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	// Интерфейс для проверки токенов (RS256)
	authValidator auth.TokenValidator

	// Реестр метрик для /metrics (инжектится из main)
	registry *prometheus.Registry

	// Обработчики бизнес-доменов
	authHandler     *handler.AuthHandler      // /auth/token
	orderHandler    *handler.OrderHandler     // /orders, /simulate
	dashHandler     *handler.DashboardHandler // /v1/dashboard
	overrideHandler *handler.OverrideHandler  // /v1/overrides
}

// NewConsoleServer инициализирует HTTP-сервер со всеми зависимостями
func NewConsoleServer(
	cfg *infra.Config,
	logger *zap.Logger,
	validator auth.TokenValidator,
	registry *prometheus.Registry,
	authH *handler.AuthHandler,
	orderH *handler.OrderHandler,
	dashH *handler.DashboardHandler,
	overrideH *handler.OverrideHandler,
) *ConsoleServer {
	s := &ConsoleServer{
		router:          chi.NewRouter(),
		logger:          logger.Named("console-api"),
		cfg:             cfg,
		authValidator:   validator,
		registry:        registry,
		authHandler:     authH,
		orderHandler:    orderH,
		dashHandler:     dashH,
		overrideHandler: overrideH,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ (Открыты для всех) ---
	r.Group(func(r chi.Router) {
		// Логин должен быть доступен без токена
		r.Post("/auth/token", s.authHandler.Login)

		// Healthcheck для мониторинга
		r.Get("/health", s.health)

		// Клиентский контур: заказы и ручная симуляция
		r.Mount("/orders", s.orderHandler.Routes())
		r.Post("/simulate/{orderID}", s.orderHandler.Simulate)

		if s.registry != nil {
			r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
		}
	})

	// --- 3. ЗАЩИЩЕННЫЙ ПЕРИМЕТР (Требуют RS256 токен) ---
	r.Group(func(r chi.Router) {
		// Подключаем универсальный Middleware только для этой группы
		r.Use(auth.NewMiddleware(s.authValidator, s.logger))

		// Dashboard & Stats
		r.Get("/v1/dashboard/stats", s.dashHandler.GetStats)

		// Управление списком принудительно здоровых имен
		r.Mount("/v1/overrides", s.overrideHandler.Routes())
	})
}

func (s *ConsoleServer) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
