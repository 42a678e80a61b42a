package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/slaguard-prototype/internal/console/handler"
	"github.com/xela07ax/slaguard-prototype/internal/console/server"
	"github.com/xela07ax/slaguard-prototype/internal/console/service"
	"github.com/xela07ax/slaguard-prototype/internal/infra"
	"github.com/xela07ax/slaguard-prototype/internal/infra/auth"
	"github.com/xela07ax/slaguard-prototype/internal/monitor"
	"github.com/xela07ax/slaguard-prototype/internal/notify"
	"github.com/xela07ax/slaguard-prototype/internal/repository/postgres"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Контекст для управления жизненным циклом фоновых горутин
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Инфраструктура и ресурсы
	pingCtx, pingCancel := context.WithTimeout(appCtx, 5*time.Second)
	repo, err := postgres.New(pingCtx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		pingCancel()
		logger.Fatal("failed to create database pool", zap.Error(err))
	}
	if err := repo.Ping(pingCtx); err != nil {
		pingCancel()
		logger.Fatal("database unreachable", zap.Error(err))
	}
	if err := repo.EnsureSchema(pingCtx); err != nil {
		pingCancel()
		logger.Fatal("schema migration failed", zap.Error(err))
	}
	pingCancel()
	defer repo.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// 3. Control Plane: список принудительно здоровых имен
	fhm := monitor.NewForcedHealthyManager(rdb, logger, cfg.Monitor.ForcedHealthy)
	if err := fhm.Init(appCtx); err != nil {
		logger.Fatal("failed to init forced-healthy manager", zap.Error(err))
	}
	go fhm.StartListener(appCtx)

	// 4. Метрики
	reg := prometheus.NewRegistry()
	monMetrics := monitor.NewMetrics(reg)
	notifyMetrics := notify.NewMetrics(reg)

	// 5. Доставка алертов: транспорт -> Reliability -> асинхронный диспетчер
	var notifier notify.Notifier
	switch cfg.Notify.Mode {
	case "webhook":
		notifier = notify.NewWebhookNotifier(cfg.Notify.WebhookURL)
	case "smtp":
		notifier = notify.NewSMTPNotifier(cfg.Notify.SMTP)
	default:
		notifier = notify.NewConsoleNotifier(logger)
	}
	safeNotifier := notify.NewReliability(notifier, cfg.Notify.RateLimit, cfg.Notify.RateBurst, notifyMetrics)
	dispatcher := notify.NewDispatcher(safeNotifier, logger, notifyMetrics, cfg.Notify.Buffer)
	dispatcher.Start()

	// 6. Ядро оценки SLA
	sampler := monitor.NewSampler(fhm, cfg.Monitor.HealthyBias, nil)
	engine := monitor.NewEngine(
		repo,
		sampler,
		cfg.Monitor.Window,
		dispatcher,
		monitor.NewRedisBroadcaster(rdb),
		monMetrics,
		logger,
	)

	trigger := monitor.NewTriggerLoop(cfg.Monitor.Interval, repo, engine, monMetrics, logger)
	trigger.Start(appCtx)

	// 7. Аутентификация операторской консоли (RS256)
	pubKey, err := auth.ParseRSAPublicKey(cfg.Auth.PublicKey)
	if err != nil {
		logger.Fatal("invalid auth public key", zap.Error(err))
	}
	privKey, err := auth.ParseRSAPrivateKey(cfg.Auth.PrivateKey)
	if err != nil {
		logger.Fatal("invalid auth private key", zap.Error(err))
	}
	validator := auth.NewBaseValidator(pubKey)

	// 8. Слои консоли (Dependency Injection)
	orderService := service.NewOrderService(repo, engine, logger)
	authService := service.NewAuthService(repo, privKey, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)
	overrideService := service.NewOverrideService(rdb, logger)

	// Сидируем учетку оператора, иначе на свежей базе в консоль не войти
	if err := authService.EnsureOperator(appCtx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("failed to seed operator account", zap.Error(err))
	}

	consoleSrv := server.NewConsoleServer(
		cfg,
		logger,
		validator,
		reg,
		handler.NewAuthHandler(authService),
		handler.NewOrderHandler(orderService, logger),
		handler.NewDashboardHandler(orderService),
		handler.NewOverrideHandler(overrideService, logger),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      consoleSrv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("slaguard started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("slaguard stopping...")

	// Порядок важен: сначала глушим фоновый прогон, потом HTTP,
	// потом дожидаемся, пока диспетчер дольет очередь алертов
	trigger.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	dispatcher.Stop()
	logger.Info("slaguard exited properly")
}
