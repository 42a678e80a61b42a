package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/slaguard-prototype/internal/infra"
	"go.uber.org/zap"
)

// OverrideService управляет списком принудительно здоровых имен.
// Источник правды — set в Redis; локальные кэши инстансов обновляются
// сигналом в Pub/Sub (формат "name:on"/"name:off").
type OverrideService struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewOverrideService(rdb *redis.Client, logger *zap.Logger) *OverrideService {
	return &OverrideService{
		rdb:    rdb,
		logger: logger.Named("override-service"),
	}
}

func (s *OverrideService) List(ctx context.Context) ([]string, error) {
	names, err := s.rdb.SMembers(ctx, infra.RedisKeyForcedHealthySet).Result()
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch overrides: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *OverrideService) Add(ctx context.Context, name string) error {
	return s.toggle(ctx, name, true)
}

func (s *OverrideService) Remove(ctx context.Context, name string) error {
	return s.toggle(ctx, name, false)
}

// toggle — унифицированный механизм: обновляем Redis и шлем сигнал.
func (s *OverrideService) toggle(ctx context.Context, name string, enabled bool) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("service: override name is required")
	}

	// 1. Persistence Layer (Redis set)
	var err error
	action := "off"
	if enabled {
		err = s.rdb.SAdd(ctx, infra.RedisKeyForcedHealthySet, name).Err()
		action = "on"
	} else {
		err = s.rdb.SRem(ctx, infra.RedisKeyForcedHealthySet, name).Err()
	}
	if err != nil {
		s.logger.Error("failed to update override set",
			zap.String("name", name), zap.String("action", action), zap.Error(err))
		return fmt.Errorf("service: could not update override: %w", err)
	}

	// 2. Real-time Signaling
	payload := fmt.Sprintf("%s:%s", name, action)
	if err := s.rdb.Publish(ctx, infra.RedisChanForcedHealthy, payload).Err(); err != nil {
		s.logger.Warn("override signal delivery failed",
			zap.String("name", name), zap.Error(err))
	} else {
		s.logger.Info("forced-healthy override toggled",
			zap.String("name", name), zap.Bool("enabled", enabled))
	}

	return nil
}
