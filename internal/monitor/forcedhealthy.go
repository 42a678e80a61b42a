package monitor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/slaguard-prototype/internal/infra"
	"go.uber.org/zap"
)

// ForcedHealthyManager хранит список имен, для которых сэмплер всегда отдает
// здоровый замер. L1 — потокобезопасная мапа в памяти (hot path сэмплера),
// L2 — set в Redis, общий для всех инстансов. Изменения разлетаются по Pub/Sub.
type ForcedHealthyManager struct {
	mu     sync.RWMutex
	names  map[string]struct{}
	rdb    *redis.Client
	logger *zap.Logger
	seed   []string
}

func NewForcedHealthyManager(rdb *redis.Client, logger *zap.Logger, seed []string) *ForcedHealthyManager {
	return &ForcedHealthyManager{
		names:  make(map[string]struct{}),
		rdb:    rdb,
		logger: logger.Named("forced-healthy"),
		seed:   seed,
	}
}

// Init прогревает кэши при старте: L1 из Redis, а пустой Redis — из конфига.
// SetNX-блокировка гарантирует, что сидирует только один инстанс.
func (m *ForcedHealthyManager) Init(ctx context.Context) error {
	names, err := m.rdb.SMembers(ctx, infra.RedisKeyForcedHealthySet).Result()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.names = make(map[string]struct{}, len(names)+len(m.seed))
	for _, n := range names {
		m.names[strings.ToLower(n)] = struct{}{}
	}
	for _, n := range m.seed {
		m.names[strings.ToLower(n)] = struct{}{}
	}
	m.mu.Unlock()

	if len(names) > 0 || len(m.seed) == 0 {
		return nil
	}

	ok, err := m.rdb.SetNX(ctx, infra.RedisKeyLockForcedWarmup, "processing", 30*time.Second).Result()
	if err != nil || !ok {
		return nil // Либо ошибка сети, либо другой инстанс уже греет кэш
	}

	m.logger.Info("seeding forced-healthy set from config", zap.Int("count", len(m.seed)))
	pipe := m.rdb.Pipeline()
	for _, n := range m.seed {
		pipe.SAdd(ctx, infra.RedisKeyForcedHealthySet, strings.ToLower(n))
	}
	_, err = pipe.Exec(ctx)
	return err
}

// StartListener держит "живучую" подписку на сигналы изменений списка.
// Формат сообщения — "name:on" / "name:off". При каждом переподключении
// заново синхронизирует L1 через Init.
func (m *ForcedHealthyManager) StartListener(ctx context.Context) {
	for {
		pubsub := m.rdb.Subscribe(ctx, infra.RedisChanForcedHealthy)

		if _, err := pubsub.Receive(ctx); err != nil {
			m.logger.Error("failed to subscribe", zap.Error(err))
			pubsub.Close()
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		if err := m.Init(ctx); err != nil {
			m.logger.Error("sync failed on reconnect", zap.Error(err))
		}

		ch := pubsub.Channel()

	loop:
		for {
			select {
			case <-ctx.Done():
				pubsub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					break loop // Канал закрыт, идем на переподключение
				}
				m.processSignal(msg.Payload)
			}
		}

		pubsub.Close()
		time.Sleep(time.Second)
	}
}

func (m *ForcedHealthyManager) processSignal(payload string) {
	name, action, ok := strings.Cut(payload, ":")
	if !ok || name == "" {
		m.logger.Error("invalid override signal format", zap.String("payload", payload))
		return
	}

	switch action {
	case "on":
		m.Mark(name)
	case "off":
		m.Unmark(name)
	default:
		m.logger.Error("unknown override action", zap.String("payload", payload))
	}
}

// IsForced — hot path сэмплера, только RAM. Сравнение регистронезависимое.
func (m *ForcedHealthyManager) IsForced(userName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.names[strings.ToLower(userName)]
	return ok
}

// Mark добавляет имя в локальный кэш
func (m *ForcedHealthyManager) Mark(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[strings.ToLower(name)] = struct{}{}
}

// Unmark убирает имя из локального кэша
func (m *ForcedHealthyManager) Unmark(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.names, strings.ToLower(name))
}

// List отдает снапшот списка (для операторской консоли).
func (m *ForcedHealthyManager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.names))
	for n := range m.names {
		out = append(out, n)
	}
	return out
}
