package infra

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "slaguard"
)

// Ключи для Sets (состояние)
const (
	// RedisKeyForcedHealthySet — множество имен, для которых сэмплер всегда отдает здоровый замер
	RedisKeyForcedHealthySet = RedisNamespace + ":overrides:forced_healthy_set"
	RedisKeyLockForcedWarmup = RedisNamespace + ":lock:warmup:forced_healthy"
)

// Каналы Pub/Sub (события)
const (
	// RedisChanForcedHealthy — трансляция изменений списка оверрайдов между инстансами
	RedisChanForcedHealthy = RedisNamespace + ":overrides:forced-healthy-signal"
	// RedisChanOrderStatus — трансляция переходов статуса заказа (для live-дашбордов)
	RedisChanOrderStatus = RedisNamespace + ":orders:status-signal"
)
