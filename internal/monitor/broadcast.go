package monitor

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"github.com/xela07ax/slaguard-prototype/internal/infra"
)

// RedisBroadcaster публикует переходы статуса в общий канал.
// Формат сигнала — "order_id:STATUS", как и у остальных сигналов проекта.
type RedisBroadcaster struct {
	rdb *redis.Client
}

func NewRedisBroadcaster(rdb *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{rdb: rdb}
}

func (b *RedisBroadcaster) PublishStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	payload := fmt.Sprintf("%s:%s", orderID, status)
	return b.rdb.Publish(ctx, infra.RedisChanOrderStatus, payload).Err()
}
