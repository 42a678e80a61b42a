package domain

import "time"

type AlertKind string

const (
	AlertSLABreach AlertKind = "SLA_BREACH" // Вход в нарушение (PENDING/OK -> BREACHED)
	AlertRecovery  AlertKind = "RECOVERY"   // Выход из нарушения (BREACHED -> OK)
)

// AlertEvent создается только движком переходов, никогда не мутируется.
type AlertEvent struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      AlertKind `json:"kind"`
	Details   string    `json:"details"`
}
