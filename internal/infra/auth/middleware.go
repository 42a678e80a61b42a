package auth

import (
	"context"
	"net/http"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"go.uber.org/zap"
)

// TokenValidator — интерфейс проверки токена, реализуется через embedding BaseValidator
type TokenValidator interface {
	VerifyToken(tokenStr string) (*domain.OperatorClaims, error)
}

// Тип для ключей в контексте (избегаем коллизий)
type ctxKey string

const (
	operatorIDKey ctxKey = "operator_id"
	roleKey       ctxKey = "operator_role"
)

func NewMiddleware(v TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := v.VerifyToken(authHeader)
			if err != nil {
				logger.Warn("auth failure", zap.Error(err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Прокидываем данные в контекст
			ctx := context.WithValue(r.Context(), operatorIDKey, claims.OperatorID)
			ctx = context.WithValue(ctx, roleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OperatorID достает ID авторизованного оператора из контекста запроса.
func OperatorID(ctx context.Context) string {
	if id, ok := ctx.Value(operatorIDKey).(string); ok {
		return id
	}
	return ""
}
