package service

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type OperatorProvider interface {
	GetOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error)
	UpsertOperator(ctx context.Context, op *domain.Operator) error
}

type AuthService struct {
	repo       OperatorProvider
	privateKey *rsa.PrivateKey
	tokenTTL   time.Duration
	bcryptCost int
}

func NewAuthService(repo OperatorProvider, privateKey *rsa.PrivateKey, tokenTTL time.Duration, bcryptCost int) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour * 24
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:       repo,
		privateKey: privateKey,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// EnsureOperator сидирует учетку на свежей базе, чтобы логин в консоль
// был возможен сразу после старта. Пустой пароль отключает сидирование.
func (s *AuthService) EnsureOperator(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash operator password: %w", err)
	}

	return s.repo.UpsertOperator(ctx, &domain.Operator{
		Username:     username,
		PasswordHash: string(hash),
		Role:         "admin",
	})
}

func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
	// 1. Аутентификация (Источник правды — Postgres)
	op, err := s.repo.GetOperatorByUsername(ctx, username)
	if err != nil || op == nil {
		return nil, errors.New("invalid credentials")
	}

	// 2. Проверка пароля (используем bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	// 3. Формирование Claims
	expiresAt := time.Now().Add(s.tokenTTL)
	claims := &domain.OperatorClaims{
		OperatorID: op.ID,
		Role:       op.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "slaguard-console",
			Subject:   op.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	// 4. Подпись токена ЗАКРЫТЫМ КЛЮЧОМ (RS256)
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &domain.TokenResponse{
		AccessToken: signedToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
	}, nil
}
