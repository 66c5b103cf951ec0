package auth

import (
	"context"

	"studynotes/internal/domain/models"
)

// JWTVerifier checks bearer tokens and resolves the user they identify.
type JWTVerifier interface {
	// VerifyToken validates signature, expiry and role. Any failure is
	// reported as domain.ErrUnauthorized.
	VerifyToken(ctx context.Context, tokenString string) (*models.User, error)

	// Close releases any resources held by the verifier.
	Close() error
}
