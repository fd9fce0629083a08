package auth

import (
	"context"

	"wasata/internal/common"
)

type RefreshTokenRepository interface {
	Store(ctx context.Context, token RefreshToken) error
	GetByToken(ctx context.Context, token string) (*RefreshToken, error)
	// Revoke reports false when the token was already revoked or unknown.
	Revoke(ctx context.Context, token string, revokedAtUnix int64) (bool, error)
	RevokeAll(ctx context.Context, userID common.UUID, revokedAtUnix int64) error
}
