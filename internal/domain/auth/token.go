package auth

import (
	"time"

	"wasata/internal/common"
)

// RefreshToken carries the raw token value; repositories persist only its
// SHA-256 digest.
type RefreshToken struct {
	ID        common.UUID
	UserID    common.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// Usable reports why the token can no longer be exchanged, or nil.
func (t RefreshToken) Usable(now time.Time) error {
	if t.RevokedAt != nil {
		return common.NewError(common.CodeUnauthorized, "refresh token revoked", nil)
	}
	if t.ExpiresAt.Before(now) {
		return common.NewError(common.CodeUnauthorized, "refresh token expired", nil)
	}
	return nil
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}
