package postgres

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	"wasata/internal/common"
	"wasata/internal/domain/auth"
)

type RefreshTokenRepository struct {
	db *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Store(ctx context.Context, token auth.RefreshToken) error {
	hash := hashToken(token.Token)
	_, err := r.db.ExecContext(ctx, `INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		token.ID, token.UserID, hash, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return mapError(err, "", "refresh token already stored", "failed to store refresh token")
	}
	return nil
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	hash := hashToken(token)
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, token_hash, expires_at, created_at, revoked_at FROM refresh_tokens WHERE token_hash = $1`, hash)
	var rt auth.RefreshToken
	var tokenHash string
	var revokedAt sql.NullTime
	if err := row.Scan(&rt.ID, &rt.UserID, &tokenHash, &rt.ExpiresAt, &rt.CreatedAt, &revokedAt); err != nil {
		return nil, mapError(err, "refresh token not found", "", "failed to load refresh token")
	}
	rt.Token = token
	rt.RevokedAt = nullTime(revokedAt)
	return &rt, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string, revokedAtUnix int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked_at = $1 WHERE token_hash = $2 AND revoked_at IS NULL`, time.Unix(revokedAtUnix, 0).UTC(), hashToken(token))
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to revoke refresh token", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to revoke refresh token", err)
	}
	return affected == 1, nil
}

func (r *RefreshTokenRepository) RevokeAll(ctx context.Context, userID common.UUID, revokedAtUnix int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL`, time.Unix(revokedAtUnix, 0).UTC(), userID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to revoke refresh tokens", err)
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
