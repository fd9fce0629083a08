package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"wasata/internal/common"
	"wasata/internal/domain/user"
)

const userColumns = `id, name, email, phone, password_hash, role, disability_type, city, bio, skills, cv_url, language, blocked, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.DisabilityType, &u.City, &u.Bio, pq.Array(&u.Skills), &u.CVURL, &u.Language, &u.Blocked, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (*user.User, error) {
	u.ID = common.NewUUID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Skills == nil {
		u.Skills = []string{}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.DisabilityType, u.City, u.Bio, pq.Array(u.Skills), u.CVURL, u.Language, u.Blocked, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "user not found", "email already registered", "failed to create user")
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "user not found", "", "failed to load user")
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, mapError(err, "user not found", "", "failed to load user")
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id common.UUID, profile user.Profile) (*user.User, error) {
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	result, err := r.db.ExecContext(ctx, `UPDATE users SET name = $1, phone = $2, disability_type = $3, city = $4, bio = $5, skills = $6, language = $7, updated_at = $8 WHERE id = $9`,
		profile.Name, profile.Phone, profile.DisabilityType, profile.City, profile.Bio, pq.Array(profile.Skills), profile.Language, time.Now().UTC(), id)
	if err != nil {
		return nil, mapError(err, "user not found", "", "failed to update profile")
	}
	if err := expectAffected(result, "user not found"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id common.UUID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return mapError(err, "user not found", "", "failed to update password")
	}
	return expectAffected(result, "user not found")
}

func (r *UserRepository) SetCV(ctx context.Context, id common.UUID, cvURL string) (*user.User, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET cv_url = $1, updated_at = $2 WHERE id = $3`, cvURL, time.Now().UTC(), id)
	if err != nil {
		return nil, mapError(err, "user not found", "", "failed to update cv")
	}
	if err := expectAffected(result, "user not found"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) SetBlocked(ctx context.Context, id common.UUID, blocked bool) (*user.User, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET blocked = $1, updated_at = $2 WHERE id = $3`, blocked, time.Now().UTC(), id)
	if err != nil {
		return nil, mapError(err, "user not found", "", "failed to update user")
	}
	if err := expectAffected(result, "user not found"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "user not found", "", "failed to delete user")
	}
	return expectAffected(result, "user not found")
}

func (r *UserRepository) List(ctx context.Context, filter user.Filter, page common.Page) ([]user.User, error) {
	var where []string
	var args []any
	if filter.Role != "" {
		args = append(args, filter.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, containsPattern(q))
		where = append(where, fmt.Sprintf(`(name ILIKE $%d ESCAPE '\' OR email ILIKE $%d ESCAPE '\')`, len(args), len(args)))
	}
	if filter.Blocked != nil {
		args = append(args, *filter.Blocked)
		where = append(where, fmt.Sprintf("blocked = $%d", len(args)))
	}
	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, page.Limit, page.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "user not found", "", "failed to list users")
	}
	defer rows.Close()
	items := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan user", err)
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list users", err)
	}
	return items, nil
}

func (r *UserRepository) CountByRole(ctx context.Context) (map[user.Role]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, mapError(err, "", "", "failed to count users")
	}
	defer rows.Close()
	counts := map[user.Role]int{}
	for rows.Next() {
		var role user.Role
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan user count", err)
		}
		counts[role] = n
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count users", err)
	}
	return counts, nil
}
