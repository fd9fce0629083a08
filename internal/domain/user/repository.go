package user

import (
	"context"

	"wasata/internal/common"
)

type Filter struct {
	Role    Role
	Query   string
	Blocked *bool
}

type Repository interface {
	Create(ctx context.Context, u User) (*User, error)
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id common.UUID, profile Profile) (*User, error)
	UpdatePassword(ctx context.Context, id common.UUID, passwordHash string) error
	SetCV(ctx context.Context, id common.UUID, cvURL string) (*User, error)
	SetBlocked(ctx context.Context, id common.UUID, blocked bool) (*User, error)
	Delete(ctx context.Context, id common.UUID) error
	List(ctx context.Context, filter Filter, page common.Page) ([]User, error)
	CountByRole(ctx context.Context) (map[Role]int, error)
}
