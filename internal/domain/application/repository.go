package application

import (
	"context"

	"wasata/internal/common"
)

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByJobAndUser(ctx context.Context, jobID, userID common.UUID) (*Application, error)
	ListByUser(ctx context.Context, userID common.UUID) ([]Application, error)
	ListByJob(ctx context.Context, jobID common.UUID) ([]Application, error)
	UpdateStatus(ctx context.Context, id common.UUID, from, to Status) (*Application, error)
	Count(ctx context.Context) (int, error)
}
