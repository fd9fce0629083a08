package job

import (
	"context"

	"wasata/internal/common"
	"wasata/internal/domain/approval"
)

type Repository interface {
	Create(ctx context.Context, j Job) (*Job, error)
	Update(ctx context.Context, j Job) (*Job, error)
	GetByID(ctx context.Context, id common.UUID) (*Job, error)
	GetPublic(ctx context.Context, id common.UUID) (*Job, error)
	SetClosed(ctx context.Context, id common.UUID, closed bool) (*Job, error)
	SetStatus(ctx context.Context, id common.UUID, from, to approval.Status, reason string) (*Job, error)
	Delete(ctx context.Context, id common.UUID) error
	ListPublic(ctx context.Context, filter Filter, page common.Page) ([]Job, error)
	ListByCompany(ctx context.Context, companyID common.UUID) ([]Job, error)
	ListByStatus(ctx context.Context, status approval.Status, page common.Page) ([]Job, error)
	CountByStatus(ctx context.Context) (map[approval.Status]int, error)
}
