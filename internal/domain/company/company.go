package company

import (
	"context"
	"time"

	"wasata/internal/common"
	"wasata/internal/domain/approval"
)

type Company struct {
	ID              common.UUID     `json:"id"`
	OwnerID         common.UUID     `json:"owner_id"`
	Name            string          `json:"name"`
	CRNumber        string          `json:"cr_number"`
	City            string          `json:"city"`
	Industry        string          `json:"industry,omitempty"`
	Website         string          `json:"website,omitempty"`
	Description     string          `json:"description,omitempty"`
	LogoURL         string          `json:"logo_url,omitempty"`
	Status          approval.Status `json:"status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	ReviewedBy      *common.UUID    `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Public strips moderation details before a company is shown to visitors.
func (c Company) Public() Company {
	c.RejectionReason = ""
	c.ReviewedBy = nil
	c.ReviewedAt = nil
	return c
}

type Repository interface {
	Create(ctx context.Context, c Company) (*Company, error)
	Update(ctx context.Context, c Company) (*Company, error)
	GetByID(ctx context.Context, id common.UUID) (*Company, error)
	GetByOwner(ctx context.Context, ownerID common.UUID) (*Company, error)
	SetLogo(ctx context.Context, id common.UUID, logoURL string) (*Company, error)
	SetStatus(ctx context.Context, id common.UUID, from, to approval.Status, reason string, reviewerID common.UUID) (*Company, error)
	ListByStatus(ctx context.Context, status approval.Status, page common.Page) ([]Company, error)
	CountByStatus(ctx context.Context) (map[approval.Status]int, error)
}
