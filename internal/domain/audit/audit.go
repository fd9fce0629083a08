package audit

import (
	"context"
	"time"

	"wasata/internal/common"
)

type Entry struct {
	ID         common.UUID       `json:"id"`
	ActorID    *common.UUID      `json:"actor_id,omitempty"`
	ActorRole  string            `json:"actor_role,omitempty"`
	Action     string            `json:"action"`
	TargetType string            `json:"target_type,omitempty"`
	TargetID   string            `json:"target_id,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	IP         string            `json:"ip,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

type Filter struct {
	ActorID    *common.UUID
	Action     string
	TargetType string
}

type Repository interface {
	Create(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter Filter, page common.Page) ([]Entry, error)
}
