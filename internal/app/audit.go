package app

import (
	"context"
	"fmt"
	"time"

	"wasata/internal/common"
	"wasata/internal/domain/audit"
	"wasata/internal/domain/user"
	"wasata/internal/observability"
)

type Logger interface {
	Info(msg string)
	Error(msg string)
}

type Actor struct {
	ID   common.UUID
	Role user.Role
}

// auditTrail writes audit entries on a best-effort basis: a failed write is
// logged and never fails the calling operation.
type auditTrail struct {
	repo   audit.Repository
	logger Logger
}

func newAuditTrail(repo audit.Repository, logger Logger) auditTrail {
	return auditTrail{repo: repo, logger: logger}
}

func (a auditTrail) record(ctx context.Context, actor Actor, action, targetType, targetID string, details map[string]string) {
	if a.repo == nil {
		return
	}
	entry := audit.Entry{
		ActorRole:  string(actor.Role),
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		IP:         observability.ClientIPFromContext(ctx),
	}
	if !actor.ID.IsZero() {
		id := actor.ID
		entry.ActorID = &id
	}
	if requestID := observability.RequestIDFromContext(ctx); requestID != "" {
		if entry.Details == nil {
			entry.Details = map[string]string{}
		}
		entry.Details["request_id"] = requestID
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		logError(a.logger, fmt.Sprintf("audit write failed action=%s target=%s err=%v", action, targetID, err))
	}
}

func logInfo(logger Logger, msg string) {
	if logger != nil {
		logger.Info(msg)
	}
}

func logError(logger Logger, msg string) {
	if logger != nil {
		logger.Error(msg)
	}
}

func companyActor(id common.UUID) Actor {
	return Actor{ID: id, Role: user.RoleCompany}
}

func userActor(id common.UUID) Actor {
	return Actor{ID: id, Role: user.RoleUser}
}

func nowUnix() int64 {
	return time.Now().UTC().Unix()
}
