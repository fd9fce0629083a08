package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wasata/internal/common"
	"wasata/internal/domain/audit"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry audit.Entry) error {
	if entry.ID == "" {
		entry.ID = common.NewUUID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	details := entry.Details
	if details == nil {
		details = map[string]string{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to encode audit details", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO audit_logs (id, actor_id, actor_role, action, target_type, target_id, details, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.ActorID, entry.ActorRole, entry.Action, entry.TargetType, entry.TargetID, payload, entry.IP, entry.CreatedAt)
	if err != nil {
		return mapError(err, "", "", "failed to write audit log")
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, filter audit.Filter, page common.Page) ([]audit.Entry, error) {
	var where []string
	var args []any
	if filter.ActorID != nil {
		args = append(args, *filter.ActorID)
		where = append(where, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.TargetType != "" {
		args = append(args, filter.TargetType)
		where = append(where, fmt.Sprintf("target_type = $%d", len(args)))
	}
	query := `SELECT id, actor_id, actor_role, action, target_type, target_id, details, ip, created_at FROM audit_logs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, page.Limit, page.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "", "", "failed to list audit logs")
	}
	defer rows.Close()
	items := []audit.Entry{}
	for rows.Next() {
		var entry audit.Entry
		var actorID sql.NullString
		var details []byte
		if err := rows.Scan(&entry.ID, &actorID, &entry.ActorRole, &entry.Action, &entry.TargetType, &entry.TargetID, &details, &entry.IP, &entry.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan audit log", err)
		}
		entry.ActorID = nullUUID(actorID)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, common.NewError(common.CodeInternal, "failed to decode audit details", err)
			}
		}
		items = append(items, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list audit logs", err)
	}
	return items, nil
}
