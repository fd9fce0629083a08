package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"wasata/internal/common"
	"wasata/internal/domain/application"
)

const applicationSelect = `SELECT a.id, a.job_id, j.title, a.user_id, a.cv_url, a.cover_letter, a.snapshot, a.status, a.created_at, a.updated_at
	FROM applications a JOIN jobs j ON j.id = a.job_id`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var app application.Application
	var snapshot []byte
	if err := row.Scan(&app.ID, &app.JobID, &app.JobTitle, &app.UserID, &app.CVURL, &app.CoverLetter, &snapshot, &app.Status, &app.CreatedAt, &app.UpdatedAt); err != nil {
		return nil, err
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &app.Snapshot); err != nil {
			return nil, err
		}
	}
	return &app, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	snapshot, err := json.Marshal(app.Snapshot)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode snapshot", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO applications (id, job_id, user_id, cv_url, cover_letter, snapshot, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		app.ID, app.JobID, app.UserID, app.CVURL, app.CoverLetter, snapshot, app.Status, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "application not found", "already applied", "failed to create application")
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	app, err := scanApplication(r.db.QueryRowContext(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, mapError(err, "application not found", "", "failed to load application")
	}
	return app, nil
}

func (r *ApplicationRepository) FindByJobAndUser(ctx context.Context, jobID, userID common.UUID) (*application.Application, error) {
	app, err := scanApplication(r.db.QueryRowContext(ctx, applicationSelect+` WHERE a.job_id = $1 AND a.user_id = $2`, jobID, userID))
	if err != nil {
		return nil, mapError(err, "application not found", "", "failed to load application")
	}
	return app, nil
}

func (r *ApplicationRepository) list(ctx context.Context, query string, arg any) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapError(err, "", "", "failed to list applications")
	}
	defer rows.Close()
	items := []application.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	return items, nil
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID common.UUID) ([]application.Application, error) {
	return r.list(ctx, applicationSelect+` WHERE a.user_id = $1 ORDER BY a.created_at DESC`, userID)
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID common.UUID) ([]application.Application, error) {
	return r.list(ctx, applicationSelect+` WHERE a.job_id = $1 ORDER BY a.created_at DESC`, jobID)
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, from, to application.Status) (*application.Application, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`, to, time.Now().UTC(), id, from)
	if err != nil {
		return nil, mapError(err, "application not found", "", "failed to update application")
	}
	if err := expectTransition(ctx, r.db, result, "applications", id, "application not found", "application status changed"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n); err != nil {
		return 0, mapError(err, "", "", "failed to count applications")
	}
	return n, nil
}
