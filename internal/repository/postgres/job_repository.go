package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"wasata/internal/common"
	"wasata/internal/domain/approval"
	"wasata/internal/domain/job"
)

const jobSelect = `SELECT j.id, j.company_id, c.name, j.title, j.description, j.requirements, j.location, j.employment_type,
	j.salary_min, j.salary_max, j.disability_types, j.accessibility_features, j.status, j.rejection_reason, j.closed, j.created_at, j.updated_at
	FROM jobs j JOIN companies c ON c.id = j.company_id`

const publicJobCondition = `j.status = 'approved' AND j.closed = FALSE AND c.status = 'approved'`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func scanJob(row rowScanner) (*job.Job, error) {
	var j job.Job
	var salaryMin, salaryMax sql.NullInt64
	if err := row.Scan(&j.ID, &j.CompanyID, &j.CompanyName, &j.Title, &j.Description, pq.Array(&j.Requirements), &j.Location, &j.EmploymentType,
		&salaryMin, &salaryMax, pq.Array(&j.DisabilityTypes), pq.Array(&j.AccessibilityFeatures), &j.Status, &j.RejectionReason, &j.Closed, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	j.SalaryMin = nullInt(salaryMin)
	j.SalaryMax = nullInt(salaryMax)
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	if j.DisabilityTypes == nil {
		j.DisabilityTypes = []string{}
	}
	if j.AccessibilityFeatures == nil {
		j.AccessibilityFeatures = []string{}
	}
	return &j, nil
}

func nullInt(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	n := int(value.Int64)
	return &n
}

func (r *JobRepository) scanAll(rows *sql.Rows) ([]job.Job, error) {
	defer rows.Close()
	items := []job.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job", err)
		}
		items = append(items, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	return items, nil
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	j.ID = common.NewUUID()
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO jobs (id, company_id, title, description, requirements, location, employment_type, salary_min, salary_max, disability_types, accessibility_features, status, rejection_reason, closed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		j.ID, j.CompanyID, j.Title, j.Description, pq.Array(j.Requirements), j.Location, j.EmploymentType, j.SalaryMin, j.SalaryMax,
		pq.Array(j.DisabilityTypes), pq.Array(j.AccessibilityFeatures), j.Status, j.RejectionReason, j.Closed, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "job not found", "", "failed to create job")
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE jobs SET title = $1, description = $2, requirements = $3, location = $4, employment_type = $5, salary_min = $6, salary_max = $7,
		disability_types = $8, accessibility_features = $9, status = $10, rejection_reason = $11, updated_at = $12
		WHERE id = $13 AND company_id = $14`,
		j.Title, j.Description, pq.Array(j.Requirements), j.Location, j.EmploymentType, j.SalaryMin, j.SalaryMax,
		pq.Array(j.DisabilityTypes), pq.Array(j.AccessibilityFeatures), j.Status, j.RejectionReason, time.Now().UTC(), j.ID, j.CompanyID)
	if err != nil {
		return nil, mapError(err, "job not found", "", "failed to update job")
	}
	if err := expectAffected(result, "job not found"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	j, err := scanJob(r.db.QueryRowContext(ctx, jobSelect+` WHERE j.id = $1`, id))
	if err != nil {
		return nil, mapError(err, "job not found", "", "failed to load job")
	}
	return j, nil
}

func (r *JobRepository) GetPublic(ctx context.Context, id common.UUID) (*job.Job, error) {
	j, err := scanJob(r.db.QueryRowContext(ctx, jobSelect+` WHERE j.id = $1 AND `+publicJobCondition, id))
	if err != nil {
		return nil, mapError(err, "job not found", "", "failed to load job")
	}
	return j, nil
}

func (r *JobRepository) SetClosed(ctx context.Context, id common.UUID, closed bool) (*job.Job, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE jobs SET closed = $1, updated_at = $2 WHERE id = $3`, closed, time.Now().UTC(), id)
	if err != nil {
		return nil, mapError(err, "job not found", "", "failed to update job")
	}
	if err := expectAffected(result, "job not found"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *JobRepository) SetStatus(ctx context.Context, id common.UUID, from, to approval.Status, reason string) (*job.Job, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE jobs SET status = $1, rejection_reason = $2, updated_at = $3 WHERE id = $4 AND status = $5`, to, reason, time.Now().UTC(), id, from)
	if err != nil {
		return nil, mapError(err, "job not found", "", "failed to update job status")
	}
	if err := expectTransition(ctx, r.db, result, "jobs", id, "job not found", "approval status changed"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *JobRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "job not found", "", "failed to delete job")
	}
	return expectAffected(result, "job not found")
}

func (r *JobRepository) ListPublic(ctx context.Context, filter job.Filter, page common.Page) ([]job.Job, error) {
	where := []string{publicJobCondition}
	var args []any
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, containsPattern(q))
		where = append(where, fmt.Sprintf(`(j.title ILIKE $%d ESCAPE '\' OR j.description ILIKE $%d ESCAPE '\')`, len(args), len(args)))
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		args = append(args, containsPattern(loc))
		where = append(where, fmt.Sprintf(`j.location ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter.EmploymentType != "" {
		args = append(args, filter.EmploymentType)
		where = append(where, fmt.Sprintf("j.employment_type = $%d", len(args)))
	}
	if dt := strings.TrimSpace(filter.DisabilityType); dt != "" {
		args = append(args, dt)
		where = append(where, fmt.Sprintf("$%d = ANY(j.disability_types)", len(args)))
	}
	args = append(args, page.Limit, page.Offset)
	query := jobSelect + ` WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(` ORDER BY j.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "", "", "failed to list jobs")
	}
	return r.scanAll(rows)
}

func (r *JobRepository) ListByCompany(ctx context.Context, companyID common.UUID) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, jobSelect+` WHERE j.company_id = $1 ORDER BY j.created_at DESC`, companyID)
	if err != nil {
		return nil, mapError(err, "", "", "failed to list company jobs")
	}
	return r.scanAll(rows)
}

func (r *JobRepository) ListByStatus(ctx context.Context, status approval.Status, page common.Page) ([]job.Job, error) {
	var rows *sql.Rows
	var err error
	if status != "" {
		rows, err = r.db.QueryContext(ctx, jobSelect+` WHERE j.status = $1 ORDER BY j.created_at DESC LIMIT $2 OFFSET $3`, status, page.Limit, page.Offset)
	} else {
		rows, err = r.db.QueryContext(ctx, jobSelect+` ORDER BY j.created_at DESC LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, mapError(err, "", "", "failed to list jobs")
	}
	return r.scanAll(rows)
}

func (r *JobRepository) CountByStatus(ctx context.Context) (map[approval.Status]int, error) {
	return countByStatus(ctx, r.db, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
}
