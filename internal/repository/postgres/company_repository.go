package postgres

import (
	"context"
	"database/sql"
	"time"

	"wasata/internal/common"
	"wasata/internal/domain/approval"
	"wasata/internal/domain/company"
)

const companyColumns = `id, owner_id, name, cr_number, city, industry, website, description, logo_url, status, rejection_reason, reviewed_by, reviewed_at, created_at, updated_at`

type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func scanCompany(row rowScanner) (*company.Company, error) {
	var c company.Company
	var reviewedBy sql.NullString
	var reviewedAt sql.NullTime
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.CRNumber, &c.City, &c.Industry, &c.Website, &c.Description, &c.LogoURL, &c.Status, &c.RejectionReason, &reviewedBy, &reviewedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ReviewedBy = nullUUID(reviewedBy)
	c.ReviewedAt = nullTime(reviewedAt)
	return &c, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c company.Company) (*company.Company, error) {
	c.ID = common.NewUUID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO companies (id, owner_id, name, cr_number, city, industry, website, description, logo_url, status, rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.OwnerID, c.Name, c.CRNumber, c.City, c.Industry, c.Website, c.Description, c.LogoURL, c.Status, c.RejectionReason, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "company not found", "company already exists", "failed to create company")
	}
	return &c, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c company.Company) (*company.Company, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE companies SET name = $1, cr_number = $2, city = $3, industry = $4, website = $5, description = $6, status = $7, rejection_reason = $8, updated_at = $9
		WHERE id = $10 AND owner_id = $11`,
		c.Name, c.CRNumber, c.City, c.Industry, c.Website, c.Description, c.Status, c.RejectionReason, time.Now().UTC(), c.ID, c.OwnerID)
	if err != nil {
		return nil, mapError(err, "company not found", "commercial registration number already registered", "failed to update company")
	}
	if err := expectAffected(result, "company not found"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, c.ID)
}

func (r *CompanyRepository) GetByID(ctx context.Context, id common.UUID) (*company.Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "company not found", "", "failed to load company")
	}
	return c, nil
}

func (r *CompanyRepository) GetByOwner(ctx context.Context, ownerID common.UUID) (*company.Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE owner_id = $1`, ownerID))
	if err != nil {
		return nil, mapError(err, "company not found", "", "failed to load company")
	}
	return c, nil
}

func (r *CompanyRepository) SetLogo(ctx context.Context, id common.UUID, logoURL string) (*company.Company, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE companies SET logo_url = $1, updated_at = $2 WHERE id = $3`, logoURL, time.Now().UTC(), id)
	if err != nil {
		return nil, mapError(err, "company not found", "", "failed to update logo")
	}
	if err := expectAffected(result, "company not found"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *CompanyRepository) SetStatus(ctx context.Context, id common.UUID, from, to approval.Status, reason string, reviewerID common.UUID) (*company.Company, error) {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE companies SET status = $1, rejection_reason = $2, reviewed_by = $3, reviewed_at = $4, updated_at = $4 WHERE id = $5 AND status = $6`,
		to, reason, reviewerID, now, id, from)
	if err != nil {
		return nil, mapError(err, "company not found", "", "failed to update company status")
	}
	if err := expectTransition(ctx, r.db, result, "companies", id, "company not found", "approval status changed"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *CompanyRepository) ListByStatus(ctx context.Context, status approval.Status, page common.Page) ([]company.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	}
	args = append(args, page.Limit, page.Offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "", "", "failed to list companies")
	}
	defer rows.Close()
	items := []company.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan company", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list companies", err)
	}
	return items, nil
}

func (r *CompanyRepository) CountByStatus(ctx context.Context) (map[approval.Status]int, error) {
	return countByStatus(ctx, r.db, `SELECT status, COUNT(*) FROM companies GROUP BY status`)
}

func countByStatus(ctx context.Context, db *sql.DB, query string) (map[approval.Status]int, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err, "", "", "failed to count records")
	}
	defer rows.Close()
	counts := map[approval.Status]int{}
	for rows.Next() {
		var status approval.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan count", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count records", err)
	}
	return counts, nil
}
