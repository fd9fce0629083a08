package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wasata/internal/common"
	"wasata/internal/domain/application"
	"wasata/internal/domain/approval"
	"wasata/internal/domain/audit"
	"wasata/internal/domain/job"
	"wasata/internal/domain/user"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestMapError(t *testing.T) {
	err := mapError(sql.ErrNoRows, "user not found", "", "failed")
	assert.True(t, common.Is(err, common.CodeNotFound))
	assert.Equal(t, "user not found", common.AsError(err).Message)

	err = mapError(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "", "email already registered", "failed")
	assert.True(t, common.Is(err, common.CodeConflict))
	assert.Equal(t, "email already registered", common.AsError(err).Message)

	err = mapError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, "", "", "failed")
	assert.True(t, common.Is(err, common.CodeValidation))

	err = mapError(assert.AnError, "", "", "failed to load")
	assert.True(t, common.Is(err, common.CodeInternal))

	assert.NoError(t, mapError(nil, "", "", ""))
}

var userRowColumns = []string{"id", "name", "email", "phone", "password_hash", "role", "disability_type", "city", "bio", "skills", "cv_url", "language", "blocked", "created_at", "updated_at"}

func TestUserRepositoryGetByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("sara@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u-1", "Sara", "sara@example.com", "", "hash", "user", "visual", "Riyadh", "", "{go,sql}", "", "ar", false, now, now))

	u, err := repo.GetByEmail(context.Background(), "sara@example.com")
	require.NoError(t, err)
	assert.Equal(t, common.UUID("u-1"), u.ID)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.Equal(t, []string{"go", "sql"}, u.Skills)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@example.com")
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeNotFound))
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := repo.Create(context.Background(), user.User{Name: "Sara", Email: "sara@example.com", Role: user.RoleUser})
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeConflict))
	assert.Equal(t, "email already registered", common.AsError(err).Message)
}

func TestUserRepositoryListFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	blocked := true

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE role = $1 AND (name ILIKE $2 ESCAPE '\' OR email ILIKE $2 ESCAPE '\') AND blocked = $3 ORDER BY created_at DESC LIMIT $4 OFFSET $5`)).
		WithArgs(user.RoleCompany, "%acme%", true, 20, 0).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	items, err := repo.List(context.Background(), user.Filter{Role: user.RoleCompany, Query: "acme", Blocked: &blocked}, common.Page{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositorySetBlockedMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET blocked = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.SetBlocked(context.Background(), "u-404", true)
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeNotFound))
}

func TestJobRepositoryListPublicFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewJobRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE j.status = 'approved' AND j.closed = FALSE AND c.status = 'approved' AND (j.title ILIKE $1 ESCAPE '\' OR j.description ILIKE $1 ESCAPE '\') AND j.location ILIKE $2 ESCAPE '\' AND j.employment_type = $3 AND $4 = ANY(j.disability_types) ORDER BY j.created_at DESC LIMIT $5 OFFSET $6`)).
		WithArgs("%developer%", "%Jeddah%", job.TypeRemote, "hearing", 10, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name", "title", "description", "requirements", "location", "employment_type", "salary_min", "salary_max", "disability_types", "accessibility_features", "status", "rejection_reason", "closed", "created_at", "updated_at"}).
			AddRow("j-1", "c-1", "Acme", "Go developer", "Build APIs", "{go}", "Jeddah", "remote", 5000, nil, "{hearing}", "{}", "approved", "", false, now, now))

	items, err := repo.ListPublic(context.Background(), job.Filter{Query: "developer", Location: "Jeddah", EmploymentType: job.TypeRemote, DisabilityType: "hearing"}, common.Page{Limit: 10, Offset: 5})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Acme", items[0].CompanyName)
	require.NotNil(t, items[0].SalaryMin)
	assert.Equal(t, 5000, *items[0].SalaryMin)
	assert.Nil(t, items[0].SalaryMax)
	assert.Equal(t, []string{}, items[0].AccessibilityFeatures)
	assert.Equal(t, approval.StatusApproved, items[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO applications`)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := repo.Create(context.Background(), application.Application{JobID: "j-1", UserID: "u-1", Status: application.StatusSubmitted})
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeConflict))
	assert.Equal(t, "already applied", common.AsError(err).Message)
}

func TestApplicationRepositoryDecodesSnapshot(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE a.id = $1`)).
		WithArgs(common.UUID("a-1")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "title", "user_id", "cv_url", "cover_letter", "snapshot", "status", "created_at", "updated_at"}).
			AddRow("a-1", "j-1", "Go developer", "u-1", "/files/cv/x.pdf", "", []byte(`{"name":"Sara","email":"sara@example.com","skills":["go"]}`), "submitted", now, now))

	app, err := repo.GetByID(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Equal(t, "Sara", app.Snapshot.Name)
	assert.Equal(t, []string{"go"}, app.Snapshot.Skills)
	assert.Equal(t, application.StatusSubmitted, app.Status)
}

func TestAuditRepositoryListFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAuditRepository(db)
	now := time.Now().UTC()
	actor := common.UUID("admin-1")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM audit_logs WHERE actor_id = $1 AND action = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`)).
		WithArgs(actor, "company.approval", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor_id", "actor_role", "action", "target_type", "target_id", "details", "ip", "created_at"}).
			AddRow("l-1", "admin-1", "admin", "company.approval", "company", "c-1", []byte(`{"status":"approved"}`), "10.0.0.1", now))

	items, err := repo.List(context.Background(), audit.Filter{ActorID: &actor, Action: "company.approval"}, common.Page{Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].ActorID)
	assert.Equal(t, actor, *items[0].ActorID)
	assert.Equal(t, "approved", items[0].Details["status"])
}

func TestRefreshTokenRepositoryStoresHash(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM refresh_tokens WHERE token_hash = $1`)).
		WithArgs(hashToken("raw-token")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at", "revoked_at"}).
			AddRow("t-1", "u-1", hashToken("raw-token"), time.Now().Add(time.Hour), time.Now(), nil))

	rt, err := repo.GetByToken(context.Background(), "raw-token")
	require.NoError(t, err)
	assert.Equal(t, "raw-token", rt.Token)
	assert.Nil(t, rt.RevokedAt)
	assert.NotEqual(t, "raw-token", hashToken("raw-token"))
}

func TestRefreshTokenRepositoryRevokeReportsRotation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE refresh_tokens SET revoked_at = $1 WHERE token_hash = $2 AND revoked_at IS NULL`)).
		WithArgs(sqlmock.AnyArg(), hashToken("raw-token")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE refresh_tokens SET revoked_at = $1`)).
		WithArgs(sqlmock.AnyArg(), hashToken("raw-token")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	revoked, err := repo.Revoke(context.Background(), "raw-token", time.Now().Unix())
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.Revoke(context.Background(), "raw-token", time.Now().Unix())
	require.NoError(t, err)
	assert.False(t, revoked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%acme%", containsPattern("acme"))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%first\_name%`, containsPattern("first_name"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}

func TestUserRepositoryListMatchesWildcardsLiterally(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`(name ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\')`)).
		WithArgs(`%\_%`, 20, 0).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.List(context.Background(), user.Filter{Query: "_"}, common.Page{Limit: 20})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryUpdateStatusRequiresExpectedStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`)).
		WithArgs(application.StatusAccepted, sqlmock.AnyArg(), "a-1", application.StatusSubmitted).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`)).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.UpdateStatus(context.Background(), "a-1", application.StatusSubmitted, application.StatusAccepted)
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeConflict))
	assert.Equal(t, "application status changed", common.AsError(err).Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE applications SET status = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`)).
		WithArgs("a-404").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.UpdateStatus(context.Background(), "a-404", application.StatusSubmitted, application.StatusWithdrawn)
	assert.True(t, common.Is(err, common.CodeNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepositorySetStatusRequiresExpectedStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewJobRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE jobs SET status = $1, rejection_reason = $2, updated_at = $3 WHERE id = $4 AND status = $5`)).
		WithArgs(approval.StatusApproved, "", sqlmock.AnyArg(), "j-1", approval.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`)).
		WithArgs("j-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.SetStatus(context.Background(), "j-1", approval.StatusPending, approval.StatusApproved, "")
	assert.True(t, common.Is(err, common.CodeConflict))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepositorySetStatusRequiresExpectedStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCompanyRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $5 AND status = $6`)).
		WithArgs(approval.StatusRejected, "stale license", "admin-1", sqlmock.AnyArg(), "c-1", approval.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM companies WHERE id = $1)`)).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.SetStatus(context.Background(), "c-1", approval.StatusPending, approval.StatusRejected, "stale license", "admin-1")
	assert.True(t, common.Is(err, common.CodeConflict))
	assert.Equal(t, "approval status changed", common.AsError(err).Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMapErrorNumericOutOfRange(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: pgerrcode.NumericValueOutOfRange}, "", "", "failed")
	assert.True(t, common.Is(err, common.CodeValidation))
}
