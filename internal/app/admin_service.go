package app

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"wasata/internal/common"
	"wasata/internal/domain/application"
	"wasata/internal/domain/approval"
	"wasata/internal/domain/audit"
	"wasata/internal/domain/auth"
	"wasata/internal/domain/company"
	"wasata/internal/domain/job"
	"wasata/internal/domain/user"
)

type AdminService struct {
	users         user.Repository
	companies     company.Repository
	jobs          job.Repository
	applications  application.Repository
	refreshTokens auth.RefreshTokenRepository
	audits        audit.Repository
	jobCache      JobCacheInvalidator
	audit         auditTrail
	logger        Logger
}

func NewAdminService(users user.Repository, companies company.Repository, jobs job.Repository, applications application.Repository, refreshTokens auth.RefreshTokenRepository, audits audit.Repository, jobCache JobCacheInvalidator, logger Logger) *AdminService {
	return &AdminService{
		users:         users,
		companies:     companies,
		jobs:          jobs,
		applications:  applications,
		refreshTokens: refreshTokens,
		audits:        audits,
		jobCache:      jobCache,
		audit:         newAuditTrail(audits, logger),
		logger:        logger,
	}
}

type Stats struct {
	Users        map[user.Role]int       `json:"users"`
	Companies    map[approval.Status]int `json:"companies"`
	Jobs         map[approval.Status]int `json:"jobs"`
	Applications int                     `json:"applications"`
}

// Stats runs the dashboard counters concurrently; the first failure cancels the rest.
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.users.CountByRole(gctx)
		stats.Users = counts
		return err
	})
	g.Go(func() error {
		counts, err := s.companies.CountByStatus(gctx)
		stats.Companies = counts
		return err
	})
	g.Go(func() error {
		counts, err := s.jobs.CountByStatus(gctx)
		stats.Jobs = counts
		return err
	})
	g.Go(func() error {
		n, err := s.applications.Count(gctx)
		stats.Applications = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context, filter user.Filter, page common.Page) ([]user.User, error) {
	if filter.Role != "" {
		filter.Role = user.Role(strings.ToLower(strings.TrimSpace(string(filter.Role))))
		switch filter.Role {
		case user.RoleUser, user.RoleCompany, user.RoleAdmin:
		default:
			return nil, common.NewValidationError("invalid filter", map[string]string{"role": "role must be user, company, or admin"})
		}
	}
	return s.users.List(ctx, filter, page)
}

// manageable loads a target account the admin may act on: never the admin
// themselves and never another admin.
func (s *AdminService) manageable(ctx context.Context, admin Actor, targetID common.UUID) (*user.User, error) {
	if targetID == admin.ID {
		return nil, common.NewError(common.CodeForbidden, "cannot modify your own account", nil)
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == user.RoleAdmin {
		return nil, common.NewError(common.CodeForbidden, "cannot modify another admin", nil)
	}
	return target, nil
}

func (s *AdminService) SetBlocked(ctx context.Context, admin Actor, targetID common.UUID, blocked bool) (*user.User, error) {
	if _, err := s.manageable(ctx, admin, targetID); err != nil {
		return nil, err
	}
	updated, err := s.users.SetBlocked(ctx, targetID, blocked)
	if err != nil {
		return nil, err
	}
	if blocked {
		if err := s.refreshTokens.RevokeAll(ctx, targetID, nowUnix()); err != nil {
			return nil, err
		}
	}
	s.audit.record(ctx, admin, "admin.user_block", "user", targetID.String(), map[string]string{"blocked": fmt.Sprintf("%t", blocked)})
	logInfo(s.logger, fmt.Sprintf("user blocked=%t user_id=%s admin_id=%s", blocked, targetID, admin.ID))
	return updated, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, admin Actor, targetID common.UUID) error {
	target, err := s.manageable(ctx, admin, targetID)
	if err != nil {
		return err
	}
	// Deleting the owner cascades to the company and its jobs, so their
	// cached public views must go while the jobs can still be listed.
	if target.Role == user.RoleCompany && s.jobCache != nil {
		owned, err := s.companies.GetByOwner(ctx, targetID)
		switch {
		case err == nil:
			s.jobCache.InvalidateCompany(ctx, owned.ID)
		case !common.Is(err, common.CodeNotFound):
			return err
		}
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.audit.record(ctx, admin, "admin.user_delete", "user", targetID.String(), map[string]string{"email": target.Email, "role": string(target.Role)})
	logInfo(s.logger, fmt.Sprintf("user deleted user_id=%s admin_id=%s", targetID, admin.ID))
	return nil
}

func (s *AdminService) ListAuditLogs(ctx context.Context, filter audit.Filter, page common.Page) ([]audit.Entry, error) {
	return s.audits.List(ctx, filter, page)
}
