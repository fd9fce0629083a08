package app

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"wasata/internal/cache"
	"wasata/internal/common"
	"wasata/internal/domain/approval"
	"wasata/internal/domain/audit"
	"wasata/internal/domain/company"
	"wasata/internal/domain/job"
)

const publicJobTTL = 60 * time.Second

type JobService struct {
	jobs      job.Repository
	companies company.Repository
	cache     cache.Cache
	audit     auditTrail
	logger    Logger
}

func NewJobService(jobs job.Repository, companies company.Repository, c cache.Cache, audits audit.Repository, logger Logger) *JobService {
	return &JobService{jobs: jobs, companies: companies, cache: c, audit: newAuditTrail(audits, logger), logger: logger}
}

type JobInput struct {
	Title                 string
	Description           string
	Requirements          []string
	Location              string
	EmploymentType        string
	SalaryMin             *int
	SalaryMax             *int
	DisabilityTypes       []string
	AccessibilityFeatures []string
}

func (in JobInput) normalize() JobInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.EmploymentType = strings.ToLower(strings.TrimSpace(in.EmploymentType))
	in.Requirements = cleanList(in.Requirements)
	in.DisabilityTypes = cleanList(in.DisabilityTypes)
	in.AccessibilityFeatures = cleanList(in.AccessibilityFeatures)
	return in
}

// maxSalary keeps salaries inside the INTEGER columns that store them.
const maxSalary = 1_000_000_000

func checkSalary(salary *int) string {
	switch {
	case salary == nil:
		return ""
	case *salary < 0:
		return "salary must not be negative"
	case *salary > maxSalary:
		return "salary must not exceed 1000000000"
	}
	return ""
}

func validateJob(in JobInput) error {
	fields := map[string]string{}
	if n := utf8.RuneCountInString(in.Title); n < 3 || n > 150 {
		fields["title"] = "title must be between 3 and 150 characters"
	}
	if in.Description == "" {
		fields["description"] = "description is required"
	}
	if !job.EmploymentType(in.EmploymentType).Valid() {
		fields["employment_type"] = "employment_type must be full_time, part_time, remote, contract, or internship"
	}
	if msg := checkSalary(in.SalaryMin); msg != "" {
		fields["salary_min"] = msg
	}
	if msg := checkSalary(in.SalaryMax); msg != "" {
		fields["salary_max"] = msg
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		fields["salary_min"] = "salary_min must not exceed salary_max"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid job", fields)
	}
	return nil
}

func (in JobInput) apply(j *job.Job) {
	j.Title = in.Title
	j.Description = in.Description
	j.Requirements = in.Requirements
	j.Location = in.Location
	j.EmploymentType = job.EmploymentType(in.EmploymentType)
	j.SalaryMin = in.SalaryMin
	j.SalaryMax = in.SalaryMax
	j.DisabilityTypes = in.DisabilityTypes
	j.AccessibilityFeatures = in.AccessibilityFeatures
}

func (s *JobService) Create(ctx context.Context, ownerID common.UUID, in JobInput) (*job.Job, error) {
	in = in.normalize()
	if err := validateJob(in); err != nil {
		return nil, err
	}
	owner, err := s.companies.GetByOwner(ctx, ownerID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeForbidden, "company profile is required", nil)
		}
		return nil, err
	}
	if owner.Status != approval.StatusApproved {
		return nil, common.NewError(common.CodeForbidden, "company is not approved", nil)
	}
	item := job.Job{CompanyID: owner.ID, Status: approval.StatusPending}
	in.apply(&item)
	created, err := s.jobs.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, companyActor(ownerID), "job.create", "job", created.ID.String(), nil)
	return created, nil
}

// owned loads a job and checks it belongs to the caller's company.
func (s *JobService) owned(ctx context.Context, ownerID, jobID common.UUID) (*job.Job, error) {
	owner, err := s.companies.GetByOwner(ctx, ownerID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeForbidden, "job belongs to another company", nil)
		}
		return nil, err
	}
	item, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if item.CompanyID != owner.ID {
		return nil, common.NewError(common.CodeForbidden, "job belongs to another company", nil)
	}
	return item, nil
}

func (s *JobService) Update(ctx context.Context, ownerID, jobID common.UUID, in JobInput) (*job.Job, error) {
	in = in.normalize()
	if err := validateJob(in); err != nil {
		return nil, err
	}
	item, err := s.owned(ctx, ownerID, jobID)
	if err != nil {
		return nil, err
	}
	in.apply(item)
	item.Status = approval.Resubmit(item.Status)
	item.RejectionReason = ""
	updated, err := s.jobs.Update(ctx, *item)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, jobID)
	s.audit.record(ctx, companyActor(ownerID), "job.update", "job", jobID.String(), map[string]string{"status": string(updated.Status)})
	return updated, nil
}

func (s *JobService) SetClosed(ctx context.Context, ownerID, jobID common.UUID, closed bool) (*job.Job, error) {
	if _, err := s.owned(ctx, ownerID, jobID); err != nil {
		return nil, err
	}
	updated, err := s.jobs.SetClosed(ctx, jobID, closed)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, jobID)
	s.audit.record(ctx, companyActor(ownerID), "job.close", "job", jobID.String(), map[string]string{"closed": fmt.Sprintf("%t", closed)})
	return updated, nil
}

func (s *JobService) Delete(ctx context.Context, ownerID, jobID common.UUID) error {
	if _, err := s.owned(ctx, ownerID, jobID); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, jobID); err != nil {
		return err
	}
	s.invalidate(ctx, jobID)
	s.audit.record(ctx, companyActor(ownerID), "job.delete", "job", jobID.String(), nil)
	return nil
}

func (s *JobService) ListPublic(ctx context.Context, filter job.Filter, page common.Page) ([]job.Job, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Location = strings.TrimSpace(filter.Location)
	filter.DisabilityType = strings.TrimSpace(filter.DisabilityType)
	if filter.EmploymentType != "" {
		filter.EmploymentType = job.EmploymentType(strings.ToLower(strings.TrimSpace(string(filter.EmploymentType))))
		if !filter.EmploymentType.Valid() {
			return nil, common.NewValidationError("invalid filter", map[string]string{"type": "employment_type must be full_time, part_time, remote, contract, or internship"})
		}
	}
	items, err := s.jobs.ListPublic(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = items[i].Public()
	}
	return items, nil
}

// GetPublic serves a visible job, reading through the cache.
func (s *JobService) GetPublic(ctx context.Context, jobID common.UUID) (*job.Job, error) {
	key := jobCacheKey(jobID)
	if s.cache != nil {
		cached, ok, err := cache.GetJSON[job.Job](ctx, s.cache, key)
		if err != nil {
			logError(s.logger, fmt.Sprintf("job cache read failed job_id=%s err=%v", jobID, err))
		} else if ok {
			return cached, nil
		}
	}
	item, err := s.jobs.GetPublic(ctx, jobID)
	if err != nil {
		return nil, err
	}
	public := item.Public()
	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, public, publicJobTTL); err != nil {
			logError(s.logger, fmt.Sprintf("job cache write failed job_id=%s err=%v", jobID, err))
		}
	}
	return &public, nil
}

func (s *JobService) ListMine(ctx context.Context, ownerID common.UUID) ([]job.Job, error) {
	owner, err := s.companies.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.jobs.ListByCompany(ctx, owner.ID)
}

func (s *JobService) ListByStatus(ctx context.Context, status approval.Status, page common.Page) ([]job.Job, error) {
	return s.jobs.ListByStatus(ctx, status, page)
}

func (s *JobService) Decide(ctx context.Context, admin Actor, jobID common.UUID, next approval.Status, reason string) (*job.Job, error) {
	current, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	storedReason, err := approval.Decide(current.Status, next, reason)
	if err != nil {
		return nil, err
	}
	updated, err := s.jobs.SetStatus(ctx, jobID, current.Status, next, storedReason)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, jobID)
	s.audit.record(ctx, admin, "admin.job_approval", "job", jobID.String(), map[string]string{"status": string(next), "reason": storedReason})
	logInfo(s.logger, fmt.Sprintf("job %s job_id=%s admin_id=%s", next, jobID, admin.ID))
	return updated, nil
}

func (s *JobService) InvalidateCompany(ctx context.Context, companyID common.UUID) {
	if s.cache == nil {
		return
	}
	items, err := s.jobs.ListByCompany(ctx, companyID)
	if err != nil {
		logError(s.logger, fmt.Sprintf("job cache invalidation failed company_id=%s err=%v", companyID, err))
		return
	}
	for _, item := range items {
		s.invalidate(ctx, item.ID)
	}
}

func (s *JobService) invalidate(ctx context.Context, jobID common.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, jobCacheKey(jobID)); err != nil {
		logError(s.logger, fmt.Sprintf("job cache delete failed job_id=%s err=%v", jobID, err))
	}
}

func jobCacheKey(id common.UUID) string {
	return "job:" + id.String()
}
