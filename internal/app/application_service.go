package app

import (
	"context"
	"strings"
	"unicode/utf8"

	"wasata/internal/common"
	"wasata/internal/domain/application"
	"wasata/internal/domain/audit"
	"wasata/internal/domain/company"
	"wasata/internal/domain/job"
	"wasata/internal/domain/user"
	"wasata/internal/storage"
)

const maxCoverLetter = 5000

type ApplicationService struct {
	repo      application.Repository
	jobs      job.Repository
	companies company.Repository
	users     user.Repository
	uploader  storage.Uploader
	audit     auditTrail
	logger    Logger
}

func NewApplicationService(repo application.Repository, jobs job.Repository, companies company.Repository, users user.Repository, uploader storage.Uploader, audits audit.Repository, logger Logger) *ApplicationService {
	return &ApplicationService{repo: repo, jobs: jobs, companies: companies, users: users, uploader: uploader, audit: newAuditTrail(audits, logger), logger: logger}
}

type ApplyInput struct {
	CoverLetter string
	CV          *FileUpload
}

func (s *ApplicationService) Apply(ctx context.Context, userID, jobID common.UUID, in ApplyInput) (*application.Application, error) {
	coverLetter := strings.TrimSpace(in.CoverLetter)
	if utf8.RuneCountInString(coverLetter) > maxCoverLetter {
		return nil, common.NewValidationError("invalid application", map[string]string{"cover_letter": "cover letter is too long"})
	}
	target, err := s.jobs.GetPublic(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByJobAndUser(ctx, jobID, userID); err == nil {
		return nil, common.NewError(common.CodeConflict, "already applied", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	applicant, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	cvURL := applicant.CVURL
	if in.CV != nil {
		cvURL, err = storeFile(ctx, s.uploader, storage.FolderCVs, storage.DocumentTypes, *in.CV)
		if err != nil {
			return nil, err
		}
	}
	if cvURL == "" {
		return nil, common.NewValidationError("cv is required", map[string]string{"file": "upload a cv or add one to your profile"})
	}
	created, err := s.repo.Create(ctx, application.Application{
		JobID:       jobID,
		JobTitle:    target.Title,
		UserID:      userID,
		CVURL:       cvURL,
		CoverLetter: coverLetter,
		Snapshot: application.Snapshot{
			Name:           applicant.Name,
			Email:          applicant.Email,
			Phone:          applicant.Phone,
			DisabilityType: applicant.DisabilityType,
			City:           applicant.City,
			Skills:         applicant.Skills,
		},
		Status: application.StatusSubmitted,
	})
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, userActor(userID), "application.create", "application", created.ID.String(), map[string]string{"job_id": jobID.String()})
	return created, nil
}

func (s *ApplicationService) ListMine(ctx context.Context, userID common.UUID) ([]application.Application, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *ApplicationService) Withdraw(ctx context.Context, userID, applicationID common.UUID) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.UserID != userID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another user", nil)
	}
	if !application.CanWithdraw(app.Status) {
		return nil, common.NewError(common.CodeConflict, "application can no longer be withdrawn", nil)
	}
	updated, err := s.transition(ctx, app, application.StatusWithdrawn, "application can no longer be withdrawn")
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, userActor(userID), "application.withdraw", "application", applicationID.String(), nil)
	return updated, nil
}

// transition moves app from the status it was read with to next. A concurrent
// change that left the application final is reported with finalMsg.
func (s *ApplicationService) transition(ctx context.Context, app *application.Application, next application.Status, finalMsg string) (*application.Application, error) {
	updated, err := s.repo.UpdateStatus(ctx, app.ID, app.Status, next)
	if err == nil || !common.Is(err, common.CodeConflict) {
		return updated, err
	}
	if current, getErr := s.repo.GetByID(ctx, app.ID); getErr == nil && current.Status.Final() {
		return nil, common.NewError(common.CodeConflict, finalMsg, err)
	}
	return nil, err
}

// ownedJob checks that jobID belongs to the company owned by ownerID.
func (s *ApplicationService) ownedJob(ctx context.Context, ownerID, jobID common.UUID) (*job.Job, error) {
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

func (s *ApplicationService) ListForJob(ctx context.Context, ownerID, jobID common.UUID) ([]application.Application, error) {
	if _, err := s.ownedJob(ctx, ownerID, jobID); err != nil {
		return nil, err
	}
	return s.repo.ListByJob(ctx, jobID)
}

func (s *ApplicationService) UpdateStatus(ctx context.Context, ownerID, applicationID common.UUID, status string) (*application.Application, error) {
	next, err := application.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedJob(ctx, ownerID, app.JobID); err != nil {
		if common.Is(err, common.CodeForbidden) {
			return nil, common.NewError(common.CodeForbidden, "application belongs to another company", nil)
		}
		return nil, err
	}
	if app.Status.Final() {
		return nil, common.NewError(common.CodeConflict, "application status is final", nil)
	}
	if !application.CanTransition(app.Status, next) {
		return nil, common.NewValidationError("invalid status transition", map[string]string{"status": "status transition is not allowed"})
	}
	updated, err := s.transition(ctx, app, next, "application status is final")
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, companyActor(ownerID), "application.status", "application", applicationID.String(), map[string]string{"status": string(next)})
	return updated, nil
}
