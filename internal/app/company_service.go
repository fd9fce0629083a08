package app

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"wasata/internal/common"
	"wasata/internal/domain/approval"
	"wasata/internal/domain/audit"
	"wasata/internal/domain/company"
	"wasata/internal/storage"
)

var crNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)

// JobCacheInvalidator drops cached public job views of a company after its
// visibility changes.
type JobCacheInvalidator interface {
	InvalidateCompany(ctx context.Context, companyID common.UUID)
}

type CompanyService struct {
	companies company.Repository
	uploader  storage.Uploader
	jobCache  JobCacheInvalidator
	audit     auditTrail
	logger    Logger
}

func NewCompanyService(companies company.Repository, uploader storage.Uploader, jobCache JobCacheInvalidator, audits audit.Repository, logger Logger) *CompanyService {
	return &CompanyService{companies: companies, uploader: uploader, jobCache: jobCache, audit: newAuditTrail(audits, logger), logger: logger}
}

type CompanyInput struct {
	Name        string
	CRNumber    string
	City        string
	Industry    string
	Website     string
	Description string
}

func (in CompanyInput) normalize() CompanyInput {
	return CompanyInput{
		Name:        strings.TrimSpace(in.Name),
		CRNumber:    strings.TrimSpace(in.CRNumber),
		City:        strings.TrimSpace(in.City),
		Industry:    strings.TrimSpace(in.Industry),
		Website:     strings.TrimSpace(in.Website),
		Description: strings.TrimSpace(in.Description),
	}
}

func validateCompany(in CompanyInput) error {
	fields := map[string]string{}
	if n := utf8.RuneCountInString(in.Name); n < 2 || n > 120 {
		fields["name"] = "name must be between 2 and 120 characters"
	}
	if !crNumberPattern.MatchString(in.CRNumber) {
		fields["cr_number"] = "cr_number must be 10 digits"
	}
	if in.City == "" {
		fields["city"] = "city is required"
	}
	if in.Website != "" {
		parsed, err := url.Parse(in.Website)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			fields["website"] = "website must be a valid http(s) url"
		}
	}
	if utf8.RuneCountInString(in.Description) > 5000 {
		fields["description"] = "description is too long"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid company", fields)
	}
	return nil
}

func (s *CompanyService) Create(ctx context.Context, ownerID common.UUID, in CompanyInput) (*company.Company, error) {
	in = in.normalize()
	if err := validateCompany(in); err != nil {
		return nil, err
	}
	if _, err := s.companies.GetByOwner(ctx, ownerID); err == nil {
		return nil, common.NewError(common.CodeConflict, "company already exists", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	created, err := s.companies.Create(ctx, company.Company{
		OwnerID:     ownerID,
		Name:        in.Name,
		CRNumber:    in.CRNumber,
		City:        in.City,
		Industry:    in.Industry,
		Website:     in.Website,
		Description: in.Description,
		Status:      approval.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, companyActor(ownerID), "company.create", "company", created.ID.String(), nil)
	return created, nil
}

func (s *CompanyService) GetMine(ctx context.Context, ownerID common.UUID) (*company.Company, error) {
	return s.companies.GetByOwner(ctx, ownerID)
}

func (s *CompanyService) UpdateMine(ctx context.Context, ownerID common.UUID, in CompanyInput) (*company.Company, error) {
	in = in.normalize()
	if err := validateCompany(in); err != nil {
		return nil, err
	}
	current, err := s.companies.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	wasApproved := current.Status == approval.StatusApproved
	current.Name = in.Name
	current.CRNumber = in.CRNumber
	current.City = in.City
	current.Industry = in.Industry
	current.Website = in.Website
	current.Description = in.Description
	current.Status = approval.Resubmit(current.Status)
	current.RejectionReason = ""
	updated, err := s.companies.Update(ctx, *current)
	if err != nil {
		return nil, err
	}
	if wasApproved && s.jobCache != nil {
		s.jobCache.InvalidateCompany(ctx, updated.ID)
	}
	s.audit.record(ctx, companyActor(ownerID), "company.update", "company", updated.ID.String(), map[string]string{"status": string(updated.Status)})
	return updated, nil
}

func (s *CompanyService) UploadLogo(ctx context.Context, ownerID common.UUID, file FileUpload) (*company.Company, error) {
	current, err := s.companies.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	logoURL, err := storeFile(ctx, s.uploader, storage.FolderLogos, storage.ImageTypes, file)
	if err != nil {
		return nil, err
	}
	updated, err := s.companies.SetLogo(ctx, current.ID, logoURL)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, companyActor(ownerID), "company.logo", "company", updated.ID.String(), nil)
	return updated, nil
}

// GetPublic returns an approved company; any other status reads as not found.
func (s *CompanyService) GetPublic(ctx context.Context, id common.UUID) (*company.Company, error) {
	item, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != approval.StatusApproved {
		return nil, common.NewError(common.CodeNotFound, "company not found", nil)
	}
	public := item.Public()
	return &public, nil
}

func (s *CompanyService) ListByStatus(ctx context.Context, status approval.Status, page common.Page) ([]company.Company, error) {
	return s.companies.ListByStatus(ctx, status, page)
}

func (s *CompanyService) Decide(ctx context.Context, admin Actor, companyID common.UUID, next approval.Status, reason string) (*company.Company, error) {
	current, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	storedReason, err := approval.Decide(current.Status, next, reason)
	if err != nil {
		return nil, err
	}
	updated, err := s.companies.SetStatus(ctx, companyID, current.Status, next, storedReason, admin.ID)
	if err != nil {
		return nil, err
	}
	if s.jobCache != nil {
		s.jobCache.InvalidateCompany(ctx, companyID)
	}
	s.audit.record(ctx, admin, "admin.company_approval", "company", companyID.String(), map[string]string{"status": string(next), "reason": storedReason})
	logInfo(s.logger, fmt.Sprintf("company %s company_id=%s admin_id=%s", next, companyID, admin.ID))
	return updated, nil
}
