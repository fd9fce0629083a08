package app

import (
	"context"
	"strings"

	"wasata/internal/common"
	"wasata/internal/domain/audit"
	"wasata/internal/domain/user"
	"wasata/internal/storage"
)

const maxSkills = 30

type UserService struct {
	users    user.Repository
	uploader storage.Uploader
	audit    auditTrail
}

func NewUserService(users user.Repository, uploader storage.Uploader, audits audit.Repository, logger Logger) *UserService {
	return &UserService{users: users, uploader: uploader, audit: newAuditTrail(audits, logger)}
}

func (s *UserService) Get(ctx context.Context, userID common.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID common.UUID, profile user.Profile) (*user.User, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Phone = strings.TrimSpace(profile.Phone)
	profile.DisabilityType = strings.TrimSpace(profile.DisabilityType)
	profile.City = strings.TrimSpace(profile.City)
	profile.Bio = strings.TrimSpace(profile.Bio)
	profile.Skills = cleanList(profile.Skills)

	fields := map[string]string{}
	if profile.Name == "" {
		fields["name"] = "name is required"
	}
	if len(profile.Skills) > maxSkills {
		fields["skills"] = "at most 30 skills are allowed"
	}
	lang := strings.ToLower(strings.TrimSpace(profile.Language))
	switch lang {
	case "":
		current, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		lang = current.Language
	case "ar", "en":
	default:
		fields["language"] = "language must be ar or en"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid profile", fields)
	}
	profile.Language = lang
	return s.users.UpdateProfile(ctx, userID, profile)
}

func (s *UserService) UploadCV(ctx context.Context, userID common.UUID, file FileUpload) (*user.User, error) {
	url, err := storeFile(ctx, s.uploader, storage.FolderCVs, storage.DocumentTypes, file)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.SetCV(ctx, userID, url)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, Actor{ID: updated.ID, Role: updated.Role}, "user.cv_uploaded", "user", updated.ID.String(), nil)
	return updated, nil
}

// cleanList trims entries, drops empties and removes duplicates, keeping order.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
