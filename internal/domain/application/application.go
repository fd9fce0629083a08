package application

import (
	"time"

	"wasata/internal/common"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusReviewing Status = "reviewing"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Snapshot freezes the applicant profile at submission time so later
// profile edits do not change what the company reviewed.
type Snapshot struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone,omitempty"`
	DisabilityType string   `json:"disability_type,omitempty"`
	City           string   `json:"city,omitempty"`
	Skills         []string `json:"skills,omitempty"`
}

type Application struct {
	ID          common.UUID `json:"id"`
	JobID       common.UUID `json:"job_id"`
	JobTitle    string      `json:"job_title,omitempty"`
	UserID      common.UUID `json:"user_id"`
	CVURL       string      `json:"cv_url"`
	CoverLetter string      `json:"cover_letter,omitempty"`
	Snapshot    Snapshot    `json:"snapshot"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
