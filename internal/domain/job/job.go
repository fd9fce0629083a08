package job

import (
	"time"

	"wasata/internal/common"
	"wasata/internal/domain/approval"
)

type EmploymentType string

const (
	TypeFullTime   EmploymentType = "full_time"
	TypePartTime   EmploymentType = "part_time"
	TypeRemote     EmploymentType = "remote"
	TypeContract   EmploymentType = "contract"
	TypeInternship EmploymentType = "internship"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case TypeFullTime, TypePartTime, TypeRemote, TypeContract, TypeInternship:
		return true
	default:
		return false
	}
}

type Job struct {
	ID                    common.UUID     `json:"id"`
	CompanyID             common.UUID     `json:"company_id"`
	CompanyName           string          `json:"company_name,omitempty"`
	Title                 string          `json:"title"`
	Description           string          `json:"description"`
	Requirements          []string        `json:"requirements"`
	Location              string          `json:"location"`
	EmploymentType        EmploymentType  `json:"employment_type"`
	SalaryMin             *int            `json:"salary_min,omitempty"`
	SalaryMax             *int            `json:"salary_max,omitempty"`
	DisabilityTypes       []string        `json:"disability_types"`
	AccessibilityFeatures []string        `json:"accessibility_features"`
	Status                approval.Status `json:"status"`
	RejectionReason       string          `json:"rejection_reason,omitempty"`
	Closed                bool            `json:"closed"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

func (j Job) Public() Job {
	j.RejectionReason = ""
	return j
}

type Filter struct {
	Query          string
	Location       string
	EmploymentType EmploymentType
	DisabilityType string
}
