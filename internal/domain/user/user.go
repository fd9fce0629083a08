package user

import (
	"time"

	"wasata/internal/common"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID             common.UUID `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone,omitempty"`
	PasswordHash   string      `json:"-"`
	Role           Role        `json:"role"`
	DisabilityType string      `json:"disability_type,omitempty"`
	City           string      `json:"city,omitempty"`
	Bio            string      `json:"bio,omitempty"`
	Skills         []string    `json:"skills"`
	CVURL          string      `json:"cv_url,omitempty"`
	Language       string      `json:"language"`
	Blocked        bool        `json:"blocked"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Profile holds the self-editable fields.
type Profile struct {
	Name           string
	Phone          string
	DisabilityType string
	City           string
	Bio            string
	Skills         []string
	Language       string
}
