package application

import (
	"strings"

	"wasata/internal/common"
)

func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case StatusSubmitted, StatusReviewing, StatusAccepted, StatusRejected, StatusWithdrawn:
		return status, nil
	default:
		return "", common.NewValidationError("invalid status", map[string]string{"status": "status must be submitted, reviewing, accepted, rejected, or withdrawn"})
	}
}

func (s Status) Final() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}

// CanTransition reports whether a company may move an application from one
// status to another. Withdrawal is applicant-only and checked by CanWithdraw.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusSubmitted:
		return to == StatusReviewing || to == StatusAccepted || to == StatusRejected
	case StatusReviewing:
		return to == StatusAccepted || to == StatusRejected
	default:
		return false
	}
}

func CanWithdraw(from Status) bool {
	return from == StatusSubmitted || from == StatusReviewing
}
