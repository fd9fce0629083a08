package approval

import (
	"strings"
	"unicode/utf8"

	"wasata/internal/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

const maxReasonLength = 500

func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return status, nil
	default:
		return "", common.NewValidationError("invalid status", map[string]string{"status": "status must be pending, approved, or rejected"})
	}
}

// Decide validates an admin decision and returns the rejection reason to store.
// Only approved and rejected are valid targets; a rejection must carry a reason.
func Decide(current, next Status, reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	switch next {
	case StatusApproved:
		reason = ""
	case StatusRejected:
		if reason == "" {
			return "", common.NewValidationError("invalid decision", map[string]string{"reason": "reason is required when rejecting"})
		}
		if utf8.RuneCountInString(reason) > maxReasonLength {
			return "", common.NewValidationError("invalid decision", map[string]string{"reason": "reason must be at most 500 characters"})
		}
	default:
		return "", common.NewValidationError("invalid decision", map[string]string{"status": "status must be approved or rejected"})
	}
	if current == next {
		return "", common.NewError(common.CodeConflict, "already "+string(next), nil)
	}
	return reason, nil
}

// Resubmit is applied when the owner edits reviewed content: it goes back to the queue.
func Resubmit(current Status) Status {
	return StatusPending
}
