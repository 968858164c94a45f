package types

import "fmt"

// ReviewStatus is the operational due-date state of a client review.
// It is always derived from the scheduled review date and never stored.
type ReviewStatus string

const (
	ReviewStatusOK      ReviewStatus = "OK"
	ReviewStatusDueSoon ReviewStatus = "DUE_SOON"
	ReviewStatusOverdue ReviewStatus = "OVERDUE"
)

// AllReviewStatuses returns all valid review statuses
func AllReviewStatuses() []ReviewStatus {
	return []ReviewStatus{
		ReviewStatusOK,
		ReviewStatusDueSoon,
		ReviewStatusOverdue,
	}
}

// IsValid checks if the review status is valid
func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusOK,
		ReviewStatusDueSoon,
		ReviewStatusOverdue:
		return true
	default:
		return false
	}
}

// NeedsAttention reports whether the review is due soon or overdue
func (s ReviewStatus) NeedsAttention() bool {
	return s == ReviewStatusDueSoon || s == ReviewStatusOverdue
}

// String returns the string representation of the review status
func (s ReviewStatus) String() string {
	return string(s)
}

// ParseReviewStatus parses a string into a ReviewStatus
func ParseReviewStatus(s string) (ReviewStatus, error) {
	status := ReviewStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid review status: %s", s)
	}
	return status, nil
}
