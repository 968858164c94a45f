package model

import (
	"time"

	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

// ClientProfile is the subset of client fields the risk engine looks at
type ClientProfile struct {
	PEP      bool
	Country  string
	Industry string
	Job      string
}

// RiskAssessment is the outcome of evaluating a profile against a RiskConfig
type RiskAssessment struct {
	Score            int
	Band             types.RiskBand
	Factors          []string // one per triggered rule, in evaluation order
	NextReviewMonths int
}

// ReviewSummary groups clients that need attention, as produced by a review sweep
type ReviewSummary struct {
	GeneratedAt time.Time
	Overdue     []*Client
	DueSoon     []*Client
}

// IsEmpty reports whether no client needs attention
func (s *ReviewSummary) IsEmpty() bool {
	return len(s.Overdue) == 0 && len(s.DueSoon) == 0
}
