package workflow

import (
	"strings"
	"time"

	"CampusCred-backend/internal/model"
)

// Review warning severities
const (
	SeverityCritical = "critical"
	SeverityNotice   = "notice"
)

// ReviewWarning is one advisory shown to the reviewer. Warnings never
// block a transition.
type ReviewWarning struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ReviewPosting runs the read-only checks a TPO reviewer sees before
// deciding on a pending posting.
func ReviewPosting(posting model.Posting, now time.Time) []ReviewWarning {
	warnings := []ReviewWarning{}

	if posting.Deadline != nil && posting.Deadline.Before(now) {
		warnings = append(warnings, ReviewWarning{
			Severity: SeverityCritical,
			Message:  "Application deadline is already in the past",
		})
	}

	if strings.TrimSpace(posting.Stipend) == "" || posting.Stipend == "0" {
		warnings = append(warnings, ReviewWarning{
			Severity: SeverityNotice,
			Message:  "Stipend is missing or zero",
		})
	}

	return warnings
}
