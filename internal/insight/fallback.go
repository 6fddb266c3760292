package insight

import (
	"context"
	"fmt"
	"strings"

	"CampusCred-backend/internal/match"
	"CampusCred-backend/internal/model"
)

// TemplateProvider builds summaries from fixed sentence fragments. It is
// fully deterministic: identical inputs always yield identical text.
type TemplateProvider struct{}

// NewTemplateProvider creates the deterministic fallback provider
func NewTemplateProvider() *TemplateProvider {
	return &TemplateProvider{}
}

// CandidateSummary renders a one-sentence profile summary from CGPA,
// internship history and credibility bands.
func (p *TemplateProvider) CandidateSummary(_ context.Context, student model.StudentProfile) (string, error) {
	fragments := []string{}

	switch {
	case student.CGPA >= 8.5:
		fragments = append(fragments, "strong academic performance demonstrates consistent excellence")
	case student.CGPA >= 7.5:
		fragments = append(fragments, "solid academic foundation with good technical understanding")
	default:
		fragments = append(fragments, "a developing academic record")
	}

	switch {
	case len(student.Internships) > 1:
		fragments = append(fragments, "multiple verified internships show practical industry exposure")
	case len(student.Internships) == 1:
		fragments = append(fragments, "relevant internship experience adds practical value")
	}

	switch {
	case student.CredibilityScore >= 95:
		fragments = append(fragments, "an exceptional verification history builds strong trust")
	case student.CredibilityScore >= 85:
		fragments = append(fragments, "a reliable verification record")
	}

	return fmt.Sprintf("Candidate demonstrates %s.", strings.Join(fragments, ", ")), nil
}

// CohortSummary renders a short summary of a skill gap report
func (p *TemplateProvider) CohortSummary(_ context.Context, report match.SkillGapReport) (string, error) {
	if len(report.Gaps) == 0 {
		return fmt.Sprintf(
			"The cohort covers all %d skills demanded by the market; no training gaps detected.",
			report.TotalSkillsInMarket), nil
	}

	high := 0
	for _, gap := range report.Gaps {
		if gap.Priority == "high" {
			high++
		}
	}

	return fmt.Sprintf(
		"The market demands %d distinct skills; the cohort shows %d gaps (%d high priority), led by %q at %d%% coverage.",
		report.TotalSkillsInMarket, len(report.Gaps), high,
		report.Gaps[0].Skill, report.Gaps[0].Coverage), nil
}
