package match

import (
	"math"

	"CampusCred-backend/internal/model"
)

// Fixed component weights of the match score
const (
	WeightSkills      = 0.40
	WeightAcademic    = 0.20
	WeightExperience  = 0.25
	WeightCredibility = 0.15
)

// Requirements describe the opportunity side of one scoring call
type Requirements struct {
	RequiredSkills    []string `json:"required_skills"`
	MinCGPA           float64  `json:"min_cgpa"`
	PreferredBranches []string `json:"preferred_branches"`
	ExperienceType    string   `json:"experience_type"`
}

// Breakdown carries the per-component scores behind a total
type Breakdown struct {
	Skills      int `json:"skills"`
	Academic    int `json:"academic"`
	Experience  int `json:"experience"`
	Credibility int `json:"credibility"`
}

// MatchResult is the outcome of scoring one candidate against one
// opportunity. It is recomputed on demand, never persisted.
type MatchResult struct {
	TotalScore     int       `json:"total_score"`
	Breakdown      Breakdown `json:"breakdown"`
	MatchLevel     string    `json:"match_level"`
	Recommendation string    `json:"recommendation"`
}

// CalculateMatchScore combines the score formulas into one weighted
// 0-100 score plus a categorical recommendation. Deterministic: two
// calls with identical inputs produce identical results.
func CalculateMatchScore(student model.StudentProfile, req Requirements) MatchResult {
	breakdown := Breakdown{
		Skills:      SkillsMatch(student.Skills, req.RequiredSkills),
		Academic:    AcademicFit(student.CGPA, student.Branch, req.MinCGPA, req.PreferredBranches),
		Experience:  ExperienceRelevance(student.Internships, req.ExperienceType),
		Credibility: clampCredibility(student.CredibilityScore),
	}

	total := clampScore(math.Round(
		float64(breakdown.Skills)*WeightSkills +
			float64(breakdown.Academic)*WeightAcademic +
			float64(breakdown.Experience)*WeightExperience +
			float64(breakdown.Credibility)*WeightCredibility))

	return MatchResult{
		TotalScore:     total,
		Breakdown:      breakdown,
		MatchLevel:     matchLevel(total),
		Recommendation: recommendation(total),
	}
}

func matchLevel(score int) string {
	switch {
	case score >= 85:
		return "excellent"
	case score >= 70:
		return "strong"
	case score >= 55:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "weak"
	}
}

func recommendation(score int) string {
	switch {
	case score >= 85:
		return "Highly Recommended - Excellent match"
	case score >= 70:
		return "Recommended - Strong candidate"
	case score >= 55:
		return "Consider - Good potential"
	case score >= 40:
		return "Review - May need development"
	default:
		return "Not Recommended - Significant gaps"
	}
}
