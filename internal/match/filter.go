package match

import (
	"sort"
	"strings"

	"CampusCred-backend/internal/model"
)

// Criteria are hard eligibility predicates applied before ranking.
// Zero-valued fields impose no constraint, so an empty Criteria is a
// no-op filter that still attaches scores.
type Criteria struct {
	MinCGPA            float64  `json:"min_cgpa"`
	Branches           []string `json:"branches"`
	RequiredSkills     []string `json:"required_skills"`
	RequiresInternship bool     `json:"requires_internship"`
	ExperienceType     string   `json:"experience_type"`
}

// RankedCandidate is a student augmented with their match score
type RankedCandidate struct {
	Student    model.StudentProfile `json:"student"`
	MatchScore MatchResult          `json:"match_score"`
}

// FilterByEligibility retains candidates passing every supplied
// criterion, scores survivors against the same criteria and sorts them
// descending by total score. The sort is stable, so ties keep the
// input's relative order.
func FilterByEligibility(students []model.StudentProfile, criteria Criteria) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(students))

	req := Requirements{
		RequiredSkills:    criteria.RequiredSkills,
		MinCGPA:           criteria.MinCGPA,
		PreferredBranches: criteria.Branches,
		ExperienceType:    criteria.ExperienceType,
	}

	for _, student := range students {
		if !eligible(student, criteria) {
			continue
		}
		ranked = append(ranked, RankedCandidate{
			Student:    student,
			MatchScore: CalculateMatchScore(student, req),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore.TotalScore > ranked[j].MatchScore.TotalScore
	})

	return ranked
}

func eligible(student model.StudentProfile, criteria Criteria) bool {
	if criteria.MinCGPA > 0 && student.CGPA < criteria.MinCGPA {
		return false
	}

	if len(criteria.Branches) > 0 && !containsFold(criteria.Branches, student.Branch) {
		return false
	}

	// At least one required skill, not all of them
	if len(criteria.RequiredSkills) > 0 && !hasAnySkill(student.Skills, criteria.RequiredSkills) {
		return false
	}

	if criteria.RequiresInternship && len(student.Internships) == 0 {
		return false
	}

	return true
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

func hasAnySkill(candidateSkills, requiredSkills []string) bool {
	for _, required := range requiredSkills {
		needle := strings.ToLower(required)
		for _, s := range candidateSkills {
			if strings.Contains(strings.ToLower(s), needle) {
				return true
			}
		}
	}
	return false
}
