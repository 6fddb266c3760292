// Package match implement the candidate-opportunity scoring engine:
// the shared score formulas, the weighted match score, the eligibility
// filter and the cohort analytics reports. Everything in this package is
// a pure function over in-memory records; results are clamped to [0,100]
// and never error, so ranking degrades gracefully on bad input instead
// of failing a request.
package match

import (
	"math"
	"strings"

	"CampusCred-backend/internal/model"
)

// clampScore bound a raw score into the [0,100] range. NaN collapses to 0
// so a malformed numeric field can never poison a ranking.
func clampScore(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}

// sanitizeCGPA defaults NaN to 0 and bounds the value to the 0-10 scale
func sanitizeCGPA(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// SkillsMatch scores how well a candidate's skills cover the required set.
// An empty requirement list is vacuously satisfied. Skill identity is
// case-insensitive. Extra skills beyond the required set earn a small
// bonus, 2 points each capped at 20.
func SkillsMatch(candidateSkills, requiredSkills []string) int {
	if len(requiredSkills) == 0 {
		return 100
	}

	candidateSet := make(map[string]bool, len(candidateSkills))
	for _, s := range candidateSkills {
		candidateSet[strings.ToLower(s)] = true
	}

	matched := 0
	for _, s := range requiredSkills {
		if candidateSet[strings.ToLower(s)] {
			matched++
		}
	}

	directMatch := float64(matched) / float64(len(requiredSkills)) * 100

	bonus := math.Min(float64(len(candidateSkills)-matched)*2, 20)
	if bonus < 0 {
		bonus = 0
	}

	return clampScore(directMatch + bonus)
}

// AcademicFit scores CGPA and branch fit. The CGPA sub-score carries 60%
// of the weight and the branch sub-score 40%, both pre-weighted so the
// two simply sum. Cross-branch candidates get partial credit rather than
// zero, so this formula alone never disqualifies anyone.
func AcademicFit(cgpa float64, branch string, minCGPA float64, preferredBranches []string) int {
	cgpa = sanitizeCGPA(cgpa)
	minCGPA = sanitizeCGPA(minCGPA)

	var cgpaSub float64
	if cgpa >= minCGPA {
		cgpaSub = math.Min(60+(cgpa-minCGPA)*10, 100)
	} else {
		// minCGPA > 0 here, since cgpa is non-negative
		cgpaSub = cgpa / minCGPA * 60
	}

	branchSub := 20.0
	if len(preferredBranches) == 0 {
		branchSub = 40
	} else {
		for _, b := range preferredBranches {
			if strings.EqualFold(b, branch) {
				branchSub = 40
				break
			}
		}
	}

	return clampScore(cgpaSub + branchSub)
}

// ExperienceRelevance scores internship history against the experience
// type an opportunity asks for. No internships scores a base 30; having
// any scores 50; at least one relevant internship adds 30, and each
// additional relevant one adds 10 more, capped at 20.
func ExperienceRelevance(internships []model.Internship, experienceType string) int {
	if len(internships) == 0 {
		return 30
	}

	score := 50.0

	needle := strings.ToLower(experienceType)
	relevant := 0
	for _, in := range internships {
		if strings.Contains(strings.ToLower(in.Type), needle) ||
			strings.Contains(strings.ToLower(in.Role), needle) {
			relevant++
		}
	}

	if relevant > 0 {
		score += 30
		if relevant > 1 {
			score += math.Min(float64(relevant-1)*10, 20)
		}
	}

	return clampScore(score)
}

// clampCredibility bound the externally computed credibility score
func clampCredibility(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
