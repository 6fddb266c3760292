package match

import (
	"math"
	"sort"
	"strings"

	"CampusCred-backend/internal/model"
)

// CompanyConversion is the internship-to-placement record of one company
type CompanyConversion struct {
	Company        string `json:"company"`
	Total          int    `json:"total"`
	Placed         int    `json:"placed"`
	ConversionRate int    `json:"conversion_rate"`
}

// ConversionReport summarizes how internship experience correlates with
// placement outcomes across a cohort
type ConversionReport struct {
	TotalStudents     int                 `json:"total_students"`
	WithInternship    int                 `json:"with_internship"`
	WithoutInternship int                 `json:"without_internship"`
	ConversionRate    int                 `json:"conversion_rate"`
	NoInternshipRate  int                 `json:"no_internship_rate"`
	Advantage         int                 `json:"advantage"`
	CompanyConversion []CompanyConversion `json:"company_conversion"`
}

// SkillGap is one demanded skill whose cohort coverage falls below 50%
type SkillGap struct {
	Skill    string `json:"skill"`
	Demand   int    `json:"demand"`
	Supply   int    `json:"supply"`
	Coverage int    `json:"coverage"`
	Gap      int    `json:"gap"`
	Priority string `json:"priority"`
}

// SkillCount is a skill with its occurrence count
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// SkillGapReport compares cohort skill supply against market demand
type SkillGapReport struct {
	TotalSkillsInMarket int          `json:"total_skills_in_market"`
	TotalSkillsInCohort int          `json:"total_skills_in_cohort"`
	Gaps                []SkillGap   `json:"gaps"`
	TopStudentSkills    []SkillCount `json:"top_student_skills"`
	TopDemandedSkills   []SkillCount `json:"top_demanded_skills"`
}

// roundRate computes round(100*part/whole), treating an empty partition
// as rate 0 rather than dividing by zero.
func roundRate(part, whole int) int {
	if whole < 1 {
		whole = 1
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// AnalyzeInternshipPlacementLink partitions a cohort by internship
// presence and reports each partition's placement rate plus the
// percentage-point advantage of having interned. The advantage is an
// observed signal and may be negative. The per-company breakdown counts
// each company once per student.
func AnalyzeInternshipPlacementLink(students []model.StudentProfile) ConversionReport {
	var withCount, withoutCount, placedWith, placedWithout int

	type companyTally struct {
		total  int
		placed int
	}
	companies := map[string]*companyTally{}

	for _, s := range students {
		placed := s.PlacementStatus == model.PlacementPlaced

		if len(s.Internships) == 0 {
			withoutCount++
			if placed {
				placedWithout++
			}
			continue
		}

		withCount++
		if placed {
			placedWith++
		}

		seen := map[string]bool{}
		for _, in := range s.Internships {
			if seen[in.Company] {
				continue
			}
			seen[in.Company] = true

			tally := companies[in.Company]
			if tally == nil {
				tally = &companyTally{}
				companies[in.Company] = tally
			}
			tally.total++
			if placed {
				tally.placed++
			}
		}
	}

	conversionRate := roundRate(placedWith, withCount)
	noInternshipRate := roundRate(placedWithout, withoutCount)

	breakdown := make([]CompanyConversion, 0, len(companies))
	for company, tally := range companies {
		breakdown = append(breakdown, CompanyConversion{
			Company:        company,
			Total:          tally.total,
			Placed:         tally.placed,
			ConversionRate: roundRate(tally.placed, tally.total),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].ConversionRate != breakdown[j].ConversionRate {
			return breakdown[i].ConversionRate > breakdown[j].ConversionRate
		}
		return breakdown[i].Company < breakdown[j].Company
	})

	return ConversionReport{
		TotalStudents:     len(students),
		WithInternship:    withCount,
		WithoutInternship: withoutCount,
		ConversionRate:    conversionRate,
		NoInternshipRate:  noInternshipRate,
		Advantage:         conversionRate - noInternshipRate,
		CompanyConversion: breakdown,
	}
}

// AnalyzeSkillGaps builds demand frequency from required skills across
// job requirements and supply frequency from cohort skills, both
// case-folded, and reports every demanded skill with coverage under 50%
// sorted by gap size.
func AnalyzeSkillGaps(students []model.StudentProfile, jobRequirements []Requirements) SkillGapReport {
	supply := map[string]int{}
	for _, s := range students {
		for _, skill := range s.Skills {
			supply[strings.ToLower(skill)]++
		}
	}

	demand := map[string]int{}
	for _, job := range jobRequirements {
		for _, skill := range job.RequiredSkills {
			demand[strings.ToLower(skill)]++
		}
	}

	cohortSize := len(students)
	if cohortSize < 1 {
		cohortSize = 1
	}

	gaps := []SkillGap{}
	for skill, demandCount := range demand {
		supplyCount := supply[skill]
		// Gate and band on the exact coverage; rounding happens only in
		// the reported fields. A 49.5% covered skill is still a gap.
		coverage := float64(supplyCount) / float64(cohortSize) * 100

		if coverage >= 50 {
			continue
		}

		priority := "low"
		switch {
		case coverage < 20:
			priority = "high"
		case coverage < 35:
			priority = "medium"
		}

		gaps = append(gaps, SkillGap{
			Skill:    skill,
			Demand:   demandCount,
			Supply:   supplyCount,
			Coverage: int(math.Round(coverage)),
			Gap:      int(math.Round(50 - coverage)),
			Priority: priority,
		})
	}
	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Gap != gaps[j].Gap {
			return gaps[i].Gap > gaps[j].Gap
		}
		return gaps[i].Skill < gaps[j].Skill
	})

	return SkillGapReport{
		TotalSkillsInMarket: len(demand),
		TotalSkillsInCohort: len(supply),
		Gaps:                gaps,
		TopStudentSkills:    topSkills(supply, 10),
		TopDemandedSkills:   topSkills(demand, 10),
	}
}

func topSkills(frequency map[string]int, n int) []SkillCount {
	counts := make([]SkillCount, 0, len(frequency))
	for skill, count := range frequency {
		counts = append(counts, SkillCount{Skill: skill, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Skill < counts[j].Skill
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
