package match

import (
	"testing"

	"CampusCred-backend/internal/model"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func withInternship(company string, placed bool) model.StudentProfile {
	status := model.PlacementActive
	if placed {
		status = model.PlacementPlaced
	}
	return model.StudentProfile{
		PlacementStatus: status,
		Internships:     []model.Internship{{Company: company, Type: "internship"}},
	}
}

func withoutInternship(placed bool) model.StudentProfile {
	status := model.PlacementActive
	if placed {
		status = model.PlacementPlaced
	}
	return model.StudentProfile{PlacementStatus: status}
}

func TestAnalyzeInternshipPlacementLink_SevenStudentCohort(t *testing.T) {
	students := []model.StudentProfile{
		withInternship("TechCorp", true),
		withInternship("TechCorp", true),
		withInternship("GlobalSync", true),
		withInternship("GlobalSync", false),
		withoutInternship(true),
		withoutInternship(false),
		withoutInternship(false),
	}

	report := AnalyzeInternshipPlacementLink(students)

	assert.Equal(t, 7, report.TotalStudents)
	assert.Equal(t, 4, report.WithInternship)
	assert.Equal(t, 3, report.WithoutInternship)
	assert.Equal(t, 75, report.ConversionRate)   // round(3/4*100)
	assert.Equal(t, 33, report.NoInternshipRate) // round(1/3*100)
	assert.Equal(t, 42, report.Advantage)
}

func TestAnalyzeInternshipPlacementLink_EmptyCohort(t *testing.T) {
	report := AnalyzeInternshipPlacementLink(nil)
	assert.Equal(t, 0, report.ConversionRate)
	assert.Equal(t, 0, report.NoInternshipRate)
	assert.Equal(t, 0, report.Advantage)
	assert.Empty(t, report.CompanyConversion)
}

func TestAnalyzeInternshipPlacementLink_AdvantageMayBeNegative(t *testing.T) {
	students := []model.StudentProfile{
		withInternship("X", false),
		withoutInternship(true),
	}
	report := AnalyzeInternshipPlacementLink(students)
	assert.Equal(t, -100, report.Advantage)
}

func TestAnalyzeInternshipPlacementLink_CompanyBreakdown(t *testing.T) {
	students := []model.StudentProfile{
		withInternship("TechCorp", true),
		withInternship("TechCorp", false),
		withInternship("GlobalSync", true),
	}

	report := AnalyzeInternshipPlacementLink(students)
	assert.Len(t, report.CompanyConversion, 2)

	// sorted descending by conversion rate
	assert.Equal(t, "GlobalSync", report.CompanyConversion[0].Company)
	assert.Equal(t, 100, report.CompanyConversion[0].ConversionRate)
	assert.Equal(t, "TechCorp", report.CompanyConversion[1].Company)
	assert.Equal(t, 50, report.CompanyConversion[1].ConversionRate)
}

func TestAnalyzeInternshipPlacementLink_CompanyCountedOncePerStudent(t *testing.T) {
	// two internships at the same company on one profile count once
	student := model.StudentProfile{
		PlacementStatus: model.PlacementPlaced,
		Internships: []model.Internship{
			{Company: "TechCorp", Role: "Intern"},
			{Company: "TechCorp", Role: "Returning Intern"},
		},
	}

	report := AnalyzeInternshipPlacementLink([]model.StudentProfile{student})
	assert.Len(t, report.CompanyConversion, 1)
	assert.Equal(t, 1, report.CompanyConversion[0].Total)
	assert.Equal(t, 1, report.CompanyConversion[0].Placed)
}

func tenStudentsOneKnowsKubernetes() []model.StudentProfile {
	students := make([]model.StudentProfile, 10)
	students[0].Skills = pq.StringArray{"Kubernetes"}
	for i := 1; i < 10; i++ {
		students[i].Skills = pq.StringArray{"Excel"}
	}
	return students
}

func TestAnalyzeSkillGaps_HighPriorityGap(t *testing.T) {
	jobs := []Requirements{
		{RequiredSkills: []string{"Kubernetes"}},
		{RequiredSkills: []string{"Kubernetes"}},
		{RequiredSkills: []string{"Kubernetes"}},
	}

	report := AnalyzeSkillGaps(tenStudentsOneKnowsKubernetes(), jobs)

	assert.Len(t, report.Gaps, 1)
	gap := report.Gaps[0]
	assert.Equal(t, "kubernetes", gap.Skill)
	assert.Equal(t, 3, gap.Demand)
	assert.Equal(t, 1, gap.Supply)
	assert.Equal(t, 10, gap.Coverage)
	assert.Equal(t, 40, gap.Gap)
	assert.Equal(t, "high", gap.Priority)
}

func TestAnalyzeSkillGaps_CoveredSkillNotReported(t *testing.T) {
	students := []model.StudentProfile{
		{EditableStudentInfo: model.EditableStudentInfo{Skills: pq.StringArray{"SQL"}}},
		{EditableStudentInfo: model.EditableStudentInfo{Skills: pq.StringArray{"SQL"}}},
	}
	report := AnalyzeSkillGaps(students, []Requirements{{RequiredSkills: []string{"SQL"}}})
	assert.Empty(t, report.Gaps)
	assert.Equal(t, 1, report.TotalSkillsInMarket)
}

func TestAnalyzeSkillGaps_PriorityBands(t *testing.T) {
	students := make([]model.StudentProfile, 100)
	for i := range students {
		skills := pq.StringArray{}
		if i < 10 {
			skills = append(skills, "rust")
		}
		if i < 30 {
			skills = append(skills, "go")
		}
		if i < 40 {
			skills = append(skills, "java")
		}
		students[i].Skills = skills
	}

	jobs := []Requirements{{RequiredSkills: []string{"Rust", "Go", "Java"}}}
	report := AnalyzeSkillGaps(students, jobs)

	byskill := map[string]SkillGap{}
	for _, g := range report.Gaps {
		byskill[g.Skill] = g
	}
	assert.Equal(t, "high", byskill["rust"].Priority)   // 10% coverage
	assert.Equal(t, "medium", byskill["go"].Priority)   // 30% coverage
	assert.Equal(t, "low", byskill["java"].Priority)    // 40% coverage
}

func TestAnalyzeSkillGaps_FractionalCoverageStillGates(t *testing.T) {
	// 99 of 200 students know Go: 49.5% coverage. The gate compares the
	// exact value, so this is still a gap even though it rounds to 50.
	students := make([]model.StudentProfile, 200)
	for i := 0; i < 99; i++ {
		students[i].Skills = pq.StringArray{"Go"}
	}

	report := AnalyzeSkillGaps(students, []Requirements{{RequiredSkills: []string{"Go"}}})

	assert.Len(t, report.Gaps, 1)
	gap := report.Gaps[0]
	assert.Equal(t, 99, gap.Supply)
	assert.Equal(t, 50, gap.Coverage)
	assert.Equal(t, 1, gap.Gap)
	assert.Equal(t, "low", gap.Priority)
}

func TestAnalyzeSkillGaps_FractionalCoverageBandsBeforeRounding(t *testing.T) {
	// 39 of 200 students: 19.5% exact coverage lands in the high band
	// even though the reported figure rounds up to 20.
	students := make([]model.StudentProfile, 200)
	for i := 0; i < 39; i++ {
		students[i].Skills = pq.StringArray{"Kubernetes"}
	}

	report := AnalyzeSkillGaps(students, []Requirements{{RequiredSkills: []string{"Kubernetes"}}})

	assert.Len(t, report.Gaps, 1)
	gap := report.Gaps[0]
	assert.Equal(t, 20, gap.Coverage)
	assert.Equal(t, 31, gap.Gap)
	assert.Equal(t, "high", gap.Priority)
}

func TestAnalyzeSkillGaps_SortedByGapDescending(t *testing.T) {
	report := AnalyzeSkillGaps(tenStudentsOneKnowsKubernetes(), []Requirements{
		{RequiredSkills: []string{"Kubernetes", "Terraform", "Excel"}},
	})
	for i := 1; i < len(report.Gaps); i++ {
		assert.GreaterOrEqual(t, report.Gaps[i-1].Gap, report.Gaps[i].Gap)
	}
}

func TestAnalyzeSkillGaps_TopSkillsDeterministic(t *testing.T) {
	students := tenStudentsOneKnowsKubernetes()
	jobs := []Requirements{{RequiredSkills: []string{"Kubernetes", "Excel"}}}

	first := AnalyzeSkillGaps(students, jobs)
	second := AnalyzeSkillGaps(students, jobs)
	assert.Equal(t, first, second)

	assert.Equal(t, "excel", first.TopStudentSkills[0].Skill)
	assert.Equal(t, 9, first.TopStudentSkills[0].Count)
}
