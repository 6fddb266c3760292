package match

import (
	"testing"

	"CampusCred-backend/internal/model"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func cohort() []model.StudentProfile {
	return []model.StudentProfile{
		{
			EditableStudentInfo: model.EditableStudentInfo{
				FirstName: "Aman", CGPA: 8.5, Branch: "CS",
				Skills: pq.StringArray{"React", "Tailwind", "JavaScript"},
			},
			CredibilityScore: 95,
			Internships:      []model.Internship{{Company: "TechCorp", Type: "internship"}},
		},
		{
			EditableStudentInfo: model.EditableStudentInfo{
				FirstName: "Sneha", CGPA: 9.1, Branch: "IT",
				Skills: pq.StringArray{"Node.js", "React", "MongoDB"},
			},
			CredibilityScore: 98,
			Internships:      []model.Internship{{Company: "GlobalSync", Type: "internship"}},
		},
		{
			EditableStudentInfo: model.EditableStudentInfo{
				FirstName: "Vikram", CGPA: 7.8, Branch: "CS",
				Skills: pq.StringArray{"Java", "Spring Boot", "SQL"},
			},
			CredibilityScore: 82,
		},
		{
			EditableStudentInfo: model.EditableStudentInfo{
				FirstName: "Riya", CGPA: 6.9, Branch: "EC",
				Skills: pq.StringArray{"Figma", "HTML/CSS"},
			},
			CredibilityScore: 88,
		},
	}
}

func TestFilterByEligibility_EmptyCriteriaKeepsEveryoneScored(t *testing.T) {
	students := cohort()
	ranked := FilterByEligibility(students, Criteria{})

	assert.Len(t, ranked, len(students))
	for _, rc := range ranked {
		assert.NotEmpty(t, rc.MatchScore.MatchLevel)
	}
}

func TestFilterByEligibility_CGPACutoff(t *testing.T) {
	ranked := FilterByEligibility(cohort(), Criteria{MinCGPA: 8.0})
	assert.Len(t, ranked, 2)
	for _, rc := range ranked {
		assert.GreaterOrEqual(t, rc.Student.CGPA, 8.0)
	}
}

func TestFilterByEligibility_BranchAllowList(t *testing.T) {
	ranked := FilterByEligibility(cohort(), Criteria{Branches: []string{"CS"}})
	assert.Len(t, ranked, 2)
	for _, rc := range ranked {
		assert.Equal(t, "CS", rc.Student.Branch)
	}
}

func TestFilterByEligibility_AnyOneSkillSuffices(t *testing.T) {
	// Sneha has React but not Java; Vikram has Java but not React.
	// Requiring either keeps both.
	ranked := FilterByEligibility(cohort(), Criteria{RequiredSkills: []string{"React", "Java"}})
	names := []string{}
	for _, rc := range ranked {
		names = append(names, rc.Student.FirstName)
	}
	assert.Contains(t, names, "Sneha")
	assert.Contains(t, names, "Vikram")
	assert.NotContains(t, names, "Riya")
}

func TestFilterByEligibility_RequiresInternship(t *testing.T) {
	ranked := FilterByEligibility(cohort(), Criteria{RequiresInternship: true})
	assert.Len(t, ranked, 2)
	for _, rc := range ranked {
		assert.NotEmpty(t, rc.Student.Internships)
	}
}

func TestFilterByEligibility_CriteriaAreANDed(t *testing.T) {
	ranked := FilterByEligibility(cohort(), Criteria{
		MinCGPA:            8.0,
		Branches:           []string{"CS"},
		RequiresInternship: true,
	})
	assert.Len(t, ranked, 1)
	assert.Equal(t, "Aman", ranked[0].Student.FirstName)
}

func TestFilterByEligibility_SortedDescending(t *testing.T) {
	ranked := FilterByEligibility(cohort(), Criteria{RequiredSkills: []string{"React"}, MinCGPA: 7})
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t,
			ranked[i-1].MatchScore.TotalScore,
			ranked[i].MatchScore.TotalScore)
	}
}

func TestFilterByEligibility_StableOnTies(t *testing.T) {
	twin := model.StudentProfile{
		EditableStudentInfo: model.EditableStudentInfo{
			FirstName: "First", CGPA: 8, Branch: "CS", Skills: pq.StringArray{"Go"},
		},
		CredibilityScore: 90,
	}
	second := twin
	second.FirstName = "Second"

	ranked := FilterByEligibility([]model.StudentProfile{twin, second}, Criteria{})
	assert.Equal(t, ranked[0].MatchScore.TotalScore, ranked[1].MatchScore.TotalScore)
	assert.Equal(t, "First", ranked[0].Student.FirstName)
	assert.Equal(t, "Second", ranked[1].Student.FirstName)
}

func TestFilterByEligibility_OutputIsSubsetOfInput(t *testing.T) {
	students := cohort()
	ranked := FilterByEligibility(students, Criteria{MinCGPA: 7.5})
	assert.LessOrEqual(t, len(ranked), len(students))

	byName := map[string]bool{}
	for _, s := range students {
		byName[s.FirstName] = true
	}
	for _, rc := range ranked {
		assert.True(t, byName[rc.Student.FirstName])
	}
}
