package insight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"CampusCred-backend/internal/match"
	"CampusCred-backend/internal/model"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func sampleStudent() model.StudentProfile {
	return model.StudentProfile{
		EditableStudentInfo: model.EditableStudentInfo{
			FirstName: "Aman", LastName: "Gupta",
			CGPA: 8.7, Branch: "CS",
			Skills: pq.StringArray{"React", "Node.js"},
		},
		CredibilityScore: 96,
		Internships:      []model.Internship{{Company: "X", Type: "internship"}},
	}
}

func TestTemplateProvider_Deterministic(t *testing.T) {
	p := NewTemplateProvider()
	student := sampleStudent()

	first, err := p.CandidateSummary(context.Background(), student)
	assert.NoError(t, err)
	second, err := p.CandidateSummary(context.Background(), student)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "consistent excellence")
	assert.Contains(t, first, "internship experience")
	assert.Contains(t, first, "exceptional verification history")
}

func TestTemplateProvider_ZeroValueStudent(t *testing.T) {
	p := NewTemplateProvider()
	summary, err := p.CandidateSummary(context.Background(), model.StudentProfile{})
	assert.NoError(t, err)
	assert.NotEmpty(t, summary)
}

func TestTemplateProvider_CohortSummary(t *testing.T) {
	p := NewTemplateProvider()

	empty, err := p.CohortSummary(context.Background(), match.SkillGapReport{TotalSkillsInMarket: 4})
	assert.NoError(t, err)
	assert.Contains(t, empty, "no training gaps")

	report := match.SkillGapReport{
		TotalSkillsInMarket: 3,
		TotalSkillsInCohort: 5,
		Gaps: []match.SkillGap{
			{Skill: "kubernetes", Coverage: 10, Gap: 40, Priority: "high"},
		},
	}
	withGaps, err := p.CohortSummary(context.Background(), report)
	assert.NoError(t, err)
	assert.Contains(t, withGaps, "kubernetes")
	assert.Contains(t, withGaps, "1 high priority")
}

func TestGeminiProvider_UsesAPIResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"A promising frontend candidate."}]}}]}`))
	}))
	defer server.Close()

	p := NewGeminiProvider(GeminiConfig{APIBase: server.URL, APIKey: "test-key"}, server.Client())
	summary, err := p.CandidateSummary(context.Background(), sampleStudent())
	assert.NoError(t, err)
	assert.Equal(t, "A promising frontend candidate.", summary)
}

func TestGeminiProvider_FallsBackOnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewGeminiProvider(GeminiConfig{APIBase: server.URL, APIKey: "test-key"}, server.Client())
	student := sampleStudent()

	summary, err := p.CandidateSummary(context.Background(), student)
	assert.NoError(t, err)

	expected, _ := NewTemplateProvider().CandidateSummary(context.Background(), student)
	assert.Equal(t, expected, summary)
}

func TestGeminiProvider_FallsBackOnGarbage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	p := NewGeminiProvider(GeminiConfig{APIBase: server.URL, APIKey: "test-key"}, server.Client())
	summary, err := p.CandidateSummary(context.Background(), sampleStudent())
	assert.NoError(t, err)
	assert.NotEmpty(t, summary)
}

func TestGeminiProvider_FallsBackWithoutKey(t *testing.T) {
	p := NewGeminiProvider(GeminiConfig{}, nil)
	summary, err := p.CandidateSummary(context.Background(), sampleStudent())
	assert.NoError(t, err)
	assert.NotEmpty(t, summary)
}

func TestNewProviderFromEnv_DefaultsToTemplate(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	p := NewProviderFromEnv()
	_, ok := p.(*TemplateProvider)
	assert.True(t, ok)
}
