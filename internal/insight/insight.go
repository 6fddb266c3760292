// Package insight produces short narrative summaries of candidates and
// cohorts. Summaries are advisory decoration on top of the numeric
// results: when the external text-generation service is missing, slow or
// returns garbage, the deterministic template provider answers instead,
// so callers always get usable text and never an error.
package insight

import (
	"context"
	"os"

	"CampusCred-backend/internal/match"
	"CampusCred-backend/internal/model"
)

// Provider generates a short free-text summary of a candidate or cohort
type Provider interface {
	CandidateSummary(ctx context.Context, student model.StudentProfile) (string, error)
	CohortSummary(ctx context.Context, report match.SkillGapReport) (string, error)
}

// NewProviderFromEnv selects the provider at construction time: the
// Gemini-backed one when an API key is configured, the deterministic
// template one otherwise. The Gemini provider itself degrades to the
// template on any call failure.
func NewProviderFromEnv() Provider {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return NewTemplateProvider()
	}
	return NewGeminiProvider(GeminiConfig{APIKey: apiKey, Model: os.Getenv("GEMINI_MODEL")}, nil)
}
