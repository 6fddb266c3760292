package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"CampusCred-backend/internal/match"
	"CampusCred-backend/internal/model"
)

const defaultGeminiBase = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiConfig defines the Gemini API connection settings
type GeminiConfig struct {
	APIBase string
	APIKey  string
	Model   string
}

// GeminiProvider asks the Gemini generative-language API for summaries
// and silently degrades to the template provider whenever the call
// fails, times out or returns unparsable output.
type GeminiProvider struct {
	cfg      GeminiConfig
	client   *http.Client
	fallback *TemplateProvider
}

// NewGeminiProvider creates a Gemini-backed provider. A nil httpClient
// gets a 15 second timeout default.
func NewGeminiProvider(cfg GeminiConfig, httpClient *http.Client) *GeminiProvider {
	if cfg.APIBase == "" {
		cfg.APIBase = defaultGeminiBase
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-pro"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &GeminiProvider{cfg: cfg, client: httpClient, fallback: NewTemplateProvider()}
}

// CandidateSummary asks Gemini for a 2-3 sentence profile summary
func (p *GeminiProvider) CandidateSummary(ctx context.Context, student model.StudentProfile) (string, error) {
	prompt := fmt.Sprintf(`Analyze this candidate profile and provide a brief professional summary (2-3 sentences):

Name: %s %s
CGPA: %.2f
Branch: %s
Skills: %s
Internships: %d
Credibility Score: %d%%

Focus on their strengths, experience quality, and placement readiness.`,
		student.FirstName, student.LastName,
		student.CGPA,
		student.Branch,
		strings.Join(student.Skills, ", "),
		len(student.Internships),
		student.CredibilityScore,
	)

	text, err := p.generate(ctx, prompt)
	if err != nil {
		return p.fallback.CandidateSummary(ctx, student)
	}
	return text, nil
}

// CohortSummary asks Gemini for a short commentary on a skill gap report
func (p *GeminiProvider) CohortSummary(ctx context.Context, report match.SkillGapReport) (string, error) {
	gapNames := make([]string, 0, len(report.Gaps))
	for _, gap := range report.Gaps {
		gapNames = append(gapNames, fmt.Sprintf("%s (%d%% coverage, %s priority)", gap.Skill, gap.Coverage, gap.Priority))
	}

	prompt := fmt.Sprintf(`Summarize this campus skill gap analysis in 2-3 sentences for a placement officer:

Skills demanded by the market: %d
Distinct skills in the student cohort: %d
Gaps below 50%% coverage: %s

Keep it concise and actionable.`,
		report.TotalSkillsInMarket,
		report.TotalSkillsInCohort,
		strings.Join(gapNames, "; "),
	)

	text, err := p.generate(ctx, prompt)
	if err != nil {
		return p.fallback.CohortSummary(ctx, report)
	}
	return text, nil
}

func (p *GeminiProvider) generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return "", fmt.Errorf("gemini api key missing")
	}

	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s",
		strings.TrimRight(p.cfg.APIBase, "/"), p.cfg.Model, p.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini http %d", resp.StatusCode)
	}

	var body geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	if len(body.Candidates) == 0 ||
		len(body.Candidates[0].Content.Parts) == 0 ||
		strings.TrimSpace(body.Candidates[0].Content.Parts[0].Text) == "" {
		return "", fmt.Errorf("gemini response empty")
	}

	return strings.TrimSpace(body.Candidates[0].Content.Parts[0].Text), nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
