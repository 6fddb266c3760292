// Package analytics provides HTTP handlers for cohort-level placement analytics.
package analytics

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"CampusCred-backend/internal/database"
	"CampusCred-backend/internal/insight"
	"CampusCred-backend/internal/match"
	"CampusCred-backend/internal/model"
	"CampusCred-backend/internal/utilities"
)

// AnalyticsController handles TPO analytics endpoints
type AnalyticsController struct {
	DB      *database.DBinstanceStruct
	Insight insight.Provider
}

// NewAnalyticsController creates a new instance of AnalyticsController
func NewAnalyticsController(db *database.DBinstanceStruct) *AnalyticsController {
	return &AnalyticsController{
		DB:      db,
		Insight: insight.NewProviderFromEnv(),
	}
}

func (ac *AnalyticsController) loadCohort(c *gin.Context) ([]model.StudentProfile, bool) {
	var students []model.StudentProfile
	if err := ac.DB.
		Preload("Internships").
		Order("user_id ASC").
		Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return nil, false
	}
	return students, true
}

// ConversionHandler reports how internship experience correlates with placement.
// @Summary Get the internship-to-placement conversion report
// @Description Only the TPO can access this endpoint. The advantage figure is observational and may be negative.
// @Tags Analytics
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} match.ConversionReport
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/analytics/conversion [get]
func (ac *AnalyticsController) ConversionHandler(c *gin.Context) {
	students, ok := ac.loadCohort(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, match.AnalyzeInternshipPlacementLink(students))
}

// SkillGapsHandler compares cohort skills against market demand.
// @Summary Get the cohort skill gap report
// @Description Only the TPO can access this endpoint. Demand is built from the required skills of approved postings.
// @Tags Analytics
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} match.SkillGapReport
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/analytics/skill-gaps [get]
func (ac *AnalyticsController) SkillGapsHandler(c *gin.Context) {
	students, ok := ac.loadCohort(c)
	if !ok {
		return
	}

	var postings []model.Posting
	if err := ac.DB.
		Where("status = ?", model.StatusApproved).
		Find(&postings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	requirements := make([]match.Requirements, 0, len(postings))
	for _, posting := range postings {
		requirements = append(requirements, match.Requirements{
			RequiredSkills:    posting.RequiredSkills,
			MinCGPA:           posting.MinCGPA,
			PreferredBranches: posting.AllowedBranches,
			ExperienceType:    posting.Type,
		})
	}

	c.JSON(http.StatusOK, match.AnalyzeSkillGaps(students, requirements))
}

// CohortInsightResponse pairs the numeric report with its narrative summary
type CohortInsightResponse struct {
	Report  match.SkillGapReport `json:"report"`
	Insight string               `json:"insight"`
}

// CohortInsightHandler returns the skill gap report with a narrative summary.
// @Summary Get a narrative insight over the cohort skill gap report
// @Description Only the TPO can access this endpoint. The narrative is advisory and always available, even when the external text service is down.
// @Tags Analytics
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} CohortInsightResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/analytics/cohort-insight [get]
func (ac *AnalyticsController) CohortInsightHandler(c *gin.Context) {
	students, ok := ac.loadCohort(c)
	if !ok {
		return
	}

	var postings []model.Posting
	if err := ac.DB.
		Where("status = ?", model.StatusApproved).
		Find(&postings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	requirements := make([]match.Requirements, 0, len(postings))
	for _, posting := range postings {
		requirements = append(requirements, match.Requirements{
			RequiredSkills: posting.RequiredSkills,
		})
	}

	report := match.AnalyzeSkillGaps(students, requirements)
	summary, err := ac.Insight.CohortSummary(c.Request.Context(), report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate insight: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, CohortInsightResponse{Report: report, Insight: summary})
}
