// Package matching provides HTTP handlers for candidate-opportunity scoring.
package matching

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"CampusCred-backend/internal/database"
	"CampusCred-backend/internal/match"
	"CampusCred-backend/internal/model"
	"CampusCred-backend/internal/utilities"
)

// MatchController handles match scoring and eligibility endpoints
type MatchController struct {
	DB *database.DBinstanceStruct
}

// NewMatchController creates a new instance of MatchController
func NewMatchController(db *database.DBinstanceStruct) *MatchController {
	return &MatchController{
		DB: db,
	}
}

// ScoreRequest pairs one student with one set of opportunity requirements
type ScoreRequest struct {
	StudentID    string             `json:"student_id" binding:"required"`
	Requirements match.Requirements `json:"requirements"`
}

// ScoreHandler scores one candidate against one opportunity.
// @Summary Score a candidate against opportunity requirements
// @Description Recruiters and the TPO can score any student. The score is recomputed on every call and never stored.
// @Tags Matching
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Request body ScoreRequest true "Student and requirements to score"
// @Success 200 {object} match.MatchResult
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Student not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /match/score [post]
func (mc *MatchController) ScoreHandler(c *gin.Context) {
	var body ScoreRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var student model.StudentProfile
	if err := mc.DB.
		Preload("Internships").
		Where("user_id = ?", body.StudentID).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, match.CalculateMatchScore(student, body.Requirements))
}

// EligibilityRequest carries the hard criteria for a candidate search
type EligibilityRequest struct {
	Criteria match.Criteria `json:"criteria"`
}

// EligibilityHandler filters the whole cohort by hard criteria and ranks
// the survivors by match score.
// @Summary Filter and rank candidates by eligibility criteria
// @Description Recruiters and the TPO can search the cohort. Zero-valued criteria impose no constraint.
// @Tags Matching
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Request body EligibilityRequest true "Eligibility criteria"
// @Success 200 {array} match.RankedCandidate
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /match/eligibility [post]
func (mc *MatchController) EligibilityHandler(c *gin.Context) {
	var body EligibilityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var students []model.StudentProfile
	if err := mc.DB.
		Preload("User").
		Preload("Internships").
		Order("user_id ASC").
		Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, match.FilterByEligibility(students, body.Criteria))
}

// PostingMatchHandler scores every applicant-eligible student against one
// posting's requirements.
// @Summary Rank the cohort against one posting
// @Description Builds criteria from the posting's required skills, allowed branches and minimum CGPA
// @Tags Matching
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired posting"
// @Success 200 {array} match.RankedCandidate
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or posting id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /match/posting/{id} [get]
func (mc *MatchController) PostingMatchHandler(c *gin.Context) {
	id := c.Param("id")

	var posting model.Posting
	if err := mc.DB.Where("id = ?", id).First(&posting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	var students []model.StudentProfile
	if err := mc.DB.
		Preload("User").
		Preload("Internships").
		Order("user_id ASC").
		Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	criteria := match.Criteria{
		MinCGPA:        posting.MinCGPA,
		Branches:       posting.AllowedBranches,
		RequiredSkills: posting.RequiredSkills,
		ExperienceType: posting.Type,
	}

	c.JSON(http.StatusOK, match.FilterByEligibility(students, criteria))
}
