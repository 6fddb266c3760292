// Package student provides HTTP handlers for student profile operations.
package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"CampusCred-backend/internal/database"
	"CampusCred-backend/internal/insight"
	"CampusCred-backend/internal/model"
	"CampusCred-backend/internal/utilities"
)

// StudentController handles student-facing endpoints
type StudentController struct {
	DB      *database.DBinstanceStruct
	Insight insight.Provider
}

// NewStudentController creates a new instance of StudentController
func NewStudentController(db *database.DBinstanceStruct) *StudentController {
	return &StudentController{
		DB:      db,
		Insight: insight.NewProviderFromEnv(),
	}
}

func (sc *StudentController) loadProfile(c *gin.Context) (model.StudentProfile, bool) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return model.StudentProfile{}, false
	}

	var profile model.StudentProfile
	if err := sc.DB.
		Preload("User").
		Preload("Internships").
		Where("user_id = ?", user.ID.String()).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Student profile not found"})
			return model.StudentProfile{}, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return model.StudentProfile{}, false
	}
	return profile, true
}

// GetProfileHandler returns the requesting student's own profile.
// @Summary Get own student profile
// @Description Only students have access to this endpoint
// @Tags Student
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.StudentProfile
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Student profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /student/profile [get]
func (sc *StudentController) GetProfileHandler(c *gin.Context) {
	profile, ok := sc.loadProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, profile)
}

// EditProfileHandler updates the editable fields of the student profile.
// The credibility score and placement status are not editable here.
// @Summary Edit own student profile
// @Description Only students have access to this endpoint. Credibility score and placement status cannot be edited.
// @Tags Student
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Profile body model.EditableStudentInfo true "Input student information"
// @Success 200 {object} model.StudentProfile "Successfully update profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid profile struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Student profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /student/profile [patch]
func (sc *StudentController) EditProfileHandler(c *gin.Context) {
	profile, ok := sc.loadProfile(c)
	if !ok {
		return
	}

	var updated model.EditableStudentInfo
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&updated); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	if updated.CGPA < 0 || updated.CGPA > 10 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "CGPA must be between 0 and 10",
		})
		return
	}

	utilities.MergeNonEmpty(&profile.EditableStudentInfo, &updated)
	if err := sc.DB.Model(&profile).Updates(model.StudentProfile{
		EditableStudentInfo: profile.EditableStudentInfo,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update profile: %s", err.Error()),
		})
		return
	}

	reloaded, ok := sc.loadProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, reloaded)
}

// AddInternshipHandler appends one internship record to the profile.
// @Summary Add an internship record
// @Description Only students have access to this endpoint
// @Tags Student
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Internship body model.Internship true "Internship record"
// @Success 201 {object} model.Internship "Internship recorded"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid internship struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Student profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /student/internship [post]
func (sc *StudentController) AddInternshipHandler(c *gin.Context) {
	profile, ok := sc.loadProfile(c)
	if !ok {
		return
	}

	var internship model.Internship
	if err := c.ShouldBindJSON(&internship); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if internship.Company == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Internship company is required",
		})
		return
	}

	internship.ID = 0
	internship.StudentID = profile.UserID
	if err := sc.DB.Create(&internship).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to record internship: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, internship)
}

// InsightResponse carries the narrative candidate summary
type InsightResponse struct {
	Insight string `json:"insight"`
}

// GetInsightHandler returns a narrative summary of the student's own profile.
// @Summary Get a narrative insight of own profile
// @Description Only students have access to this endpoint. The narrative is advisory and always available, even when the external text service is down.
// @Tags Student
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} InsightResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Student profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /student/insight [get]
func (sc *StudentController) GetInsightHandler(c *gin.Context) {
	profile, ok := sc.loadProfile(c)
	if !ok {
		return
	}

	summary, err := sc.Insight.CandidateSummary(c.Request.Context(), profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate insight: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, InsightResponse{Insight: summary})
}
