// Package posting provides HTTP handlers for recruiter posting operations.
package posting

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"CampusCred-backend/internal/database"
	"CampusCred-backend/internal/model"
	"CampusCred-backend/internal/utilities"
	"CampusCred-backend/internal/workflow"
)

// PostingController handles posting lifecycle and applicant endpoints
type PostingController struct {
	DB *database.DBinstanceStruct
	wf *workflow.Workflow
}

// NewPostingController creates a new instance of PostingController
func NewPostingController(db *database.DBinstanceStruct) *PostingController {
	return &PostingController{
		DB: db,
		wf: workflow.New(db),
	}
}

func parsePostingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid posting id: %s", c.Param("id")),
		})
		return 0, false
	}
	return uint(id), true
}

// workflowError translates workflow sentinel errors to HTTP responses
func workflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, workflow.ErrMissingReason):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, workflow.ErrPostingNotOpen):
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Posting not found"})
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
	}
}

// CreatePostingHandler handles the creation of a new posting by a recruiter.
// @Summary Create posting based on given json structure
// @Description Only recruiters have access to this endpoint. With submit=true the posting skips the draft stage and goes straight to review.
// @Tags Posting
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param submit query boolean false "Submit for review immediately instead of saving a draft"
// @Param Posting body model.EditablePostingInfo true "Input posting information"
// @Success 201 {object} model.Posting "Successfully create posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid posting struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /recruiter/posting [post]
func (pc *PostingController) CreatePostingHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var recruiter model.RecruiterProfile
	if err := pc.DB.Where("user_id = ?", user.ID.String()).First(&recruiter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Only recruiters can create postings"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve recruiter information: %s", err.Error()),
		})
		return
	}

	var info model.EditablePostingInfo
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	submit := c.Query("submit") == "true"
	posting, err := pc.wf.Create(user.ID, info, submit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create posting: ", err),
		})
		return
	}

	c.JSON(http.StatusCreated, posting)
}

// GetMyPostingsHandler returns the requesting recruiter's own postings.
// @Summary Get own postings, optionally filtered by status
// @Description Only recruiters have access to this endpoint
// @Tags Posting
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Filter by status: DRAFT, PENDING_APPROVAL, APPROVED or REJECTED"
// @Success 200 {array} model.Posting
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /recruiter/posting [get]
func (pc *PostingController) GetMyPostingsHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	result := pc.DB.
		Preload("Audit", func(db *gorm.DB) *gorm.DB {
			return db.Order("audit_entries.id ASC")
		}).
		Where("recruiter_id = ?", user.ID)
	if rawStatus := c.Query("status"); rawStatus != "" {
		result = result.Where("status = ?", rawStatus)
	}

	var postings []model.Posting
	if err := result.Order("created_at DESC").Find(&postings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch postings: %s", err.Error()),
		})
		return
	}

	for i := range postings {
		if err := pc.wf.AttachApplicantsCount(&postings[i]); err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to count applicants: %s", err.Error()),
			})
			return
		}
	}

	c.JSON(http.StatusOK, postings)
}

// GetOpenPostingsHandler fetches live postings that match query from the
// database and returns them as a JSON response.
// @Summary Get open postings based on query
// @Description Returns approved, unclosed postings whose deadline has not passed
// @Tags Posting
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Search from posting title with substring matching and case insensitive"
// @Param type query string false "Posting type field with substring matching and case insensitive"
// @Param location query string false "Search from location with substring matching and case insensitive"
// @Success 200 {array} model.Posting "Return open posting(s)"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /posting [get]
func (pc *PostingController) GetOpenPostingsHandler(c *gin.Context) {
	rawSearch := c.Query("search")
	rawType := c.Query("type")
	rawLocation := c.Query("location")

	result := pc.DB.
		Where("status = ?", model.StatusApproved).
		Where("closed = ?", false).
		Where("deadline > ? OR deadline IS NULL", time.Now())

	if rawSearch != "" {
		result = result.Where("job_title ILIKE ?", "%"+rawSearch+"%")
	}
	if rawType != "" {
		result = result.Where("type ILIKE ?", "%"+rawType+"%")
	}
	if rawLocation != "" {
		result = result.Where("location ILIKE ?", "%"+rawLocation+"%")
	}

	var postings []model.Posting
	if err := result.Order("created_at DESC").Find(&postings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch postings: %s", err.Error()),
		})
		return
	}

	for i := range postings {
		if err := pc.wf.AttachApplicantsCount(&postings[i]); err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to count applicants: %s", err.Error()),
			})
			return
		}
	}

	c.JSON(http.StatusOK, postings)
}

// GetPostingHandler fetches a posting by its ID.
// @Summary Get posting by ID
// @Description Drafts and pending postings are only visible to their owner and the TPO
// @Tags Posting
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired posting"
// @Success 200 {object} model.Posting "Return the posting with the specified ID"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or posting id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Posting is not visible to this user"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /posting/{id} [get]
func (pc *PostingController) GetPostingHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := parsePostingID(c)
	if !ok {
		return
	}

	posting, err := pc.wf.Get(id)
	if err != nil {
		workflowError(c, err)
		return
	}

	if posting.Status != model.StatusApproved &&
		posting.RecruiterID != user.ID &&
		user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to view this posting",
		})
		return
	}

	c.JSON(http.StatusOK, posting)
}

// EditPostingHandler allows a recruiter to update a draft posting they own.
// @Summary Edit posting based on given json structure
// @Description Only the recruiter that owns the posting may edit it, and only while it is a draft
// @Tags Posting
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired posting"
// @Param Posting body model.EditablePostingInfo true "Input posting information"
// @Success 200 {object} model.Posting "Successfully update posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid posting struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 409 {object} utilities.ErrorResponse "Posting is not editable in its current state"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /recruiter/posting/{id} [patch]
func (pc *PostingController) EditPostingHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := parsePostingID(c)
	if !ok {
		return
	}

	var posting model.Posting
	if err := pc.DB.First(&posting, id).Error; err != nil {
		workflowError(c, err)
		return
	}

	if posting.RecruiterID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to edit this posting",
		})
		return
	}

	if posting.Status != model.StatusDraft {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: fmt.Sprintf("Only draft postings can be edited, current status is %s", posting.Status),
		})
		return
	}

	var updated model.EditablePostingInfo
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&updated); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	if err := pc.DB.Model(&posting).Updates(model.Posting{EditablePostingInfo: updated}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update posting: %s", err.Error()),
		})
		return
	}

	reloaded, err := pc.wf.Get(id)
	if err != nil {
		workflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, reloaded)
}

// SubmitPostingHandler submits a draft posting for TPO review.
// @Summary Submit a draft posting for approval
// @Description Only the recruiter that owns the posting may submit it
// @Tags Posting
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired posting"
// @Success 200 {object} model.Posting "Posting now pending approval"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or posting id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to submit"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 409 {object} utilities.ErrorResponse "Posting cannot be submitted from its current state"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /recruiter/posting/{id}/submit [post]
func (pc *PostingController) SubmitPostingHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := parsePostingID(c)
	if !ok {
		return
	}

	if !pc.ownsPosting(c, id, user) {
		return
	}

	posting, err := pc.wf.Submit(id, user.ID)
	if err != nil {
		workflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, posting)
}

// ClosePostingHandler closes an approved posting to further applications.
// @Summary Close an approved posting
// @Description Only the recruiter that owns the posting may close it. Closing is terminal.
// @Tags Posting
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired posting"
// @Success 200 {object} model.Posting "Posting closed"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or posting id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to close"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 409 {object} utilities.ErrorResponse "Posting is not approved or already closed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /recruiter/posting/{id}/close [post]
func (pc *PostingController) ClosePostingHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := parsePostingID(c)
	if !ok {
		return
	}

	if !pc.ownsPosting(c, id, user) {
		return
	}

	posting, err := pc.wf.Close(id, user.ID)
	if err != nil {
		workflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, posting)
}

// ApplyHandler records a student application to an open posting.
// @Summary Apply to an open posting
// @Description Only students have access to this endpoint. Applying twice is a harmless no-op.
// @Tags Posting
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired posting"
// @Success 200 {object} utilities.MessageResponse "Already applied"
// @Success 201 {object} utilities.MessageResponse "Application recorded"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or posting id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 409 {object} utilities.ErrorResponse "Posting is not open for applications"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /student/posting/{id}/apply [post]
func (pc *PostingController) ApplyHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := parsePostingID(c)
	if !ok {
		return
	}

	created, err := pc.wf.Apply(id, user.ID)
	if err != nil {
		workflowError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Already applied to this posting"})
		return
	}
	c.JSON(http.StatusCreated, utilities.MessageResponse{Message: "Application recorded"})
}

// ListApplicantsHandler returns the scored applicant list of a posting.
// @Summary Get applicants of a posting with per-applicant match scores
// @Description Only the recruiter that owns the posting or the TPO may view applicants
// @Tags Posting
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired posting"
// @Success 200 {array} workflow.ApplicantView
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or posting id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to view applicants"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /recruiter/posting/{id}/applicants [get]
func (pc *PostingController) ListApplicantsHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := parsePostingID(c)
	if !ok {
		return
	}

	var posting model.Posting
	if err := pc.DB.First(&posting, id).Error; err != nil {
		workflowError(c, err)
		return
	}
	if posting.RecruiterID != user.ID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to view applicants of this posting",
		})
		return
	}

	applicants, err := pc.wf.ListApplicants(id)
	if err != nil {
		workflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, applicants)
}

// UpdateApplicantStatusHandler shortlists or rejects one applicant.
// @Summary Update the status of one applicant
// @Description Only the recruiter that owns the posting may update applicant status
// @Tags Posting
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired posting"
// @Param student_id path string true "Student ID of the applicant"
// @Param Status body object true "New status: applied, shortlisted or rejected"
// @Success 200 {object} utilities.MessageResponse "Applicant status updated"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, posting id or status"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to update applicants"
// @Failure 404 {object} utilities.ErrorResponse "Posting or applicant not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /recruiter/posting/{id}/applicants/{student_id} [patch]
func (pc *PostingController) UpdateApplicantStatusHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := parsePostingID(c)
	if !ok {
		return
	}

	if !pc.ownsPosting(c, id, user) {
		return
	}

	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid student id: %s", c.Param("student_id")),
		})
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	allowed := map[string]bool{
		model.ApplicantStatusApplied:     true,
		model.ApplicantStatusShortlisted: true,
		model.ApplicantStatusRejected:    true,
	}
	if !allowed[body.Status] {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unknown applicant status: %s", body.Status),
		})
		return
	}

	if err := pc.wf.UpdateApplicantStatus(id, studentID, body.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Applicant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update applicant: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Applicant status updated"})
}

// ownsPosting verifies the posting exists and belongs to the user,
// writing the error response itself when it does not.
func (pc *PostingController) ownsPosting(c *gin.Context, id uint, user model.User) bool {
	var posting model.Posting
	if err := pc.DB.First(&posting, id).Error; err != nil {
		workflowError(c, err)
		return false
	}
	if posting.RecruiterID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to modify this posting",
		})
		return false
	}
	return true
}
