// Package admin provides HTTP handlers for TPO governance operations.
package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"CampusCred-backend/internal/database"
	"CampusCred-backend/internal/model"
	"CampusCred-backend/internal/utilities"
	"CampusCred-backend/internal/workflow"
)

// AdminController handles TPO-only endpoints
type AdminController struct {
	DB *database.DBinstanceStruct
	wf *workflow.Workflow
}

// NewAdminController creates a new instance of AdminController
func NewAdminController(db *database.DBinstanceStruct) *AdminController {
	return &AdminController{
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

func workflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, workflow.ErrMissingReason):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Posting not found"})
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
	}
}

// GetPostingsHandler returns postings for review, optionally filtered by status.
// @Summary Get postings based on given query
// @Description Only the TPO can access this endpoint. Without a status query the review queue (pending postings) is returned.
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Filter by status: DRAFT, PENDING_APPROVAL, APPROVED or REJECTED" default(PENDING_APPROVAL)
// @Success 200 {array} model.Posting
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/posting [get]
func (ac *AdminController) GetPostingsHandler(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		status = string(model.StatusPendingApproval)
	}

	var postings []model.Posting
	if err := ac.DB.
		Preload("Recruiter").
		Preload("Recruiter.User").
		Preload("Audit", func(db *gorm.DB) *gorm.DB {
			return db.Order("audit_entries.id ASC")
		}).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&postings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, postings)
}

// ApprovePostingHandler approves a pending posting.
// @Summary Approve a pending posting
// @Description Only the TPO can access this endpoint
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired posting"
// @Success 200 {object} model.Posting "Posting approved"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or posting id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 409 {object} utilities.ErrorResponse "Posting is not pending approval"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/posting/{id}/approve [post]
func (ac *AdminController) ApprovePostingHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := parsePostingID(c)
	if !ok {
		return
	}

	posting, err := ac.wf.Approve(id, user.ID)
	if err != nil {
		workflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, posting)
}

type reasonBody struct {
	Reason string `json:"reason"`
}

// RejectPostingHandler rejects a pending posting with a mandatory reason.
// @Summary Reject a pending posting
// @Description Only the TPO can access this endpoint. A non-empty reason is required.
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired posting"
// @Param Reason body reasonBody true "Rejection reason"
// @Success 200 {object} model.Posting "Posting rejected"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, posting id or missing reason"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 409 {object} utilities.ErrorResponse "Posting is not pending approval"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/posting/{id}/reject [post]
func (ac *AdminController) RejectPostingHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := parsePostingID(c)
	if !ok {
		return
	}

	var body reasonBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	posting, err := ac.wf.Reject(id, body.Reason, user.ID)
	if err != nil {
		workflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, posting)
}

// RequestChangesHandler sends a pending posting back to draft with feedback.
// @Summary Request changes on a pending posting
// @Description Only the TPO can access this endpoint. The posting returns to draft so the recruiter can amend and resubmit.
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired posting"
// @Param Reason body reasonBody true "Feedback for the recruiter"
// @Success 200 {object} model.Posting "Posting returned to draft"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, posting id or missing reason"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 409 {object} utilities.ErrorResponse "Posting is not pending approval"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/posting/{id}/request-changes [post]
func (ac *AdminController) RequestChangesHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := parsePostingID(c)
	if !ok {
		return
	}

	var body reasonBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	posting, err := ac.wf.RequestChanges(id, body.Reason, user.ID)
	if err != nil {
		workflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, posting)
}

// ReviewPostingHandler returns advisory warnings about one posting.
// @Summary Get review warnings for a posting
// @Description Only the TPO can access this endpoint. Warnings are advisory and never block a decision.
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired posting"
// @Success 200 {array} workflow.ReviewWarning
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or posting id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/posting/{id}/review [get]
func (ac *AdminController) ReviewPostingHandler(c *gin.Context) {
	id, ok := parsePostingID(c)
	if !ok {
		return
	}

	var posting model.Posting
	if err := ac.DB.First(&posting, id).Error; err != nil {
		workflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, workflow.ReviewPosting(posting, time.Now()))
}

// ApprovalStats summarizes approval pipeline health for the TPO dashboard
type ApprovalStats struct {
	Pending       int64 `json:"pending"`
	Approved      int64 `json:"approved"`
	Rejected      int64 `json:"rejected"`
	Draft         int64 `json:"draft"`
	Closed        int64 `json:"closed"`
	ApprovedToday int64 `json:"approved_today"`
	RejectedToday int64 `json:"rejected_today"`
	TotalActions  int64 `json:"total_actions"`
}

// ApprovalStatsHandler returns counts per posting status plus the audit volume.
// @Summary Get approval pipeline statistics
// @Description Only the TPO can access this endpoint
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} ApprovalStats
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/stats [get]
func (ac *AdminController) ApprovalStatsHandler(c *gin.Context) {
	var stats ApprovalStats

	counts := []struct {
		status model.PostingStatus
		target *int64
	}{
		{model.StatusPendingApproval, &stats.Pending},
		{model.StatusApproved, &stats.Approved},
		{model.StatusRejected, &stats.Rejected},
		{model.StatusDraft, &stats.Draft},
	}
	for _, count := range counts {
		if err := ac.DB.Model(&model.Posting{}).
			Where("status = ?", count.status).
			Count(count.target).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Database error: %s", err.Error()),
			})
			return
		}
	}

	if err := ac.DB.Model(&model.Posting{}).
		Where("closed = ?", true).
		Count(&stats.Closed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	midnight := time.Now().Truncate(24 * time.Hour)
	if err := ac.DB.Model(&model.Posting{}).
		Where("approved_at >= ?", midnight).
		Count(&stats.ApprovedToday).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}
	if err := ac.DB.Model(&model.Posting{}).
		Where("rejected_at >= ?", midnight).
		Count(&stats.RejectedToday).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if err := ac.DB.Model(&model.AuditEntry{}).
		Count(&stats.TotalActions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// CreateRecruiterRequest is the payload for TPO-managed recruiter accounts
type CreateRecruiterRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name" binding:"required"`
	Designation string `json:"designation"`
}

// CreateRecruiterHandler creates a recruiter account.
// @Summary Create a recruiter account
// @Description Only the TPO can access this endpoint. Recruiter accounts are never self-registered.
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Recruiter body CreateRecruiterRequest true "Recruiter account information"
// @Success 201 {object} model.RecruiterProfile "Recruiter account created"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 409 {object} utilities.ErrorResponse "Username already taken"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/recruiter [post]
func (ac *AdminController) CreateRecruiterHandler(c *gin.Context) {
	var body CreateRecruiterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if len(body.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password must be at least 8 characters",
		})
		return
	}

	var existing int64
	if err := ac.DB.Model(&model.User{}).
		Where("username = ?", body.Username).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: "Username already taken"})
		return
	}

	hashedPassword, err := utilities.HashPassword(body.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to hash password: %s", err.Error()),
		})
		return
	}

	recruiter := model.RecruiterProfile{
		User: model.User{
			Username: body.Username,
			Password: hashedPassword,
			Role:     model.RoleRecruiter,
		},
		CompanyName: body.CompanyName,
		Designation: body.Designation,
	}
	if body.Email != "" {
		recruiter.User.Email = &body.Email
	}

	if err := ac.DB.Create(&recruiter).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create recruiter: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, recruiter)
}
