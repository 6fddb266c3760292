package admin

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"CampusCred-backend/internal/auth"
	"CampusCred-backend/internal/database"
	"CampusCred-backend/internal/middleware"
	"CampusCred-backend/internal/model"
	"CampusCred-backend/internal/testutil"
	"CampusCred-backend/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func adminRouter() *gin.Engine {
	r := gin.Default()
	ac := NewAdminController(testDB)
	group := r.Group("/admin", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleAdmin))
	group.GET("/posting", ac.GetPostingsHandler)
	group.POST("/posting/:id/approve", ac.ApprovePostingHandler)
	group.POST("/posting/:id/reject", ac.RejectPostingHandler)
	group.POST("/posting/:id/request-changes", ac.RequestChangesHandler)
	group.GET("/posting/:id/review", ac.ReviewPostingHandler)
	group.GET("/stats", ac.ApprovalStatsHandler)
	group.POST("/recruiter", ac.CreateRecruiterHandler)
	return r
}

// pendingPosting creates a fresh submitted posting to review
func pendingPosting(t *testing.T) model.Posting {
	t.Helper()
	wf := workflow.New(testDB)
	deadline := time.Now().AddDate(0, 1, 0)
	posting, err := wf.Create(database.TestRecruiter.UserID, model.EditablePostingInfo{
		JobTitle:       "QA Intern",
		Type:           "Internship",
		Stipend:        "15,000",
		RequiredSkills: pq.StringArray{"Selenium"},
		Deadline:       &deadline,
	}, true)
	if err != nil {
		t.Fatalf("failed to create posting: %v", err)
	}
	return posting
}

func TestGetPostingsHandler_DefaultsToPending(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)
	posting := pendingPosting(t)

	r := adminRouter()
	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/admin/posting", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), posting.JobTitle)
}

func TestApprovePostingHandler(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)
	posting := pendingPosting(t)

	r := adminRouter()
	endpoint := fmt.Sprintf("/admin/posting/%d/approve", posting.ID)
	rec, resp := testutil.MakeJSONRequest(nil, token, r, endpoint, http.MethodPost)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(model.StatusApproved), resp["status"])

	// approving again conflicts with the already approved row
	rec, _ = testutil.MakeJSONRequest(nil, token, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRejectPostingHandler_RequiresReason(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)
	posting := pendingPosting(t)

	r := adminRouter()
	endpoint := fmt.Sprintf("/admin/posting/%d/reject", posting.ID)

	rec, _ := testutil.MakeJSONRequest(gin.H{"reason": ""}, token, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp := testutil.MakeJSONRequest(gin.H{"reason": "Stipend too low"}, token, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(model.StatusRejected), resp["status"])
	assert.Equal(t, "Stipend too low", resp["rejection_reason"])
}

func TestRequestChangesHandler(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)
	posting := pendingPosting(t)

	r := adminRouter()
	endpoint := fmt.Sprintf("/admin/posting/%d/request-changes", posting.ID)
	rec, resp := testutil.MakeJSONRequest(gin.H{"reason": "Add a job description"}, token, r, endpoint, http.MethodPost)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(model.StatusDraft), resp["status"])
	assert.Equal(t, "TPO Feedback: Add a job description", resp["rejection_reason"])
}

func TestReviewPostingHandler(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	wf := workflow.New(testDB)
	past := time.Now().AddDate(0, 0, -3)
	posting, err := wf.Create(database.TestRecruiter.UserID, model.EditablePostingInfo{
		JobTitle: "Stale Posting",
		Deadline: &past,
	}, true)
	assert.NoError(t, err)

	r := adminRouter()
	endpoint := fmt.Sprintf("/admin/posting/%d/review", posting.ID)
	rec, _ := testutil.MakeJSONRequest(nil, token, r, endpoint, http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "critical")
	assert.Contains(t, rec.Body.String(), "notice")
}

func TestApprovalStatsHandler(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)
	pendingPosting(t)

	r := adminRouter()
	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/admin/stats", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.GreaterOrEqual(t, resp["pending"].(float64), float64(1))
	assert.GreaterOrEqual(t, resp["total_actions"].(float64), float64(1))
}

func TestCreateRecruiterHandler(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r := adminRouter()
	body := gin.H{
		"username":     "recruiter_new",
		"password":     "RecruiterPass1!",
		"email":        "talent@globalsync.com",
		"company_name": "GlobalSync",
		"designation":  "HR Lead",
	}

	rec, resp := testutil.MakeJSONRequest(body, token, r, "/admin/recruiter", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "GlobalSync", resp["company_name"])

	// the new account can log in
	newToken, err := auth.GetAccessToken(t, testDB, "recruiter_new", "RecruiterPass1!")
	assert.NoError(t, err)
	assert.NotEmpty(t, newToken)

	// duplicate username conflicts
	rec, _ = testutil.MakeJSONRequest(body, token, r, "/admin/recruiter", http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminRoutes_RecruiterForbidden(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserRecruiter.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r := adminRouter()
	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/admin/stats", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
