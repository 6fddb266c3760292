package workflow

import (
	"context"
	"os"
	"testing"
	"time"

	"CampusCred-backend/internal/database"
	"CampusCred-backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"golang.org/x/sync/errgroup"
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

func newPosting(t *testing.T, wf *Workflow, submit bool) model.Posting {
	t.Helper()
	deadline := time.Now().AddDate(0, 1, 0)
	posting, err := wf.Create(database.TestRecruiter.UserID, model.EditablePostingInfo{
		JobTitle:       "Backend Intern",
		Type:           "Internship",
		Stipend:        "20,000",
		RequiredSkills: pq.StringArray{"Go", "SQL"},
		MinCGPA:        7.0,
		Deadline:       &deadline,
	}, submit)
	if err != nil {
		t.Fatalf("failed to create posting: %v", err)
	}
	return posting
}

func TestCreate_DraftHasOneAuditEntry(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, false)

	assert.Equal(t, model.StatusDraft, posting.Status)
	assert.Len(t, posting.Audit, 1)
	assert.Equal(t, model.AuditCreated, posting.Audit[0].Action)
}

func TestCreate_SubmittedGoesToPending(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, true)

	assert.Equal(t, model.StatusPendingApproval, posting.Status)
	assert.Len(t, posting.Audit, 2)
	assert.Equal(t, model.AuditSubmitted, posting.Audit[1].Action)
}

func TestSubmit_FromDraft(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, false)

	updated, err := wf.Submit(posting.ID, database.TestRecruiter.UserID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPendingApproval, updated.Status)
}

func TestApprove_FromPending(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, true)

	updated, err := wf.Approve(posting.ID, database.TestAdminUser.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status)
	assert.NotNil(t, updated.ApprovedAt)

	last := updated.Audit[len(updated.Audit)-1]
	assert.Equal(t, model.AuditApproved, last.Action)
	assert.Equal(t, database.TestAdminUser.ID, last.Actor)
}

func TestApprove_FromDraftIsInvalid(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, false)

	_, err := wf.Approve(posting.ID, database.TestAdminUser.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// status and audit trail untouched
	unchanged, err := wf.Get(posting.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusDraft, unchanged.Status)
	assert.Len(t, unchanged.Audit, 1)
}

func TestApprove_TwiceIsInvalid(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, true)

	_, err := wf.Approve(posting.ID, database.TestAdminUser.ID)
	assert.NoError(t, err)

	_, err = wf.Approve(posting.ID, database.TestAdminUser.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReject_EmptyReason(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, true)

	_, err := wf.Reject(posting.ID, "", database.TestAdminUser.ID)
	assert.ErrorIs(t, err, ErrMissingReason)

	_, err = wf.Reject(posting.ID, "   ", database.TestAdminUser.ID)
	assert.ErrorIs(t, err, ErrMissingReason)

	unchanged, err := wf.Get(posting.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPendingApproval, unchanged.Status)
	assert.Len(t, unchanged.Audit, 2)
}

func TestReject_RecordsReason(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, true)

	updated, err := wf.Reject(posting.ID, "Stipend below policy minimum", database.TestAdminUser.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusRejected, updated.Status)
	assert.Equal(t, "Stipend below policy minimum", updated.RejectionReason)
	assert.NotNil(t, updated.RejectedAt)

	last := updated.Audit[len(updated.Audit)-1]
	assert.Equal(t, model.AuditRejected, last.Action)
	assert.Equal(t, "Stipend below policy minimum", last.Reason)
}

func TestRequestChanges_RecyclesToDraft(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, true)
	auditBefore := len(posting.Audit)

	updated, err := wf.RequestChanges(posting.ID, "Add stipend details", database.TestAdminUser.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusDraft, updated.Status)
	assert.Equal(t, "TPO Feedback: Add stipend details", updated.RejectionReason)
	assert.Len(t, updated.Audit, auditBefore+1)

	last := updated.Audit[len(updated.Audit)-1]
	assert.Equal(t, model.AuditNeedsChanges, last.Action)
	assert.Equal(t, "Add stipend details", last.Reason)

	// the recruiter can resubmit after amending
	resubmitted, err := wf.Submit(posting.ID, database.TestRecruiter.UserID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPendingApproval, resubmitted.Status)
}

func TestRequestChanges_EmptyReason(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, true)

	_, err := wf.RequestChanges(posting.ID, "", database.TestAdminUser.ID)
	assert.ErrorIs(t, err, ErrMissingReason)
}

func TestRejectedPostingIsTerminal(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, true)

	_, err := wf.Reject(posting.ID, "Duplicate of an existing posting", database.TestAdminUser.ID)
	assert.NoError(t, err)

	// no move out of REJECTED is listed in the transition table
	_, err = wf.Submit(posting.ID, database.TestRecruiter.UserID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = wf.Approve(posting.ID, database.TestAdminUser.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = wf.RequestChanges(posting.ID, "Reconsider", database.TestAdminUser.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	unchanged, err := wf.Get(posting.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusRejected, unchanged.Status)
}

func TestClose_OnlyFromApproved(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, true)

	_, err := wf.Close(posting.ID, database.TestRecruiter.UserID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = wf.Approve(posting.ID, database.TestAdminUser.ID)
	assert.NoError(t, err)

	closed, err := wf.Close(posting.ID, database.TestRecruiter.UserID)
	assert.NoError(t, err)
	assert.True(t, closed.Closed)
	assert.Equal(t, model.StatusApproved, closed.Status)

	// closing is terminal
	_, err = wf.Close(posting.ID, database.TestRecruiter.UserID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConcurrentApprove_ExactlyOneWins(t *testing.T) {
	wf := New(testDB)
	posting := newPosting(t, wf, true)

	results := make([]error, 2)
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		i := i
		g.Go(func() error {
			_, err := wf.Approve(posting.ID, database.TestAdminUser.ID)
			results[i] = err
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, succeeded)

	var approvedEntries int64
	err := testDB.Model(&model.AuditEntry{}).
		Where("posting_id = ? AND action = ?", posting.ID, model.AuditApproved).
		Count(&approvedEntries).Error
	assert.NoError(t, err)
	assert.Equal(t, int64(1), approvedEntries)

	final, err := wf.Get(posting.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusApproved, final.Status)
}

func TestReviewPosting_Advisories(t *testing.T) {
	now := time.Now()
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 1, 0)

	warnings := ReviewPosting(model.Posting{
		EditablePostingInfo: model.EditablePostingInfo{Deadline: &past, Stipend: ""},
	}, now)
	assert.Len(t, warnings, 2)
	assert.Equal(t, SeverityCritical, warnings[0].Severity)
	assert.Equal(t, SeverityNotice, warnings[1].Severity)

	clean := ReviewPosting(model.Posting{
		EditablePostingInfo: model.EditablePostingInfo{Deadline: &future, Stipend: "25,000"},
	}, now)
	assert.Empty(t, clean)
}
