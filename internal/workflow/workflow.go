// Package workflow implement the posting governance state machine: the
// draft / pending-approval / approved / rejected lifecycle of a
// recruiter posting, its append-only audit trail, and the applicant
// operations on a live posting.
//
// Every transition runs in one transaction holding a row lock on the
// posting, so the status write and its audit entry are applied as one
// atomic unit. Two concurrent approvals of the same posting cannot both
// succeed; the loser observes ErrInvalidTransition against the already
// approved row.
package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"CampusCred-backend/internal/database"
	"CampusCred-backend/internal/model"
)

var (
	// ErrInvalidTransition signals a transition attempted from a state that
	// does not permit it. State and audit trail are left untouched.
	ErrInvalidTransition = errors.New("invalid posting state transition")
	// ErrMissingReason signals reject or request-changes called without a
	// non-empty reason. State and audit trail are left untouched.
	ErrMissingReason = errors.New("a non-empty reason is required")
)

// Workflow governs posting lifecycle transitions against the database
type Workflow struct {
	DB *database.DBinstanceStruct
}

// New creates a Workflow bound to the given database
func New(db *database.DBinstanceStruct) *Workflow {
	return &Workflow{DB: db}
}

// Create inserts a new posting owned by the given recruiter. With submit
// set, the posting goes straight to PENDING_APPROVAL; otherwise it is
// saved as a draft.
func (w *Workflow) Create(recruiterID uuid.UUID, info model.EditablePostingInfo, submit bool) (model.Posting, error) {
	posting := model.Posting{
		RecruiterID:         recruiterID,
		EditablePostingInfo: info,
		Status:              model.StatusDraft,
	}
	if submit {
		posting.Status = model.StatusPendingApproval
	}

	err := w.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&posting).Error; err != nil {
			return err
		}
		entries := []model.AuditEntry{{
			PostingID: posting.ID,
			Action:    model.AuditCreated,
			Actor:     recruiterID,
			Timestamp: time.Now(),
		}}
		if submit {
			entries = append(entries, model.AuditEntry{
				PostingID: posting.ID,
				Action:    model.AuditSubmitted,
				Actor:     recruiterID,
				Timestamp: time.Now(),
			})
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		return model.Posting{}, err
	}
	return w.reload(posting.ID)
}

// Submit moves a draft posting to PENDING_APPROVAL
func (w *Workflow) Submit(postingID uint, actor uuid.UUID) (model.Posting, error) {
	return w.transition(postingID, model.StatusPendingApproval, func(posting *model.Posting) (model.AuditEntry, map[string]interface{}, error) {
		return model.AuditEntry{Action: model.AuditSubmitted, Actor: actor}, nil, nil
	})
}

// Approve moves a pending posting to APPROVED
func (w *Workflow) Approve(postingID uint, actor uuid.UUID) (model.Posting, error) {
	return w.transition(postingID, model.StatusApproved, func(posting *model.Posting) (model.AuditEntry, map[string]interface{}, error) {
		entry := model.AuditEntry{Action: model.AuditApproved, Actor: actor}
		return entry, map[string]interface{}{"approved_at": time.Now()}, nil
	})
}

// Reject moves a pending posting to REJECTED. The reason is mandatory and
// is recorded both on the posting and in the audit trail.
func (w *Workflow) Reject(postingID uint, reason string, actor uuid.UUID) (model.Posting, error) {
	if strings.TrimSpace(reason) == "" {
		return model.Posting{}, ErrMissingReason
	}
	return w.transition(postingID, model.StatusRejected, func(posting *model.Posting) (model.AuditEntry, map[string]interface{}, error) {
		entry := model.AuditEntry{Action: model.AuditRejected, Actor: actor, Reason: reason}
		updates := map[string]interface{}{
			"rejection_reason": reason,
			"rejected_at":      time.Now(),
		}
		return entry, updates, nil
	})
}

// RequestChanges recycles a pending posting back to DRAFT so the
// recruiter can amend and resubmit. The reason is mandatory; the posting
// keeps a TPO-prefixed copy of it for the recruiter to read.
func (w *Workflow) RequestChanges(postingID uint, reason string, actor uuid.UUID) (model.Posting, error) {
	if strings.TrimSpace(reason) == "" {
		return model.Posting{}, ErrMissingReason
	}
	return w.transition(postingID, model.StatusDraft, func(posting *model.Posting) (model.AuditEntry, map[string]interface{}, error) {
		entry := model.AuditEntry{Action: model.AuditNeedsChanges, Actor: actor, Reason: reason}
		updates := map[string]interface{}{
			"rejection_reason": fmt.Sprintf("TPO Feedback: %s", reason),
		}
		return entry, updates, nil
	})
}

// Close marks an approved posting as closed. Closing is orthogonal to the
// status table: it flips the Closed flag and is terminal, only reachable
// from an open APPROVED posting.
func (w *Workflow) Close(postingID uint, actor uuid.UUID) (model.Posting, error) {
	return w.mutate(postingID, func(tx *gorm.DB, posting *model.Posting) (model.AuditEntry, map[string]interface{}, error) {
		if posting.Status != model.StatusApproved || posting.Closed {
			return model.AuditEntry{}, nil, ErrInvalidTransition
		}
		entry := model.AuditEntry{Action: model.AuditClosed, Actor: actor}
		updates := map[string]interface{}{"closed": true}
		return entry, updates, nil
	})
}

// transition runs one status change validated against the
// model.PostingTransitions table: a move the table does not list fails
// with ErrInvalidTransition before decide is consulted. decide supplies
// the audit entry and any extra column updates for the new status.
func (w *Workflow) transition(
	postingID uint,
	target model.PostingStatus,
	decide func(posting *model.Posting) (model.AuditEntry, map[string]interface{}, error),
) (model.Posting, error) {
	return w.mutate(postingID, func(tx *gorm.DB, posting *model.Posting) (model.AuditEntry, map[string]interface{}, error) {
		if !model.CanTransition(posting.Status, target) {
			return model.AuditEntry{}, nil, ErrInvalidTransition
		}
		entry, updates, err := decide(posting)
		if err != nil {
			return model.AuditEntry{}, nil, err
		}
		if updates == nil {
			updates = map[string]interface{}{}
		}
		updates["status"] = target
		return entry, updates, nil
	})
}

// mutate runs one guarded posting change: lock the posting row, let the
// decide callback validate the current state, then write the column
// updates and exactly one audit entry inside the same transaction.
func (w *Workflow) mutate(
	postingID uint,
	decide func(tx *gorm.DB, posting *model.Posting) (model.AuditEntry, map[string]interface{}, error),
) (model.Posting, error) {
	err := w.DB.Transaction(func(tx *gorm.DB) error {
		var posting model.Posting
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&posting, postingID).Error; err != nil {
			return err
		}

		entry, updates, err := decide(tx, &posting)
		if err != nil {
			return err
		}

		entry.PostingID = posting.ID
		if entry.Timestamp.IsZero() {
			entry.Timestamp = time.Now()
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.Model(&model.Posting{}).
			Where("id = ?", posting.ID).
			Updates(updates).Error
	})
	if err != nil {
		return model.Posting{}, err
	}
	return w.reload(postingID)
}

// reload fetches a posting with its audit trail and derived applicant count
func (w *Workflow) reload(postingID uint) (model.Posting, error) {
	var posting model.Posting
	if err := w.DB.
		Preload("Audit", func(db *gorm.DB) *gorm.DB {
			return db.Order("audit_entries.id ASC")
		}).
		First(&posting, postingID).Error; err != nil {
		return model.Posting{}, err
	}
	if err := w.AttachApplicantsCount(&posting); err != nil {
		return model.Posting{}, err
	}
	return posting, nil
}

// Get returns one posting with audit trail and applicant count
func (w *Workflow) Get(postingID uint) (model.Posting, error) {
	return w.reload(postingID)
}

// AttachApplicantsCount recomputes the denormalized applicant count from
// the authoritative applicants table. The count is never stored, so it
// can never drift.
func (w *Workflow) AttachApplicantsCount(posting *model.Posting) error {
	return w.DB.Model(&model.Applicant{}).
		Where("posting_id = ?", posting.ID).
		Count(&posting.ApplicantsCount).Error
}
