package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostingStatus is the approval state of a recruiter posting.
// It is a closed enumeration; transitions are validated against
// PostingTransitions, never by ad hoc string comparison.
type PostingStatus string

const (
	// StatusDraft is an unsubmitted posting editable by its recruiter
	StatusDraft PostingStatus = "DRAFT"
	// StatusPendingApproval is a posting waiting for TPO review
	StatusPendingApproval PostingStatus = "PENDING_APPROVAL"
	// StatusApproved is a live posting students can apply to
	StatusApproved PostingStatus = "APPROVED"
	// StatusRejected is a posting the TPO refused to publish
	StatusRejected PostingStatus = "REJECTED"
)

// PostingTransitions is the allowed state transition table.
// Closing is orthogonal to approval status and tracked by Posting.Closed.
var PostingTransitions = map[PostingStatus][]PostingStatus{
	StatusDraft:           {StatusPendingApproval},
	StatusPendingApproval: {StatusApproved, StatusRejected, StatusDraft},
	StatusApproved:        {},
	StatusRejected:        {},
}

// CanTransition reports whether moving from one status to another is allowed
func CanTransition(from, to PostingStatus) bool {
	for _, next := range PostingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Audit trail actions
const (
	AuditCreated      = "CREATED"
	AuditSubmitted    = "SUBMITTED"
	AuditApproved     = "APPROVED"
	AuditRejected     = "REJECTED"
	AuditNeedsChanges = "NEEDS_CHANGES"
	AuditClosed       = "CLOSED"
)

// EditablePostingInfo holds the posting fields a recruiter may edit while in draft
type EditablePostingInfo struct {
	JobTitle        string         `gorm:"type:text" json:"job_title"`
	Type            string         `gorm:"type:text" json:"type"`
	Location        string         `gorm:"type:text" json:"location"`
	Stipend         string         `gorm:"type:text" json:"stipend"`
	Description     string         `gorm:"type:text" json:"description"`
	RequiredSkills  pq.StringArray `gorm:"type:text[]" json:"required_skills"`
	AllowedBranches pq.StringArray `gorm:"type:text[]" json:"allowed_branches"`
	MinCGPA         float64        `gorm:"type:numeric" json:"min_cgpa"`
	Deadline        *time.Time     `gorm:"type:timestamp" json:"deadline,omitempty"`
}

// Posting is gorm model for a recruiter job/internship posting governed by
// the TPO approval workflow. Postings are never deleted, only closed.
type Posting struct {
	ID          uint             `gorm:"primaryKey;autoIncrement;->" json:"id"`
	RecruiterID uuid.UUID        `gorm:"type:uuid;not null;index;<-:create" json:"recruiter_id"`
	Recruiter   RecruiterProfile `gorm:"foreignKey:RecruiterID;references:UserID" json:"-"`

	EditablePostingInfo `gorm:"embedded"`

	Status          PostingStatus `gorm:"type:text;default:'DRAFT';index" json:"status"`
	Closed          bool          `gorm:"default:false" json:"closed"`
	RejectionReason string        `gorm:"type:text" json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time    `gorm:"type:timestamp" json:"approved_at,omitempty"`
	RejectedAt      *time.Time    `gorm:"type:timestamp" json:"rejected_at,omitempty"`
	CreatedAt       time.Time     `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`

	Audit      []AuditEntry `gorm:"foreignKey:PostingID" json:"audit"`
	Applicants []Applicant  `gorm:"foreignKey:PostingID" json:"-"`

	// Recomputed from the applicants table on read, never stored.
	ApplicantsCount int64 `gorm:"-" json:"applicants_count"`
}

// AuditEntry is one append-only record of a state-changing action on a posting
type AuditEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	PostingID uint      `gorm:"not null;index;<-:create" json:"posting_id"`
	Action    string    `gorm:"type:text;not null;<-:create" json:"action"`
	Actor     uuid.UUID `gorm:"type:uuid;<-:create" json:"actor"`
	Timestamp time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;<-:create" json:"timestamp"`
	Reason    string    `gorm:"type:text;<-:create" json:"reason,omitempty"`
}
