package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// ApplicantStatusApplied indicates the application is waiting for review
	ApplicantStatusApplied = "Applied"
	// ApplicantStatusShortlisted indicates the recruiter shortlisted the applicant
	ApplicantStatusShortlisted = "Shortlisted"
	// ApplicantStatusRejected indicates the recruiter rejected the applicant
	ApplicantStatusRejected = "Rejected"
)

// Applicant joins a student to a posting. The unique index makes duplicate
// application attempts no-ops at the database level.
type Applicant struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PostingID uint    `gorm:"not null;uniqueIndex:idx_applicant_posting_student" json:"posting_id"`
	Posting   Posting `gorm:"foreignKey:PostingID;references:ID" json:"-"`

	StudentID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_applicant_posting_student" json:"student_id"`
	Student   StudentProfile `gorm:"foreignKey:StudentID;references:UserID" json:"-"`

	Status    string    `gorm:"type:text;default:'Applied'" json:"status"`
	AppliedAt time.Time `gorm:"type:timestamp" json:"applied_at"`
}
