package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// PlacementActive indicates the student is still seeking placement
	PlacementActive = "active"
	// PlacementPlaced indicates the student has accepted an offer
	PlacementPlaced = "placed"
)

// EditableStudentInfo holds the student profile fields a student may edit
type EditableStudentInfo struct {
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	CGPA      float64        `gorm:"type:numeric" json:"cgpa"`
	Branch    string         `gorm:"type:text" json:"branch"`
	Skills    pq.StringArray `gorm:"type:text[]" json:"skills"`
}

// StudentProfile is gorm model for student placement profiles.
// CredibilityScore is computed by the verification pipeline and is
// read-only from this service.
type StudentProfile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"user"`

	EditableStudentInfo `gorm:"embedded"`

	CredibilityScore int    `gorm:"default:0;<-:create" json:"credibility_score"`
	PlacementStatus  string `gorm:"type:text;default:'active'" json:"placement_status"`

	Internships []Internship `gorm:"foreignKey:StudentID;references:UserID" json:"internships"`
}

// Internship is one verified internship record on a student profile
type Internship struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`

	Company string `gorm:"type:text" json:"company"`
	Role    string `gorm:"type:text" json:"role"`
	Type    string `gorm:"type:text" json:"type"`
}

// RecruiterProfile is gorm model for recruiter accounts managed by the TPO
type RecruiterProfile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"user"`

	CompanyName string `gorm:"type:text" json:"company_name"`
	Designation string `gorm:"type:text" json:"designation"`
}
