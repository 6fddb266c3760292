package workflow

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"CampusCred-backend/internal/model"
)

// ErrPostingNotOpen signals an application to a posting that is not live
var ErrPostingNotOpen = errors.New("posting is not open for applications")

// ApplicantView is an applicant row enriched with the student profile and
// the per-applicant match score a recruiter sees
type ApplicantView struct {
	Student    model.StudentProfile `json:"student"`
	Status     string               `json:"status"`
	AppliedAt  time.Time            `json:"applied_at"`
	MatchScore int                  `json:"match_score"`
}

// Apply records a student application to an approved posting. Duplicate
// attempts are no-ops: the unique (posting, student) index absorbs them
// and the returned bool reports whether a new application was created.
func (w *Workflow) Apply(postingID uint, studentID uuid.UUID) (bool, error) {
	var posting model.Posting
	if err := w.DB.First(&posting, postingID).Error; err != nil {
		return false, err
	}
	if posting.Status != model.StatusApproved || posting.Closed {
		return false, ErrPostingNotOpen
	}

	applicant := model.Applicant{
		PostingID: postingID,
		StudentID: studentID,
		Status:    model.ApplicantStatusApplied,
		AppliedAt: time.Now(),
	}

	result := w.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&applicant)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListApplicants returns the applicants of one posting, each scored
// against the posting's requirements, ordered by application time.
func (w *Workflow) ListApplicants(postingID uint) ([]ApplicantView, error) {
	var posting model.Posting
	if err := w.DB.First(&posting, postingID).Error; err != nil {
		return nil, err
	}

	var applicants []model.Applicant
	if err := w.DB.
		Preload("Student").
		Preload("Student.User").
		Preload("Student.Internships").
		Where("posting_id = ?", postingID).
		Order("applied_at ASC").
		Find(&applicants).Error; err != nil {
		return nil, err
	}

	views := make([]ApplicantView, 0, len(applicants))
	for _, a := range applicants {
		views = append(views, ApplicantView{
			Student:    a.Student,
			Status:     a.Status,
			AppliedAt:  a.AppliedAt,
			MatchScore: ApplicantMatchScore(a.Student, posting),
		})
	}
	return views, nil
}

// UpdateApplicantStatus shortlists or rejects one applicant of a posting
func (w *Workflow) UpdateApplicantStatus(postingID uint, studentID uuid.UUID, status string) error {
	result := w.DB.Model(&model.Applicant{}).
		Where("posting_id = ? AND student_id = ?", postingID, studentID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ApplicantMatchScore computes the per-applicant score used inside one
// posting's applicant list. Fixed component caps: skill overlap against
// the posting's required skills up to 40, CGPA up to 20, a flat
// experience placeholder of 20, credibility up to 15. Clamped to [0,100].
func ApplicantMatchScore(student model.StudentProfile, posting model.Posting) int {
	skillScore := 40.0
	if len(posting.RequiredSkills) > 0 {
		overlap := 0
		studentSkills := make(map[string]bool, len(student.Skills))
		for _, s := range student.Skills {
			studentSkills[strings.ToLower(s)] = true
		}
		for _, s := range posting.RequiredSkills {
			if studentSkills[strings.ToLower(s)] {
				overlap++
			}
		}
		skillScore = float64(overlap) / float64(len(posting.RequiredSkills)) * 40
	}

	cgpa := student.CGPA
	if math.IsNaN(cgpa) || cgpa < 0 {
		cgpa = 0
	}
	cgpaScore := 20.0
	if posting.MinCGPA > 0 && cgpa < posting.MinCGPA {
		cgpaScore = cgpa / posting.MinCGPA * 20
	}

	const relevanceScore = 20.0

	credibility := student.CredibilityScore
	if credibility < 0 {
		credibility = 0
	}
	if credibility > 100 {
		credibility = 100
	}
	credibilityScore := float64(credibility) / 100 * 15

	score := int(math.Round(skillScore + cgpaScore + relevanceScore + credibilityScore))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
