package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CandidateStatus string

const (
	CandidateStatusApplied      CandidateStatus = "APPLIED"
	CandidateStatusShortlisted  CandidateStatus = "SHORTLISTED"
	CandidateStatusInterviewing CandidateStatus = "INTERVIEWING"
	CandidateStatusHired        CandidateStatus = "HIRED"
	CandidateStatusRejected     CandidateStatus = "REJECTED"
)

// EducationEntry is one education record extracted from a resume
type EducationEntry struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Year   string `json:"year,omitempty"`
}

// ExperienceEntry is one work experience record extracted from a resume
type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// ParsedResume is the structured extraction output of a resume document.
// It is produced once per upload and immutable afterwards; a re-upload
// creates a new ParsedResume rather than patching the old one.
type ParsedResume struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Skills     []string          `json:"skills"`
	Education  []EducationEntry  `json:"education"`
	Experience []ExperienceEntry `json:"experience"`
	Summary    string            `json:"summary,omitempty"`
}

// Value implements driver.Valuer so ParsedResume persists as a JSON column
func (p ParsedResume) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (p *ParsedResume) Scan(value interface{}) error {
	if value == nil {
		*p = ParsedResume{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for ParsedResume: %T", value)
	}

	if len(data) == 0 {
		*p = ParsedResume{}
		return nil
	}

	return json.Unmarshal(data, p)
}

// Candidate represents a resume submission tied to a job requirement.
// AppliedRoleName is a point-in-time snapshot taken at submission and is
// intentionally never re-synced when the job is renamed; it keeps the
// application history readable after the job row is edited or deleted.
// FitScore is likewise computed once at submission and not recomputed when
// the job requirement changes afterwards.
type Candidate struct {
	ID     uuid.UUID  `json:"id" gorm:"type:char(36);primary_key"`
	UserID *uuid.UUID `json:"user_id" gorm:"type:char(36);index"`

	// Applicant information
	FullName string `json:"full_name" gorm:"not null" validate:"required"`
	Email    string `json:"email" gorm:"not null;index" validate:"required,email"`
	Phone    string `json:"phone" gorm:""`

	// Denormalized from the parsed resume for fast filtering
	Skills            StringList `json:"skills" gorm:"type:text"`
	YearsOfExperience int        `json:"years_of_experience" gorm:"not null;default:0"`

	// Resume. ResumeFileName keeps the applicant's original filename for
	// display; ResumePath is the stable on-disk location of the archived
	// upload, named after the candidate ID.
	ResumeFileName string       `json:"resume_file_name" gorm:"not null"`
	ResumePath     string       `json:"-" gorm:""`
	ParsedResume   ParsedResume `json:"parsed_resume" gorm:"type:text"`

	// Application
	AppliedRoleID   uuid.UUID       `json:"applied_role_id" gorm:"type:char(36);not null;index"`
	AppliedRoleName string          `json:"applied_role_name" gorm:"not null"`
	FitScore        int             `json:"fit_score" gorm:"not null;default:0"`
	Status          CandidateStatus `json:"status" gorm:"not null;default:'APPLIED';index"`

	// Optimistic concurrency guard for status updates
	Version int `json:"-" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User *User          `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Job  JobRequirement `json:"job,omitempty" gorm:"foreignKey:AppliedRoleID;constraint:OnUpdate:CASCADE,OnDelete:NO ACTION;"`
}

// CandidateResponse is the admin/recruiter view of a candidate, including
// the fit score
type CandidateResponse struct {
	ID                uuid.UUID       `json:"id"`
	UserID            *uuid.UUID      `json:"user_id,omitempty"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Skills            []string        `json:"skills"`
	YearsOfExperience int             `json:"years_of_experience"`
	ResumeFileName    string          `json:"resume_file_name"`
	ResumePath        string          `json:"resume_path,omitempty"`
	ParsedResume      ParsedResume    `json:"parsed_resume"`
	AppliedRoleID     uuid.UUID       `json:"applied_role_id"`
	AppliedRoleName   string          `json:"applied_role_name"`
	FitScore          int             `json:"fit_score"`
	Status            CandidateStatus `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ApplicantCandidateResponse is the applicant-facing view of their own
// application. It must never expose the fit score, only a readable status.
type ApplicantCandidateResponse struct {
	ID              uuid.UUID       `json:"id"`
	FullName        string          `json:"full_name"`
	AppliedRoleID   uuid.UUID       `json:"applied_role_id"`
	AppliedRoleName string          `json:"applied_role_name"`
	ResumeFileName  string          `json:"resume_file_name"`
	Status          CandidateStatus `json:"status"`
	StatusMessage   string          `json:"status_message"`
	CreatedAt       time.Time       `json:"created_at"`
}

// UpdateCandidateStatusRequest represents the request body for a status transition
type UpdateCandidateStatusRequest struct {
	Status CandidateStatus `json:"status" binding:"required,oneof=APPLIED SHORTLISTED INTERVIEWING HIRED REJECTED"`
	Notes  string          `json:"notes"`
}

// BeforeCreate is a GORM hook that runs before creating a candidate
func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CandidateStatusApplied
	}
	return nil
}

// ToResponse converts a Candidate to the admin/recruiter response shape
func (c *Candidate) ToResponse() CandidateResponse {
	skills := []string(c.Skills)
	if skills == nil {
		skills = []string{}
	}

	return CandidateResponse{
		ID:                c.ID,
		UserID:            c.UserID,
		FullName:          c.FullName,
		Email:             c.Email,
		Phone:             c.Phone,
		Skills:            skills,
		YearsOfExperience: c.YearsOfExperience,
		ResumeFileName:    c.ResumeFileName,
		ResumePath:        c.ResumePath,
		ParsedResume:      c.ParsedResume,
		AppliedRoleID:     c.AppliedRoleID,
		AppliedRoleName:   c.AppliedRoleName,
		FitScore:          c.FitScore,
		Status:            c.Status,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// ToApplicantResponse converts a Candidate to the applicant-facing shape
// without the fit score
func (c *Candidate) ToApplicantResponse() ApplicantCandidateResponse {
	return ApplicantCandidateResponse{
		ID:              c.ID,
		FullName:        c.FullName,
		AppliedRoleID:   c.AppliedRoleID,
		AppliedRoleName: c.AppliedRoleName,
		ResumeFileName:  c.ResumeFileName,
		Status:          c.Status,
		StatusMessage:   c.Status.StatusMessage(),
		CreatedAt:       c.CreatedAt,
	}
}

// CanTransitionTo checks whether the candidate may move to the target status.
// Only forward-moving or terminal transitions are allowed; HIRED and REJECTED
// are terminal.
func (c *Candidate) CanTransitionTo(newStatus CandidateStatus) bool {
	allowedTransitions := map[CandidateStatus][]CandidateStatus{
		CandidateStatusApplied: {
			CandidateStatusShortlisted,
			CandidateStatusRejected,
		},
		CandidateStatusShortlisted: {
			CandidateStatusInterviewing,
			CandidateStatusRejected,
		},
		CandidateStatusInterviewing: {
			CandidateStatusHired,
			CandidateStatusRejected,
		},
		CandidateStatusHired:    {},
		CandidateStatusRejected: {},
	}

	allowed, exists := allowedTransitions[c.Status]
	if !exists {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}

	return false
}

// IsTerminal checks if the candidate is in a final state
func (c *Candidate) IsTerminal() bool {
	return c.Status == CandidateStatusHired || c.Status == CandidateStatusRejected
}

// IsValid checks if the status is one of the known states
func (cs CandidateStatus) IsValid() bool {
	switch cs {
	case CandidateStatusApplied, CandidateStatusShortlisted,
		CandidateStatusInterviewing, CandidateStatusHired, CandidateStatusRejected:
		return true
	}
	return false
}

// StatusMessage returns the human-readable message shown to applicants
func (cs CandidateStatus) StatusMessage() string {
	switch cs {
	case CandidateStatusApplied:
		return "Your application has been received and is awaiting review."
	case CandidateStatusShortlisted:
		return "Congratulations, you have been shortlisted. Our team will be in touch."
	case CandidateStatusInterviewing:
		return "You are in the interview stage. Check your email for scheduling details."
	case CandidateStatusHired:
		return "Congratulations, you have been selected for this role."
	case CandidateStatusRejected:
		return "Thank you for your interest. We have decided not to move forward with your application."
	default:
		return "Your application is being processed."
	}
}
