package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusOpen   JobStatus = "OPEN"
	JobStatusClosed JobStatus = "CLOSED"
)

// JobRequirement represents an open or closed role posting that candidates
// apply against. Closing a job keeps the row (candidates reference it) but
// removes it from public listings and from scoring of new applicants.
type JobRequirement struct {
	ID       uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	RoleName string    `json:"role_name" gorm:"not null" validate:"required"`

	Department             string     `json:"department" gorm:"not null" validate:"required"`
	RequiredSkills         StringList `json:"required_skills" gorm:"type:text"`
	MinimumYearsExperience int        `json:"minimum_years_experience" gorm:"not null;default:0" validate:"gte=0"`
	EducationLevel         string     `json:"education_level" gorm:""`
	Responsibilities       StringList `json:"responsibilities" gorm:"type:text"`
	Status                 JobStatus  `json:"status" gorm:"not null;default:'OPEN'"`

	// Management
	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:char(36);not null;index"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:char(36);index"`

	CreatedAt time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Creator    User        `json:"creator,omitempty" gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Candidates []Candidate `json:"candidates,omitempty" gorm:"foreignKey:AppliedRoleID"`
}

// JobResponse represents the job data returned in API responses
type JobResponse struct {
	ID                     uuid.UUID  `json:"id"`
	RoleName               string     `json:"role_name"`
	Department             string     `json:"department"`
	RequiredSkills         []string   `json:"required_skills"`
	MinimumYearsExperience int        `json:"minimum_years_experience"`
	EducationLevel         string     `json:"education_level,omitempty"`
	Responsibilities       []string   `json:"responsibilities"`
	Status                 JobStatus  `json:"status"`
	CandidateCount         int        `json:"candidate_count"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
	Creator                *UserResponse `json:"creator,omitempty"`
}

// CreateJobRequest represents the request body for creating a job requirement
type CreateJobRequest struct {
	RoleName               string   `json:"role_name" binding:"required"`
	Department             string   `json:"department" binding:"required"`
	RequiredSkills         []string `json:"required_skills"`
	MinimumYearsExperience int      `json:"minimum_years_experience" binding:"gte=0"`
	EducationLevel         string   `json:"education_level"`
	Responsibilities       []string `json:"responsibilities"`
}

// UpdateJobRequest represents the request body for updating a job requirement
type UpdateJobRequest struct {
	RoleName               *string    `json:"role_name"`
	Department             *string    `json:"department"`
	RequiredSkills         []string   `json:"required_skills"`
	MinimumYearsExperience *int       `json:"minimum_years_experience" binding:"omitempty,gte=0"`
	EducationLevel         *string    `json:"education_level"`
	Responsibilities       []string   `json:"responsibilities"`
	Status                 *JobStatus `json:"status" binding:"omitempty,oneof=OPEN CLOSED"`
}

// BeforeCreate is a GORM hook that runs before creating a job requirement
func (j *JobRequirement) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = JobStatusOpen
	}
	return nil
}

// ToResponse converts a JobRequirement to JobResponse
func (j *JobRequirement) ToResponse() JobResponse {
	response := JobResponse{
		ID:                     j.ID,
		RoleName:               j.RoleName,
		Department:             j.Department,
		RequiredSkills:         j.RequiredSkills,
		MinimumYearsExperience: j.MinimumYearsExperience,
		EducationLevel:         j.EducationLevel,
		Responsibilities:       j.Responsibilities,
		Status:                 j.Status,
		CandidateCount:         len(j.Candidates),
		CreatedAt:              j.CreatedAt,
		UpdatedAt:              j.UpdatedAt,
	}

	if response.RequiredSkills == nil {
		response.RequiredSkills = []string{}
	}
	if response.Responsibilities == nil {
		response.Responsibilities = []string{}
	}

	if j.Creator.ID != uuid.Nil {
		creatorResponse := j.Creator.ToResponse()
		response.Creator = &creatorResponse
	}

	return response
}

// IsOpen checks if the job accepts new applications
func (j *JobRequirement) IsOpen() bool {
	return j.Status == JobStatusOpen
}
