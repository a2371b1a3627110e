package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleHRManager UserRole = "HR_MANAGER"
	RoleEmployee  UserRole = "EMPLOYEE"
	RoleApplicant UserRole = "APPLICANT"
)

// User represents an authenticated identity in the system. Account lifecycle
// (registration, password reset, sessions) is owned by the identity provider;
// this table only carries what authorization and record linking need.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	Password  string    `json:"-" gorm:"not null" validate:"required,min=6"`
	FirstName string    `json:"first_name" gorm:"not null" validate:"required"`
	LastName  string    `json:"last_name" gorm:"not null" validate:"required"`
	Phone     string    `json:"phone" gorm:""`
	Role      UserRole  `json:"role" gorm:"not null;default:'EMPLOYEE'" validate:"required,oneof=ADMIN HR_MANAGER EMPLOYEE APPLICANT"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	AvatarURL string    `json:"avatar_url" gorm:""`

	// Timestamps
	CreatedAt time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	EmployeeProfile *Employee      `json:"employee_profile,omitempty" gorm:"foreignKey:UserID"`
	Candidates      []Candidate    `json:"candidates,omitempty" gorm:"foreignKey:UserID"`
	Notifications   []Notification `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
	CreatedJobs     []JobRequirement `json:"created_jobs,omitempty" gorm:"foreignKey:CreatedBy"`
}

// UserResponse represents the user data returned in API responses (without sensitive data)
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Role      UserRole  `json:"role"`
	IsActive  bool      `json:"is_active"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return u.HashPassword()
}

// HashPassword hashes the user's password
func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword checks if the provided password matches the user's password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// ToResponse converts a User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FullName returns the user's full name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin checks if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsHRManager checks if the user has HR manager role
func (u *User) IsHRManager() bool {
	return u.Role == RoleHRManager
}

// CanManageRecruitment checks if the user may act on candidates and jobs
func (u *User) CanManageRecruitment() bool {
	return u.Role == RoleAdmin || u.Role == RoleHRManager
}
