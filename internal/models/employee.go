package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "ACTIVE"
	EmployeeStatusInactive   EmployeeStatus = "INACTIVE"
	EmployeeStatusOnLeave    EmployeeStatus = "ON_LEAVE"
	EmployeeStatusTerminated EmployeeStatus = "TERMINATED"
)

// Employee is the HR profile attached to a user account. Candidates who get
// hired receive an employee profile through the onboarding flow.
type Employee struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:char(36);uniqueIndex;not null"`
	EmployeeID string    `json:"employee_id" gorm:"uniqueIndex;not null"`

	// Position
	DepartmentID *uuid.UUID `json:"department_id" gorm:"type:char(36);index"`
	Position     string     `json:"position" gorm:"not null"`
	HireDate     time.Time  `json:"hire_date" gorm:"not null"`
	Salary       float64    `json:"salary" gorm:"not null;default:0"`

	Status EmployeeStatus `json:"status" gorm:"not null;default:'ACTIVE'"`

	CreatedAt time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User        User         `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Department  *Department  `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	Attendances []Attendance `json:"attendances,omitempty" gorm:"foreignKey:EmployeeID;references:ID"`
	Leaves      []Leave      `json:"leaves,omitempty" gorm:"foreignKey:EmployeeID;references:ID"`
	Payrolls    []Payroll    `json:"payrolls,omitempty" gorm:"foreignKey:EmployeeID;references:ID"`
}

// EmployeeResponse represents the employee data returned in API responses
type EmployeeResponse struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	EmployeeID     string         `json:"employee_id"`
	FullName       string         `json:"full_name"`
	Email          string         `json:"email"`
	DepartmentID   *uuid.UUID     `json:"department_id,omitempty"`
	DepartmentName string         `json:"department_name,omitempty"`
	Position       string         `json:"position"`
	HireDate       time.Time      `json:"hire_date"`
	Salary         float64        `json:"salary,omitempty"`
	Status         EmployeeStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// CreateEmployeeRequest represents the request body for creating an employee profile
type CreateEmployeeRequest struct {
	UserID       uuid.UUID  `json:"user_id" binding:"required"`
	EmployeeID   string     `json:"employee_id" binding:"required"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Position     string     `json:"position" binding:"required"`
	HireDate     time.Time  `json:"hire_date" binding:"required"`
	Salary       float64    `json:"salary" binding:"gte=0"`
}

// UpdateEmployeeRequest represents the request body for updating an employee profile
type UpdateEmployeeRequest struct {
	DepartmentID *uuid.UUID      `json:"department_id"`
	Position     *string         `json:"position"`
	Salary       *float64        `json:"salary" binding:"omitempty,gte=0"`
	Status       *EmployeeStatus `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE ON_LEAVE TERMINATED"`
}

// BeforeCreate is a GORM hook that runs before creating an employee
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = EmployeeStatusActive
	}
	return nil
}

// ToResponse converts an Employee to EmployeeResponse. Salary is only
// populated when includeSalary is true; the employee list endpoint hides it
// from non-admin callers.
func (e *Employee) ToResponse(includeSalary bool) EmployeeResponse {
	response := EmployeeResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		EmployeeID:   e.EmployeeID,
		DepartmentID: e.DepartmentID,
		Position:     e.Position,
		HireDate:     e.HireDate,
		Status:       e.Status,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}

	if includeSalary {
		response.Salary = e.Salary
	}

	if e.User.ID != uuid.Nil {
		response.FullName = e.User.FullName()
		response.Email = e.User.Email
	}
	if e.Department != nil {
		response.DepartmentName = e.Department.Name
	}

	return response
}

// IsActive checks if the employee is currently active
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}

// IsValid checks if the status is one of the known states
func (es EmployeeStatus) IsValid() bool {
	switch es {
	case EmployeeStatusActive, EmployeeStatusInactive,
		EmployeeStatusOnLeave, EmployeeStatusTerminated:
		return true
	}
	return false
}
