package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department groups employees under a manager
type Department struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primary_key"`
	Name        string     `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	Description string     `json:"description" gorm:""`
	ManagerID   *uuid.UUID `json:"manager_id" gorm:"type:char(36);index"`

	CreatedAt time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Manager   *Employee  `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
	Employees []Employee `json:"employees,omitempty" gorm:"foreignKey:DepartmentID"`
}

// DepartmentResponse represents the department data returned in API responses
type DepartmentResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	ManagerID     *uuid.UUID `json:"manager_id,omitempty"`
	ManagerName   string     `json:"manager_name,omitempty"`
	EmployeeCount int        `json:"employee_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateDepartmentRequest represents the request body for creating a department
type CreateDepartmentRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	ManagerID   *uuid.UUID `json:"manager_id"`
}

// UpdateDepartmentRequest represents the request body for updating a department
type UpdateDepartmentRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	ManagerID   *uuid.UUID `json:"manager_id"`
}

// BeforeCreate is a GORM hook that runs before creating a department
func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// ToResponse converts a Department to DepartmentResponse
func (d *Department) ToResponse() DepartmentResponse {
	response := DepartmentResponse{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		ManagerID:     d.ManagerID,
		EmployeeCount: len(d.Employees),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}

	if d.Manager != nil && d.Manager.User.ID != uuid.Nil {
		response.ManagerName = d.Manager.User.FullName()
	}

	return response
}
