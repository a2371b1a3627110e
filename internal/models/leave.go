package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"
	LeaveStatusApproved LeaveStatus = "APPROVED"
	LeaveStatusRejected LeaveStatus = "REJECTED"
)

type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "ANNUAL"
	LeaveTypeSick      LeaveType = "SICK"
	LeaveTypeUnpaid    LeaveType = "UNPAID"
	LeaveTypeMaternity LeaveType = "MATERNITY"
	LeaveTypePaternity LeaveType = "PATERNITY"
)

// Leave is a leave request raised by an employee and decided by HR or admin
type Leave struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	EmployeeID uuid.UUID `json:"employee_id" gorm:"type:char(36);not null;index"`

	LeaveType LeaveType `json:"leave_type" gorm:"not null"`
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`
	Reason    string    `json:"reason" gorm:"not null"`

	Status     LeaveStatus `json:"status" gorm:"not null;default:'PENDING';index"`
	DecidedBy  *uuid.UUID  `json:"decided_by" gorm:"type:char(36)"`
	DecidedAt  *time.Time  `json:"decided_at"`
	DecisionNote string    `json:"decision_note" gorm:""`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`

	// Relationships
	Employee Employee `json:"employee,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Decider  *User    `json:"decider,omitempty" gorm:"foreignKey:DecidedBy"`
}

// LeaveResponse represents the leave data returned in API responses
type LeaveResponse struct {
	ID           uuid.UUID   `json:"id"`
	EmployeeID   uuid.UUID   `json:"employee_id"`
	EmployeeName string      `json:"employee_name,omitempty"`
	LeaveType    LeaveType   `json:"leave_type"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      time.Time   `json:"end_date"`
	Days         int         `json:"days"`
	Reason       string      `json:"reason"`
	Status       LeaveStatus `json:"status"`
	DecidedBy    *uuid.UUID  `json:"decided_by,omitempty"`
	DecidedAt    *time.Time  `json:"decided_at,omitempty"`
	DecisionNote string      `json:"decision_note,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// CreateLeaveRequest represents the request body for requesting leave
type CreateLeaveRequest struct {
	LeaveType LeaveType `json:"leave_type" binding:"required,oneof=ANNUAL SICK UNPAID MATERNITY PATERNITY"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}

// DecideLeaveRequest represents the request body for approving or rejecting leave
type DecideLeaveRequest struct {
	Status       LeaveStatus `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	DecisionNote string      `json:"decision_note"`
}

// BeforeCreate is a GORM hook that runs before creating a leave request
func (l *Leave) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Status == "" {
		l.Status = LeaveStatusPending
	}
	return nil
}

// ToResponse converts a Leave to LeaveResponse
func (l *Leave) ToResponse() LeaveResponse {
	response := LeaveResponse{
		ID:           l.ID,
		EmployeeID:   l.EmployeeID,
		LeaveType:    l.LeaveType,
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
		Days:         l.Days(),
		Reason:       l.Reason,
		Status:       l.Status,
		DecidedBy:    l.DecidedBy,
		DecidedAt:    l.DecidedAt,
		DecisionNote: l.DecisionNote,
		CreatedAt:    l.CreatedAt,
	}

	if l.Employee.User.ID != uuid.Nil {
		response.EmployeeName = l.Employee.User.FullName()
	}

	return response
}

// Days returns the inclusive day count of the leave period
func (l *Leave) Days() int {
	days := int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

// IsPending checks if the leave request still awaits a decision
func (l *Leave) IsPending() bool {
	return l.Status == LeaveStatusPending
}

// Overlaps checks whether two leave periods share at least one day
func (l *Leave) Overlaps(start, end time.Time) bool {
	return !l.EndDate.Before(start) && !l.StartDate.After(end)
}
