package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent    AttendanceStatus = "PRESENT"
	AttendanceStatusAbsent     AttendanceStatus = "ABSENT"
	AttendanceStatusHalfDay    AttendanceStatus = "HALF_DAY"
	AttendanceStatusLate       AttendanceStatus = "LATE"
	AttendanceStatusEarlyLeave AttendanceStatus = "EARLY_LEAVE"
)

// Attendance is one work day record per employee. Date is stored truncated
// to midnight UTC so the unique index catches double clock-ins.
type Attendance struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	EmployeeID uuid.UUID `json:"employee_id" gorm:"type:char(36);not null;uniqueIndex:idx_attendance_employee_date"`
	Date       time.Time `json:"date" gorm:"not null;uniqueIndex:idx_attendance_employee_date"`

	ClockIn  *time.Time `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out"`

	Status    AttendanceStatus `json:"status" gorm:"not null;default:'PRESENT'"`
	WorkHours float64          `json:"work_hours" gorm:"not null;default:0"`
	ClockInIP string           `json:"-" gorm:""`
	Notes     string           `json:"notes" gorm:""`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`

	// Relationships
	Employee Employee `json:"employee,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// AttendanceResponse represents the attendance data returned in API responses
type AttendanceResponse struct {
	ID           uuid.UUID        `json:"id"`
	EmployeeID   uuid.UUID        `json:"employee_id"`
	EmployeeName string           `json:"employee_name,omitempty"`
	Date         time.Time        `json:"date"`
	ClockIn      *time.Time       `json:"clock_in"`
	ClockOut     *time.Time       `json:"clock_out"`
	Status       AttendanceStatus `json:"status"`
	WorkHours    float64          `json:"work_hours"`
	Notes        string           `json:"notes,omitempty"`
}

// BeforeCreate is a GORM hook that runs before creating an attendance record
func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AttendanceStatusPresent
	}
	a.Date = a.Date.UTC().Truncate(24 * time.Hour)
	return nil
}

// ToResponse converts an Attendance to AttendanceResponse
func (a *Attendance) ToResponse() AttendanceResponse {
	response := AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Date:       a.Date,
		ClockIn:    a.ClockIn,
		ClockOut:   a.ClockOut,
		Status:     a.Status,
		WorkHours:  a.WorkHours,
		Notes:      a.Notes,
	}

	if a.Employee.User.ID != uuid.Nil {
		response.EmployeeName = a.Employee.User.FullName()
	}

	return response
}

// ComputeWorkHours recalculates the logged hours from the clock timestamps
func (a *Attendance) ComputeWorkHours() {
	if a.ClockIn == nil || a.ClockOut == nil {
		a.WorkHours = 0
		return
	}
	a.WorkHours = a.ClockOut.Sub(*a.ClockIn).Hours()
	if a.WorkHours < 0 {
		a.WorkHours = 0
	}
}
