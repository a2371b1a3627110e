package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayrollStatus string

const (
	PayrollStatusPending    PayrollStatus = "PENDING"
	PayrollStatusProcessing PayrollStatus = "PROCESSING"
	PayrollStatusPaid       PayrollStatus = "PAID"
)

// Payroll is one monthly pay run entry for an employee
type Payroll struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	EmployeeID uuid.UUID `json:"employee_id" gorm:"type:char(36);not null;uniqueIndex:idx_payroll_employee_period"`

	// Period
	Year  int `json:"year" gorm:"not null;uniqueIndex:idx_payroll_employee_period"`
	Month int `json:"month" gorm:"not null;uniqueIndex:idx_payroll_employee_period" validate:"gte=1,lte=12"`

	// Amounts
	BaseSalary float64 `json:"base_salary" gorm:"not null"`
	Bonus      float64 `json:"bonus" gorm:"not null;default:0"`
	Deductions float64 `json:"deductions" gorm:"not null;default:0"`
	NetSalary  float64 `json:"net_salary" gorm:"not null"`

	Status PayrollStatus `json:"status" gorm:"not null;default:'PENDING';index"`
	PaidAt *time.Time    `json:"paid_at"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`

	// Relationships
	Employee Employee `json:"employee,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// PayrollResponse represents the payroll data returned in API responses
type PayrollResponse struct {
	ID           uuid.UUID     `json:"id"`
	EmployeeID   uuid.UUID     `json:"employee_id"`
	EmployeeName string        `json:"employee_name,omitempty"`
	Year         int           `json:"year"`
	Month        int           `json:"month"`
	BaseSalary   float64       `json:"base_salary"`
	Bonus        float64       `json:"bonus"`
	Deductions   float64       `json:"deductions"`
	NetSalary    float64       `json:"net_salary"`
	Status       PayrollStatus `json:"status"`
	PaidAt       *time.Time    `json:"paid_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// CreatePayrollRequest represents the request body for creating a payroll entry
type CreatePayrollRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	Year       int       `json:"year" binding:"required,gte=2000"`
	Month      int       `json:"month" binding:"required,gte=1,lte=12"`
	Bonus      float64   `json:"bonus" binding:"gte=0"`
	Deductions float64   `json:"deductions" binding:"gte=0"`
}

// UpdatePayrollRequest represents the request body for updating a payroll entry
type UpdatePayrollRequest struct {
	Bonus      *float64       `json:"bonus" binding:"omitempty,gte=0"`
	Deductions *float64       `json:"deductions" binding:"omitempty,gte=0"`
	Status     *PayrollStatus `json:"status" binding:"omitempty,oneof=PENDING PROCESSING PAID"`
}

// BeforeCreate is a GORM hook that runs before creating a payroll entry
func (p *Payroll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PayrollStatusPending
	}
	p.ComputeNetSalary()
	return nil
}

// ComputeNetSalary recalculates the net amount from base, bonus and deductions.
// Net is floored at zero so deductions can never produce a negative payout.
func (p *Payroll) ComputeNetSalary() {
	p.NetSalary = p.BaseSalary + p.Bonus - p.Deductions
	if p.NetSalary < 0 {
		p.NetSalary = 0
	}
}

// ToResponse converts a Payroll to PayrollResponse
func (p *Payroll) ToResponse() PayrollResponse {
	response := PayrollResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Year:       p.Year,
		Month:      p.Month,
		BaseSalary: p.BaseSalary,
		Bonus:      p.Bonus,
		Deductions: p.Deductions,
		NetSalary:  p.NetSalary,
		Status:     p.Status,
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
	}

	if p.Employee.User.ID != uuid.Nil {
		response.EmployeeName = p.Employee.User.FullName()
	}

	return response
}

// CanTransitionTo checks whether the payroll may move to the target status
func (p *Payroll) CanTransitionTo(newStatus PayrollStatus) bool {
	allowedTransitions := map[PayrollStatus][]PayrollStatus{
		PayrollStatusPending:    {PayrollStatusProcessing},
		PayrollStatusProcessing: {PayrollStatusPaid, PayrollStatusPending},
		PayrollStatusPaid:       {},
	}

	for _, status := range allowedTransitions[p.Status] {
		if status == newStatus {
			return true
		}
	}
	return false
}
