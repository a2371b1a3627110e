package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ems-portal/internal/middleware"
	"ems-portal/internal/models"
	"ems-portal/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PayrollHandler struct {
	db       *gorm.DB
	logger   *zap.Logger
	notifier notify.Dispatcher
}

func NewPayrollHandler(db *gorm.DB, logger *zap.Logger, notifier notify.Dispatcher) *PayrollHandler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &PayrollHandler{
		db:       db,
		logger:   logger,
		notifier: notifier,
	}
}

// CreatePayroll handles creating a payroll entry
// @Summary Create payroll entry
// @Description Create a monthly payroll entry for an employee. Base salary is taken from the employee profile.
// @Tags payroll
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreatePayrollRequest true "Payroll data"
// @Success 201 {object} models.PayrollResponse
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/payroll [post]
func (h *PayrollHandler) CreatePayroll(c *gin.Context) {
	var req models.CreatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var employee models.Employee
	if err := h.db.First(&employee, "id = ?", req.EmployeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Employee not found"})
			return
		}
		h.logger.Error("Failed to fetch employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employee"})
		return
	}

	var count int64
	h.db.Model(&models.Payroll{}).
		Where("employee_id = ? AND year = ? AND month = ?", req.EmployeeID, req.Year, req.Month).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Payroll entry already exists for this period",
			"code":  "DUPLICATE_PERIOD",
		})
		return
	}

	payroll := models.Payroll{
		EmployeeID: req.EmployeeID,
		Year:       req.Year,
		Month:      req.Month,
		BaseSalary: employee.Salary,
		Bonus:      req.Bonus,
		Deductions: req.Deductions,
		Status:     models.PayrollStatusPending,
	}

	if err := h.db.Create(&payroll).Error; err != nil {
		h.logger.Error("Failed to create payroll entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payroll entry"})
		return
	}

	h.logger.Info("Payroll entry created",
		zap.String("payroll_id", payroll.ID.String()),
		zap.String("employee_id", employee.EmployeeID),
		zap.Int("year", payroll.Year),
		zap.Int("month", payroll.Month))

	c.JSON(http.StatusCreated, payroll.ToResponse())
}

// ListPayroll handles listing payroll entries
// @Summary List payroll entries
// @Description List payroll entries. Employees see their own; admins see everyone's.
// @Tags payroll
// @Security BearerAuth
// @Produce json
// @Param year query int false "Filter by year"
// @Param month query int false "Filter by month"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/payroll [get]
func (h *PayrollHandler) ListPayroll(c *gin.Context) {
	query := h.db.Model(&models.Payroll{}).Preload("Employee.User")

	if !middleware.IsAdmin(c) {
		userID, exists := middleware.GetCurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		var employee models.Employee
		if err := h.db.First(&employee, "user_id = ?", userID).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "No employee profile for this account",
				"code":  "NO_EMPLOYEE_PROFILE",
			})
			return
		}
		query = query.Where("employee_id = ?", employee.ID)
	}

	if year := c.Query("year"); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		query = query.Where("year = ?", y)
	}
	if month := c.Query("month"); month != "" {
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
		query = query.Where("month = ?", m)
	}

	var entries []models.Payroll
	if err := query.Order("year DESC, month DESC").Find(&entries).Error; err != nil {
		h.logger.Error("Failed to fetch payroll entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payroll entries"})
		return
	}

	responses := make([]models.PayrollResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, entries[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"payroll": responses})
}

// UpdatePayroll handles updating amounts or advancing the status of a payroll entry
// @Summary Update payroll entry
// @Description Update bonus/deductions or move the entry through PENDING, PROCESSING and PAID
// @Tags payroll
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Payroll ID"
// @Param request body models.UpdatePayrollRequest true "Payroll updates"
// @Success 200 {object} models.PayrollResponse
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/payroll/{id} [put]
func (h *PayrollHandler) UpdatePayroll(c *gin.Context) {
	payrollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payroll ID"})
		return
	}

	var req models.UpdatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var payroll models.Payroll
	if err := h.db.Preload("Employee").First(&payroll, "id = ?", payrollID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payroll entry not found"})
			return
		}
		h.logger.Error("Failed to fetch payroll entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payroll entry"})
		return
	}

	// Amounts are frozen once the entry leaves PENDING
	if (req.Bonus != nil || req.Deductions != nil) && payroll.Status != models.PayrollStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Amounts can only change while the entry is pending",
			"code":  "AMOUNTS_FROZEN",
		})
		return
	}
	if req.Bonus != nil {
		payroll.Bonus = *req.Bonus
	}
	if req.Deductions != nil {
		payroll.Deductions = *req.Deductions
	}
	payroll.ComputeNetSalary()

	paid := false
	if req.Status != nil && *req.Status != payroll.Status {
		if !payroll.CanTransitionTo(*req.Status) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Invalid payroll status transition",
				"code":  "INVALID_TRANSITION",
				"from":  payroll.Status,
				"to":    *req.Status,
			})
			return
		}
		payroll.Status = *req.Status
		if payroll.Status == models.PayrollStatusPaid {
			now := time.Now()
			payroll.PaidAt = &now
			paid = true
		}
	}

	if err := h.db.Save(&payroll).Error; err != nil {
		h.logger.Error("Failed to update payroll entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payroll entry"})
		return
	}

	if paid {
		h.logger.Info("Payroll paid",
			zap.String("payroll_id", payroll.ID.String()),
			zap.Float64("net_salary", payroll.NetSalary))
		h.notifier.PayrollPaid(&payroll, payroll.Employee.UserID)
	}

	c.JSON(http.StatusOK, payroll.ToResponse())
}
