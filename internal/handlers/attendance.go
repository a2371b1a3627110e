package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ems-portal/internal/database"
	"ems-portal/internal/middleware"
	"ems-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AttendanceHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAttendanceHandler(db *gorm.DB, logger *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		db:     db,
		logger: logger,
	}
}

// ClockIn handles the start-of-day punch
// @Summary Clock in
// @Description Record the start of the authenticated employee's work day
// @Tags attendance
// @Security BearerAuth
// @Produce json
// @Success 201 {object} models.AttendanceResponse
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/attendance/clock-in [post]
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	employee, ok := h.currentEmployee(c)
	if !ok {
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	var existing models.Attendance
	err := h.db.Where("employee_id = ? AND date = ?", employee.ID, today).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Already clocked in today",
			"code":  "ALREADY_CLOCKED_IN",
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Error("Failed to check attendance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check attendance"})
		return
	}

	now := time.Now()
	attendance := models.Attendance{
		EmployeeID: employee.ID,
		Date:       today,
		ClockIn:    &now,
		Status:     models.AttendanceStatusPresent,
		ClockInIP:  c.ClientIP(),
	}

	if err := h.db.Create(&attendance).Error; err != nil {
		h.logger.Error("Failed to clock in", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clock in"})
		return
	}

	c.JSON(http.StatusCreated, attendance.ToResponse())
}

// ClockOut handles the end-of-day punch
// @Summary Clock out
// @Description Record the end of the authenticated employee's work day and compute hours
// @Tags attendance
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.AttendanceResponse
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/attendance/clock-out [post]
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	employee, ok := h.currentEmployee(c)
	if !ok {
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	var attendance models.Attendance
	if err := h.db.Where("employee_id = ? AND date = ?", employee.ID, today).First(&attendance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Not clocked in today",
				"code":  "NOT_CLOCKED_IN",
			})
			return
		}
		h.logger.Error("Failed to fetch attendance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}

	if attendance.ClockOut != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Already clocked out today",
			"code":  "ALREADY_CLOCKED_OUT",
		})
		return
	}

	now := time.Now()
	attendance.ClockOut = &now
	attendance.ComputeWorkHours()

	if err := h.db.Save(&attendance).Error; err != nil {
		h.logger.Error("Failed to clock out", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clock out"})
		return
	}

	c.JSON(http.StatusOK, attendance.ToResponse())
}

// ListAttendance handles listing attendance records
// @Summary List attendance
// @Description List attendance records. Employees see their own; HR and admins see everyone's.
// @Tags attendance
// @Security BearerAuth
// @Produce json
// @Param employee_id query string false "Filter by employee (HR/admin only)"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/attendance [get]
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	query := h.db.Model(&models.Attendance{}).Preload("Employee.User")

	if middleware.IsHROrAdmin(c) {
		if employeeID := c.Query("employee_id"); employeeID != "" {
			id, err := uuid.Parse(employeeID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID"})
				return
			}
			query = query.Where("employee_id = ?", id)
		}
	} else {
		employee, ok := h.currentEmployee(c)
		if !ok {
			return
		}
		query = query.Where("employee_id = ?", employee.ID)
	}

	if from := c.Query("from"); from != "" {
		date, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
			return
		}
		query = query.Where("date >= ?", date)
	}
	if to := c.Query("to"); to != "" {
		date, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
			return
		}
		query = query.Where("date <= ?", date)
	}

	var total int64
	query.Count(&total)

	var records []models.Attendance
	if err := query.Scopes(database.Paginate(page, limit)).
		Order("date DESC").Find(&records).Error; err != nil {
		h.logger.Error("Failed to fetch attendance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}

	responses := make([]models.AttendanceResponse, 0, len(records))
	for i := range records {
		responses = append(responses, records[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"attendance": responses,
		"pagination": database.CalculatePagination(page, limit, total),
	})
}

// currentEmployee resolves the authenticated user's employee profile
func (h *AttendanceHandler) currentEmployee(c *gin.Context) (*models.Employee, bool) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	var employee models.Employee
	if err := h.db.First(&employee, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "No employee profile for this account",
				"code":  "NO_EMPLOYEE_PROFILE",
			})
			return nil, false
		}
		h.logger.Error("Failed to fetch employee profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employee profile"})
		return nil, false
	}

	return &employee, true
}
