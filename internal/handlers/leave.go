package handlers

import (
	"errors"
	"net/http"
	"time"

	"ems-portal/internal/middleware"
	"ems-portal/internal/models"
	"ems-portal/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LeaveHandler struct {
	db       *gorm.DB
	logger   *zap.Logger
	notifier notify.Dispatcher
}

func NewLeaveHandler(db *gorm.DB, logger *zap.Logger, notifier notify.Dispatcher) *LeaveHandler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &LeaveHandler{
		db:       db,
		logger:   logger,
		notifier: notifier,
	}
}

// RequestLeave handles raising a leave request
// @Summary Request leave
// @Description Raise a leave request for the authenticated employee
// @Tags leaves
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateLeaveRequest true "Leave data"
// @Success 201 {object} models.LeaveResponse
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/leaves [post]
func (h *LeaveHandler) RequestLeave(c *gin.Context) {
	employee, ok := h.currentEmployee(c)
	if !ok {
		return
	}

	var req models.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.EndDate.Before(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must not be before start date"})
		return
	}

	// Reject requests that collide with an open or approved period
	var existing []models.Leave
	if err := h.db.Where("employee_id = ? AND status IN ?", employee.ID,
		[]models.LeaveStatus{models.LeaveStatusPending, models.LeaveStatusApproved}).
		Find(&existing).Error; err != nil {
		h.logger.Error("Failed to check existing leaves", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing leaves"})
		return
	}
	for i := range existing {
		if existing[i].Overlaps(req.StartDate, req.EndDate) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Leave period overlaps an existing request",
				"code":  "LEAVE_OVERLAP",
			})
			return
		}
	}

	leave := models.Leave{
		EmployeeID: employee.ID,
		LeaveType:  req.LeaveType,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     req.Reason,
		Status:     models.LeaveStatusPending,
	}

	if err := h.db.Create(&leave).Error; err != nil {
		h.logger.Error("Failed to create leave request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create leave request"})
		return
	}

	h.logger.Info("Leave requested",
		zap.String("leave_id", leave.ID.String()),
		zap.String("employee_id", employee.EmployeeID),
		zap.Int("days", leave.Days()))

	c.JSON(http.StatusCreated, leave.ToResponse())
}

// ListLeaves handles listing leave requests
// @Summary List leaves
// @Description List leave requests. Employees see their own; HR and admins see everyone's.
// @Tags leaves
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status (PENDING/APPROVED/REJECTED)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/leaves [get]
func (h *LeaveHandler) ListLeaves(c *gin.Context) {
	query := h.db.Model(&models.Leave{}).Preload("Employee.User")

	if !middleware.IsHROrAdmin(c) {
		employee, ok := h.currentEmployee(c)
		if !ok {
			return
		}
		query = query.Where("employee_id = ?", employee.ID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var leaves []models.Leave
	if err := query.Order("created_at DESC").Find(&leaves).Error; err != nil {
		h.logger.Error("Failed to fetch leaves", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaves"})
		return
	}

	responses := make([]models.LeaveResponse, 0, len(leaves))
	for i := range leaves {
		responses = append(responses, leaves[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"leaves": responses})
}

// DecideLeave handles approving or rejecting a leave request
// @Summary Decide leave
// @Description Approve or reject a pending leave request
// @Tags leaves
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Leave ID"
// @Param request body models.DecideLeaveRequest true "Decision"
// @Success 200 {object} models.LeaveResponse
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/leaves/{id}/decision [put]
func (h *LeaveHandler) DecideLeave(c *gin.Context) {
	leaveID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid leave ID"})
		return
	}

	var req models.DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var leave models.Leave
	if err := h.db.Preload("Employee").First(&leave, "id = ?", leaveID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Leave request not found"})
			return
		}
		h.logger.Error("Failed to fetch leave", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leave"})
		return
	}

	if !leave.IsPending() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Leave request has already been decided",
			"code":  "ALREADY_DECIDED",
		})
		return
	}

	deciderID, _ := middleware.GetCurrentUserID(c)
	now := time.Now()
	leave.Status = req.Status
	leave.DecidedBy = &deciderID
	leave.DecidedAt = &now
	leave.DecisionNote = req.DecisionNote

	if err := h.db.Save(&leave).Error; err != nil {
		h.logger.Error("Failed to decide leave", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decide leave"})
		return
	}

	h.logger.Info("Leave decided",
		zap.String("leave_id", leave.ID.String()),
		zap.String("status", string(leave.Status)),
		zap.String("decided_by", deciderID.String()))

	h.notifier.LeaveDecided(&leave, leave.Employee.UserID)

	c.JSON(http.StatusOK, leave.ToResponse())
}

func (h *LeaveHandler) currentEmployee(c *gin.Context) (*models.Employee, bool) {
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
