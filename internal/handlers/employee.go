package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ems-portal/internal/middleware"
	"ems-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EmployeeHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewEmployeeHandler(db *gorm.DB, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		db:     db,
		logger: logger,
	}
}

// ListEmployees handles listing employee profiles
// @Summary List employees
// @Description Get employee profiles. Salary is only included for admins.
// @Tags employees
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param department query string false "Filter by department ID"
// @Param status query string false "Filter by status"
// @Param search query string false "Search in name or employee ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := h.db.Model(&models.Employee{}).Joins("User")

	if department := c.Query("department"); department != "" {
		departmentID, err := uuid.Parse(department)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
			return
		}
		query = query.Where("department_id = ?", departmentID)
	}
	if status := c.Query("status"); status != "" {
		if !models.EmployeeStatus(status).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee status"})
			return
		}
		query = query.Where("employees.status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(\"User\".first_name) LIKE ? OR LOWER(\"User\".last_name) LIKE ? OR LOWER(employee_id) LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	query.Count(&total)

	var employees []models.Employee
	if err := query.Preload("Department").
		Offset(offset).Limit(limit).Order("employee_id ASC").Find(&employees).Error; err != nil {
		h.logger.Error("Failed to fetch employees", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employees"})
		return
	}

	includeSalary := middleware.IsAdmin(c)
	responses := make([]models.EmployeeResponse, 0, len(employees))
	for i := range employees {
		responses = append(responses, employees[i].ToResponse(includeSalary))
	}

	c.JSON(http.StatusOK, gin.H{
		"employees": responses,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetEmployee handles fetching a single employee profile
// @Summary Get employee
// @Description Get an employee profile. Employees may fetch their own; salary only for admins and the owner.
// @Tags employees
// @Security BearerAuth
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} models.EmployeeResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID"})
		return
	}

	var employee models.Employee
	if err := h.db.Preload("User").Preload("Department").
		First(&employee, "id = ?", employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
			return
		}
		h.logger.Error("Failed to fetch employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employee"})
		return
	}

	if !middleware.CanAccessResource(c, employee.UserID, models.RoleAdmin, models.RoleHRManager) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	includeSalary := middleware.IsAdmin(c) || employee.UserID == userID

	c.JSON(http.StatusOK, employee.ToResponse(includeSalary))
}

// CreateEmployee handles creating an employee profile
// @Summary Create employee
// @Description Create an employee profile for an existing user, e.g. when onboarding a hired candidate
// @Tags employees
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateEmployeeRequest true "Employee data"
// @Success 201 {object} models.EmployeeResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req models.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("Failed to fetch user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	employee := models.Employee{
		UserID:       req.UserID,
		EmployeeID:   req.EmployeeID,
		DepartmentID: req.DepartmentID,
		Position:     req.Position,
		HireDate:     req.HireDate,
		Salary:       req.Salary,
		Status:       models.EmployeeStatusActive,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&employee).Error; err != nil {
			return err
		}
		// Hired applicants become employees
		if user.Role == models.RoleApplicant {
			return tx.Model(&user).Update("role", models.RoleEmployee).Error
		}
		return nil
	})
	if err != nil {
		h.logger.Error("Failed to create employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}

	employee.User = user
	h.logger.Info("Employee created",
		zap.String("employee_id", employee.EmployeeID),
		zap.String("user_id", user.ID.String()))

	c.JSON(http.StatusCreated, employee.ToResponse(true))
}

// UpdateEmployee handles updating an employee profile
// @Summary Update employee
// @Tags employees
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body models.UpdateEmployeeRequest true "Employee updates"
// @Success 200 {object} models.EmployeeResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID"})
		return
	}

	var req models.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var employee models.Employee
	if err := h.db.Preload("User").First(&employee, "id = ?", employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
			return
		}
		h.logger.Error("Failed to fetch employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employee"})
		return
	}

	if req.DepartmentID != nil {
		employee.DepartmentID = req.DepartmentID
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.Salary != nil {
		if !middleware.IsAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admins may change salaries"})
			return
		}
		employee.Salary = *req.Salary
	}
	if req.Status != nil {
		employee.Status = *req.Status
	}

	if err := h.db.Save(&employee).Error; err != nil {
		h.logger.Error("Failed to update employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}

	c.JSON(http.StatusOK, employee.ToResponse(middleware.IsAdmin(c)))
}
