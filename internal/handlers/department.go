package handlers

import (
	"errors"
	"net/http"

	"ems-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DepartmentHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewDepartmentHandler(db *gorm.DB, logger *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		db:     db,
		logger: logger,
	}
}

// ListDepartments handles listing all departments
// @Summary List departments
// @Tags departments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/departments [get]
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	var departments []models.Department
	if err := h.db.Preload("Manager.User").Preload("Employees").
		Order("name ASC").Find(&departments).Error; err != nil {
		h.logger.Error("Failed to fetch departments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch departments"})
		return
	}

	responses := make([]models.DepartmentResponse, 0, len(departments))
	for i := range departments {
		responses = append(responses, departments[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"departments": responses})
}

// GetDepartment handles fetching a single department
// @Summary Get department
// @Tags departments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} models.DepartmentResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/departments/{id} [get]
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
		return
	}

	var department models.Department
	if err := h.db.Preload("Manager.User").Preload("Employees.User").
		First(&department, "id = ?", departmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
			return
		}
		h.logger.Error("Failed to fetch department", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch department"})
		return
	}

	c.JSON(http.StatusOK, department.ToResponse())
}

// CreateDepartment handles creating a department
// @Summary Create department
// @Tags departments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateDepartmentRequest true "Department data"
// @Success 201 {object} models.DepartmentResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/departments [post]
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req models.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	department := models.Department{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
	}

	if err := h.db.Create(&department).Error; err != nil {
		h.logger.Error("Failed to create department", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create department"})
		return
	}

	c.JSON(http.StatusCreated, department.ToResponse())
}

// UpdateDepartment handles updating a department
// @Summary Update department
// @Tags departments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Department ID"
// @Param request body models.UpdateDepartmentRequest true "Department updates"
// @Success 200 {object} models.DepartmentResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/departments/{id} [put]
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
		return
	}

	var req models.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var department models.Department
	if err := h.db.First(&department, "id = ?", departmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
			return
		}
		h.logger.Error("Failed to fetch department", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch department"})
		return
	}

	if req.Name != nil {
		department.Name = *req.Name
	}
	if req.Description != nil {
		department.Description = *req.Description
	}
	if req.ManagerID != nil {
		department.ManagerID = req.ManagerID
	}

	if err := h.db.Save(&department).Error; err != nil {
		h.logger.Error("Failed to update department", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update department"})
		return
	}

	c.JSON(http.StatusOK, department.ToResponse())
}

// DeleteDepartment handles deleting a department
// @Summary Delete department
// @Tags departments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/departments/{id} [delete]
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
		return
	}

	var employeeCount int64
	h.db.Model(&models.Employee{}).Where("department_id = ?", departmentID).Count(&employeeCount)
	if employeeCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Department still has employees assigned",
			"code":  "DEPARTMENT_NOT_EMPTY",
		})
		return
	}

	result := h.db.Delete(&models.Department{}, "id = ?", departmentID)
	if result.Error != nil {
		h.logger.Error("Failed to delete department", zap.Error(result.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete department"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Department deleted successfully"})
}
