package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"ems-portal/internal/middleware"
	"ems-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type JobHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewJobHandler(db *gorm.DB, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		db:     db,
		logger: logger,
	}
}

// ListJobs handles listing job requirements
// @Summary List jobs
// @Description Get list of job requirements. Unauthenticated callers and applicants only see open roles.
// @Tags jobs
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Filter by status (OPEN/CLOSED)"
// @Param department query string false "Filter by department"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := h.db.Model(&models.JobRequirement{})

	// Only recruiters see closed roles
	if !middleware.IsHROrAdmin(c) {
		query = query.Where("status = ?", models.JobStatusOpen)
	} else if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if department := c.Query("department"); department != "" {
		query = query.Where("department = ?", department)
	}

	var total int64
	query.Count(&total)

	var jobs []models.JobRequirement
	if err := query.Preload("Candidates").
		Offset(offset).Limit(limit).Order("created_at DESC").Find(&jobs).Error; err != nil {
		h.logger.Error("Failed to fetch jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	responses := make([]models.JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, jobs[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs": responses,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetJob handles fetching a single job requirement
// @Summary Get job
// @Description Get a job requirement by ID
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} models.JobResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var job models.JobRequirement
	if err := h.db.Preload("Creator").Preload("Candidates").First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		h.logger.Error("Failed to fetch job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		return
	}

	if !job.IsOpen() && !middleware.IsHROrAdmin(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, job.ToResponse())
}

// CreateJob handles creating a job requirement
// @Summary Create job
// @Description Create a new job requirement
// @Tags jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateJobRequest true "Job data"
// @Success 201 {object} models.JobResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job := models.JobRequirement{
		RoleName:               req.RoleName,
		Department:             req.Department,
		RequiredSkills:         models.StringList(req.RequiredSkills),
		MinimumYearsExperience: req.MinimumYearsExperience,
		EducationLevel:         req.EducationLevel,
		Responsibilities:       models.StringList(req.Responsibilities),
		Status:                 models.JobStatusOpen,
		CreatedBy:              userID,
	}

	if err := h.db.Create(&job).Error; err != nil {
		h.logger.Error("Failed to create job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}

	h.logger.Info("Job created",
		zap.String("job_id", job.ID.String()),
		zap.String("role_name", job.RoleName),
		zap.String("created_by", userID.String()))

	c.JSON(http.StatusCreated, job.ToResponse())
}

// UpdateJob handles updating a job requirement
// @Summary Update job
// @Description Update fields of a job requirement
// @Tags jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body models.UpdateJobRequest true "Job updates"
// @Success 200 {object} models.JobResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/jobs/{id} [put]
func (h *JobHandler) UpdateJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var req models.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var job models.JobRequirement
	if err := h.db.First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		h.logger.Error("Failed to fetch job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		return
	}

	// Existing candidates keep the fit score computed at their submission
	// even when the requirements change here
	if req.RoleName != nil {
		job.RoleName = *req.RoleName
	}
	if req.Department != nil {
		job.Department = *req.Department
	}
	if req.RequiredSkills != nil {
		job.RequiredSkills = models.StringList(req.RequiredSkills)
	}
	if req.MinimumYearsExperience != nil {
		job.MinimumYearsExperience = *req.MinimumYearsExperience
	}
	if req.EducationLevel != nil {
		job.EducationLevel = *req.EducationLevel
	}
	if req.Responsibilities != nil {
		job.Responsibilities = models.StringList(req.Responsibilities)
	}
	if req.Status != nil {
		job.Status = *req.Status
	}

	userID, _ := middleware.GetCurrentUserID(c)
	job.UpdatedBy = &userID

	if err := h.db.Save(&job).Error; err != nil {
		h.logger.Error("Failed to update job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update job"})
		return
	}

	c.JSON(http.StatusOK, job.ToResponse())
}

// DeleteJob handles deleting a job requirement
// @Summary Delete job
// @Description Soft-delete a job requirement. Candidates keep their role name snapshot.
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var job models.JobRequirement
	if err := h.db.First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		h.logger.Error("Failed to fetch job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		return
	}

	// No cascade: existing candidates stay and resolve their role name
	// through the applied_role_name snapshot
	if err := h.db.Delete(&job).Error; err != nil {
		h.logger.Error("Failed to delete job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete job"})
		return
	}

	h.logger.Info("Job deleted", zap.String("job_id", job.ID.String()))

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}
