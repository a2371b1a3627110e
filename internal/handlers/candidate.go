package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ems-portal/config"
	"ems-portal/internal/middleware"
	"ems-portal/internal/models"
	"ems-portal/internal/recruitment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CandidateHandler struct {
	db         *gorm.DB
	logger     *zap.Logger
	cfg        *config.Config
	submission *recruitment.SubmissionService
	workflow   *recruitment.Workflow
}

func NewCandidateHandler(db *gorm.DB, logger *zap.Logger, cfg *config.Config, submission *recruitment.SubmissionService, workflow *recruitment.Workflow) *CandidateHandler {
	return &CandidateHandler{
		db:         db,
		logger:     logger,
		cfg:        cfg,
		submission: submission,
		workflow:   workflow,
	}
}

// ListCandidates handles the admin ranking view
// @Summary List candidates
// @Description Get candidates ranked by fit score. Supports role, status and text filters.
// @Tags candidates
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param role query string false "Filter by applied role ID"
// @Param status query string false "Filter by status"
// @Param search query string false "Search in full name or skills"
// @Param sort query string false "Sort order (fit_score/created_at/name)"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/candidates [get]
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := h.db.Model(&models.Candidate{})

	if role := c.Query("role"); role != "" {
		roleID, err := uuid.Parse(role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role ID"})
			return
		}
		query = query.Where("applied_role_id = ?", roleID)
	}
	if status := c.Query("status"); status != "" {
		if !models.CandidateStatus(status).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate status"})
			return
		}
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(skills) LIKE ?", pattern, pattern)
	}

	// Ranking order: best fit first, earliest applicant wins ties
	order := "fit_score DESC, created_at ASC"
	switch c.Query("sort") {
	case "", "fit_score":
	case "created_at":
		order = "created_at DESC"
	case "name":
		order = "full_name ASC"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort order"})
		return
	}

	var total int64
	query.Count(&total)

	var candidates []models.Candidate
	if err := query.Offset(offset).Limit(limit).Order(order).Find(&candidates).Error; err != nil {
		h.logger.Error("Failed to fetch candidates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch candidates"})
		return
	}

	responses := make([]models.CandidateResponse, 0, len(candidates))
	for i := range candidates {
		responses = append(responses, candidates[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": responses,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetCandidate handles fetching a single candidate
// @Summary Get candidate
// @Description Get a candidate by ID. Applicants only see their own applications, without the fit score.
// @Tags candidates
// @Security BearerAuth
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} models.CandidateResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/candidates/{id} [get]
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	var candidate models.Candidate
	if err := h.db.First(&candidate, "id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
			return
		}
		h.logger.Error("Failed to fetch candidate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch candidate"})
		return
	}

	if middleware.IsHROrAdmin(c) {
		c.JSON(http.StatusOK, candidate.ToResponse())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	if candidate.UserID == nil || *candidate.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return
	}

	c.JSON(http.StatusOK, candidate.ToApplicantResponse())
}

// SubmitCandidate handles a resume upload application
// @Summary Submit application
// @Description Upload a resume for a job. The resume is parsed, scored against the job and stored atomically.
// @Tags candidates
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param job_id formData string true "Job ID"
// @Param full_name formData string false "Applicant full name"
// @Param email formData string false "Applicant email"
// @Param phone formData string false "Applicant phone"
// @Param resume formData file true "Resume document (PDF, DOC, DOCX or TXT)"
// @Success 201 {object} models.ApplicantCandidateResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/v1/candidates [post]
func (h *CandidateHandler) SubmitCandidate(c *gin.Context) {
	jobID, err := uuid.Parse(c.PostForm("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing job ID"})
		return
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Resume file is required"})
		return
	}

	if fileHeader.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Resume exceeds maximum size of %d bytes", h.cfg.Upload.MaxSize),
			"code":  "FILE_TOO_LARGE",
		})
		return
	}

	if !h.isAllowedExtension(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File type not allowed, accepted: %s", strings.Join(h.cfg.Upload.AllowedExtensions, ", ")),
			"code":  "UNSUPPORTED_FILE_TYPE",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read resume file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read resume file"})
		return
	}

	input := recruitment.SubmissionInput{
		JobID:    jobID,
		FullName: c.PostForm("full_name"),
		Email:    c.PostForm("email"),
		Phone:    c.PostForm("phone"),
		FileName: fileHeader.Filename,
		Data:     data,
	}
	if userID, exists := middleware.GetCurrentUserID(c); exists {
		input.UserID = &userID
	}

	candidate, err := h.submission.Submit(c.Request.Context(), input)
	if err != nil {
		h.respondSubmissionError(c, err)
		return
	}

	h.storeResumeFile(candidate, data)

	if middleware.IsHROrAdmin(c) {
		c.JSON(http.StatusCreated, candidate.ToResponse())
		return
	}
	c.JSON(http.StatusCreated, candidate.ToApplicantResponse())
}

// ListMyApplications handles the applicant view of their own applications
// @Summary List own applications
// @Description Get the authenticated user's applications without fit scores
// @Tags candidates
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/candidates/mine [get]
func (h *CandidateHandler) ListMyApplications(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var candidates []models.Candidate
	if err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&candidates).Error; err != nil {
		h.logger.Error("Failed to fetch applications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	responses := make([]models.ApplicantCandidateResponse, 0, len(candidates))
	for i := range candidates {
		responses = append(responses, candidates[i].ToApplicantResponse())
	}

	c.JSON(http.StatusOK, gin.H{"applications": responses})
}

// UpdateCandidateStatus handles a lifecycle transition
// @Summary Update candidate status
// @Description Move a candidate to a new lifecycle status. Only forward transitions are allowed.
// @Tags candidates
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param request body models.UpdateCandidateStatusRequest true "Target status"
// @Success 200 {object} models.CandidateResponse
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/candidates/{id}/status [patch]
func (h *CandidateHandler) UpdateCandidateStatus(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	var req models.UpdateCandidateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidate, err := h.workflow.Transition(c.Request.Context(), candidateID, req.Status)
	if err != nil {
		h.respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate.ToResponse())
}

// DeleteCandidate handles removing a candidate record
// @Summary Delete candidate
// @Description Soft-delete a candidate record
// @Tags candidates
// @Security BearerAuth
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/candidates/{id} [delete]
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	var candidate models.Candidate
	if err := h.db.First(&candidate, "id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
			return
		}
		h.logger.Error("Failed to fetch candidate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch candidate"})
		return
	}

	if err := h.db.Delete(&candidate).Error; err != nil {
		h.logger.Error("Failed to delete candidate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete candidate"})
		return
	}

	h.logger.Info("Candidate deleted", zap.String("candidate_id", candidate.ID.String()))

	c.JSON(http.StatusOK, gin.H{"message": "Candidate deleted successfully"})
}

func (h *CandidateHandler) isAllowedExtension(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, allowed := range h.cfg.Upload.AllowedExtensions {
		if ext == strings.TrimSpace(allowed) {
			return true
		}
	}
	return false
}

// storeResumeFile archives the raw upload after the candidate is persisted
// and records the archive path on the candidate. The disk name is derived
// from the candidate ID so the stored reference stays stable regardless of
// what the applicant named the file. A failed archive write is logged but
// does not fail the submission; the parsed data is already stored.
func (h *CandidateHandler) storeResumeFile(candidate *models.Candidate, data []byte) {
	if err := os.MkdirAll(h.cfg.Upload.Path, 0755); err != nil {
		h.logger.Warn("Failed to create upload directory", zap.Error(err))
		return
	}

	diskName := candidate.ID.String() + filepath.Ext(candidate.ResumeFileName)
	diskPath := filepath.Join(h.cfg.Upload.Path, diskName)
	if err := os.WriteFile(diskPath, data, 0644); err != nil {
		h.logger.Warn("Failed to archive resume file",
			zap.String("candidate_id", candidate.ID.String()),
			zap.Error(err))
		return
	}

	if err := h.db.Model(candidate).Update("resume_path", diskPath).Error; err != nil {
		h.logger.Warn("Failed to record resume path",
			zap.String("candidate_id", candidate.ID.String()),
			zap.Error(err))
		return
	}
	candidate.ResumePath = diskPath
}

// respondSubmissionError maps pipeline and workflow errors onto HTTP codes
func (h *CandidateHandler) respondSubmissionError(c *gin.Context, err error) {
	var validationErr *recruitment.ValidationError
	var parseErr *recruitment.ParseError

	switch {
	case recruitment.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case recruitment.IsInvalidTransition(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "INVALID_TRANSITION"})
	case recruitment.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "CONCURRENT_UPDATE"})
	case errors.As(err, &parseErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Resume could not be processed", "code": string(parseErr.Kind)})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case recruitment.IsStoreUnavailable(err):
		h.logger.Error("Store unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		h.logger.Error("Unexpected submission error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
