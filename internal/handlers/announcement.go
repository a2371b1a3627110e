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

type AnnouncementHandler struct {
	db       *gorm.DB
	logger   *zap.Logger
	notifier notify.Dispatcher
}

func NewAnnouncementHandler(db *gorm.DB, logger *zap.Logger, notifier notify.Dispatcher) *AnnouncementHandler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &AnnouncementHandler{
		db:       db,
		logger:   logger,
		notifier: notifier,
	}
}

// ListAnnouncements handles listing active announcements
// @Summary List announcements
// @Description List announcements that have not expired, newest first
// @Tags announcements
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/announcements [get]
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	var announcements []models.Announcement
	if err := h.db.Preload("Publisher").
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("created_at DESC").Find(&announcements).Error; err != nil {
		h.logger.Error("Failed to fetch announcements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch announcements"})
		return
	}

	responses := make([]models.AnnouncementResponse, 0, len(announcements))
	for i := range announcements {
		responses = append(responses, announcements[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"announcements": responses})
}

// CreateAnnouncement handles publishing an announcement
// @Summary Publish announcement
// @Description Publish a company-wide announcement and notify all active users
// @Tags announcements
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateAnnouncementRequest true "Announcement data"
// @Success 201 {object} models.AnnouncementResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/announcements [post]
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	announcement := models.Announcement{
		Title:       req.Title,
		Body:        req.Body,
		Priority:    req.Priority,
		PublishedBy: userID,
		ExpiresAt:   req.ExpiresAt,
	}

	if err := h.db.Create(&announcement).Error; err != nil {
		h.logger.Error("Failed to create announcement", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}

	h.logger.Info("Announcement published",
		zap.String("announcement_id", announcement.ID.String()),
		zap.String("title", announcement.Title),
		zap.String("published_by", userID.String()))

	// Fan out to everyone except the publisher
	var recipientIDs []uuid.UUID
	if err := h.db.Model(&models.User{}).
		Where("is_active = ? AND id <> ?", true, userID).
		Pluck("id", &recipientIDs).Error; err != nil {
		h.logger.Warn("Failed to resolve announcement recipients", zap.Error(err))
	} else {
		h.notifier.AnnouncementPublished(&announcement, recipientIDs)
	}

	c.JSON(http.StatusCreated, announcement.ToResponse())
}

// DeleteAnnouncement handles retracting an announcement
// @Summary Delete announcement
// @Tags announcements
// @Security BearerAuth
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/announcements/{id} [delete]
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	announcementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement ID"})
		return
	}

	var announcement models.Announcement
	if err := h.db.First(&announcement, "id = ?", announcementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
			return
		}
		h.logger.Error("Failed to fetch announcement", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch announcement"})
		return
	}

	if err := h.db.Delete(&announcement).Error; err != nil {
		h.logger.Error("Failed to delete announcement", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete announcement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted successfully"})
}
