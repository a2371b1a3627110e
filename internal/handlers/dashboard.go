package handlers

import (
	"net/http"
	"time"

	"ems-portal/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewDashboardHandler(db *gorm.DB, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		db:     db,
		logger: logger,
	}
}

// GetDashboard handles the aggregate overview for HR and admins
// @Summary Dashboard statistics
// @Description Aggregate counts across employees, recruitment, leaves and announcements
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var (
		employeeCount   int64
		departmentCount int64
		openJobCount    int64
		pendingLeaves   int64
		onLeaveToday    int64
		presentToday    int64
		pendingPayrolls int64
	)

	today := time.Now().UTC().Truncate(24 * time.Hour)

	h.db.Model(&models.Employee{}).
		Where("status = ?", models.EmployeeStatusActive).Count(&employeeCount)
	h.db.Model(&models.Department{}).Count(&departmentCount)
	h.db.Model(&models.JobRequirement{}).
		Where("status = ?", models.JobStatusOpen).Count(&openJobCount)
	h.db.Model(&models.Leave{}).
		Where("status = ?", models.LeaveStatusPending).Count(&pendingLeaves)
	h.db.Model(&models.Leave{}).
		Where("status = ? AND start_date <= ? AND end_date >= ?",
			models.LeaveStatusApproved, today, today).Count(&onLeaveToday)
	h.db.Model(&models.Attendance{}).
		Where("date = ?", today).Count(&presentToday)
	h.db.Model(&models.Payroll{}).
		Where("status = ?", models.PayrollStatusPending).Count(&pendingPayrolls)

	// Pipeline breakdown per candidate status
	type statusCount struct {
		Status models.CandidateStatus `json:"status"`
		Count  int64                  `json:"count"`
	}
	var candidatesByStatus []statusCount
	if err := h.db.Model(&models.Candidate{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&candidatesByStatus).Error; err != nil {
		h.logger.Error("Failed to aggregate candidates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}

	pipeline := gin.H{}
	var totalCandidates int64
	for _, sc := range candidatesByStatus {
		pipeline[string(sc.Status)] = sc.Count
		totalCandidates += sc.Count
	}

	var recentAnnouncements []models.Announcement
	h.db.Preload("Publisher").
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("created_at DESC").Limit(5).Find(&recentAnnouncements)

	announcementResponses := make([]models.AnnouncementResponse, 0, len(recentAnnouncements))
	for i := range recentAnnouncements {
		announcementResponses = append(announcementResponses, recentAnnouncements[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"employees": gin.H{
			"active":         employeeCount,
			"departments":    departmentCount,
			"on_leave_today": onLeaveToday,
			"present_today":  presentToday,
		},
		"recruitment": gin.H{
			"open_jobs":        openJobCount,
			"total_candidates": totalCandidates,
			"pipeline":         pipeline,
		},
		"leaves": gin.H{
			"pending": pendingLeaves,
		},
		"payroll": gin.H{
			"pending": pendingPayrolls,
		},
		"recent_announcements": announcementResponses,
	})
}
