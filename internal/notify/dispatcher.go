package notify

import (
	"fmt"

	"ems-portal/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dispatcher receives outbound events from business operations. Delivery is
// fire and forget: implementations log failures and never propagate them,
// so a failed notification can never fail the operation that emitted it.
type Dispatcher interface {
	ApplicationReceived(candidate *models.Candidate)
	CandidateStatusChanged(candidate *models.Candidate)
	LeaveDecided(leave *models.Leave, recipientID uuid.UUID)
	PayrollPaid(payroll *models.Payroll, recipientID uuid.UUID)
	AnnouncementPublished(announcement *models.Announcement, recipientIDs []uuid.UUID)
}

// Service persists notifications as in-app inbox rows
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a notification service
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// ApplicationReceived notifies the applicant that their submission landed.
// Anonymous submissions (no linked user account) are skipped.
func (s *Service) ApplicationReceived(candidate *models.Candidate) {
	if candidate.UserID == nil {
		return
	}

	s.deliver(&models.Notification{
		UserID:      *candidate.UserID,
		Type:        models.NotificationTypeApplicationReceived,
		Subject:     "Application received",
		Body:        fmt.Sprintf("Your application for %s has been received and is awaiting review.", candidate.AppliedRoleName),
		ReferenceID: &candidate.ID,
	})
}

// CandidateStatusChanged notifies the applicant about a lifecycle change
func (s *Service) CandidateStatusChanged(candidate *models.Candidate) {
	if candidate.UserID == nil {
		return
	}

	s.deliver(&models.Notification{
		UserID:      *candidate.UserID,
		Type:        models.NotificationTypeStatusChanged,
		Subject:     fmt.Sprintf("Application update: %s", candidate.AppliedRoleName),
		Body:        candidate.Status.StatusMessage(),
		ReferenceID: &candidate.ID,
	})
}

// LeaveDecided notifies the employee about the decision on their leave request
func (s *Service) LeaveDecided(leave *models.Leave, recipientID uuid.UUID) {
	body := fmt.Sprintf("Your %s leave request from %s to %s was %s.",
		leave.LeaveType,
		leave.StartDate.Format("2006-01-02"),
		leave.EndDate.Format("2006-01-02"),
		leave.Status)
	if leave.DecisionNote != "" {
		body += " Note: " + leave.DecisionNote
	}

	s.deliver(&models.Notification{
		UserID:      recipientID,
		Type:        models.NotificationTypeLeaveDecided,
		Subject:     "Leave request decided",
		Body:        body,
		ReferenceID: &leave.ID,
	})
}

// PayrollPaid notifies the employee that their salary went out
func (s *Service) PayrollPaid(payroll *models.Payroll, recipientID uuid.UUID) {
	s.deliver(&models.Notification{
		UserID:      recipientID,
		Type:        models.NotificationTypePayrollPaid,
		Subject:     fmt.Sprintf("Salary paid for %04d-%02d", payroll.Year, payroll.Month),
		Body:        fmt.Sprintf("Your salary of %.2f has been paid out.", payroll.NetSalary),
		ReferenceID: &payroll.ID,
	})
}

// AnnouncementPublished fans an announcement out to the given recipients
func (s *Service) AnnouncementPublished(announcement *models.Announcement, recipientIDs []uuid.UUID) {
	for _, recipientID := range recipientIDs {
		s.deliver(&models.Notification{
			UserID:      recipientID,
			Type:        models.NotificationTypeAnnouncement,
			Subject:     announcement.Title,
			Body:        announcement.Body,
			ReferenceID: &announcement.ID,
		})
	}
}

func (s *Service) deliver(notification *models.Notification) {
	if err := s.db.Create(notification).Error; err != nil {
		s.logger.Warn("failed to persist notification",
			zap.String("type", string(notification.Type)),
			zap.String("user_id", notification.UserID.String()),
			zap.Error(err))
	}
}

// Nop discards all events; used where no dispatcher is wired
type Nop struct{}

func (Nop) ApplicationReceived(*models.Candidate)                        {}
func (Nop) CandidateStatusChanged(*models.Candidate)                     {}
func (Nop) LeaveDecided(*models.Leave, uuid.UUID)                        {}
func (Nop) PayrollPaid(*models.Payroll, uuid.UUID)                       {}
func (Nop) AnnouncementPublished(*models.Announcement, []uuid.UUID)      {}
