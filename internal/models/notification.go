package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeApplicationReceived NotificationType = "APPLICATION_RECEIVED"
	NotificationTypeStatusChanged       NotificationType = "STATUS_CHANGED"
	NotificationTypeLeaveDecided        NotificationType = "LEAVE_DECIDED"
	NotificationTypePayrollPaid         NotificationType = "PAYROLL_PAID"
	NotificationTypeAnnouncement        NotificationType = "ANNOUNCEMENT"
)

// Notification is a persisted in-app message for a user. Delivery is
// best effort; business operations never fail because a notification
// could not be written.
type Notification struct {
	ID     uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	UserID uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`

	Type    NotificationType `json:"type" gorm:"not null"`
	Subject string           `json:"subject" gorm:"not null"`
	Body    string           `json:"body" gorm:"not null"`

	// Optional reference back to the record the notification is about
	ReferenceID *uuid.UUID `json:"reference_id" gorm:"type:char(36)"`

	IsRead bool       `json:"is_read" gorm:"not null;default:false;index"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`

	// Relationships
	User User `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// NotificationResponse represents the notification data returned in API responses
type NotificationResponse struct {
	ID          uuid.UUID        `json:"id"`
	Type        NotificationType `json:"type"`
	Subject     string           `json:"subject"`
	Body        string           `json:"body"`
	ReferenceID *uuid.UUID       `json:"reference_id,omitempty"`
	IsRead      bool             `json:"is_read"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// BeforeCreate is a GORM hook that runs before creating a notification
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// ToResponse converts a Notification to NotificationResponse
func (n *Notification) ToResponse() NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Type:        n.Type,
		Subject:     n.Subject,
		Body:        n.Body,
		ReferenceID: n.ReferenceID,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

// MarkRead flags the notification as read
func (n *Notification) MarkRead() {
	if !n.IsRead {
		now := time.Now()
		n.IsRead = true
		n.ReadAt = &now
	}
}
