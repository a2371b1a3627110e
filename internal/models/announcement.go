package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementPriority string

const (
	AnnouncementPriorityLow    AnnouncementPriority = "LOW"
	AnnouncementPriorityNormal AnnouncementPriority = "NORMAL"
	AnnouncementPriorityHigh   AnnouncementPriority = "HIGH"
)

// Announcement is a company-wide notice published by HR or admin
type Announcement struct {
	ID       uuid.UUID            `json:"id" gorm:"type:char(36);primary_key"`
	Title    string               `json:"title" gorm:"not null" validate:"required"`
	Body     string               `json:"body" gorm:"not null" validate:"required"`
	Priority AnnouncementPriority `json:"priority" gorm:"not null;default:'NORMAL'"`

	PublishedBy uuid.UUID  `json:"published_by" gorm:"type:char(36);not null"`
	ExpiresAt   *time.Time `json:"expires_at"`

	CreatedAt time.Time      `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Publisher User `json:"publisher,omitempty" gorm:"foreignKey:PublishedBy"`
}

// AnnouncementResponse represents the announcement data returned in API responses
type AnnouncementResponse struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Body          string               `json:"body"`
	Priority      AnnouncementPriority `json:"priority"`
	PublishedBy   uuid.UUID            `json:"published_by"`
	PublisherName string               `json:"publisher_name,omitempty"`
	ExpiresAt     *time.Time           `json:"expires_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// CreateAnnouncementRequest represents the request body for publishing an announcement
type CreateAnnouncementRequest struct {
	Title     string               `json:"title" binding:"required"`
	Body      string               `json:"body" binding:"required"`
	Priority  AnnouncementPriority `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH"`
	ExpiresAt *time.Time           `json:"expires_at"`
}

// BeforeCreate is a GORM hook that runs before creating an announcement
func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Priority == "" {
		a.Priority = AnnouncementPriorityNormal
	}
	return nil
}

// ToResponse converts an Announcement to AnnouncementResponse
func (a *Announcement) ToResponse() AnnouncementResponse {
	response := AnnouncementResponse{
		ID:          a.ID,
		Title:       a.Title,
		Body:        a.Body,
		Priority:    a.Priority,
		PublishedBy: a.PublishedBy,
		ExpiresAt:   a.ExpiresAt,
		CreatedAt:   a.CreatedAt,
	}

	if a.Publisher.ID != uuid.Nil {
		response.PublisherName = a.Publisher.FullName()
	}

	return response
}

// IsExpired checks if the announcement is past its expiry time
func (a *Announcement) IsExpired() bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(time.Now())
}
