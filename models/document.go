package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	StatusDraft    DocumentStatus = "draft"
	StatusReview   DocumentStatus = "review"
	StatusApproved DocumentStatus = "approved"
	StatusArchived DocumentStatus = "archived"
)

func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusApproved, StatusArchived:
		return true
	}
	return false
}

// Document is the live revision of a PRD. Version starts at 1 and only
// ever moves forward by one per accepted edit or restore. RevisedAt is the
// time of the current revision; UpdatedAt also moves on status changes.
type Document struct {
	ID                uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Title             string            `json:"title" gorm:"not null"`
	Content           string            `json:"content" gorm:"type:text;not null"`
	Version           int               `json:"version" gorm:"not null;default:1"`
	Status            DocumentStatus    `json:"status" gorm:"not null;default:'draft'"`
	ChangeDescription string            `json:"change_description" gorm:"type:text"`
	CreatedBy         string            `json:"created_by" gorm:"not null"`
	UpdatedBy         string            `json:"updated_by" gorm:"not null"`
	Versions          []VersionSnapshot `json:"-" gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
	RevisedAt         time.Time         `json:"revised_at" gorm:"not null"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}

// HistoryEntry returns the document as the newest entry of its history.
func (d *Document) HistoryEntry() HistoryEntry {
	return HistoryEntry{
		DocumentID:        d.ID,
		VersionNumber:     d.Version,
		Title:             d.Title,
		Content:           d.Content,
		ChangeDescription: d.ChangeDescription,
		CreatedBy:         d.UpdatedBy,
		CreatedAt:         d.RevisedAt,
		IsCurrent:         true,
	}
}
