package models

import (
	"time"

	"github.com/google/uuid"
)

// VersionSnapshot is a frozen, superseded revision of a Document. Rows are
// written once by a transition and never updated.
type VersionSnapshot struct {
	ID                uint      `json:"-" gorm:"primarykey"`
	DocumentID        uuid.UUID `json:"document_id" gorm:"type:uuid;not null;uniqueIndex:idx_document_versions_number"`
	VersionNumber     int       `json:"version_number" gorm:"not null;uniqueIndex:idx_document_versions_number"`
	Title             string    `json:"title" gorm:"not null"`
	Content           string    `json:"content" gorm:"type:text;not null"`
	ChangeDescription string    `json:"change_description" gorm:"type:text"`
	CreatedBy         string    `json:"created_by" gorm:"not null"`
	CreatedAt         time.Time `json:"created_at" gorm:"not null"`
	ArchivedBy        string    `json:"archived_by" gorm:"not null"`
	ArchivedAt        time.Time `json:"archived_at" gorm:"not null"`
}

func (VersionSnapshot) TableName() string {
	return "document_versions"
}

func (v *VersionSnapshot) HistoryEntry() HistoryEntry {
	return HistoryEntry{
		DocumentID:        v.DocumentID,
		VersionNumber:     v.VersionNumber,
		Title:             v.Title,
		Content:           v.Content,
		ChangeDescription: v.ChangeDescription,
		CreatedBy:         v.CreatedBy,
		CreatedAt:         v.CreatedAt,
	}
}

// HistoryEntry is one row of a document's combined history: either the
// current document (IsCurrent) or one of its snapshots.
type HistoryEntry struct {
	DocumentID        uuid.UUID `json:"document_id"`
	VersionNumber     int       `json:"version_number"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	ChangeDescription string    `json:"change_description"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
	IsCurrent         bool      `json:"is_current"`
}
