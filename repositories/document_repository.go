package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prd-workspace/models"
	"prd-workspace/versioning"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentRepository is the transactional boundary for documents and their
// append-only history. CommitTransition is the only path that changes a
// document's content or version.
type DocumentRepository interface {
	Create(ctx context.Context, document *models.Document) error
	LoadCurrent(ctx context.Context, id uuid.UUID) (*models.Document, error)
	LoadSnapshot(ctx context.Context, id uuid.UUID, versionNumber int) (*models.VersionSnapshot, error)
	ListSnapshots(ctx context.Context, id uuid.UUID) ([]models.VersionSnapshot, error)
	CommitTransition(ctx context.Context, intent versioning.TransitionIntent) (*models.Document, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.DocumentStatus) (*models.Document, error)
	List(ctx context.Context, params models.DocumentListParams) ([]models.Document, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var sortableColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"version":    "version",
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, document *models.Document) error {
	if document.RevisedAt.IsZero() {
		document.RevisedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(document).Error; err != nil {
		return models.ErrorStorage{Op: "create document", Err: err}
	}
	return nil
}

func (r *documentRepository) LoadCurrent(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var document models.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&document).Error
	if err != nil {
		return nil, translate("load document", err, models.DocumentNotFound(id))
	}
	return &document, nil
}

func (r *documentRepository) LoadSnapshot(ctx context.Context, id uuid.UUID, versionNumber int) (*models.VersionSnapshot, error) {
	if err := r.requireDocument(ctx, r.db, id); err != nil {
		return nil, err
	}

	var snapshot models.VersionSnapshot
	err := r.db.WithContext(ctx).
		Where("document_id = ? AND version_number = ?", id, versionNumber).
		First(&snapshot).Error
	if err != nil {
		return nil, translate("load snapshot", err, models.VersionNotFound(id, versionNumber))
	}
	return &snapshot, nil
}

func (r *documentRepository) ListSnapshots(ctx context.Context, id uuid.UUID) ([]models.VersionSnapshot, error) {
	var snapshots []models.VersionSnapshot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.requireDocument(ctx, tx, id); err != nil {
			return err
		}
		return tx.Where("document_id = ?", id).
			Order("version_number desc").
			Find(&snapshots).Error
	}, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, translate("list snapshots", err, nil)
	}
	return snapshots, nil
}

func (r *documentRepository) CommitTransition(ctx context.Context, intent versioning.TransitionIntent) (*models.Document, error) {
	var updated models.Document

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Document
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", intent.DocumentID).
			First(&current).Error
		if err != nil {
			return translate("lock document", err, models.DocumentNotFound(intent.DocumentID))
		}

		if current.Version != intent.ExpectedVersion {
			return models.ErrorConflict{
				DocumentID:      intent.DocumentID,
				ExpectedVersion: intent.ExpectedVersion,
				ActualVersion:   current.Version,
			}
		}

		now := time.Now()
		snapshot := models.VersionSnapshot{
			DocumentID:        current.ID,
			VersionNumber:     current.Version,
			Title:             current.Title,
			Content:           current.Content,
			ChangeDescription: current.ChangeDescription,
			CreatedBy:         current.UpdatedBy,
			CreatedAt:         current.RevisedAt,
			ArchivedBy:        intent.Editor,
			ArchivedAt:        now,
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrorConflict{DocumentID: intent.DocumentID, ExpectedVersion: intent.ExpectedVersion}
			}
			return models.ErrorStorage{Op: "insert snapshot", Err: err}
		}

		result := tx.Model(&models.Document{}).
			Where("id = ? AND version = ?", intent.DocumentID, intent.ExpectedVersion).
			Updates(map[string]interface{}{
				"title":              intent.NewTitle,
				"content":            intent.NewContent,
				"change_description": intent.ChangeDescription,
				"updated_by":         intent.Editor,
				"updated_at":         now,
				"revised_at":         now,
				"version":            intent.NextVersion(),
			})
		if result.Error != nil {
			return models.ErrorStorage{Op: "update document", Err: result.Error}
		}
		if result.RowsAffected != 1 {
			return models.ErrorConflict{DocumentID: intent.DocumentID, ExpectedVersion: intent.ExpectedVersion}
		}

		updated = current
		updated.Title = intent.NewTitle
		updated.Content = intent.NewContent
		updated.ChangeDescription = intent.ChangeDescription
		updated.UpdatedBy = intent.Editor
		updated.UpdatedAt = now
		updated.RevisedAt = now
		updated.Version = intent.NextVersion()
		return nil
	})
	if err != nil {
		return nil, translate("commit transition", err, nil)
	}
	return &updated, nil
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.DocumentStatus) (*models.Document, error) {
	result := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return nil, models.ErrorStorage{Op: "update status", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return nil, models.DocumentNotFound(id)
	}
	return r.LoadCurrent(ctx, id)
}

func (r *documentRepository) List(ctx context.Context, params models.DocumentListParams) ([]models.Document, int64, error) {
	var documents []models.Document
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Document{})

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	if params.Search != "" {
		query = query.Where("title ILIKE ?", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, models.ErrorStorage{Op: "count documents", Err: err}
	}

	sortBy, ok := sortableColumns[params.SortBy]
	if !ok {
		sortBy = "updated_at"
	}

	sortOrder := "desc"
	if params.SortOrder == "asc" {
		sortOrder = "asc"
	}

	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	offset := (params.Page - 1) * params.Limit
	if err := query.Offset(offset).Limit(params.Limit).Find(&documents).Error; err != nil {
		return nil, 0, models.ErrorStorage{Op: "list documents", Err: err}
	}

	return documents, total, nil
}

// Delete removes the document; snapshots go with it through ON DELETE CASCADE.
// Deleting an already deleted document succeeds.
func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Document{}).Error; err != nil {
		return models.ErrorStorage{Op: "delete document", Err: err}
	}
	return nil
}

func (r *documentRepository) requireDocument(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Document{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return models.ErrorStorage{Op: "check document", Err: err}
	}
	if count == 0 {
		return models.DocumentNotFound(id)
	}
	return nil
}

// translate keeps domain errors as they are, maps a missing row to notFound
// and wraps everything else as a storage failure.
func translate(op string, err error, notFound error) error {
	var (
		nf  models.ErrorNotFound
		cf  models.ErrorConflict
		vf  models.ErrorValidation
		stf models.ErrorStorage
	)
	switch {
	case errors.As(err, &nf), errors.As(err, &cf), errors.As(err, &vf), errors.As(err, &stf):
		return err
	case notFound != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	}
	return models.ErrorStorage{Op: op, Err: err}
}
