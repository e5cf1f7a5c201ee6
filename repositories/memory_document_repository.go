package repositories

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"prd-workspace/models"
	"prd-workspace/versioning"

	"github.com/google/uuid"
)

var errDuplicateID = errors.New("document id already exists")

// memoryDocumentRepository keeps documents in process. The mutex makes the
// version check and both writes of a transition one atomic step.
type memoryDocumentRepository struct {
	mu        sync.RWMutex
	documents map[uuid.UUID]models.Document
	snapshots map[uuid.UUID][]models.VersionSnapshot
	nextID    uint
}

func NewMemoryDocumentRepository() DocumentRepository {
	return &memoryDocumentRepository{
		documents: make(map[uuid.UUID]models.Document),
		snapshots: make(map[uuid.UUID][]models.VersionSnapshot),
	}
}

func (r *memoryDocumentRepository) Create(ctx context.Context, document *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}
	if _, exists := r.documents[document.ID]; exists {
		return models.ErrorStorage{Op: "create document", Err: errDuplicateID}
	}

	now := time.Now()
	if document.CreatedAt.IsZero() {
		document.CreatedAt = now
	}
	if document.UpdatedAt.IsZero() {
		document.UpdatedAt = now
	}
	if document.RevisedAt.IsZero() {
		document.RevisedAt = now
	}
	r.documents[document.ID] = *document
	return nil
}

func (r *memoryDocumentRepository) LoadCurrent(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	document, ok := r.documents[id]
	if !ok {
		return nil, models.DocumentNotFound(id)
	}
	return &document, nil
}

func (r *memoryDocumentRepository) LoadSnapshot(ctx context.Context, id uuid.UUID, versionNumber int) (*models.VersionSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.documents[id]; !ok {
		return nil, models.DocumentNotFound(id)
	}
	// snapshots are stored oldest first at index versionNumber-1
	history := r.snapshots[id]
	if versionNumber < 1 || versionNumber > len(history) {
		return nil, models.VersionNotFound(id, versionNumber)
	}
	snapshot := history[versionNumber-1]
	return &snapshot, nil
}

func (r *memoryDocumentRepository) ListSnapshots(ctx context.Context, id uuid.UUID) ([]models.VersionSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.documents[id]; !ok {
		return nil, models.DocumentNotFound(id)
	}

	history := r.snapshots[id]
	out := make([]models.VersionSnapshot, len(history))
	for i := range history {
		out[len(history)-1-i] = history[i]
	}
	return out, nil
}

func (r *memoryDocumentRepository) CommitTransition(ctx context.Context, intent versioning.TransitionIntent) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.documents[intent.DocumentID]
	if !ok {
		return nil, models.DocumentNotFound(intent.DocumentID)
	}
	if current.Version != intent.ExpectedVersion {
		return nil, models.ErrorConflict{
			DocumentID:      intent.DocumentID,
			ExpectedVersion: intent.ExpectedVersion,
			ActualVersion:   current.Version,
		}
	}

	now := time.Now()
	r.nextID++
	r.snapshots[current.ID] = append(r.snapshots[current.ID], models.VersionSnapshot{
		ID:                r.nextID,
		DocumentID:        current.ID,
		VersionNumber:     current.Version,
		Title:             current.Title,
		Content:           current.Content,
		ChangeDescription: current.ChangeDescription,
		CreatedBy:         current.UpdatedBy,
		CreatedAt:         current.RevisedAt,
		ArchivedBy:        intent.Editor,
		ArchivedAt:        now,
	})

	current.Title = intent.NewTitle
	current.Content = intent.NewContent
	current.ChangeDescription = intent.ChangeDescription
	current.UpdatedBy = intent.Editor
	current.UpdatedAt = now
	current.RevisedAt = now
	current.Version = intent.NextVersion()
	r.documents[current.ID] = current

	return &current, nil
}

func (r *memoryDocumentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.DocumentStatus) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, ok := r.documents[id]
	if !ok {
		return nil, models.DocumentNotFound(id)
	}
	document.Status = status
	document.UpdatedAt = time.Now()
	r.documents[id] = document
	return &document, nil
}

func (r *memoryDocumentRepository) List(ctx context.Context, params models.DocumentListParams) ([]models.Document, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Document
	search := strings.ToLower(params.Search)
	for _, document := range r.documents {
		if params.Status != "" && string(document.Status) != params.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(document.Title), search) {
			continue
		}
		matched = append(matched, document)
	}

	desc := params.SortOrder != "asc"
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if desc {
			a, b = b, a
		}
		switch params.SortBy {
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "title":
			return a.Title < b.Title
		case "version":
			return a.Version < b.Version
		default:
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
	})

	total := int64(len(matched))
	offset := (params.Page - 1) * params.Limit
	if offset < 0 || offset >= len(matched) {
		return []models.Document{}, total, nil
	}
	end := offset + params.Limit
	if params.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *memoryDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.documents, id)
	delete(r.snapshots, id)
	return nil
}
