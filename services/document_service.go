package services

import (
	"context"
	"errors"
	"time"

	"prd-workspace/logger"
	"prd-workspace/metrics"
	"prd-workspace/models"
	"prd-workspace/repositories"
	"prd-workspace/versioning"

	"github.com/google/uuid"
)

// DocumentService is what handlers talk to. Every error kind from the store
// and the versioning rules is returned unchanged.
type DocumentService interface {
	Create(ctx context.Context, title, content, editor string) (*models.Document, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context, params models.DocumentListParams) ([]models.Document, int64, error)
	Edit(ctx context.Context, id uuid.UUID, req models.EditDocumentRequest, editor string) (*models.Document, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.DocumentStatus) (*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListHistory(ctx context.Context, id uuid.UUID) ([]models.HistoryEntry, error)
	GetVersion(ctx context.Context, id uuid.UUID, versionNumber int) (*models.HistoryEntry, error)
	Restore(ctx context.Context, id uuid.UUID, versionNumber int, changeDescription, editor string) (*models.Document, error)
	Compare(ctx context.Context, id uuid.UUID, versionA, versionB int) (*versioning.Comparison, error)
}

type documentService struct {
	documentRepo repositories.DocumentRepository
	log          *logger.Logger
	metrics      *metrics.Metrics
}

func NewDocumentService(documentRepo repositories.DocumentRepository, log *logger.Logger, m *metrics.Metrics) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		log:          log.Component("document_service"),
		metrics:      m,
	}
}

func (s *documentService) Create(ctx context.Context, title, content, editor string) (*models.Document, error) {
	document, err := versioning.NewDocument(title, content, editor)
	if err != nil {
		return nil, err
	}

	if err := s.documentRepo.Create(ctx, document); err != nil {
		s.logStorageFailure("create", document.ID, err)
		return nil, err
	}

	s.metrics.DocumentsCreated.Inc()
	return document, nil
}

func (s *documentService) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	document, err := s.documentRepo.LoadCurrent(ctx, id)
	if err != nil {
		s.logStorageFailure("get", id, err)
		return nil, err
	}
	return document, nil
}

func (s *documentService) List(ctx context.Context, params models.DocumentListParams) ([]models.Document, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 10
	}

	documents, total, err := s.documentRepo.List(ctx, params)
	if err != nil {
		s.logStorageFailure("list", uuid.Nil, err)
		return nil, 0, err
	}
	return documents, total, nil
}

func (s *documentService) Edit(ctx context.Context, id uuid.UUID, req models.EditDocumentRequest, editor string) (*models.Document, error) {
	current, err := s.documentRepo.LoadCurrent(ctx, id)
	if err != nil {
		s.logStorageFailure("edit", id, err)
		return nil, err
	}

	intent, err := versioning.ProposeEdit(current, req.Title, req.Content, req.ChangeDescription, editor)
	if err != nil {
		s.metrics.RecordRejection(string(versioning.KindEdit))
		return nil, err
	}

	// The editor was looking at an older revision than the one just loaded.
	if req.BaseVersion > 0 {
		intent.ExpectedVersion = req.BaseVersion
	}

	return s.commit(ctx, intent)
}

func (s *documentService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.DocumentStatus) (*models.Document, error) {
	if !status.Valid() {
		return nil, models.ErrorValidation{Reason: models.InvalidTarget, Field: "status", Message: "unknown status " + string(status)}
	}

	document, err := s.documentRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logStorageFailure("update_status", id, err)
		return nil, err
	}
	return document, nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.documentRepo.Delete(ctx, id); err != nil {
		s.logStorageFailure("delete", id, err)
		return err
	}
	s.metrics.DocumentsDeleted.Inc()
	return nil
}

func (s *documentService) ListHistory(ctx context.Context, id uuid.UUID) ([]models.HistoryEntry, error) {
	current, err := s.documentRepo.LoadCurrent(ctx, id)
	if err != nil {
		s.logStorageFailure("list_history", id, err)
		return nil, err
	}

	snapshots, err := s.documentRepo.ListSnapshots(ctx, id)
	if err != nil {
		s.logStorageFailure("list_history", id, err)
		return nil, err
	}

	history := make([]models.HistoryEntry, 0, len(snapshots)+1)
	history = append(history, current.HistoryEntry())
	for i := range snapshots {
		// a transition committed between the two reads shows up as a
		// snapshot at or above the version we loaded; keep the list consistent
		if snapshots[i].VersionNumber >= current.Version {
			continue
		}
		history = append(history, snapshots[i].HistoryEntry())
	}
	return history, nil
}

func (s *documentService) GetVersion(ctx context.Context, id uuid.UUID, versionNumber int) (*models.HistoryEntry, error) {
	current, err := s.documentRepo.LoadCurrent(ctx, id)
	if err != nil {
		s.logStorageFailure("get_version", id, err)
		return nil, err
	}

	if versionNumber == current.Version {
		entry := current.HistoryEntry()
		return &entry, nil
	}
	if versionNumber < 1 || versionNumber > current.Version {
		return nil, models.VersionNotFound(id, versionNumber)
	}

	snapshot, err := s.documentRepo.LoadSnapshot(ctx, id, versionNumber)
	if err != nil {
		s.logStorageFailure("get_version", id, err)
		return nil, err
	}
	entry := snapshot.HistoryEntry()
	return &entry, nil
}

func (s *documentService) Restore(ctx context.Context, id uuid.UUID, versionNumber int, changeDescription, editor string) (*models.Document, error) {
	current, err := s.documentRepo.LoadCurrent(ctx, id)
	if err != nil {
		s.logStorageFailure("restore", id, err)
		return nil, err
	}

	if err := versioning.CheckRestoreTarget(current, versionNumber); err != nil {
		s.metrics.RecordRejection(string(versioning.KindRestore))
		return nil, err
	}

	target, err := s.documentRepo.LoadSnapshot(ctx, id, versionNumber)
	if err != nil {
		s.logStorageFailure("restore", id, err)
		return nil, err
	}

	intent, err := versioning.ProposeRestore(current, target, changeDescription, editor)
	if err != nil {
		s.metrics.RecordRejection(string(versioning.KindRestore))
		return nil, err
	}

	return s.commit(ctx, intent)
}

func (s *documentService) Compare(ctx context.Context, id uuid.UUID, versionA, versionB int) (*versioning.Comparison, error) {
	a, err := s.GetVersion(ctx, id, versionA)
	if err != nil {
		return nil, err
	}
	b, err := s.GetVersion(ctx, id, versionB)
	if err != nil {
		return nil, err
	}

	comparison := versioning.Compare(revisionOf(a), revisionOf(b))
	return &comparison, nil
}

func (s *documentService) commit(ctx context.Context, intent versioning.TransitionIntent) (*models.Document, error) {
	start := time.Now()
	document, err := s.documentRepo.CommitTransition(ctx, intent)
	elapsed := time.Since(start)

	s.metrics.RecordTransition(string(intent.Kind), outcomeOf(err), elapsed)
	s.log.LogTransition(string(intent.Kind), intent.DocumentID.String(), intent.ExpectedVersion, elapsed, err)
	if err != nil {
		s.logStorageFailure(string(intent.Kind), intent.DocumentID, err)
		return nil, err
	}
	return document, nil
}

func (s *documentService) logStorageFailure(op string, id uuid.UUID, err error) {
	var storageErr models.ErrorStorage
	if !errors.As(err, &storageErr) {
		return
	}
	event := s.log.Error("storage failure").Str("operation", op).Err(storageErr.Err)
	if id != uuid.Nil {
		event = event.Str("document_id", id.String())
	}
	event.Send()
}

func revisionOf(entry *models.HistoryEntry) versioning.Revision {
	return versioning.Revision{
		VersionNumber: entry.VersionNumber,
		Title:         entry.Title,
		Content:       entry.Content,
		CreatedAt:     entry.CreatedAt,
		IsCurrent:     entry.IsCurrent,
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeCommitted
	}

	var (
		conflict models.ErrorConflict
		notFound models.ErrorNotFound
		invalid  models.ErrorValidation
	)
	switch {
	case errors.As(err, &conflict):
		return metrics.OutcomeConflict
	case errors.As(err, &notFound):
		return metrics.OutcomeNotFound
	case errors.As(err, &invalid):
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeError
}
