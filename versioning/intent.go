// Package versioning holds the storage-independent rules of document
// history: what a transition writes and how two revisions are compared.
package versioning

import (
	"fmt"
	"strings"
	"time"

	"prd-workspace/models"

	"github.com/google/uuid"
)

type TransitionKind string

const (
	KindEdit    TransitionKind = "edit"
	KindRestore TransitionKind = "restore"
)

// TransitionIntent is the full proposed next state of a document. It does
// nothing on its own; a store commits it atomically against ExpectedVersion.
type TransitionIntent struct {
	Kind              TransitionKind
	DocumentID        uuid.UUID
	ExpectedVersion   int
	NewTitle          string
	NewContent        string
	ChangeDescription string
	Editor            string
}

// NextVersion is the version the document will have once the intent commits.
func (t TransitionIntent) NextVersion() int {
	return t.ExpectedVersion + 1
}

// NewDocument builds a version 1 document ready to be persisted.
func NewDocument(title, content, editor string) (*models.Document, error) {
	if err := requireText(title, content); err != nil {
		return nil, err
	}

	now := time.Now()
	return &models.Document{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		Version:   1,
		Status:    models.StatusDraft,
		CreatedBy: editor,
		UpdatedBy: editor,
		CreatedAt: now,
		UpdatedAt: now,
		RevisedAt: now,
	}, nil
}

// ProposeEdit validates a new revision authored against current.
func ProposeEdit(current *models.Document, newTitle, newContent, changeDescription, editor string) (TransitionIntent, error) {
	if err := requireText(newTitle, newContent); err != nil {
		return TransitionIntent{}, err
	}

	return TransitionIntent{
		Kind:              KindEdit,
		DocumentID:        current.ID,
		ExpectedVersion:   current.Version,
		NewTitle:          newTitle,
		NewContent:        newContent,
		ChangeDescription: changeDescription,
		Editor:            editor,
	}, nil
}

// ProposeRestore builds a transition that copies target forward as the next
// version. Only strictly older versions of the same document qualify.
func ProposeRestore(current *models.Document, target *models.VersionSnapshot, changeDescription, editor string) (TransitionIntent, error) {
	if target == nil {
		return TransitionIntent{}, models.ErrorValidation{
			Reason:  models.InvalidTarget,
			Field:   "version",
			Message: "restore target does not exist",
		}
	}
	if target.DocumentID != current.ID {
		return TransitionIntent{}, models.ErrorValidation{
			Reason:  models.InvalidTarget,
			Field:   "version",
			Message: "restore target belongs to another document",
		}
	}
	if err := CheckRestoreTarget(current, target.VersionNumber); err != nil {
		return TransitionIntent{}, err
	}

	if strings.TrimSpace(changeDescription) == "" {
		changeDescription = fmt.Sprintf("Restored to version %d", target.VersionNumber)
	}

	return TransitionIntent{
		Kind:              KindRestore,
		DocumentID:        current.ID,
		ExpectedVersion:   current.Version,
		NewTitle:          target.Title,
		NewContent:        target.Content,
		ChangeDescription: changeDescription,
		Editor:            editor,
	}, nil
}

// CheckRestoreTarget rejects the current version and anything outside 1..current-1.
func CheckRestoreTarget(current *models.Document, versionNumber int) error {
	if versionNumber == current.Version {
		return models.ErrorValidation{
			Reason:  models.InvalidTarget,
			Field:   "version",
			Message: fmt.Sprintf("version %d is already the current version", versionNumber),
		}
	}
	if versionNumber < 1 || versionNumber > current.Version {
		return models.ErrorValidation{
			Reason:  models.InvalidTarget,
			Field:   "version",
			Message: fmt.Sprintf("version %d does not exist", versionNumber),
		}
	}
	return nil
}

func requireText(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return models.ErrorValidation{Reason: models.EmptyField, Field: "title", Message: "title must not be empty"}
	}
	if strings.TrimSpace(content) == "" {
		return models.ErrorValidation{Reason: models.EmptyField, Field: "content", Message: "content must not be empty"}
	}
	return nil
}
