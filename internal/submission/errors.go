package submission

import (
	"fmt"

	"github.com/formworks/submission-service/internal/types"
)

// ValidationError means the submission was rejected before any upload
// was attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UploadError means at least one attachment of the given kind failed to
// reach the object store, so the whole submission was abandoned.
type UploadError struct {
	Kind types.MediaKind
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s upload failed: %v", e.Kind, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// PersistenceError means the uploads succeeded but the record store
// rejected the save.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist submission: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
