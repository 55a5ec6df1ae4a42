package storage

import (
	"context"

	"github.com/formworks/submission-service/internal/types"
)

type Storage interface {
	SaveSubmission(ctx context.Context, record *types.SubmissionRecord) (*types.SubmissionRecord, error)
	ListSubmissions(ctx context.Context) ([]types.SubmissionRecord, error)
}
