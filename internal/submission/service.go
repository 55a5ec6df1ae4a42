package submission

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/formworks/submission-service/internal/storage"
	"github.com/formworks/submission-service/internal/types"
)

// Uploader converts a batch of attachments into index-aligned URLs,
// failing as a unit if any single upload fails.
type Uploader interface {
	UploadAll(ctx context.Context, attachments []types.Attachment) ([]string, error)
}

// Service validates a raw submission, drives the uploader for both
// media kinds and persists the resulting record.
type Service struct {
	uploader Uploader
	storage  storage.Storage
}

func NewService(uploader Uploader, storage storage.Storage) *Service {
	return &Service{
		uploader: uploader,
		storage:  storage,
	}
}

// Assemble uploads all attachments and persists a submission record.
//
// A record is persisted iff every attachment uploaded successfully:
// on any upload failure the record store is never touched and an
// *UploadError is returned. The photo and video batches are uploaded
// concurrently; neither depends on the other's completion order.
func (s *Service) Assemble(ctx context.Context, meta types.Metadata, photos, videos []types.Attachment) (*types.SubmissionRecord, error) {
	if len(photos) == 0 && len(videos) == 0 {
		return nil, &ValidationError{Reason: "at least one attachment required"}
	}

	var photoURLs, videoURLs []string

	var g errgroup.Group
	g.Go(func() error {
		urls, err := s.uploader.UploadAll(ctx, photos)
		if err != nil {
			return &UploadError{Kind: types.KindPhoto, Err: err}
		}
		photoURLs = urls
		return nil
	})
	g.Go(func() error {
		urls, err := s.uploader.UploadAll(ctx, videos)
		if err != nil {
			return &UploadError{Kind: types.KindVideo, Err: err}
		}
		videoURLs = urls
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	record := &types.SubmissionRecord{
		Name:      meta.Name,
		Address:   meta.Address,
		PhotoURLs: photoURLs,
		VideoURLs: videoURLs,
	}

	saved, err := s.storage.SaveSubmission(ctx, record)
	if err != nil {
		// Uploaded media stays in the store unreferenced; the orphan
		// sweeper reclaims it.
		return nil, &PersistenceError{Err: err}
	}

	slog.Info("submission persisted",
		slog.String("submission_id", saved.ID),
		slog.Int("photos", len(saved.PhotoURLs)),
		slog.Int("videos", len(saved.VideoURLs)))

	return saved, nil
}
