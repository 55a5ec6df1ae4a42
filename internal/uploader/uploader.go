package uploader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/formworks/submission-service/internal/types"
)

// ObjectStore uploads a single blob and returns its durable URL.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, contentType string, kind types.MediaKind) (string, error)
}

// Orchestrator fans a batch of attachments out to the object store and
// gathers the resulting URLs back in input order.
type Orchestrator struct {
	store ObjectStore
	limit int
}

// New creates an orchestrator. limit caps the number of in-flight
// uploads per batch; zero or negative means unbounded.
func New(store ObjectStore, limit int) *Orchestrator {
	return &Orchestrator{
		store: store,
		limit: limit,
	}
}

// UploadAll uploads every attachment concurrently and returns the URLs
// index-aligned with the input: urls[i] belongs to attachments[i] no
// matter which upload finished first.
//
// The batch succeeds or fails as a unit. On the first failure the
// aggregate error is returned and no partial URL list is exposed;
// sibling uploads already in flight are not cancelled, their results
// are simply discarded. Objects stored by a failed batch are left
// behind and reclaimed later by the orphan sweeper.
func (o *Orchestrator) UploadAll(ctx context.Context, attachments []types.Attachment) ([]string, error) {
	if len(attachments) == 0 {
		return []string{}, nil
	}

	urls := make([]string, len(attachments))

	var g errgroup.Group
	if o.limit > 0 {
		g.SetLimit(o.limit)
	}

	for i, att := range attachments {
		g.Go(func() error {
			url, err := o.store.Upload(ctx, att.Data, att.ContentType, att.Kind)
			if err != nil {
				return fmt.Errorf("failed to upload %s %d: %w", att.Kind, i, err)
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return urls, nil
}
