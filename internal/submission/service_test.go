package submission

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/formworks/submission-service/internal/types"
)

type fakeUploader struct {
	mu      sync.Mutex
	batches [][]types.Attachment

	failKind types.MediaKind
	failErr  error
}

func (f *fakeUploader) UploadAll(ctx context.Context, attachments []types.Attachment) ([]string, error) {
	f.mu.Lock()
	f.batches = append(f.batches, attachments)
	f.mu.Unlock()

	if len(attachments) == 0 {
		return []string{}, nil
	}
	if f.failErr != nil && attachments[0].Kind == f.failKind {
		return nil, f.failErr
	}

	urls := make([]string, len(attachments))
	for i, att := range attachments {
		urls[i] = fmt.Sprintf("https://cdn.test/%s", att.Data)
	}
	return urls, nil
}

func (f *fakeUploader) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

type fakeStorage struct {
	saved   []*types.SubmissionRecord
	saveErr error
}

func (f *fakeStorage) SaveSubmission(ctx context.Context, record *types.SubmissionRecord) (*types.SubmissionRecord, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	saved := *record
	saved.ID = fmt.Sprintf("%d", len(f.saved)+1)
	saved.CreatedAt = time.Now()
	f.saved = append(f.saved, &saved)
	return &saved, nil
}

func (f *fakeStorage) ListSubmissions(ctx context.Context) ([]types.SubmissionRecord, error) {
	records := make([]types.SubmissionRecord, 0, len(f.saved))
	for _, rec := range f.saved {
		records = append(records, *rec)
	}
	return records, nil
}

func attachment(kind types.MediaKind, name string, idx int) types.Attachment {
	return types.Attachment{
		Data:        []byte(name),
		ContentType: "image/jpeg",
		Kind:        kind,
		Index:       idx,
	}
}

func TestAssemble_RejectsEmptySubmission(t *testing.T) {
	up := &fakeUploader{}
	store := &fakeStorage{}
	svc := NewService(up, store)

	_, err := svc.Assemble(context.Background(), types.Metadata{Name: "Ada"}, nil, nil)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if up.batchCount() != 0 {
		t.Fatalf("Expected zero uploader calls, got %d", up.batchCount())
	}
	if len(store.saved) != 0 {
		t.Fatalf("Expected no saved records, got %d", len(store.saved))
	}
}

func TestAssemble_NoRecordOnUploadFailure(t *testing.T) {
	up := &fakeUploader{
		failKind: types.KindPhoto,
		failErr:  errors.New("bucket unavailable"),
	}
	store := &fakeStorage{}
	svc := NewService(up, store)

	photos := []types.Attachment{attachment(types.KindPhoto, "p1", 0)}

	_, err := svc.Assemble(context.Background(), types.Metadata{Name: "Ada"}, photos, nil)

	var ue *UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("Expected UploadError, got %v", err)
	}
	if ue.Kind != types.KindPhoto {
		t.Fatalf("Expected failing kind %q, got %q", types.KindPhoto, ue.Kind)
	}
	if !errors.Is(err, up.failErr) {
		t.Fatalf("Expected wrapped cause, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("Record store must not be invoked on upload failure, got %d saves", len(store.saved))
	}
}

func TestAssemble_PersistsAggregatedRecord(t *testing.T) {
	up := &fakeUploader{}
	store := &fakeStorage{}
	svc := NewService(up, store)

	photos := []types.Attachment{
		attachment(types.KindPhoto, "p1", 0),
		attachment(types.KindPhoto, "p2", 1),
	}
	videos := []types.Attachment{attachment(types.KindVideo, "v1", 0)}
	meta := types.Metadata{Name: "Ada", Address: "1 Infinite Loop"}

	record, err := svc.Assemble(context.Background(), meta, photos, videos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if record.Name != "Ada" || record.Address != "1 Infinite Loop" {
		t.Fatalf("Metadata not copied verbatim: %+v", record)
	}
	wantPhotos := []string{"https://cdn.test/p1", "https://cdn.test/p2"}
	if !reflect.DeepEqual(record.PhotoURLs, wantPhotos) {
		t.Fatalf("Expected photo urls %v, got %v", wantPhotos, record.PhotoURLs)
	}
	wantVideos := []string{"https://cdn.test/v1"}
	if !reflect.DeepEqual(record.VideoURLs, wantVideos) {
		t.Fatalf("Expected video urls %v, got %v", wantVideos, record.VideoURLs)
	}
	if record.ID == "" {
		t.Fatal("Expected persisted record to carry an ID")
	}
	if len(store.saved) != 1 {
		t.Fatalf("Expected exactly one save, got %d", len(store.saved))
	}
}

func TestAssemble_PersistenceFailure(t *testing.T) {
	up := &fakeUploader{}
	store := &fakeStorage{saveErr: errors.New("connection refused")}
	svc := NewService(up, store)

	photos := []types.Attachment{attachment(types.KindPhoto, "p1", 0)}

	_, err := svc.Assemble(context.Background(), types.Metadata{Name: "Ada"}, photos, nil)

	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected PersistenceError, got %v", err)
	}
	if !errors.Is(err, store.saveErr) {
		t.Fatalf("Expected wrapped cause, got %v", err)
	}
}
