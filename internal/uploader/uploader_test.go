package uploader

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/formworks/submission-service/internal/types"
)

// fakeStore returns a URL derived from the blob contents after a
// configurable delay, so completion order can be scrambled at will.
type fakeStore struct {
	mu          sync.Mutex
	calls       int
	inflight    int
	maxInflight int

	delayFor func(data []byte) time.Duration
	failFor  func(data []byte) error
}

func (f *fakeStore) Upload(ctx context.Context, data []byte, contentType string, kind types.MediaKind) (string, error) {
	f.mu.Lock()
	f.calls++
	f.inflight++
	if f.inflight > f.maxInflight {
		f.maxInflight = f.inflight
	}
	f.mu.Unlock()

	if f.delayFor != nil {
		time.Sleep(f.delayFor(data))
	}

	f.mu.Lock()
	f.inflight--
	f.mu.Unlock()

	if f.failFor != nil {
		if err := f.failFor(data); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("https://cdn.test/%s/%s", kind.ObjectKind(), data), nil
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func attachmentBatch(kind types.MediaKind, n int) []types.Attachment {
	batch := make([]types.Attachment, n)
	for i := range batch {
		batch[i] = types.Attachment{
			Data:        []byte(fmt.Sprintf("file-%d", i)),
			ContentType: "image/jpeg",
			Kind:        kind,
			Index:       i,
		}
	}
	return batch
}

func TestUploadAll_PreservesOrder(t *testing.T) {
	for n := 0; n <= 10; n++ {
		store := &fakeStore{
			delayFor: func(data []byte) time.Duration {
				// Randomized latency so completion order differs from
				// dispatch order. The global rand source is safe for
				// concurrent use.
				return time.Duration(rand.Intn(20)) * time.Millisecond
			},
		}
		orch := New(store, 0)

		urls, err := orch.UploadAll(context.Background(), attachmentBatch(types.KindPhoto, n))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(urls) != n {
			t.Fatalf("n=%d: expected %d urls, got %d", n, n, len(urls))
		}

		for i, url := range urls {
			want := fmt.Sprintf("file-%d", i)
			if !strings.HasSuffix(url, want) {
				t.Errorf("n=%d: url %d is %q, want suffix %q", n, i, url, want)
			}
		}
	}
}

func TestUploadAll_EmptyInputShortCircuits(t *testing.T) {
	store := &fakeStore{}
	orch := New(store, 4)

	urls, err := orch.UploadAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if urls == nil || len(urls) != 0 {
		t.Fatalf("Expected empty non-nil url slice, got %v", urls)
	}
	if store.callCount() != 0 {
		t.Fatalf("Expected zero store calls, got %d", store.callCount())
	}
}

func TestUploadAll_AllOrNothing(t *testing.T) {
	boom := errors.New("connection reset")

	for failIdx := 0; failIdx < 5; failIdx++ {
		store := &fakeStore{
			failFor: func(data []byte) error {
				if string(data) == fmt.Sprintf("file-%d", failIdx) {
					return boom
				}
				return nil
			},
		}
		orch := New(store, 0)

		urls, err := orch.UploadAll(context.Background(), attachmentBatch(types.KindVideo, 5))
		if err == nil {
			t.Fatalf("failIdx=%d: expected error, got none", failIdx)
		}
		if !errors.Is(err, boom) {
			t.Fatalf("failIdx=%d: expected wrapped cause, got %v", failIdx, err)
		}
		if urls != nil {
			t.Fatalf("failIdx=%d: expected no partial url list, got %v", failIdx, urls)
		}
	}
}

func TestUploadAll_RespectsConcurrencyLimit(t *testing.T) {
	store := &fakeStore{
		delayFor: func([]byte) time.Duration { return 10 * time.Millisecond },
	}
	orch := New(store, 2)

	_, err := orch.UploadAll(context.Background(), attachmentBatch(types.KindPhoto, 8))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if store.maxInflight > 2 {
		t.Fatalf("Expected at most 2 in-flight uploads, observed %d", store.maxInflight)
	}
	if store.callCount() != 8 {
		t.Fatalf("Expected 8 store calls, got %d", store.callCount())
	}
}
