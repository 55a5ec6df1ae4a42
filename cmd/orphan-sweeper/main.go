package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formworks/submission-service/internal/config"
	"github.com/formworks/submission-service/internal/services/media"
	"github.com/formworks/submission-service/internal/storage"
	"github.com/formworks/submission-service/internal/storage/postgres"
)

// OrphanSweeper reclaims stored objects that no persisted submission
// references. Failed batches and submissions that died between upload
// and save leave such objects behind; the service itself never rolls
// them back.
type OrphanSweeper struct {
	storage  storage.Storage
	media    *media.Service
	interval time.Duration
	grace    time.Duration
	logger   *slog.Logger
}

func NewOrphanSweeper(storage storage.Storage, mediaService *media.Service, interval, grace time.Duration) *OrphanSweeper {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &OrphanSweeper{
		storage:  storage,
		media:    mediaService,
		interval: interval,
		grace:    grace,
		logger:   logger,
	}
}

func (sw *OrphanSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	sw.logger.Info("Orphan sweeper started",
		"interval", sw.interval.String(),
		"grace_period", sw.grace.String())

	// Run once immediately on startup
	sw.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			sw.logger.Info("Orphan sweeper shutting down")
			return
		case <-ticker.C:
			sw.sweep(ctx)
		}
	}
}

func (sw *OrphanSweeper) sweep(ctx context.Context) {
	startTime := time.Now()

	sw.logger.Info("Starting orphan sweep")

	referenced, err := sw.referencedKeys(ctx)
	if err != nil {
		sw.logger.Error("Failed to collect referenced keys", "error", err.Error())
		return
	}

	objects, err := sw.media.ListObjects(ctx)
	if err != nil {
		sw.logger.Error("Failed to list stored objects", "error", err.Error())
		return
	}

	deleted := 0
	for _, obj := range objects {
		if referenced[obj.Key] {
			continue
		}
		// The grace period keeps in-flight batches out of reach: an
		// object uploaded moments ago may belong to a submission that
		// has not been persisted yet.
		if time.Since(obj.LastModified) < sw.grace {
			continue
		}

		if err := sw.media.DeleteObject(ctx, obj.Key); err != nil {
			sw.logger.Error("Failed to delete orphaned object",
				"object_key", obj.Key,
				"error", err.Error())
			continue
		}
		deleted++
	}

	sw.logger.Info("Orphan sweep completed",
		"scanned", len(objects),
		"deleted", deleted,
		"duration", time.Since(startTime).String())
}

// referencedKeys builds the set of object keys referenced by any
// persisted submission record.
func (sw *OrphanSweeper) referencedKeys(ctx context.Context) (map[string]bool, error) {
	records, err := sw.storage.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]bool)
	mark := func(urls []string) {
		for _, url := range urls {
			if key, ok := sw.media.ObjectKeyFromURL(url); ok {
				keys[key] = true
			}
		}
	}
	for _, rec := range records {
		mark(rec.PhotoURLs)
		mark(rec.VideoURLs)
	}

	return keys, nil
}

func main() {
	cfg := config.MustLoad()

	storage, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	mediaService, err := media.NewService(cfg)
	if err != nil {
		log.Fatal("Failed to initialize media service:", err)
	}

	interval := time.Duration(cfg.Sweeper.IntervalMinutes) * time.Minute
	grace := time.Duration(cfg.Sweeper.GracePeriodMinutes) * time.Minute
	sweeper := NewOrphanSweeper(storage, mediaService, interval, grace)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go sweeper.Start(ctx)

	<-done
	cancel()
}
