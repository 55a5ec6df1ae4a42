package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/formworks/submission-service/internal/cache"
	"github.com/formworks/submission-service/internal/config"
	"github.com/formworks/submission-service/internal/events"
	"github.com/formworks/submission-service/internal/http/handlers/forms"
	wsHandler "github.com/formworks/submission-service/internal/http/handlers/websocket"
	"github.com/formworks/submission-service/internal/http/middleware"
	"github.com/formworks/submission-service/internal/services/media"
	"github.com/formworks/submission-service/internal/storage/postgres"
	"github.com/formworks/submission-service/internal/submission"
	"github.com/formworks/submission-service/internal/uploader"
	"github.com/formworks/submission-service/internal/websocket"
)

func main() {
	// load config
	cfg := config.MustLoad()

	// database setup
	storage, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	slog.Info("Connected to Postgres database")

	// object store setup
	mediaService, err := media.NewService(cfg)
	if err != nil {
		log.Fatal("Failed to initialize media service:", err)
	}
	slog.Info("Connected to object store", slog.String("endpoint", cfg.MinIO.Endpoint))

	// redis for listing cache and rate limiting
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	cachedStorage := cache.NewCacheService(storage, redisClient)

	// websocket hub for the live submission feed
	hub := websocket.NewHub()
	go hub.Run()
	publisher := events.NewEventPublisher(hub)

	// core wiring: orchestrator + assembler
	orchestrator := uploader.New(mediaService, cfg.Media.UploadConcurrency)
	submissionService := submission.NewService(orchestrator, cachedStorage)

	rlc := middleware.NewRateLimitConfig(redisClient, cfg.Media.SubmitPerMinute)

	limits := forms.Limits{
		MaxUploadBytes:  cfg.Media.MaxUploadBytes,
		MaxFilesPerKind: cfg.Media.MaxFilesPerKind,
	}

	// setup server
	router := http.NewServeMux()

	router.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Submission service is up"))
	})
	router.Handle("POST /submit-form", rlc.RateLimitedHandler("submit", forms.SubmitForm(submissionService, publisher, limits)))
	router.HandleFunc("GET /forms", forms.ListForms(cachedStorage))
	router.HandleFunc("GET /ws", wsHandler.WebSocketHandler(hub))

	server := http.Server{
		Addr:    cfg.HTTPServer.Address,
		Handler: middleware.Recover(router),
	}

	log.Println("server started on", cfg.HTTPServer.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = server.Shutdown(ctx)
	if err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
