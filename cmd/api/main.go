package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/PaulOlteanu/36T/internal/config"
	"github.com/PaulOlteanu/36T/internal/domain/image"
	"github.com/PaulOlteanu/36T/internal/middleware"
	"github.com/PaulOlteanu/36T/internal/pkg/database"
	"github.com/PaulOlteanu/36T/internal/pkg/imaging"
	"github.com/PaulOlteanu/36T/internal/pkg/logger"
	"github.com/PaulOlteanu/36T/internal/pkg/response"
	"github.com/PaulOlteanu/36T/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.IsDevelopment())

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("storage", cfg.StorageDriver).
		Msg("Starting 36T API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	store, err := newStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage backend")
	}

	processor := imaging.NewProcessor(imaging.DefaultQuality)

	imageRepo := image.NewRepository(db)
	imageService := image.NewService(imageRepo, store, processor, image.Options{
		KeyLength:         cfg.ImageNameLength,
		PageSize:          cfg.ImagesPerPage,
		AllowedExtensions: cfg.AllowedExtensions,
	})
	imageHandler := image.NewHandler(imageService)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"message": "Welcome to the API!"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	r.Mount("/images", imageHandler.Routes())
	r.Mount("/files", imageHandler.FileRoutes())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Invalid route")
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// newStorage selects the backend variant once at startup. Nothing past this
// point branches on which one is active.
func newStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageDriver == "s3" {
		return storage.NewS3(context.Background(), storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			PublicURL: cfg.S3PublicURL,
		})
	}
	return storage.NewLocal(cfg.UploadDir, cfg.FileBaseURL)
}
