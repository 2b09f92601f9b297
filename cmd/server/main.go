package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/blob"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/mailer"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
	"inkwell/internal/services"
	"inkwell/internal/ws"

	"github.com/lmittmann/tint"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	ctx := context.Background()

	var store database.Store
	if cfg.Mongo.URI != "" {
		mongo, err := database.NewMongoDB(cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			slog.Error("failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		store = mongo
		slog.Info("connected to MongoDB", "database", cfg.Mongo.Database)
	} else {
		store = database.NewMemoryStore()
		slog.Warn("MONGODB_URI not set, using in-memory store; data will not survive restarts")
	}
	defer store.Close(ctx)

	var files blob.FileStore
	if cfg.Blob.Endpoint != "" {
		minioStore, err := blob.NewMinioFileStore(ctx, cfg.Blob)
		if err != nil {
			slog.Error("failed to connect to object storage", "error", err)
			os.Exit(1)
		}
		files = minioStore
		slog.Info("connected to object storage", "endpoint", cfg.Blob.Endpoint, "bucket", cfg.Blob.Bucket)
	} else {
		files = blob.NewMemoryFileStore()
		slog.Warn("MINIO_ENDPOINT not set, using in-memory blob store")
	}

	mail := mailer.NewSMTPSender(cfg.SMTP)
	if !mail.IsConfigured() {
		slog.Warn("SMTP not configured, verification emails will be logged and dropped")
	}

	authenticator := auth.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	collector := metrics.NewCollector()

	hub := ws.NewHub()
	go hub.Run()

	identity := services.NewIdentityResolver(store, authenticator)
	slugs := services.NewSlugAllocator(store)
	accounts := services.NewAccountService(store, authenticator, mail, cfg.AppBaseURL)
	profiles := services.NewProfileService(store, identity, files)
	social := services.NewSocialGraphService(store, identity, hub)
	posts := services.NewPostService(store, identity, slugs, files)
	engagement := services.NewEngagementService(store, identity, hub)
	comments := services.NewCommentService(store, identity, hub)

	server := handlers.NewServer(accounts, profiles, social, posts, engagement, comments, identity, hub, collector)

	mux := http.NewServeMux()
	server.Routes(mux)

	cors := middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.AllowedOrigins))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, cors(mux)); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
