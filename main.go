package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"club-site/internal/auth"
	"club-site/internal/cache"
	"club-site/internal/config"
	contentdb "club-site/internal/content/db"
	"club-site/internal/content/content_api"
	content "club-site/internal/content/service"
	"club-site/internal/database/migrations"
	eventdb "club-site/internal/events/db"
	"club-site/internal/events/editor"
	"club-site/internal/events/event_api"
	"club-site/internal/events/media"
	"club-site/internal/kafka"
	"club-site/internal/logger"
	"club-site/internal/storage"
)

func connectDatabase(cfg *config.Config, log *logger.Logger) *bun.DB {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.Info("DATABASE", "✅ PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func setupKafka(cfg *config.Config, log *logger.Logger) *kafka.Producer {
	if !cfg.Kafka.Enabled {
		log.Info("KAFKA", "Kafka disabled, content change events will not be published")
		return nil
	}
	if cfg.Kafka.MockMode {
		log.Info("KAFKA", "Kafka in mock mode, content change events will be logged only")
		return kafka.NewMockProducer()
	}

	if err := kafka.EnsureTopicExists(cfg.Kafka.Brokers, cfg.Kafka.Topic); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	log.Info("KAFKA", "Kafka producer initialized successfully")
	return producer
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting club site service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := connectDatabase(cfg, logger)
	defer bunDB.Close()

	if cfg.Migrations.AutoMigrate {
		runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{
			MigrationsDir: cfg.Migrations.Dir,
			AutoMigrate:   true,
			SeedData:      cfg.Migrations.SeedData,
		}, logger)
		if err := runner.RunMigrations(); err != nil {
			logger.Fatal("MIGRATE", fmt.Sprintf("Migrations failed: %v", err))
		}
		defer runner.Close()
	}

	redisClient, err := auth.InitializeSessionCache(cfg.Redis.Addr, logger)
	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	defer redisClient.Close()

	httpClient := &http.Client{Timeout: 10 * time.Second}
	storageClient := storage.NewClient(cfg.Storage.BaseURL, cfg.Storage.ServiceKey, httpClient)
	logger.Info("STORAGE", fmt.Sprintf("Object storage client pointed at %s", cfg.Storage.BaseURL))

	producer := setupKafka(cfg, logger)
	if producer != nil {
		defer producer.Close()
	}

	readCache := cache.New(cache.DefaultFreshness)

	eventsDB := &eventdb.DB{Bun: bunDB}
	contentDB := &contentdb.DB{Bun: bunDB}

	mediaManager := media.NewManager(storageClient, cfg.Storage.EventBucket)

	// Publisher is a nil interface when Kafka is off; the editor and
	// content service both treat that as a no-op.
	var publisher editor.Publisher
	var contentPublisher content.Publisher
	if producer != nil {
		publisher = producer
		contentPublisher = producer
	}

	ed := editor.New(eventsDB, storageClient, cfg.Storage.EventBucket, mediaManager, publisher, logger)
	if err := ed.Refresh(ctx); err != nil {
		logger.Warn("EDITOR", fmt.Sprintf("Initial event listing load failed: %v", err))
	}

	contentService := content.NewContentService(
		contentDB,
		storageClient,
		storageClient,
		cfg.Storage.TeamBucket,
		contentPublisher,
		logger,
	)

	sessions := auth.NewRedisSessionStore(redisClient)
	authService := auth.NewService(contentDB, sessions, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, logger)

	eventHandler := event_api.NewHandler(ed, eventsDB, readCache, logger)
	contentHandler := content_api.NewHandler(contentService, authService, readCache, logger)

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Route("/api", func(r chi.Router) {
		r.Get("/events", eventHandler.ListEvents)
		r.Get("/events/featured", eventHandler.GetFeaturedEvent)
		r.Get("/events/{eventID}", eventHandler.GetEvent)
		r.Get("/events/{eventID}/register-qr", eventHandler.RegisterQR)
		r.Get("/team", contentHandler.GetTeam)
		r.Get("/faqs", contentHandler.GetFAQs)
		r.Get("/about", contentHandler.GetAbout)
		r.Post("/inquiries", contentHandler.SubmitInquiry)
		r.Post("/auth/login", contentHandler.Login)
		r.Post("/auth/logout", contentHandler.Logout)
	})
	logger.Info("ROUTER", "Public routes registered under /api")

	// --- Admin Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authService))
		logger.Info("AUTH", "Session middleware applied to admin routes")

		r.Route("/api/admin", func(r chi.Router) {
			r.Get("/events", eventHandler.AdminListEvents)
			r.Delete("/events/{eventID}", eventHandler.DeleteEvent)

			r.Route("/editor", func(r chi.Router) {
				r.Post("/new", eventHandler.NewDraft)
				r.Post("/edit/{eventID}", eventHandler.EditEvent)
				r.Get("/draft", eventHandler.GetDraft)
				r.Patch("/draft", eventHandler.UpdateDraft)
				r.Post("/cancel", eventHandler.CancelDraft)
				r.Post("/save", eventHandler.SaveDraft)
				r.Post("/sections", eventHandler.AddSection)
				r.Patch("/sections/{index}", eventHandler.UpdateSection)
				r.Delete("/sections/{index}", eventHandler.RemoveSection)
				r.Post("/cover", eventHandler.UploadCover)
				r.Post("/gallery", eventHandler.UploadGallery)
				r.Delete("/gallery/{index}", eventHandler.RemoveGalleryImage)
			})

			r.Get("/team", contentHandler.GetTeam)
			r.Post("/team", contentHandler.SaveTeamMember)
			r.Post("/team/photo", contentHandler.UploadMemberPhoto)
			r.Delete("/team/{memberID}", contentHandler.DeleteTeamMember)

			r.Post("/faqs", contentHandler.SaveFAQ)
			r.Delete("/faqs/{faqID}", contentHandler.DeleteFAQ)

			r.Put("/about", contentHandler.SaveAbout)

			r.Get("/inquiries", contentHandler.ListInquiries)
		})
		logger.Info("ROUTER", "Admin routes registered under /api/admin")
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Club site service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Club site service shutdown complete")
	}
}
