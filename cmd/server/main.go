package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"dossier/internal/auth"
	"dossier/internal/config"
	"dossier/internal/handler"
	"dossier/internal/metrics"
	"dossier/internal/middleware"
	"dossier/internal/repository/postgres"
	redisrepo "dossier/internal/repository/redis"
	"dossier/internal/service"
	"dossier/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" || cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	missionRepo := postgres.NewMissionRepository(repoConfig)
	artifactRepo := postgres.NewArtifactRepository(repoConfig)
	profileRepo := postgres.NewProfileRepository(repoConfig)

	// Color side-table on redis
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()
	colorTable := redisrepo.NewColorSideTable(redisClient, "")

	// Blob store
	blobs, err := storage.NewMinIOStore(&storage.MinIOConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Metrics registry
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.RegisterCollectors(promRegistry)

	// Slot registry for profile-backed personal documents
	slotRegistry, err := service.NewSlotRegistry()
	if err != nil {
		log.Fatalf("Failed to load slot registry: %v", err)
	}

	// Create services
	guard := service.NewAccessGuard()
	resilient := service.NewResilientQuery(docRepo, logger)
	namespace := service.NewNamespace(folderRepo, missionRepo, artifactRepo, profileRepo, colorTable, resilient, slotRegistry, guard, logger)
	sizes := service.NewSizeAggregator(folderRepo, artifactRepo, resilient, logger)
	folders := service.NewFolders(folderRepo, guard, logger)
	documents := service.NewDocuments(docRepo, folderRepo, missionRepo, profileRepo, blobs, slotRegistry, guard, logger)
	colorsService := service.NewColors(folderRepo, missionRepo, colorTable, logger)

	// Protected-document gateway, optional
	var secureFetch *service.SecureFetch
	if cfg.SecureFetchBaseURL != "" {
		secureFetch = service.NewSecureFetch(cfg.SecureFetchBaseURL, cfg.SecureFetchTimeout, logger)
	}

	// Create handlers
	browseHandler := handler.NewBrowseHandler(namespace, sizes, logger)
	folderHandler := handler.NewFolderHandler(folders, logger)
	documentHandler := handler.NewDocumentHandler(documents, secureFetch, logger)
	colorHandler := handler.NewColorHandler(colorsService, logger)

	logger.Info("services initialized")

	// API routes (Go 1.22+ enhanced patterns), behind auth
	api := http.NewServeMux()
	api.HandleFunc("GET /api/browse", browseHandler.GetListing)
	api.HandleFunc("GET /api/browse/size", browseHandler.GetSize)

	api.HandleFunc("POST /api/folders", folderHandler.Create)
	api.HandleFunc("PATCH /api/folders/{id}", folderHandler.Update)
	api.HandleFunc("DELETE /api/folders/{id}", folderHandler.Delete)

	api.HandleFunc("PATCH /api/documents/{id}", documentHandler.Rename)
	api.HandleFunc("PATCH /api/documents/{id}/move", documentHandler.Move)
	api.HandleFunc("DELETE /api/documents/{id}", documentHandler.Delete)
	api.HandleFunc("GET /api/documents/{id}/download", documentHandler.Download)

	api.HandleFunc("PATCH /api/nodes/{id}/color", colorHandler.SetColor)

	// Public routes: liveness and metrics stay outside the auth chain
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	mux.Handle("/api/", middleware.Auth(jwtVerifier)(api))

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
