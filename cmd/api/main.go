package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"real-estate-investor/internal/catalog"
	"real-estate-investor/internal/cleanup"
	"real-estate-investor/internal/compare"
	"real-estate-investor/internal/config"
	"real-estate-investor/internal/database"
	"real-estate-investor/internal/handlers"
	"real-estate-investor/internal/logger"
	"real-estate-investor/internal/models"
	"real-estate-investor/internal/ratelimit"
	"real-estate-investor/internal/scheduler"
	"real-estate-investor/internal/search"
	"real-estate-investor/internal/snapshot"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	configPath := getEnv("CONFIG_PATH", "config/app.yaml")
	appConfig, cfgErr := config.LoadConfig(configPath)
	if cfgErr != nil {
		appConfig = config.DefaultConfig()
	}

	log, err := logger.New(appConfig.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfgErr != nil {
		log.Warn("failed to load config, using defaults", zap.String("path", configPath), zap.Error(cfgErr))
	} else {
		log.Info("loaded configuration", zap.String("path", configPath))
	}

	// Catalog seed
	seedPath := getEnvOrConfig(appConfig.Catalog.SeedPath, "SEED_PATH", "")
	loadSeed := func() ([]models.Property, error) {
		return catalog.LoadSeed(seedPath)
	}
	seed, err := loadSeed()
	if err != nil {
		log.Fatal("failed to load catalog seed", zap.Error(err))
	}

	// Initialize the catalog store based on configuration
	var (
		store  catalog.Syncer
		gormDB *database.GormDB
	)
	dbType := getEnv("DB_TYPE", appConfig.Database.Type)

	switch dbType {
	case "mysql":
		log.Info("using MySQL with GORM")
		mysqlCfg := appConfig.Database.MySQL

		// Get port as string, handle 0 as empty
		portStr := ""
		if mysqlCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", mysqlCfg.Port)
		}

		gormDB, err = database.NewGormDB(
			getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "mysql"),
			getEnvOrConfig(portStr, "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "investor_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "investor_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "investor_db"),
		)
		if err != nil {
			log.Fatal("failed to connect to MySQL", zap.Error(err))
		}
		defer gormDB.Close()

		// Initialize schema with GORM AutoMigrate
		if err := gormDB.InitSchema(); err != nil {
			log.Fatal("failed to initialize schema", zap.Error(err))
		}
		store = gormDB

	case "postgres":
		log.Info("using PostgreSQL")
		pgCfg := appConfig.Database.Postgres

		portStr := ""
		if pgCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", pgCfg.Port)
		}

		db, err := database.NewDB(
			getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
			getEnvOrConfig(portStr, "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "investor_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "investor_pass"),
			getEnvOrConfig(pgCfg.Database, "DB_NAME", "investor_db"),
			pgCfg.SSLMode,
		)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.InitSchema(); err != nil {
			log.Fatal("failed to initialize schema", zap.Error(err))
		}
		store = db

	default:
		log.Info("using in-memory catalog")
		static, err := catalog.NewStatic(seed)
		if err != nil {
			log.Fatal("invalid catalog seed", zap.Error(err))
		}
		store = static
	}

	// Seed an empty database
	if dbType == "mysql" || dbType == "postgres" {
		existing, err := store.ListProperties(context.Background())
		if err != nil {
			log.Fatal("failed to read catalog", zap.Error(err))
		}
		if len(existing) == 0 {
			res, err := store.Sync(context.Background(), seed)
			if err != nil {
				log.Fatal("failed to seed catalog", zap.Error(err))
			}
			log.Info("seeded catalog", zap.Int("properties", res.Total))
		}
	}

	// Initialize Meilisearch using config
	var searchClient *search.SearchClient
	if appConfig.Search.Meilisearch.Enabled {
		meilisearchHost := getEnvOrConfig(appConfig.Search.Meilisearch.Host, "MEILISEARCH_HOST", "http://meilisearch:7700")
		meilisearchKey := getEnvOrConfig(appConfig.Search.Meilisearch.APIKey, "MEILISEARCH_KEY", "")

		searchClient = search.NewSearchClient(meilisearchHost, meilisearchKey, appConfig.Search.Meilisearch.Index)
		if err := searchClient.InitIndex(); err != nil {
			log.Warn("failed to initialize search index", zap.Error(err))
		} else if props, err := store.ListProperties(context.Background()); err == nil {
			if err := searchClient.Reindex(props); err != nil {
				log.Warn("initial reindex failed", zap.Error(err))
			}
		}
	}

	// Comparison sessions
	sessions := compare.NewStore(appConfig.Compare.GetSessionTTL(), log.Named("compare"))

	// Initialize rate limiter
	rateLimiter := ratelimit.NewRateLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.RequestsPerDay,
		appConfig.RateLimit.Enabled,
	)
	log.Info("rate limiter initialized",
		zap.Int("per_minute", appConfig.RateLimit.RequestsPerMinute),
		zap.Int("per_hour", appConfig.RateLimit.RequestsPerHour),
		zap.Int("per_day", appConfig.RateLimit.RequestsPerDay),
		zap.Bool("enabled", appConfig.RateLimit.Enabled))

	// Snapshot and cleanup services (MySQL only)
	var (
		snapshotService *snapshot.Service
		cleanupService  *cleanup.Service
	)
	if gormDB != nil {
		snapshotService = snapshot.NewService(gormDB.DB(), log.Named("snapshot"))
		var remover cleanup.IndexRemover
		if searchClient != nil {
			remover = searchClient
		}
		cleanupService = cleanup.NewService(gormDB.DB(), remover, log.Named("cleanup"))
	}

	// Scheduler
	schedOpts := scheduler.Options{Sweeper: sessions, Logger: log}
	if searchClient != nil {
		schedOpts.Indexer = searchClient
	}
	if snapshotService != nil {
		schedOpts.Recorder = snapshotService
	}
	appScheduler := scheduler.NewScheduler(store, loadSeed, appConfig, schedOpts)
	if err := appScheduler.Start(); err != nil {
		log.Warn("failed to start scheduler", zap.Error(err))
	}
	defer appScheduler.Stop()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	if appConfig.Logging.Development {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if appConfig.Logging.LogRequests {
		r.Use(handlers.RequestLogger(log.Named("http")))
	}

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	var history handlers.HistoryReader
	if snapshotService != nil {
		history = snapshotService
	}
	var (
		searcher     handlers.Searcher
		reindexer    handlers.Reindexer
		searchHealth handlers.SearchHealth
	)
	if searchClient != nil {
		searcher = searchClient
		reindexer = searchClient
		searchHealth = searchClient
	}

	// Routes
	r.GET("/health", handlers.HealthCheck(searchHealth))
	api := r.Group("/api")

	handlers.NewPropertyHandler(store, sessions, history, appConfig.Map).Register(api)
	handlers.NewCompareHandler(store, sessions).Register(api, ratelimit.Middleware(rateLimiter))
	handlers.NewSearchHandler(store, searcher, log.Named("search")).Register(api)

	// Rate limiter stats endpoint
	api.GET("/ratelimit/stats", ratelimit.StatsHandler(rateLimiter))

	// Admin API routes (requires authentication in production)
	handlers.NewAdminHandler(store, handlers.AdminOptions{
		Scheduler: appScheduler,
		Snapshots: snapshotService,
		Cleanup:   cleanupService,
		Indexer:   reindexer,
		Sessions:  sessions,
		Retention: appConfig.Cleanup,
		Logger:    log,
	}).Register(api)

	port := getEnv("PORT", appConfig.Server.Port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}
