package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"wasata/internal/app"
	"wasata/internal/cache"
	"wasata/internal/config"
	"wasata/internal/database"
	apphttp "wasata/internal/http"
	"wasata/internal/http/handlers"
	"wasata/internal/http/metrics"
	httpmw "wasata/internal/http/middleware"
	"wasata/internal/http/response"
	"wasata/internal/observability"
	"wasata/internal/repository/postgres"
	"wasata/internal/security"
	"wasata/internal/storage"
)

const (
	redisPrefix   = "wasata:"
	jobCacheTTL   = time.Minute
	sweepInterval = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	logger := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	response.SetLogger(logger)
	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, database.PostgresConfig{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxIdle:     cfg.Database.ConnMaxIdle,
		ConnMaxLifetime: cfg.Database.ConnMaxLife,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("connect postgres")
	}
	defer db.Close()
	if cfg.Database.RunMigrations {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.WithError(err).Fatal("run migrations")
		}
	}

	jobCache, limiter, closeRedis := newCacheAndLimiter(ctx, cfg, logger)
	defer closeRedis()

	uploader, filesDir, err := newUploader(cfg)
	if err != nil {
		logger.WithError(err).Fatal("init storage")
	}

	userRepo := postgres.NewUserRepository(db)
	refreshRepo := postgres.NewRefreshTokenRepository(db)
	companyRepo := postgres.NewCompanyRepository(db)
	jobRepo := postgres.NewJobRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)

	authService := app.NewAuthService(userRepo, refreshRepo, jwtProvider, hasher, auditRepo,
		observability.NewServiceLogger(logger, "auth"), cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	userService := app.NewUserService(userRepo, uploader, auditRepo, observability.NewServiceLogger(logger, "users"))
	jobService := app.NewJobService(jobRepo, companyRepo, jobCache, auditRepo, observability.NewServiceLogger(logger, "jobs"))
	companyService := app.NewCompanyService(companyRepo, uploader, jobService, auditRepo, observability.NewServiceLogger(logger, "companies"))
	applicationService := app.NewApplicationService(applicationRepo, jobRepo, companyRepo, userRepo, uploader, auditRepo,
		observability.NewServiceLogger(logger, "applications"))
	adminService := app.NewAdminService(userRepo, companyRepo, jobRepo, applicationRepo, refreshRepo, auditRepo, jobService,
		observability.NewServiceLogger(logger, "admin"))

	if cfg.Admin.Email != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
			logger.WithError(err).Fatal("bootstrap admin")
		}
	}

	maxUpload := cfg.Storage.MaxUploadBytes
	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:        handlers.NewAuthHandler(authService),
		UserHandler:        handlers.NewUserHandler(userService, authService, maxUpload),
		CompanyHandler:     handlers.NewCompanyHandler(companyService, maxUpload),
		JobHandler:         handlers.NewJobHandler(jobService),
		ApplicationHandler: handlers.NewApplicationHandler(applicationService, limiter, collector, maxUpload),
		AdminHandler:       handlers.NewAdminHandler(adminService, companyService, jobService),
		HealthHandler:      handlers.NewHealthHandler(db, logger),
		AuthMiddleware:     httpmw.NewAuthMiddleware(jwtProvider),
		Limiter:            limiter,
		Metrics:            collector,
		Logger:             logger,
		RequestTimeout:     cfg.HTTP.RequestTimeout,
		MaxBodyBytes:       cfg.HTTP.MaxBodyBytes,
		AllowedOrigins:     cfg.HTTP.CORSAllowedOrigins,
		DefaultLanguage:    cfg.DefaultLanguage,
		TrustProxy:         cfg.HTTP.TrustProxy,
		FilesDir:           filesDir,
	})
	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("API started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

// newCacheAndLimiter uses Redis when REDIS_URL is set and in-process
// implementations otherwise.
func newCacheAndLimiter(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (cache.Cache, httpmw.Limiter, func()) {
	if cfg.Redis.URL == "" {
		limiter := httpmw.NewRateLimiter()
		done := make(chan struct{})
		go limiter.RunSweeper(sweepInterval, done)
		return cache.NewMemoryCache(jobCacheTTL, 5*time.Minute), limiter, func() { close(done) }
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.WithError(err).Fatal("parse REDIS_URL")
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).Fatal("connect redis")
	}
	logger.Info("using redis for cache and rate limits")
	return cache.NewRedisCache(client, redisPrefix), httpmw.NewRedisLimiter(client, redisPrefix, logger), func() { _ = client.Close() }
}

func newUploader(cfg *config.Config) (storage.Uploader, string, error) {
	if cfg.Storage.Driver == config.StorageDriverCloudinary {
		return storage.NewCloudinaryUploader(storage.CloudinaryConfig{
			CloudName: cfg.Storage.Cloudinary.CloudName,
			APIKey:    cfg.Storage.Cloudinary.APIKey,
			APISecret: cfg.Storage.Cloudinary.APISecret,
			Folder:    "wasata",
		}, nil), "", nil
	}
	uploader, err := storage.NewLocalUploader(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		return nil, "", err
	}
	return uploader, cfg.Storage.LocalDir, nil
}
