package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "github.com/noah-isme/daycare-api/api/swagger"
	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/handler"
	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/internal/repository"
	"github.com/noah-isme/daycare-api/internal/service"
	"github.com/noah-isme/daycare-api/pkg/cache"
	"github.com/noah-isme/daycare-api/pkg/config"
	"github.com/noah-isme/daycare-api/pkg/database"
	"github.com/noah-isme/daycare-api/pkg/docstore"
	"github.com/noah-isme/daycare-api/pkg/jobs"
	"github.com/noah-isme/daycare-api/pkg/logger"
	"github.com/noah-isme/daycare-api/pkg/storage"
)

// @title Daycare API
// @version 1.0.0
// @description Attendance, late-pickup penalties and monthly invoicing for a daycare center.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	var redisClient *redis.Client
	if cfg.Docstore.ChangeFeed == config.FeedRedis || cfg.Dashboard.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, using in-process feed and no dashboard cache", zap.Error(err))
		} else {
			redisClient = client
			defer redisClient.Close() //nolint:errcheck
		}
	}

	var feed docstore.Feed = docstore.NewLocalFeed()
	if cfg.Docstore.ChangeFeed == config.FeedRedis && redisClient != nil {
		feed = docstore.NewRedisFeed(redisClient, "docstore")
	}

	store, pingStore, closeStore, err := openStore(ctx, cfg, feed, metrics, logr)
	if err != nil {
		return err
	}
	defer closeStore()

	checks := map[string]handler.ReadinessCheck{"docstore": pingStore}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	clock := service.NewClock(cfg.Billing.Location())
	validate := validator.New()
	catalog := billing.DefaultCatalog()

	students := repository.NewStudentRepository(store)
	attendance := repository.NewAttendanceRepository(store)
	penalties := repository.NewPenaltyRepository(store)
	invoices := repository.NewInvoiceRepository(store)
	staff := repository.NewStaffRepository(store)
	history := repository.NewHistoryRepository(store)
	settingsRepo := repository.NewSettingsRepository(store)

	activity := service.NewActivityService(history, clock, logr)
	activityQueue := jobs.NewQueue("activity", activity.Handle, jobs.QueueConfig{
		Workers:    cfg.Activity.Workers,
		MaxRetries: cfg.Activity.MaxRetries,
		RetryDelay: time.Second,
		Logger:     logr,
	})
	activityQueue.Start(ctx)
	defer activityQueue.Stop()
	activity.UseQueue(activityQueue)

	settings := service.NewSettingsService(settingsRepo, defaultSettings(cfg.Billing, logr), activity, validate, logr)
	if err := settings.Start(ctx); err != nil {
		return fmt.Errorf("start settings watcher: %w", err)
	}
	defer settings.Stop()

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return fmt.Errorf("init export storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled && cacheRepo != nil)

	exportSvc := service.NewExportService(service.ExportSources{
		Students:   students,
		Attendance: attendance,
		Invoices:   invoices,
		Penalties:  penalties,
		Staff:      staff,
		History:    history,
	}, settings, files, signer, activity, clock, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil, nil)

	authSvc := service.NewAuthService(activity, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Users:  cfg.Auth.Users,
		Admins: cfg.Auth.Admins,
	})
	if len(cfg.Auth.Users) == 0 {
		logr.Warn("no staff users configured, set AUTH_USERS to allow logins")
	}

	services := routerServices{
		auth:       authSvc,
		students:   service.NewStudentService(students, catalog, activity, clock, validate, logr),
		attendance: service.NewAttendanceService(attendance, students, penalties, catalog, settings, activity, metrics, clock, validate, logr),
		invoices:   service.NewInvoiceService(invoices, students, penalties, catalog, activity, metrics, clock, validate, logr),
		penalties:  service.NewPenaltyService(penalties, activity, validate, logr),
		staff:      service.NewStaffService(staff, activity, clock, validate, logr),
		settings:   settings,
		catalog:    catalog,
		activity:   activity,
		exports:    exportSvc,
		dashboard: service.NewDashboardService(service.DashboardSources{
			Students:   students,
			Attendance: attendance,
			Penalties:  penalties,
			Invoices:   invoices,
			Staff:      staff,
		}, cacheSvc, cfg.Dashboard.CacheTTL, clock, logr),
		streams: service.NewStreamService(store, settingsRepo, repository.Collections, logr),
		metrics: metrics,
		checks:  checks,
	}

	go runExportCleanup(ctx, exportSvc, cfg.Exports.CleanupInterval, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, logr, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "docstore", cfg.Docstore.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore builds the document store selected by DOCSTORE_DRIVER along
// with its readiness probe and release function.
func openStore(ctx context.Context, cfg *config.Config, feed docstore.Feed, metrics *service.MetricsService, logr *zap.Logger) (docstore.Store, handler.ReadinessCheck, func(), error) {
	switch cfg.Docstore.Driver {
	case config.DocstoreMemory:
		logr.Warn("using in-memory document store, data is lost on restart")
		return docstore.NewMemoryStore(feed, logr), func(context.Context) error { return nil }, func() {}, nil
	case config.DocstorePostgres, "":
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		var observer docstore.QueryObserver
		if metrics != nil {
			observer = metrics
		}
		store := docstore.NewPostgresStore(db, feed, observer, logr)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("ensure docstore schema: %w", err)
		}
		return store, db.PingContext, func() { _ = db.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown docstore driver %q", cfg.Docstore.Driver)
	}
}

func defaultSettings(cfg config.BillingConfig, logr *zap.Logger) models.Settings {
	lateFee, err := decimal.NewFromString(cfg.DefaultLateFee)
	if err != nil || lateFee.IsNegative() {
		logr.Warn("invalid DEFAULT_LATE_FEE, using 0", zap.String("value", cfg.DefaultLateFee))
		lateFee = decimal.Zero
	}
	return models.Settings{
		CenterName: cfg.DefaultCenterName,
		Currency:   cfg.DefaultCurrency,
		LateFee:    lateFee,
	}
}

func runExportCleanup(ctx context.Context, exports *service.ExportService, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := exports.Cleanup(0); err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
			}
		}
	}
}
