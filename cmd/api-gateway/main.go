package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/college-erp-api/api/swagger"
	"github.com/noah-isme/college-erp-api/internal/handler"
	"github.com/noah-isme/college-erp-api/internal/repository"
	"github.com/noah-isme/college-erp-api/internal/router"
	"github.com/noah-isme/college-erp-api/internal/service"
	"github.com/noah-isme/college-erp-api/pkg/cache"
	"github.com/noah-isme/college-erp-api/pkg/config"
	"github.com/noah-isme/college-erp-api/pkg/database"
	"github.com/noah-isme/college-erp-api/pkg/export"
	"github.com/noah-isme/college-erp-api/pkg/logger"
)

// @title College ERP API
// @version 1.0.0
// @description Departments, courses, attendance, marks, leaves and announcements for a college.
// @BasePath /api
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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
		logr.Info("database schema applied")
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
		}
	}

	engine := buildEngine(cfg, logr, db, redisClient)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		serverErrors <- srv.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-signals:
		logr.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logr.Info("server stopped")
	return nil
}

func buildEngine(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, redisClient *redis.Client) *gin.Engine {
	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	marksRepo := repository.NewMarksRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, "college-erp")
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	authSvc := service.NewAuthService(userRepo, auditRepo, metrics, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiry:     cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
		BcryptCost: cfg.Security.BcryptCost,
	})
	userSvc := service.NewUserService(userRepo, departmentRepo, auditRepo, cacheSvc, validate, logr, cfg.Security.BcryptCost)
	departmentSvc := service.NewDepartmentService(departmentRepo, userRepo, courseRepo, auditRepo, cacheSvc, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, departmentRepo, userRepo, auditRepo, cacheSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, courseRepo, userRepo, cacheSvc, metrics, cfg.Cache.TTL, validate, logr)
	marksSvc := service.NewMarksService(marksRepo, courseRepo, userRepo, cacheSvc, metrics, cfg.Cache.TTL, validate, logr)
	leaveSvc := service.NewLeaveService(leaveRepo, userRepo, auditRepo, cacheSvc, metrics, validate, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, userRepo, departmentRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, logr, service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL})
	exportSvc := service.NewExportService(marksSvc, attendanceSvc, userRepo, courseRepo,
		export.NewCSVExporter(), export.NewPDFExporter("College ERP"), logr)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, userSvc),
		User:         handler.NewUserHandler(userSvc),
		Department:   handler.NewDepartmentHandler(departmentSvc),
		Course:       handler.NewCourseHandler(courseSvc),
		Attendance:   handler.NewAttendanceHandler(attendanceSvc),
		Marks:        handler.NewMarksHandler(marksSvc),
		Leave:        handler.NewLeaveHandler(leaveSvc),
		Announcement: handler.NewAnnouncementHandler(announcementSvc),
		Dashboard:    handler.NewDashboardHandler(dashboardSvc),
		Export:       handler.NewExportHandler(exportSvc),
		Metrics:      handler.NewMetricsHandler(metrics, db, logr),
	}

	return router.New(router.Dependencies{
		Logger:   logr,
		Tokens:   authSvc,
		Audit:    auditRepo,
		Observer: metrics,
	}, handlers, router.Options{
		APIPrefix:       cfg.APIPrefix,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		EnableDocs:      cfg.Env != config.EnvProduction,
		EnableDashboard: cfg.Dashboard.Enabled,
	})
}
