package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/danieltanurhan/study-planner-api/api/swagger"
	"github.com/danieltanurhan/study-planner-api/internal/handler"
	"github.com/danieltanurhan/study-planner-api/internal/middleware"
	"github.com/danieltanurhan/study-planner-api/internal/repository"
	"github.com/danieltanurhan/study-planner-api/internal/service"
	"github.com/danieltanurhan/study-planner-api/pkg/cache"
	"github.com/danieltanurhan/study-planner-api/pkg/config"
	"github.com/danieltanurhan/study-planner-api/pkg/database"
	"github.com/danieltanurhan/study-planner-api/pkg/logger"
	corsmiddleware "github.com/danieltanurhan/study-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/danieltanurhan/study-planner-api/pkg/middleware/requestid"
	"github.com/danieltanurhan/study-planner-api/pkg/storage"
)

// @title Study Planner API
// @version 1.0.0
// @description Weekly study schedule generation for students
// @BasePath /api/v1
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	classRepo := repository.NewClassRepository(db)
	blockRepo := repository.NewRegularBlockRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "study-planner-api",
	})
	prefSvc := service.NewPreferenceService(prefRepo, validate, logr)
	fixedSvc := service.NewFixedScheduleService(classRepo, blockRepo, validate, logr)
	taskSvc := service.NewTaskService(taskRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, validate, logr)

	plannerParams := service.PlannerServiceParams{
		Config:      cfg.Planner,
		Preferences: prefRepo,
		Classes:     classRepo,
		Blocks:      blockRepo,
		Workload:    taskRepo,
		Logger:      logr,
	}
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		plannerParams.Cache = service.NewCacheService(redisClient, logr)
	}
	if cfg.Oracle.Enabled {
		plannerParams.Oracle = service.NewOracleAllocator(cfg.Oracle, logr)
	}
	plannerSvc := service.NewPlannerService(plannerParams)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		localStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		exportSvc = service.NewExportService(service.ExportServiceParams{
			Schedules:   scheduleRepo,
			Storage:     localStorage,
			Signer:      storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
			Concurrency: cfg.Exports.WorkerConcurrency,
			Retries:     cfg.Exports.WorkerRetries,
			Logger:      logr,
		})
		exportSvc.Start(ctx)
		defer exportSvc.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	prefHandler := handler.NewPreferenceHandler(prefSvc)
	fixedHandler := handler.NewFixedScheduleHandler(fixedSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	plannerHandler := handler.NewPlannerHandler(plannerSvc, metricsSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/preferences", prefHandler.Get)
		protected.PUT("/preferences", prefHandler.Update)

		protected.GET("/classes", fixedHandler.ListClasses)
		protected.POST("/classes", fixedHandler.CreateClass)
		protected.PUT("/classes/:id", fixedHandler.UpdateClass)
		protected.DELETE("/classes/:id", fixedHandler.DeleteClass)

		protected.GET("/blocks", fixedHandler.ListBlocks)
		protected.POST("/blocks", fixedHandler.CreateBlock)
		protected.PUT("/blocks/:id", fixedHandler.UpdateBlock)
		protected.DELETE("/blocks/:id", fixedHandler.DeleteBlock)

		protected.GET("/tasks/assignments", taskHandler.ListAssignments)
		protected.POST("/tasks/assignments", taskHandler.CreateAssignment)
		protected.PUT("/tasks/assignments/:id", taskHandler.UpdateAssignment)
		protected.DELETE("/tasks/assignments/:id", taskHandler.DeleteAssignment)

		protected.GET("/tasks/exams", taskHandler.ListExams)
		protected.POST("/tasks/exams", taskHandler.CreateExam)
		protected.PUT("/tasks/exams/:id", taskHandler.UpdateExam)
		protected.DELETE("/tasks/exams/:id", taskHandler.DeleteExam)

		protected.POST("/planner/generate", plannerHandler.Generate)
		protected.POST("/planner/windows", plannerHandler.Windows)
		protected.POST("/planner/validate", plannerHandler.Validate)

		protected.POST("/schedules", scheduleHandler.Save)
		protected.GET("/schedules", scheduleHandler.List)
		protected.GET("/schedules/:id", scheduleHandler.Get)
		protected.POST("/schedules/:id/accept", scheduleHandler.Accept)
		protected.DELETE("/schedules/:id", scheduleHandler.Delete)

		if exportSvc != nil {
			exportHandler := handler.NewExportHandler(exportSvc)
			protected.POST("/schedules/:id/exports", exportHandler.Create)
			protected.GET("/exports/jobs/:job_id", exportHandler.Status)
			// Downloads authenticate via the signed token in the path.
			api.GET("/exports/:token", exportHandler.Download)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
