package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/coderscenter/training-optimizer-api/internal/handler"
	"github.com/coderscenter/training-optimizer-api/internal/middleware"
	"github.com/coderscenter/training-optimizer-api/internal/repository"
	"github.com/coderscenter/training-optimizer-api/internal/service"
	"github.com/coderscenter/training-optimizer-api/internal/solver"
	"github.com/coderscenter/training-optimizer-api/pkg/cache"
	"github.com/coderscenter/training-optimizer-api/pkg/config"
	"github.com/coderscenter/training-optimizer-api/pkg/database"
	"github.com/coderscenter/training-optimizer-api/pkg/export"
	"github.com/coderscenter/training-optimizer-api/pkg/logger"
	corsmiddleware "github.com/coderscenter/training-optimizer-api/pkg/middleware/cors"
	reqidmiddleware "github.com/coderscenter/training-optimizer-api/pkg/middleware/requestid"
)

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var mirror *redis.Client
	if cfg.Optimizer.MirrorEnabled {
		mirror, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, job mirroring disabled", "error", err)
			mirror = nil
		} else {
			defer mirror.Close() //nolint:errcheck
		}
	}

	metricsSvc := service.NewMetricsService()

	scheduleRepo := repository.NewScheduleRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	jobStore := service.NewJobStore(mirror, cfg.Optimizer.MirrorTTL, logr)
	optimizationSvc := service.NewOptimizationService(scheduleRepo, trainerRepo, jobStore, metricsSvc, service.OptimizationConfig{
		SolveBudget:    cfg.Optimizer.SolveBudget,
		MaxSolveBudget: cfg.Optimizer.MaxSolveBudget,
		Weights: solver.Weights{
			IdealWorkload:     cfg.Optimizer.IdealWorkload,
			MainTrainerReward: cfg.Optimizer.MainTrainerReward,
		},
	}, logr)

	optimizationHandler := handler.NewOptimizationHandler(optimizationSvc, export.NewPDFExporter())
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/optimization/schedules/:scheduleId", optimizationHandler.Submit)
		api.GET("/optimization/jobs", optimizationHandler.DebugJobs)
		api.GET("/optimization/jobs/:jobId", optimizationHandler.Status)
		api.POST("/optimization/jobs/:jobId/cancel", optimizationHandler.Cancel)
		api.POST("/optimization/jobs/:jobId/apply/:scheduleId", optimizationHandler.Apply)
		api.GET("/optimization/jobs/:jobId/report", optimizationHandler.Report)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
