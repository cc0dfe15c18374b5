package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/sma-eval-api/api/swagger"
	"github.com/noah-isme/sma-eval-api/internal/handler"
	"github.com/noah-isme/sma-eval-api/internal/middleware"
	"github.com/noah-isme/sma-eval-api/internal/repository"
	"github.com/noah-isme/sma-eval-api/internal/rules"
	"github.com/noah-isme/sma-eval-api/internal/service"
	"github.com/noah-isme/sma-eval-api/pkg/cache"
	"github.com/noah-isme/sma-eval-api/pkg/config"
	"github.com/noah-isme/sma-eval-api/pkg/database"
	"github.com/noah-isme/sma-eval-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-eval-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-eval-api/pkg/middleware/requestid"
)

// @title SMA Evaluation API
// @version 1.0.0
// @description Survey/evaluation submission service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect quality store", "error", err)
	}
	defer db.Close()

	academicDB, err := database.NewPostgres(cfg.AcademicDB)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect academic registry", "error", err)
	}
	defer academicDB.Close()

	var cacheRepo *repository.CacheRepository
	if cfg.Forms.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	formRepo := repository.NewFormRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(academicDB)

	metricsSvc := service.NewMetricsService()
	messageSvc := service.NewMessageService(messageRepo, logr)
	collector := service.NewMetadataCollector(cfg.Submission.DateFormat)
	registry := rules.Default()

	submissionSvc := service.NewSubmissionService(
		formRepo, ruleRepo, responseRepo, registry, assignmentRepo,
		collector, messageSvc, metricsSvc, logr,
	)
	formSvc := service.NewFormService(formRepo, cacheRepo, cfg.Forms.CacheTTL, cfg.Forms.CacheEnabled, logr)

	submissionHandler := handler.NewSubmissionHandler(submissionSvc)
	formHandler := handler.NewFormHandler(formSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/forms", formHandler.List)
		api.GET("/forms/:id", formHandler.Get)
		api.POST("/evaluations", middleware.OptionalSession(cfg.Session.Secret), submissionHandler.Submit)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "rules", registry.Names())
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
