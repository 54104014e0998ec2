package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/streetfare/schedule-api/api/swagger"
	"github.com/streetfare/schedule-api/internal/handler"
	"github.com/streetfare/schedule-api/internal/middleware"
	"github.com/streetfare/schedule-api/internal/repository"
	"github.com/streetfare/schedule-api/internal/service"
	"github.com/streetfare/schedule-api/pkg/cache"
	"github.com/streetfare/schedule-api/pkg/config"
	"github.com/streetfare/schedule-api/pkg/database"
	"github.com/streetfare/schedule-api/pkg/logger"
	corsmiddleware "github.com/streetfare/schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/streetfare/schedule-api/pkg/middleware/requestid"
)

// @title Street Fare Schedule API
// @version 1.0.0
// @description Recurring weekly schedules and monthly patterns for mobile vendors
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The API works without redis, caching just turns into a no-op.
		logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	vendorRepo := repository.NewVendorRepository(db)
	weeklyRepo := repository.NewWeeklyScheduleRepository(db)
	patternRepo := repository.NewPatternRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authSvc := service.NewAuthService(vendorRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	weeklySvc := service.NewWeeklyService(weeklyRepo, cacheRepo, validate, logr, cfg.Patterns.StatusCacheTTL)
	patternSvc := service.NewPatternService(patternRepo, cacheRepo, validate, logr, service.PatternLimits{
		MaxDurationMonths: cfg.Patterns.MaxDuration,
		MaxSlots:          cfg.Patterns.MaxSlots,
		StatusCacheTTL:    cfg.Patterns.StatusCacheTTL,
	}, nil)
	exportSvc := service.NewExportService(patternRepo, weeklyRepo, logr, service.ExportOptions{
		FeedName:     cfg.Export.ICSFeedName,
		HorizonWeeks: cfg.Export.HorizonWeeks,
	}, nil)
	metricsSvc := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authSvc)
	weeklyHandler := handler.NewWeeklyHandler(weeklySvc)
	patternHandler := handler.NewPatternHandler(patternSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

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
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "database"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JWT(authSvc))

	authed.GET("/schedule", weeklyHandler.Get)
	authed.PUT("/schedule", weeklyHandler.Save)
	authed.DELETE("/schedule", weeklyHandler.Clear)
	authed.POST("/schedule/days/:day/toggle", weeklyHandler.ToggleDay)
	authed.POST("/schedule/days/:day/slots", weeklyHandler.AddSlot)
	authed.POST("/schedule/copy", weeklyHandler.Copy)
	authed.GET("/schedule/summary", weeklyHandler.Summary)

	// Static pattern routes have to go before the :id routes.
	authed.GET("/patterns/templates", patternHandler.Templates)
	authed.POST("/patterns/conflicts", patternHandler.Conflicts)
	authed.GET("/patterns", patternHandler.List)
	authed.POST("/patterns", patternHandler.Create)
	authed.PUT("/patterns/:id", patternHandler.Update)
	authed.DELETE("/patterns/:id", patternHandler.Delete)
	authed.POST("/patterns/:id/toggle", patternHandler.Toggle)
	authed.POST("/patterns/:id/extend", patternHandler.Extend)
	authed.POST("/patterns/:id/duplicate", patternHandler.Duplicate)
	authed.GET("/patterns/:id/occurrences", patternHandler.Occurrences)
	authed.GET("/patterns/:id/status", patternHandler.Status)

	if cfg.Export.Enabled {
		authed.GET("/export/occurrences.csv", exportHandler.OccurrencesCSV)
		authed.GET("/export/occurrences.pdf", exportHandler.OccurrencesPDF)
		authed.GET("/export/calendar.ics", exportHandler.CalendarICS)
	}

	if cfg.Sweep.Enabled {
		sweeper := cron.New()
		_, err := sweeper.AddFunc(cfg.Sweep.Spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			started := time.Now()
			swept, expired, err := patternSvc.Sweep(ctx)
			if err != nil {
				logr.Sugar().Errorw("pattern status sweep failed", "error", err)
				return
			}
			metricsSvc.ObserveSweep(time.Since(started), expired)
			logr.Sugar().Infow("pattern status sweep finished", "swept", swept, "expired", expired)
		})
		if err != nil {
			logr.Sugar().Fatalw("invalid sweep schedule", "spec", cfg.Sweep.Spec, "error", err)
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
