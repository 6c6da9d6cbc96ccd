package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/challenge-schedule/api/swagger"
	"github.com/noah-isme/challenge-schedule/internal/handler"
	"github.com/noah-isme/challenge-schedule/internal/middleware"
	"github.com/noah-isme/challenge-schedule/internal/service"
	"github.com/noah-isme/challenge-schedule/pkg/config"
	"github.com/noah-isme/challenge-schedule/pkg/logger"
	corsmiddleware "github.com/noah-isme/challenge-schedule/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/challenge-schedule/pkg/middleware/requestid"
)

// @title Challenge Schedule API
// @version 0.1.0
// @description Normalized customer maintenance schedules
// @BasePath /
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

	metrics := service.NewMetricsService()
	client := service.NewChallengeClient(cfg.Challenge, metrics)
	scheduleSvc := service.NewScheduleService(client, service.ScheduleOptions{
		ActionOrder: service.ActionOrder(cfg.Schedule.ActionOrder),
		ExportTitle: cfg.Export.Title,
	}, nil, metrics, logr)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.GET("/challenge", scheduleHandler.Challenge)
	api.GET("/schedule", scheduleHandler.Schedule)
	api.GET("/schedule/export", scheduleHandler.Export)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting",
		"addr", addr,
		"env", cfg.Env,
		"challenge_url", cfg.Challenge.URL,
		"action_order", cfg.Schedule.ActionOrder,
	)
	if cfg.Schedule.ActionOrder == config.ActionOrderDate {
		logr.Warn("actions ordered by full scheduled date instead of day of month")
	}
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
