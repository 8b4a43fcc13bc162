package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/carelog-api/api/swagger"
	"github.com/noah-isme/carelog-api/internal/handler"
	"github.com/noah-isme/carelog-api/internal/middleware"
	"github.com/noah-isme/carelog-api/internal/repository"
	"github.com/noah-isme/carelog-api/internal/service"
	"github.com/noah-isme/carelog-api/internal/session"
	"github.com/noah-isme/carelog-api/pkg/cache"
	"github.com/noah-isme/carelog-api/pkg/config"
	"github.com/noah-isme/carelog-api/pkg/database"
	"github.com/noah-isme/carelog-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/carelog-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/carelog-api/pkg/middleware/requestid"
	"github.com/noah-isme/carelog-api/pkg/password"
)

// @title CareLog API
// @version 1.0.0
// @description Practitioner and client tracking service
// @BasePath /api
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	sessions := session.NewRedisStore(redisClient)

	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	metricsSvc := service.NewMetricsService()
	statsSvc := service.NewStatisticsService(clientRepo, sessionRepo, statsRepo, cacheRepo, cfg.Statistics.CacheTTL, logr)
	authSvc := service.NewAuthService(userRepo, sessions, nil, logr, service.AuthServiceConfig{
		SessionTTL:       cfg.Session.TTL,
		ResetTokenSecret: cfg.Auth.ResetTokenSecret,
		ResetTokenTTL:    cfg.Auth.ResetTokenTTL,
	})
	clientSvc := service.NewClientService(clientRepo, userRepo, statsSvc, password.Hash, nil, logr)
	entrySvc := service.NewEntryService(entryRepo, clientSvc, nil, logr)
	sessionSvc := service.NewSessionService(sessionRepo, clientSvc, nil, logr)
	noteSvc := service.NewNoteService(noteRepo, clientSvc, nil, logr)
	exportSvc := service.NewExportService(entryRepo, clientSvc, logr)

	cookie := handler.SessionCookie{
		Name:   cfg.Session.CookieName,
		MaxAge: int(cfg.Session.TTL.Seconds()),
		Secure: cfg.Session.Secure,
	}

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, metricsSvc, cookie),
		Client:     handler.NewClientHandler(clientSvc),
		Entry:      handler.NewEntryHandler(entrySvc),
		Session:    handler.NewSessionHandler(sessionSvc),
		Note:       handler.NewNoteHandler(noteSvc),
		Statistics: handler.NewStatisticsHandler(statsSvc, metricsSvc),
		Export:     handler.NewExportHandler(exportSvc),
		Metrics: handler.NewMetricsHandler(metricsSvc, db, func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	requireAuth := middleware.Session(sessions, cfg.Session.CookieName, userRepo, clientRepo)
	requirePractitioner := middleware.RequirePractitioner()
	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, requireAuth, requirePractitioner)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
