package main // Entry point package

import (
	"github.com/joho/godotenv"     // loads .env files in development
	"github.com/labstack/echo/v4"  // Echo web framework
	"github.com/sirupsen/logrus"   // structured logging

	"github.com/nsoftlabs/whitespace-server/internal/ai"
	"github.com/nsoftlabs/whitespace-server/internal/config"
	"github.com/nsoftlabs/whitespace-server/internal/handler"
	"github.com/nsoftlabs/whitespace-server/internal/ingest"
	"github.com/nsoftlabs/whitespace-server/internal/middleware"
	"github.com/nsoftlabs/whitespace-server/internal/queue"
	"github.com/nsoftlabs/whitespace-server/internal/repository"
	"github.com/nsoftlabs/whitespace-server/internal/router"
	"github.com/nsoftlabs/whitespace-server/internal/session"
	"github.com/nsoftlabs/whitespace-server/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environment variables win

	cfg := config.Load()

	log := logrus.New()
	if cfg.Env == "prod" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	// Document store. MySQL is the durable backend; the in-memory store
	// serves development and tests.
	var st store.DocumentStore
	switch cfg.StoreDriver {
	case "mysql":
		ms, err := store.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.WithError(err).Fatal("open document store")
		}
		st = ms
	default:
		log.Warn("using in-memory document store; data is lost on restart")
		st = store.NewMemoryStore()
	}

	// Redis backs sessions, the response cache and the rate limiter. A nil
	// client means Redis is unreachable; those concerns degrade rather than
	// block startup.
	rdb := config.NewRedisClient()
	var sessions session.Store
	if rdb != nil {
		sessions = session.NewRedisStore(rdb, 0)
	} else {
		log.Warn("redis unavailable; sessions held in process memory")
		sessions = session.NewMemoryStore()
	}

	repo := repository.NewWorkspaceRepo(st)
	aiClient := ai.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	ingestSvc := ingest.NewService(repo, aiClient, cfg.SimUploadDelay, cfg.SimSyncDelay, log)

	authH := handler.NewAuthHandler(cfg, repo, sessions, log)
	oppH := handler.NewOpportunityHandler(repo, ingestSvc, log)
	savedH := handler.NewSavedHandler(repo, sessions, log)
	tenantH := handler.NewTenantHandler(cfg, repo, log)
	dsH := handler.NewDataSourceHandler(repo, ingestSvc, log)
	copilotH := handler.NewCopilotHandler(repo, sessions, aiClient, log)

	e := echo.New()
	e.HideBanner = true

	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		if rl := config.LoadRateLimitConfig(); rl.Enabled {
			e.Use(middleware.NewTokenBucket(rl, rdb))
		}
		if cc := config.LoadCacheConfig(); cc.Enabled {
			cacheMW = middleware.NewRedisCache(cc, rdb)
		}
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterWorkspace(e, oppH, savedH, copilotH, cfg.JWTSecret, cacheMW)
	router.RegisterTenantAdmin(e, tenantH, cfg.JWTSecret)
	router.RegisterPlatformAdmin(e, tenantH, oppH, dsH, cfg.JWTSecret)

	// The audit consumer runs its own reconnect loop for the life of the
	// process.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.WithError(err).Error("audit consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "store": cfg.StoreDriver}).Info("listening")

	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
