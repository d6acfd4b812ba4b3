package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"menu-planner/api"
	"menu-planner/config"
	"menu-planner/domain"
	"menu-planner/fetch"
	"menu-planner/storage"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	catalog, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	redisOpts, err := config.ParseRedisOptions(cfg.RedisConn)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	rc := redis.NewClient(redisOpts)

	logger := log.StandardLogger()
	opts := api.Options{
		Deduper: api.NewRedisDeduper(rc, cfg.DeduperTTL),
		Pool:    cfg.Journal,
	}
	if cfg.Durable() {
		store, err := storage.New(cfg.StorageConn, cfg.DraftsTable, cfg.CommandQueue)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		opts.Drafts = storage.NewCache(store, rc, cfg.DraftCacheTTL)
		opts.Journal = store
	} else {
		log.Info("no table storage configured; drafts are kept in redis and commands are not journaled")
		opts.Drafts = storage.NewRedisStore(rc)
	}
	if cfg.FetchBaseURL != "" {
		opts.Fetcher = fetch.NewHTTP(cfg.FetchBaseURL)
	}

	opts.Broker = api.NewBroker()
	board := domain.NewBoard(catalog,
		domain.WithLogger(logger),
		domain.WithChangeHook(opts.Broker.Notify),
		domain.WithFetchTimeout(cfg.FetchTimeout),
	)

	server := api.NewServer(board, opts, logger)

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderContentEncoding},
	}))
	e.Use(api.GzipRequestMiddleware())
	server.Register(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	server.Close()
	if err := rc.Close(); err != nil {
		log.WithError(err).Warn("redis close")
	}
	log.Info("server stopped")
}
