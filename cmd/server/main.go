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
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/picker-payroll/internal/binrate"
	"github.com/iliyamo/picker-payroll/internal/config"
	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/handler"
	"github.com/iliyamo/picker-payroll/internal/middleware"
	"github.com/iliyamo/picker-payroll/internal/queue"
	"github.com/iliyamo/picker-payroll/internal/router"
	"github.com/iliyamo/picker-payroll/internal/service"
)

func main() {
	cfg := config.MustLoad()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	if cfg.Env == "dev" {
		e.Logger.SetLevel(log.DEBUG)
	}
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.Logger())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		e.Logger.Fatalf("database: %v", err)
	}
	defer db.Close()
	// The store may come up after us; requests fail with 503 until it does.
	if err := db.Ping(ctx); err != nil {
		e.Logger.Warnf("database ping failed (%s): %v", db.Dialect, err)
	} else if err := database.Migrate(ctx, db); err != nil {
		e.Logger.Warnf("schema: %v", err)
	}

	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		e.Logger.Warnf("redis unavailable, caching and rate limiting disabled: %v", err)
	} else {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()

	var events handler.PickPublisher
	if cfg.EventsEnabled {
		events = service.NewPublisher(cfg.BrokerURL)
	}
	if cfg.EventsConsumer {
		consumer := queue.NewConsumer(cfg.BrokerURL, cfg.EventsLogDir)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				e.Logger.Errorf("pick consumer stopped: %v", err)
			}
		}()
	}

	resolver := router.NewResolver(db, binrate.WithDefaultRate(cfg.DefaultBinRate))
	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.NewHandlers(db, resolver, events),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.InvalidateOnWrite(cacheCfg, rdb),
		middleware.NewRedisCache(cacheCfg, rdb),
	)

	addr := ":" + cfg.Port
	e.Logger.Infof("listening on %s (env=%s, db=%s)", addr, cfg.Env, db.Dialect)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
