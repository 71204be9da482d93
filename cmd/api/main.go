package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	httpadp "loanbook/internal/adapter/http"
	"loanbook/internal/adapter/middleware"
	"loanbook/internal/adapter/repository/mysql"
	"loanbook/internal/config"
	"loanbook/internal/infrastructure/cache"
	"loanbook/internal/infrastructure/db"
	"loanbook/internal/usecase/document"
	"loanbook/pkg/logging"
)

func main() {
	config.LoadDotenv()
	cfg := config.Load()
	log := logging.Setup(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		fatal(log, "invalid config", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN())
	if err != nil {
		fatal(log, "open database", err)
	}
	repo := mysql.NewDocumentRepository(gdb)
	if err := repo.AutoMigrate(ctx); err != nil {
		fatal(log, "migrate documents", err)
	}

	// Redis is optional: without it there is no cache and no idempotency guard.
	var docCache document.Cache
	var docMW []echo.MiddlewareFunc
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			fatal(log, "connect redis", err)
		}
		defer rdb.Close()
		docCache = cache.NewDocumentCache(rdb, cfg.CacheTTL())
		docMW = append(docMW, middleware.IdempotencyMiddleware(rdb, cfg.IdempTTL()))
	}

	uc := document.NewUsecase(repo, docCache, cfg.DocumentName, log)
	h := httpadp.NewHandler(uc, httpadp.NewMetrics())
	e := httpadp.NewRouter(h, docMW...)

	addr := ":" + cfg.AppPort
	go func() {
		log.Info("listening", "addr", addr, "driver", cfg.DBDriver, "redis", cfg.RedisAddr != "")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server stopped", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
