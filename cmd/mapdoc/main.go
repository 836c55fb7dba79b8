package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/cache"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/cache/memory"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/cache/redisstore"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/config"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/httpclient"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/model"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/observability"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/fetch"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/logger"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/pipeline"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/render"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func run() int {
	cfg := config.FromEnv()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   strings.ToLower(os.Getenv("LOG_CONSOLE")) == "true",
		SampleN:   envInt("LOG_SAMPLE_N", 0),
		Component: "mapdoc",
	}, os.Stdout)

	appLog := logger.NewSlog(&zl)

	observability.ExposeBuildInfo(Version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRunID(ctx, "")

	appLog.InfoContext(ctx, "starting map document run",
		"version", Version,
		"input", cfg.InputPath,
		"output", cfg.OutputPath,
		"overpass", cfg.OverpassURL)

	if os.Getenv("METRICS_ENABLED") == "true" {
		addr := os.Getenv("METRICS_ADDR")
		if addr == "" {
			addr = ":9090"
		}
		path := os.Getenv("METRICS_PATH")
		if path == "" {
			path = "/metrics"
		}

		mux := http.NewServeMux()
		mux.Handle(path, promhttp.Handler())

		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		// start server
		go func() {
			log.Printf("metrics: listening on %s%s", addr, path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server exited: %v", err)
			}
		}()

		// shutdown on signal
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("metrics: shutdown error: %v", err)
			}
		}()
	}

	store := buildCache(ctx, cfg, appLog)
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	src := fetch.NewOverpassSource(cfg.OverpassURL, httpclient.NewOutbound(cfg.FetchTimeout), cfg.FetchTimeout)
	fetcher := fetch.New(appLog, src, fetch.Options{
		Cache:          store,
		H3Res:          cfg.H3Res,
		TTL:            cfg.Cache.TTLDefault,
		CacheOpTimeout: cfg.Cache.OpTimeout,
		Parallel:       cfg.FetchParallel,
	})
	renderer := render.New(appLog, render.Options{
		Title: os.Getenv("MAP_TITLE"),
	})

	p := pipeline.New(cfg, appLog, fetcher, renderer)
	if err := p.Run(ctx); err != nil {
		appLog.ErrorContext(ctx, "run failed", "stage", failedStage(err), "err", err)
		return 1
	}
	appLog.InfoContext(ctx, "run complete", "output", cfg.OutputPath)
	return 0
}

// buildCache assembles the context cache: memory LRU always, tiered over
// Redis when an address is configured. An unreachable Redis degrades to
// memory-only rather than failing the run.
func buildCache(ctx context.Context, cfg config.Config, appLog *slog.Logger) cache.Store {
	mem, err := memory.New(cfg.Cache.MemorySize)
	if err != nil {
		appLog.Warn("memory cache unavailable, running uncached", "err", err)
		return nil
	}
	if cfg.Cache.RedisAddr == "" {
		return mem
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rc, err := redisstore.New(pingCtx, cfg.Cache.RedisAddr)
	if err != nil {
		appLog.Warn("redis cache unreachable, using memory only", "addr", cfg.Cache.RedisAddr, "err", err)
		return mem
	}
	return cache.Tiered(mem, rc)
}

func failedStage(err error) string {
	var ie *model.InputError
	var re *model.RenderError
	switch {
	case errors.As(err, &ie):
		return "normalize"
	case errors.As(err, &re):
		return "render"
	default:
		return "pipeline"
	}
}
