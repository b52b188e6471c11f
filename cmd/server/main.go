package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"pandey.app/outreach/common/id"
	"pandey.app/outreach/common/llm"
	"pandey.app/outreach/common/logger"
	"pandey.app/outreach/common/otel"
	"pandey.app/outreach/core/config"
	"pandey.app/outreach/core/db"
	"pandey.app/outreach/internal/cache"
	"pandey.app/outreach/internal/http/middleware"
	httprouter "pandey.app/outreach/internal/http/router"
	"pandey.app/outreach/internal/service"
	"pandey.app/outreach/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "outreach starting", "env", cfg.Env, "model", cfg.OpenRouter.Model)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	var database *db.DB
	if cfg.DB.Enabled() {
		database, err = db.New(ctx, cfg.DB)
		if err != nil {
			slog.WarnContext(ctx, "database unavailable, storing prospects on disk only", "error", err)
			database = nil
		} else {
			defer database.Close()
			slog.InfoContext(ctx, "database connected")
		}
	}

	prospects, err := store.NewStores(database, cfg.Storage.DataDir).Prospects()
	if err != nil {
		slog.ErrorContext(ctx, "failed to open prospect store", "error", err)
		os.Exit(1)
	}

	strategyCache := setupCache(ctx, cfg.Cache)

	client, err := llm.New(llm.Config{
		APIKey:           cfg.OpenRouter.APIKey,
		BaseURL:          cfg.OpenRouter.BaseURL,
		Model:            cfg.OpenRouter.Model,
		Temperature:      cfg.OpenRouter.Temperature,
		MaxTokens:        cfg.OpenRouter.MaxTokens,
		Timeout:          cfg.OpenRouter.Timeout,
		MaxRetries:       cfg.OpenRouter.MaxRetries,
		RPS:              cfg.OpenRouter.RPS,
		StructuredOutput: cfg.OpenRouter.StructuredOutput,
		Headers:          map[string]string{"X-Title": cfg.OTel.ServiceName},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create llm client", "error", err)
		os.Exit(1)
	}

	services := service.NewServices(prospects, client, strategyCache)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Generation alone may take Timeout per attempt, so the write timeout
	// leaves room for every retry.
	writeTimeout := cfg.OpenRouter.Timeout*time.Duration(max(cfg.OpenRouter.MaxRetries, 1)) + 15*time.Second

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

// setupCache returns a Redis-backed cache, or a no-op one when Redis is not
// configured or not reachable.
func setupCache(ctx context.Context, cfg config.CacheConfig) cache.StrategyCache {
	if !cfg.Enabled() {
		slog.InfoContext(ctx, "strategy cache disabled (no REDIS_URL)")
		return cache.NewNoop()
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.WarnContext(ctx, "invalid redis url, strategy cache disabled", "error", err)
		return cache.NewNoop()
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.WarnContext(ctx, "redis unavailable, strategy cache disabled", "error", err)
		_ = redisClient.Close()
		return cache.NewNoop()
	}

	slog.InfoContext(ctx, "redis connected", "ttl", cfg.TTL.String())
	return cache.NewRedisCache(redisClient, cfg.TTL, slog.Default())
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → RequestID tags logs → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		APIKey:       cfg.APIKey,
		UserIDHeader: cfg.UserIDHeader,
	})

	return router
}

const banner = `
 ██████╗ ██╗   ██╗████████╗██████╗ ███████╗ █████╗  ██████╗██╗  ██╗
██╔═══██╗██║   ██║╚══██╔══╝██╔══██╗██╔════╝██╔══██╗██╔════╝██║  ██║
██║   ██║██║   ██║   ██║   ██████╔╝█████╗  ███████║██║     ███████║
██║   ██║██║   ██║   ██║   ██╔══██╗██╔══╝  ██╔══██║██║     ██╔══██║
╚██████╔╝╚██████╔╝   ██║   ██║  ██║███████╗██║  ██║╚██████╗██║  ██║
 ╚═════╝  ╚═════╝    ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝
`
