package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"session-gate/internal/adapter/gateway"
	adapterhandler "session-gate/internal/adapter/handler"
	"session-gate/internal/domain"
	"session-gate/internal/infrastructure/analytics"
	infracache "session-gate/internal/infrastructure/cache"
	"session-gate/internal/templates"
	"session-gate/internal/usecase"

	"session-gate/config"
	appmiddleware "session-gate/middleware"
	"session-gate/utils/logger"
	"session-gate/utils/otel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	// Initialize structured logger
	logger.Init(otelCfg.Enabled)

	// Pull managed secrets into the environment before reading configuration
	config.LoadSecrets(ctx, slog.Default())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"backend_api_url", cfg.BackendAPIURL,
		"port", cfg.Port,
		"app_env", cfg.AppEnv,
		"mock_auth", cfg.MockAuthEnabled(),
		"sandbox_ttl", cfg.SandboxTTL)

	// Template registry
	registry, err := templates.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load template registry", "error", err)
		os.Exit(1)
	}

	// Infrastructure
	sandboxCache := infracache.NewSandboxCache(cfg.SandboxTTL)
	backendGateway := gateway.NewBackendGateway(cfg.BackendAPIURL, cfg.BackendTimeout)

	var analyticsSink domain.Analytics = analytics.NopSink{}
	if cfg.PostHogAPIKey != "" {
		sink, err := analytics.NewPostHogSink(cfg.PostHogAPIKey, cfg.PostHogEndpoint)
		if err != nil {
			slog.WarnContext(ctx, "analytics disabled", "error", err)
		} else {
			analyticsSink = sink
		}
	}

	// Usecases
	resolveUC := usecase.NewResolveSession(cfg.MockAuthEnabled(), slog.Default())

	// Handlers
	sessionHandler := adapterhandler.NewSessionHandler(resolveUC)
	validateHandler := adapterhandler.NewValidateHandler(resolveUC)
	proxyHandler := adapterhandler.NewProxyHandler(resolveUC, backendGateway, sandboxCache, registry, analyticsSink)
	internalHandler := adapterhandler.NewInternalHandler(resolveUC)
	healthHandler := adapterhandler.NewHealthHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Security middleware
	e.Use(appmiddleware.SecurityHeaders())

	// OpenTelemetry tracing
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Rate limiters per endpoint group
	sessionRL := appmiddleware.NewRateLimiter(appmiddleware.PerMinute(100), 10)
	proxyRL := appmiddleware.NewRateLimiter(appmiddleware.PerMinute(30), 5)
	internalRL := appmiddleware.NewRateLimiter(appmiddleware.PerMinute(10), 3)

	// Public routes
	e.GET("/api/auth/session", sessionHandler.Handle, sessionRL.Middleware())
	e.GET("/validate", validateHandler.Handle, sessionRL.Middleware())
	e.POST("/api/chat", proxyHandler.HandleChat, proxyRL.Middleware())
	e.POST("/api/morph-chat", proxyHandler.HandleMorphChat, proxyRL.Middleware())
	e.POST("/api/sandbox", proxyHandler.HandleSandbox, proxyRL.Middleware())
	e.GET("/api/sandbox/active", proxyHandler.HandleActiveSandbox, proxyRL.Middleware())
	e.GET("/health", healthHandler.Handle)

	// Internal routes (protected by shared secret)
	internalGroup := e.Group("/internal",
		internalRL.Middleware(),
	)
	if cfg.AuthSharedSecret != "" {
		internalGroup.Use(appmiddleware.InternalAuth(cfg.AuthSharedSecret))
	}
	internalGroup.GET("/identity", internalHandler.HandleIdentity)

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting session-gate server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		return analyticsSink.Close()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
