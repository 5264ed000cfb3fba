package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"duskSkyWeb/handlers"
	"duskSkyWeb/internal/config"
	"duskSkyWeb/internal/logging"
	"duskSkyWeb/internal/metrics"
	"duskSkyWeb/internal/upstream"
	"duskSkyWeb/middleware"
	"duskSkyWeb/services"

	_ "net/http/pprof"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Failed to load configuration", zap.Error(err))
	}
	if err := logging.Init(cfg.LogLevel); err != nil {
		logging.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer logging.Sync()

	middleware.InitPrometheus(prometheus.DefaultRegisterer)
	metrics.Register(prometheus.DefaultRegisterer)

	friendshipClient := upstream.NewFriendshipClient(cfg.FriendshipDirectoryURL, cfg.UpstreamTimeout)
	accountClient := upstream.NewAccountClient(cfg.AccountDirectoryURL, cfg.UpstreamTimeout)

	resolver := services.NewFriendshipResolver(friendshipClient, cfg.FanoutLimit)
	friendshipService := services.NewFriendshipService(resolver, friendshipClient, accountClient, cfg.FanoutLimit)
	friendshipHandler := handlers.NewFriendshipHandler(friendshipService)

	auth := middleware.NewAuthenticator(newTokenVerifier(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxyHeaders)
	go limiter.Cleanup(ctx)

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, friendshipHandler, auth, limiter),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logging.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.String("friendship_directory", cfg.FriendshipDirectoryURL.String()),
			zap.String("account_directory", cfg.AccountDirectoryURL.String()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Error starting server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logging.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown error", zap.Error(err))
	}

	logging.Info("Server shutdown complete")
}

// newTokenVerifier prefers Clerk session tokens when a Clerk key is set and
// falls back to HS256 tokens from the DuskSky auth service.
func newTokenVerifier(cfg config.Config) middleware.TokenVerifier {
	if cfg.ClerkSecretKey != "" {
		logging.Info("Verifying Clerk session tokens")
		return middleware.NewClerkVerifier(cfg.ClerkSecretKey)
	}
	logging.Info("Verifying HS256 tokens", zap.String("issuer", cfg.JWTIssuer))
	return middleware.NewHMACVerifier(cfg.JWTSecret, cfg.JWTIssuer)
}
