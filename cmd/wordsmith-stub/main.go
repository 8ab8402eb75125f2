package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"wordsmith/internal/config"
	"wordsmith/internal/logging"
	"wordsmith/internal/stubserver"
)

func main() {
	cfg := config.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	if isProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	logging.Info("Starting wordsmith stub backend in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	app, err := stubserver.New(stubserver.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Production:     isProduction,
	})
	if err != nil {
		logging.Fatal("Failed to load words: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.RunJanitor(ctx, 10*time.Minute)

	startServer(app.Router(), cfg.StubPort)
}

func startServer(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logging.Info("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.Warn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logging.Info("Stub API listening on http://localhost:%s/api", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logging.Info("Server shutdown complete")
}
