// Package entrypoint assembles the backend and runs the HTTP server.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaanbaran/libraryapp/internal/config"
	"github.com/kaanbaran/libraryapp/internal/server/auth"
	server_http "github.com/kaanbaran/libraryapp/internal/server/http"
	"github.com/kaanbaran/libraryapp/internal/server/store"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run builds the store, token manager and router, then serves.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting library server v%s", version)

	if cfg.Auth.JWTSecret == "" {
		log.Fatalf("JWT secret is not set")
	}

	db, err := store.NewStore(cfg.Database.Path, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)

	router := server_http.NewRouter(server_http.RouterConfig{
		Store:      db,
		Tokens:     tokens,
		BcryptCost: cfg.Auth.BcryptCost,
	})

	Serve(router, cfg, nil)
}
