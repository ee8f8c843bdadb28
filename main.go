package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"service-connect-server/config"
	"service-connect-server/database"
	"service-connect-server/middleware"
	"service-connect-server/routes"
	"service-connect-server/services"
	ws "service-connect-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.Server.GinMode)

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	var uploader services.PhotoUploader
	cloudinary, err := services.NewCloudinaryUploader(cfg.Cloudinary)
	switch {
	case err != nil:
		log.Fatal("Failed to configure Cloudinary:", err)
	case cloudinary == nil:
		log.Println("⚠️ CLOUDINARY_URL not set, profile photo uploads are disabled")
	default:
		uploader = cloudinary
	}

	registry := ws.NewRegistry(cfg.Notifications.SendBuffer)
	api := routes.NewAPI(cfg, db, registry, uploader)
	api.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes.NewRouter(api),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("🚀 Server starting on port %s", cfg.Server.Port)
		log.Printf("📡 Notifications available at ws://localhost:%s/api/v1/ws/notifications", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return api.RateLimiter.Run(ctx, time.Minute)
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("🛑 Shutting down server...")

		// Live sockets are hijacked and invisible to Shutdown, close them first
		registry.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Server stopped with error:", err)
	}
	log.Println("✅ Server stopped")
}
