package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mventura/bookstay-be/internal/api"
	"github.com/mventura/bookstay-be/internal/auth"
	"github.com/mventura/bookstay-be/internal/config"
	"github.com/mventura/bookstay-be/internal/database"
	"github.com/mventura/bookstay-be/internal/logger"
	"github.com/mventura/bookstay-be/internal/monitoring"
	"github.com/mventura/bookstay-be/internal/services"
	"github.com/mventura/bookstay-be/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	if !cfg.IsProduction() {
		if err := database.SeedDevUser(db); err != nil {
			log.Fatalf("Failed to seed development user: %v", err)
		}
	}

	// Set up object storage client
	uploader, err := storage.NewS3Uploader(context.Background(), storage.Options{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize object storage client: %v", err)
	}

	// Set up services
	tokenService := auth.NewTokenService(cfg.JWTSecret)
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db)
	hotelService := services.NewHotelService(db, uploader, eventService)
	bookingService := services.NewBookingService(db, hotelService, eventService)

	// Set up and run the background booking sweeper
	sweeper, err := monitoring.NewBookingSweeper(bookingService, cfg.BookingSweepSchedule)
	if err != nil {
		log.Fatalf("Failed to initialize booking sweeper: %v", err)
	}
	go sweeper.Run()

	// Set up router
	router := api.NewRouter(cfg, tokenService, userService, hotelService, bookingService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
