package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SravanamCharan20/Bites/internal/api"
	"github.com/SravanamCharan20/Bites/internal/auth"
	"github.com/SravanamCharan20/Bites/internal/config"
	"github.com/SravanamCharan20/Bites/internal/database"
	"github.com/SravanamCharan20/Bites/internal/logger"
	"github.com/SravanamCharan20/Bites/internal/monitoring"
	"github.com/SravanamCharan20/Bites/internal/notify"
	"github.com/SravanamCharan20/Bites/internal/services"
	"github.com/SravanamCharan20/Bites/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the SMS notifier and token manager as explicit dependencies
	notifier := notify.NewTwilioNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.SMSCountryCode)
	tokens := auth.NewManager(cfg.JWTSecret)

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db)
	donorService := services.NewDonorService(db)
	requestService := services.NewRequestService(db, notifier, eventService)

	// Set up and run the background expiry sweeper
	sweeper, err := monitoring.NewSweeper(donorService, eventService, cfg.ExpirySweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize expiry sweeper")
	}
	go sweeper.Run()

	// Set up router
	router := api.NewRouter(tokens, hub, userService, donorService, requestService, eventService, cfg.AllowedOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
