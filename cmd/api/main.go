package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"geocoding-gateway/internal/config"
	"geocoding-gateway/internal/handler"
	"geocoding-gateway/internal/logger"
	"geocoding-gateway/internal/provider"
	"geocoding-gateway/internal/router"
	"geocoding-gateway/internal/service"
	"geocoding-gateway/internal/transcode"
	"geocoding-gateway/internal/transport"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

//	@title			Address Geocoding Gateway
//	@version		0.0.1
//	@description	Resolves postal addresses to coordinates through the Google Maps Geocoding API.
//	@BasePath		/
func main() {
	// A local .env may carry the provider API key.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := logger.New(config.LogLevel, config.LogFormat)
	log.Logger = logger
	gin.SetMode(config.GinMode)

	// Initialize layers
	client := transport.NewClient(transport.ClientOptions{
		Timeout:               config.HTTPClientTimeout,
		ResponseHeaderTimeout: config.HTTPResponseHeaderTimeout,
		Policy: transport.RetryPolicy{
			MaxAttempts:   config.RetryMaxAttempts,
			BackoffFactor: config.RetryBackoffFactor,
			StatusCodes:   config.RetryStatusCodes,
		},
	}, logger)

	googleMaps := provider.NewGoogleMapsClient(client, config.GoogleMapsBaseURL, config.GoogleMapsAPIKey, logger)
	geoCodeService := service.NewGeoCodeService(googleMaps, transcode.NewTranscoder(logger))
	geoCodeHandler := handler.NewGeoCodeHandler(geoCodeService, logger)

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           router.New(geoCodeHandler, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      config.HTTPClientTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", config.ServerAddress).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
}
