package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/KARANMAJILA/Hairstyle/internal/catalog"
	"github.com/KARANMAJILA/Hairstyle/internal/http/handlers"
	httpapi "github.com/KARANMAJILA/Hairstyle/internal/http/httpapi"
	"github.com/KARANMAJILA/Hairstyle/internal/infra"
	"github.com/KARANMAJILA/Hairstyle/internal/providers/genai"
	"github.com/KARANMAJILA/Hairstyle/internal/storage"
	"github.com/KARANMAJILA/Hairstyle/internal/stylist"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// Remote gateway client, constructed once and injected everywhere.
	client, err := genai.NewClient(genai.Options{
		APIKey:      cfg.GeminiAPIKey,
		BaseURL:     cfg.GeminiBaseURL,
		TextModel:   cfg.GeminiModel,
		ImageModel:  cfg.GeminiImageModel,
		CallTimeout: cfg.GeminiCallTimeout,
		Logger:      &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize gemini client")
	}

	uploads, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload directory")
	}
	outputs, err := storage.NewFileStore(cfg.GeneratedDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare generated directory")
	}

	service := stylist.NewService(client, catalog.New(), uploads, outputs, &logger)
	app := handlers.NewApp(service, &logger, cfg)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("hairstyle API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
