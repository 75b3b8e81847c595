package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"shopkeep/internal/adapter/api"
	"shopkeep/internal/adapter/api/handler"
	"shopkeep/internal/adapter/api/router"
	"shopkeep/internal/infrastructure/backend"
	"shopkeep/internal/infrastructure/localstore"
	"shopkeep/internal/infrastructure/mediahost"
	"shopkeep/internal/usecase"
	"shopkeep/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	tokenStore := localstore.NewTokenStore(cfg.BearerToken)

	mediaHost := mediahost.NewClient(mediahost.Config{
		BaseURL:      cfg.MediaHostBaseURL,
		AccountID:    cfg.MediaAccountID,
		Presets:      cfg.UploadPresets,
		Timeout:      cfg.UploadTimeout,
		RetryBackoff: cfg.UploadRetryBackoff,
	})

	backendClient := backend.NewClient(cfg.BackendBaseURL, tokenStore, cfg.BackendTimeout)

	submitUseCase := usecase.NewSubmitUseCase(mediaHost, backendClient)
	// No device picker on the server: images reach the wizard pre-staged
	// through the attach endpoint.
	wizardUseCase := usecase.NewWizardUseCase(submitUseCase, nil)

	handler.Setup(wizardUseCase, backendClient)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	router.Setup(e)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
