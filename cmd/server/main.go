package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/router"
	"github.com/stylesnap/backend/pkg/config"
	"github.com/stylesnap/backend/pkg/logger"
	"github.com/stylesnap/backend/validators"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	stores, err := config.InitStores(cfg)
	if err != nil {
		zlog.Fatal("Failed to initialize stores", zap.Error(err))
	}
	defer stores.Close()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	if err := router.SetupRoutes(e, cfg, stores, zlog); err != nil {
		zlog.Fatal("Failed to set up routes", zap.Error(err))
	}

	zlog.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := e.Start(":" + cfg.Port); err != nil {
		zlog.Fatal("Server stopped", zap.Error(err))
	}
}
