// Package main Alcateia Auth API
//
// @title           Alcateia Auth API
// @version         1.0
// @description     Регистрация, подтверждение email, сброс пароля и подписки Alcateia Hits
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  suporte@alcateiahits.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/alcateia-auth/internal/app/api"
	"github.com/magabrotheeeer/alcateia-auth/internal/config"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.SetupLogger(cfg.Env)

	logger.Info("starting alcateia-auth", slog.String("env", cfg.Env))
	logger.Debug("debug messages are enabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := api.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("alcateia-auth stopped gracefully")
}
