// Package scheduler содержит приложение фоновой очистки просроченных кодов.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/alcateia-auth/internal/config"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/code"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/locker"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	schedulerservice "github.com/magabrotheeeer/alcateia-auth/internal/services/scheduler"
	"github.com/magabrotheeeer/alcateia-auth/internal/services/verification"
	"github.com/magabrotheeeer/alcateia-auth/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.Service
	db               *repository.Storage
	logger           *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := waitForDB(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Очистка не отправляет писем и не берёт блокировок.
	verificationService := verification.NewService(db, nil, locker.Nop{}, nil, nil,
		code.NewGenerator(cfg.VerificationTTL, cfg.PasswordResetTTL), logger)

	return &App{
		schedulerService: schedulerservice.NewService(verificationService, cfg.SweepInterval, logger),
		db:               db,
		logger:           logger,
	}, nil
}

// Run запускает планировщик и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.schedulerService.Run(ctx)

	a.logger.Info("shutting down scheduler service")
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
