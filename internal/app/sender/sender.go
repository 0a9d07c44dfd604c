// Package sender содержит приложение, отправляющее приветственные письма
// по событиям активации подписок из RabbitMQ.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/alcateia-auth/internal/config"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/metrics"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	"github.com/magabrotheeeer/alcateia-auth/internal/services/notification"
	senderservice "github.com/magabrotheeeer/alcateia-auth/internal/services/sender"
	"github.com/magabrotheeeer/alcateia-auth/internal/storage/repository"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	db            *repository.Storage
	senderService *senderservice.Service
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.RabbitMQURL == "" {
		return nil, errors.New("rabbitmq url is required for sender")
	}
	transport, err := notification.NewTransport(cfg.Email, logger)
	if err != nil {
		return nil, err
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetSubscriptionQueues())
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	notificationService := notification.NewService(transport, db, (*metrics.Metrics)(nil), logger)

	return &App{
		conn:          conn,
		ch:            ch,
		db:            db,
		senderService: senderservice.NewService(db, notificationService, logger),
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.KeySubscriptionActivated, func(body []byte) error {
		return a.senderService.HandleActivated(ctx, body)
	})
	if err != nil {
		a.logger.Error("failed to start subscription.activated consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
