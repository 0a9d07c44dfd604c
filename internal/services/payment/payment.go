// Package payment обрабатывает уведомления Mercado Pago: меняет статус
// подписки и публикует событие в брокер.
package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/alcateia-auth/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
)

// TypeSubscription единственный тип уведомления, который меняет данные.
const TypeSubscription = "subscription"

// SubscriptionUpdater смена статуса подписки по действию провайдера.
type SubscriptionUpdater interface {
	ApplyPaymentEvent(ctx context.Context, externalRef, action string) (int64, models.SubscriptionStatus, error)
}

// Publisher публикация событий подписок.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Service обработчик платёжных уведомлений.
type Service struct {
	subs      SubscriptionUpdater
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(subs SubscriptionUpdater, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		subs:      subs,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// HandleNotification применяет уведомление. Уведомления другого типа
// подтверждаются без изменений. Ошибка публикации только логируется.
func (s *Service) HandleNotification(ctx context.Context, n models.WebhookNotification) error {
	const op = "payment.HandleNotification"
	log := s.log.With(
		slog.String("op", op),
		slog.String("type", n.Type),
		slog.String("action", n.Action),
	)

	if n.Type != TypeSubscription {
		log.Info("notification ignored")
		return nil
	}

	rows, status, err := s.subs.ApplyPaymentEvent(ctx, n.Data.ID, n.Action)
	if err != nil {
		return err
	}
	if rows == 0 {
		return nil
	}

	key := routingKey(status)
	if key == "" {
		return nil
	}
	event := models.SubscriptionEvent{
		SubscriptionRef: n.Data.ID,
		Status:          status,
		Action:          n.Action,
		OccurredAt:      s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		log.Error("failed to publish subscription event", slog.String("routing_key", key), sl.Err(err))
	}
	return nil
}

func routingKey(status models.SubscriptionStatus) string {
	switch status {
	case models.StatusActive:
		return rabbitmq.KeySubscriptionActivated
	case models.StatusCancelled:
		return rabbitmq.KeySubscriptionCancelled
	default:
		return ""
	}
}
