// Package sender обрабатывает события активации подписок из брокера
// и отправляет владельцу приветственное письмо.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
	"github.com/magabrotheeeer/alcateia-auth/internal/storage/repository"
)

// ErrWelcomeNotSent письмо не доставлено, сообщение нужно обработать повторно.
var ErrWelcomeNotSent = errors.New("welcome email not sent")

// OwnerRepository поиск владельца подписки.
type OwnerRepository interface {
	GetOwnerByExternalRef(ctx context.Context, externalRef string) (*models.User, error)
}

// WelcomeSender отправка приветственного письма.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, email string) bool
}

// Service обработчик событий подписок.
type Service struct {
	owners  OwnerRepository
	welcome WelcomeSender
	log     *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(owners OwnerRepository, welcome WelcomeSender, log *slog.Logger) *Service {
	return &Service{
		owners:  owners,
		welcome: welcome,
		log:     log,
	}
}

// HandleActivated обрабатывает тело сообщения subscription.activated.
// Нечитаемое сообщение и неизвестная подписка подтверждаются без повтора,
// ошибка хранилища или доставки возвращается для повторной обработки.
func (s *Service) HandleActivated(ctx context.Context, body []byte) error {
	const op = "sender.HandleActivated"
	log := s.log.With(slog.String("op", op))

	var event models.SubscriptionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal message body, dropping", sl.Err(err))
		return nil
	}
	log = log.With(slog.String("subscription_ref", event.SubscriptionRef))

	owner, err := s.owners.GetOwnerByExternalRef(ctx, event.SubscriptionRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("subscription owner not found, dropping")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if !s.welcome.SendWelcome(ctx, owner.Email) {
		return fmt.Errorf("%s: %w", op, ErrWelcomeNotSent)
	}
	log.Info("welcome email sent", slog.String("user_id", owner.ID))
	return nil
}
