// Package notification доставляет письма сервиса через внешний транспорт
// и ведёт журнал приветственных писем. Ошибки доставки не пробрасываются
// вызывающему коду: они логируются и превращаются в false.
package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
	"github.com/magabrotheeeer/alcateia-auth/internal/storage/repository"
)

// Сообщения ответа на запрос приветственного письма.
const (
	MsgWelcomeSent   = "Email de boas-vindas enviado"
	MsgWelcomeFailed = "Falha ao enviar email de boas-vindas"
)

// Transport отправляет одно письмо.
type Transport interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailLogRepository журнал писем и поиск получателя среди пользователей.
type EmailLogRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateEmailLog(ctx context.Context, entry models.EmailLog) (string, error)
}

// Metrics учитывает результаты доставки.
type Metrics interface {
	EmailSent(kind string, ok bool)
}

// Service диспетчер уведомлений.
type Service struct {
	transport Transport
	repo      EmailLogRepository
	metrics   Metrics
	log       *slog.Logger
	now       func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(transport Transport, repo EmailLogRepository, metrics Metrics, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		repo:      repo,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// Send отправляет письмо tpl получателю to. Возвращает false при любой ошибке транспорта.
func (s *Service) Send(ctx context.Context, to string, kind models.EmailType, tpl Template) bool {
	const op = "notification.Send"
	log := s.log.With(slog.String("op", op), slog.String("kind", string(kind)))

	err := s.transport.Send(ctx, to, tpl.Subject, tpl.HTML, tpl.Text)
	s.metrics.EmailSent(string(kind), err == nil)
	if err != nil {
		log.Error("failed to send email", slog.String("to", to), sl.Err(err))
		return false
	}
	log.Info("email sent", slog.String("to", to))
	return true
}

// SendWelcome отправляет приветственное письмо. Если адрес принадлежит пользователю,
// результат пишется в журнал писем.
func (s *Service) SendWelcome(ctx context.Context, email string) bool {
	const op = "notification.SendWelcome"
	log := s.log.With(slog.String("op", op))

	ok := s.Send(ctx, email, models.EmailWelcome, WelcomeTemplate())

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn("failed to look up welcome recipient", sl.Err(err))
		}
		return ok
	}

	status := models.EmailSent
	var sentAt *time.Time
	if ok {
		now := s.now()
		sentAt = &now
	} else {
		status = models.EmailFailed
	}
	if _, err := s.repo.CreateEmailLog(ctx, models.EmailLog{
		UserID:         user.ID,
		EmailType:      models.EmailWelcome,
		RecipientEmail: email,
		Status:         status,
		SentAt:         sentAt,
	}); err != nil {
		log.Warn("failed to write email log", sl.Err(err))
	}
	return ok
}
