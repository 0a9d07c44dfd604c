// Package ledger ведёт два журнала только на добавление: бронирования сессий
// с продюсерами и события доступа к контенту.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
	"github.com/magabrotheeeer/alcateia-auth/internal/storage/repository"
)

// ErrInvalidSessionDate дата сессии не в формате RFC 3339.
var ErrInvalidSessionDate = errors.New("invalid session date")

// Ссылки журналов на несуществующие записи.
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrUserNotFound         = errors.New("user not found")
)

// ContentTypeMusic тип контента, доступ к которому расходует лимит music_limit.
const ContentTypeMusic = "music"

// Repository хранилище журналов.
type Repository interface {
	CreateProducerSession(ctx context.Context, session models.ProducerSession) (string, error)
	ListProducerSessions(ctx context.Context, subscriptionID string) ([]*models.ProducerSession, error)
	CreateContentAccess(ctx context.Context, access models.ContentAccess) (string, error)
	ListContentAccess(ctx context.Context, userID string) ([]*models.ContentAccess, error)
}

// UsageRecorder учёт использования функций подписки.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, subscriptionID string, feature models.FeatureType, n int) error
	RecordUserUsage(ctx context.Context, userID string, feature models.FeatureType, n int) error
}

// Service журналы сессий и доступа.
type Service struct {
	repo  Repository
	usage UsageRecorder
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, usage UsageRecorder, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		usage: usage,
		log:   log,
	}
}

// BookSession записывает бронирование сессии и учитывает его в лимите producer_sessions.
func (s *Service) BookSession(ctx context.Context, req models.DummyProducerSession) (string, error) {
	const op = "ledger.BookSession"
	log := s.log.With(slog.String("op", op))

	date, err := time.Parse(time.RFC3339, req.SessionDate)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidSessionDate, req.SessionDate)
	}

	session := models.ProducerSession{
		SubscriptionID: req.SubscriptionID,
		ProducerName:   req.ProducerName,
		SessionDate:    date,
	}
	if req.Notes != "" {
		notes := req.Notes
		session.Notes = &notes
	}

	id, err := s.repo.CreateProducerSession(ctx, session)
	if err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return "", ErrSubscriptionNotFound
		}
		return "", err
	}
	if err := s.usage.RecordUsage(ctx, req.SubscriptionID, models.FeatureProducerSessions, 1); err != nil {
		log.Warn("failed to record session usage", sl.Err(err))
	}
	return id, nil
}

// ListSessions возвращает сессии подписки, самые поздние первыми.
func (s *Service) ListSessions(ctx context.Context, subscriptionID string) ([]*models.ProducerSession, error) {
	return s.repo.ListProducerSessions(ctx, subscriptionID)
}

// RecordAccess записывает событие доступа. Доступ к музыке расходует music_limit
// активной подписки пользователя.
func (s *Service) RecordAccess(ctx context.Context, req models.DummyContentAccess) (string, error) {
	const op = "ledger.RecordAccess"
	log := s.log.With(slog.String("op", op))

	id, err := s.repo.CreateContentAccess(ctx, models.ContentAccess{
		UserID:      req.UserID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if req.ContentType == ContentTypeMusic {
		if err := s.usage.RecordUserUsage(ctx, req.UserID, models.FeatureMusicLimit, 1); err != nil {
			log.Warn("failed to record music usage", sl.Err(err))
		}
	}
	return id, nil
}

// ListAccess возвращает события доступа пользователя, новые первыми.
func (s *Service) ListAccess(ctx context.Context, userID string) ([]*models.ContentAccess, error) {
	return s.repo.ListContentAccess(ctx, userID)
}
