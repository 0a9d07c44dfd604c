// Package subscription содержит бизнес-логику подписок: создание с лимитами
// тарифа, чтение активной подписки, учёт использования и смену статуса по
// событиям платёжного провайдера.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
	"github.com/magabrotheeeer/alcateia-auth/internal/storage/repository"
)

// ErrUnknownPlan тариф отсутствует в таблице лимитов.
var ErrUnknownPlan = errors.New("unknown plan type")

// ErrUserNotFound подписка создаётся для несуществующего пользователя.
var ErrUserNotFound = errors.New("user not found")

// Действия платёжного провайдера, меняющие статус подписки.
const (
	ActionPaymentApproved  = "payment.approved"
	ActionPaymentCancelled = "payment.cancelled"
	ActionPaymentFailed    = "payment.failed"
)

// PlanFeatures таблица лимитов по тарифам.
type PlanFeatures map[models.PlanType]models.PlanLimits

// DefaultPlans стандартные лимиты тарифов.
func DefaultPlans() PlanFeatures {
	return PlanFeatures{
		models.PlanStart:   {MusicLimit: 1, ProducerSessions: 0, DomainRegistration: 0},
		models.PlanPlus:    {MusicLimit: 2, ProducerSessions: 1, DomainRegistration: 0},
		models.PlanPremium: {MusicLimit: 4, ProducerSessions: 4, DomainRegistration: 1},
	}
}

// Repository определяет методы для работы с подписками в хранилище.
type Repository interface {
	// CreateSubscription атомарно создаёт подписку и строки её функций.
	CreateSubscription(ctx context.Context, sub models.Subscription, features []models.SubscriptionFeature) (string, error)
	// GetActiveSubscription возвращает самую свежую активную подписку пользователя.
	GetActiveSubscription(ctx context.Context, userID string) (*models.ActiveSubscription, error)
	// UpdateStatusByExternalRef меняет статус по внешней ссылке провайдера.
	UpdateStatusByExternalRef(ctx context.Context, externalRef string, status models.SubscriptionStatus) (int64, error)
	// IncrementFeatureUsage увеличивает счётчик использования функции.
	IncrementFeatureUsage(ctx context.Context, subscriptionID string, feature models.FeatureType, n int) (int64, error)
}

// Service реализует бизнес-логику подписок.
type Service struct {
	repo  Repository
	plans PlanFeatures
	log   *slog.Logger
}

// NewService создает новый экземпляр Service. Таблица plans копируется.
func NewService(repo Repository, plans PlanFeatures, log *slog.Logger) *Service {
	own := make(PlanFeatures, len(plans))
	for k, v := range plans {
		own[k] = v
	}
	return &Service{
		repo:  repo,
		plans: own,
		log:   log,
	}
}

// Features возвращает строки функций для тарифа plan.
func (s *Service) Features(plan models.PlanType) ([]models.SubscriptionFeature, error) {
	limits, ok := s.plans[plan]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlan, plan)
	}
	features := make([]models.SubscriptionFeature, 0, len(models.FeatureTypes))
	for _, f := range models.FeatureTypes {
		features = append(features, models.SubscriptionFeature{
			FeatureType:  f,
			FeatureValue: limits.Limit(f),
		})
	}
	return features, nil
}

// Create создаёт подписку в статусе pending вместе с тремя строками функций.
func (s *Service) Create(ctx context.Context, req models.DummySubscription) (string, error) {
	plan := models.PlanType(req.PlanType)
	features, err := s.Features(plan)
	if err != nil {
		return "", err
	}

	sub := models.Subscription{
		UserID:   req.UserID,
		PlanType: plan,
		Status:   models.StatusPending,
	}
	if req.MercadoPagoSubscriptionID != "" {
		ref := req.MercadoPagoSubscriptionID
		sub.MercadoPagoSubscriptionID = &ref
	}

	id, err := s.repo.CreateSubscription(ctx, sub, features)
	if err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	s.log.Info("subscription created",
		slog.String("subscription_id", id),
		slog.String("user_id", req.UserID),
		slog.String("plan", string(plan)))
	return id, nil
}

// GetActive возвращает активную подписку пользователя или nil, если её нет.
func (s *Service) GetActive(ctx context.Context, userID string) (*models.ActiveSubscription, error) {
	sub, err := s.repo.GetActiveSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

// RecordUsage увеличивает счётчик использования функции подписки. Лимит не проверяется.
func (s *Service) RecordUsage(ctx context.Context, subscriptionID string, feature models.FeatureType, n int) error {
	rows, err := s.repo.IncrementFeatureUsage(ctx, subscriptionID, feature, n)
	if err != nil {
		return err
	}
	if rows == 0 {
		s.log.Debug("no feature row to record usage",
			slog.String("subscription_id", subscriptionID),
			slog.String("feature", string(feature)))
	}
	return nil
}

// RecordUserUsage учитывает использование по активной подписке пользователя.
// Без активной подписки ничего не делает.
func (s *Service) RecordUserUsage(ctx context.Context, userID string, feature models.FeatureType, n int) error {
	sub, err := s.GetActive(ctx, userID)
	if err != nil {
		return err
	}
	if sub == nil {
		return nil
	}
	return s.RecordUsage(ctx, sub.ID, feature, n)
}

// StatusForAction сопоставляет действие провайдера новому статусу подписки.
func StatusForAction(action string) (models.SubscriptionStatus, bool) {
	switch action {
	case ActionPaymentApproved:
		return models.StatusActive, true
	case ActionPaymentCancelled, ActionPaymentFailed:
		return models.StatusCancelled, true
	default:
		return "", false
	}
}

// ApplyPaymentEvent меняет статус подписки с внешней ссылкой externalRef.
// Неизвестное действие и несовпавшая ссылка не являются ошибкой.
func (s *Service) ApplyPaymentEvent(ctx context.Context, externalRef, action string) (int64, models.SubscriptionStatus, error) {
	log := s.log.With(slog.String("subscription_ref", externalRef), slog.String("action", action))

	status, ok := StatusForAction(action)
	if !ok {
		log.Info("payment action ignored")
		return 0, "", nil
	}

	rows, err := s.repo.UpdateStatusByExternalRef(ctx, externalRef, status)
	if err != nil {
		log.Error("failed to update subscription status", sl.Err(err))
		return 0, "", err
	}
	log.Info("subscription status updated", slog.String("status", string(status)), slog.Int64("rows", rows))
	return rows, status, nil
}
