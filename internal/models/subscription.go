// Package models содержит доменные структуры подписки и её функций,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// PlanType тарифный план подписки.
type PlanType string

const (
	PlanStart   PlanType = "start"
	PlanPlus    PlanType = "plus"
	PlanPremium PlanType = "premium"
)

// SubscriptionStatus статус подписки.
type SubscriptionStatus string

const (
	StatusPending   SubscriptionStatus = "pending"
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusExpired   SubscriptionStatus = "expired"
)

// FeatureType измерение, по которому считается лимит подписки.
type FeatureType string

const (
	FeatureMusicLimit         FeatureType = "music_limit"
	FeatureProducerSessions   FeatureType = "producer_sessions"
	FeatureDomainRegistration FeatureType = "domain_registration"
)

// FeatureTypes порядок, в котором функции создаются и отдаются клиенту.
var FeatureTypes = []FeatureType{FeatureMusicLimit, FeatureProducerSessions, FeatureDomainRegistration}

// PlanLimits лимиты функций одного тарифа.
type PlanLimits struct {
	MusicLimit         int
	ProducerSessions   int
	DomainRegistration int
}

// Limit возвращает лимит по типу функции.
func (p PlanLimits) Limit(f FeatureType) int {
	switch f {
	case FeatureMusicLimit:
		return p.MusicLimit
	case FeatureProducerSessions:
		return p.ProducerSessions
	case FeatureDomainRegistration:
		return p.DomainRegistration
	default:
		return 0
	}
}

// Subscription основная модель подписки пользователя.
type Subscription struct {
	ID                        string             `json:"id"`
	UserID                    string             `json:"user_id"`
	PlanType                  PlanType           `json:"plan_type"`
	Status                    SubscriptionStatus `json:"status"`
	MercadoPagoSubscriptionID *string            `json:"mercadopago_subscription_id,omitempty"`
	CreatedAt                 time.Time          `json:"created_at"`
	UpdatedAt                 time.Time          `json:"updated_at"`
	ExpiresAt                 *time.Time         `json:"expires_at,omitempty"`
}

// SubscriptionFeature строка лимита функции подписки.
type SubscriptionFeature struct {
	SubscriptionID string      `json:"subscription_id"`
	FeatureType    FeatureType `json:"feature_type"`
	FeatureValue   int         `json:"feature_value"`
	UsedCount      int         `json:"used_count"`
}

// FeatureUsage лимит и использование одной функции.
type FeatureUsage struct {
	Limit int `json:"limit"`
	Used  int `json:"used"`
}

// ActiveSubscription ответ на запрос активной подписки пользователя.
type ActiveSubscription struct {
	ID       string                       `json:"id"`
	PlanType PlanType                     `json:"plan_type"`
	Status   SubscriptionStatus           `json:"status"`
	Features map[FeatureType]FeatureUsage `json:"features"`
}

// DummySubscription используется для приёма данных из JSON-запроса на создание подписки.
type DummySubscription struct {
	UserID                    string `json:"user_id" validate:"required,uuid"`
	PlanType                  string `json:"plan_type" validate:"required,oneof=start plus premium"`
	MercadoPagoSubscriptionID string `json:"mercadopago_subscription_id,omitempty" validate:"omitempty,max=255"`
}

// SubscriptionEvent событие изменения статуса подписки, публикуемое в брокер.
type SubscriptionEvent struct {
	SubscriptionRef string             `json:"subscription_ref"`
	Status          SubscriptionStatus `json:"status"`
	Action          string             `json:"action"`
	OccurredAt      time.Time          `json:"occurred_at"`
}
