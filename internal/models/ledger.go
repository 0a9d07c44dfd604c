package models

import "time"

// ProducerSession бронирование сессии с продюсером.
type ProducerSession struct {
	ID             string    `json:"id"`
	SubscriptionID string    `json:"subscription_id"`
	ProducerName   string    `json:"producer_name"`
	SessionDate    time.Time `json:"session_date"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// DummyProducerSession используется для приёма данных бронирования из JSON-запроса.
// Дата приходит строкой в формате RFC 3339.
type DummyProducerSession struct {
	SubscriptionID string `json:"subscription_id" validate:"required,uuid"`
	ProducerName   string `json:"producer_name" validate:"required,max=200"`
	SessionDate    string `json:"session_date" validate:"required"`
	Notes          string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ContentAccess событие доступа пользователя к контенту.
type ContentAccess struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ContentType string    `json:"content_type"`
	ContentID   string    `json:"content_id"`
	AccessedAt  time.Time `json:"accessed_at"`
}

// DummyContentAccess используется для приёма события доступа из JSON-запроса.
type DummyContentAccess struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	ContentType string `json:"content_type" validate:"required,max=64"`
	ContentID   string `json:"content_id" validate:"required,max=255"`
}
