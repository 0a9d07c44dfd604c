// Package models содержит доменную модель пользователя системы,
// включающую состояние подтверждения email и одноразовые коды.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID                     string     `json:"id"`             // Уникальный идентификатор пользователя
	Email                  string     `json:"email"`          // Электронная почта (уникальная)
	Name                   *string    `json:"name,omitempty"` // Отображаемое имя
	EmailVerified          bool       `json:"email_verified"` // Email подтверждён
	VerificationCode       *string    `json:"-"`              // Текущий код подтверждения email
	VerificationExpiresAt  *time.Time `json:"-"`              // Срок действия кода подтверждения
	PasswordResetCode      *string    `json:"-"`              // Текущий код восстановления пароля
	PasswordResetExpiresAt *time.Time `json:"-"`              // Срок действия кода восстановления
	CreatedAt              time.Time  `json:"created_at"`
}

// DummyUser используется для приёма данных регистрации из JSON-запроса.
type DummyUser struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty" validate:"omitempty,max=120"`
}

// Subject данные пользователя, которые выдаются клиенту в токене после входа.
type Subject struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	Subscription *ActiveSubscription `json:"subscription,omitempty"`
}

// EmailRequest тело запросов /api/email/*, где нужен только адрес.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CodeRequest тело запросов проверки одноразового кода.
type CodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,max=16"`
}
