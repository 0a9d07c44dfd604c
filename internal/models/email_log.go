package models

import "time"

// EmailType вид отправляемого письма.
type EmailType string

const (
	EmailVerification  EmailType = "verification"
	EmailPasswordReset EmailType = "password_reset"
	EmailWelcome       EmailType = "welcome"
)

// EmailStatus статус записи в журнале писем.
type EmailStatus string

const (
	EmailPending EmailStatus = "pending"
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
)

// EmailLog запись журнала отправленных писем.
type EmailLog struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	EmailType      EmailType   `json:"email_type"`
	RecipientEmail string      `json:"recipient_email"`
	Status         EmailStatus `json:"status"`
	SentAt         *time.Time  `json:"sent_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}
