package notification

import (
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/alcateia-auth/internal/config"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/resend"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/smtp"
)

// Провайдеры исходящей почты.
const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

// NewTransport выбирает транспорт по cfg.Provider.
func NewTransport(cfg config.Email, log *slog.Logger) (Transport, error) {
	switch cfg.Provider {
	case ProviderSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("notification.NewTransport: smtp_host is required for provider %q", cfg.Provider)
		}
		return smtp.NewTransport(cfg, log), nil
	case ProviderResend, "":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("notification.NewTransport: resend_api_key is required for provider %q", ProviderResend)
		}
		return resend.New(cfg.ResendAPIKey, cfg.ResendAPIURL, cfg.From), nil
	default:
		return nil, fmt.Errorf("notification.NewTransport: unknown email provider %q", cfg.Provider)
	}
}
