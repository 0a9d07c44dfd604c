package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/alcateia-auth/internal/config"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/resend"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/smtp"
)

func TestNewTransport(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Email
		want    any
		wantErr bool
	}{
		{name: "smtp", cfg: config.Email{Provider: "smtp", SMTPHost: "smtp.example.org"}, want: &smtp.Transport{}},
		{name: "resend", cfg: config.Email{Provider: "resend", ResendAPIKey: "re_123"}, want: &resend.Client{}},
		{name: "smtp without host", cfg: config.Email{Provider: "smtp"}, wantErr: true},
		{name: "resend without key", cfg: config.Email{Provider: "resend"}, wantErr: true},
		{name: "unknown provider", cfg: config.Email{Provider: "pigeon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTransport(tt.cfg, newNoopLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, tr)
		})
	}
}
