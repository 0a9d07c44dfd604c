package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/alcateia-auth/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
)

type UpdaterMock struct{ mock.Mock }

func (m *UpdaterMock) ApplyPaymentEvent(ctx context.Context, externalRef, action string) (int64, models.SubscriptionStatus, error) {
	args := m.Called(ctx, externalRef, action)
	return args.Get(0).(int64), args.Get(1).(models.SubscriptionStatus), args.Error(2)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_HandleNotification(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	notification := func(typ, action string) models.WebhookNotification {
		return models.WebhookNotification{Type: typ, Action: action, Data: models.WebhookData{ID: "mp-123"}}
	}

	tests := []struct {
		name    string
		n       models.WebhookNotification
		setup   func(u *UpdaterMock, p *PublisherMock)
		wantErr bool
	}{
		{
			name: "approved activates and publishes",
			n:    notification("subscription", "payment.approved"),
			setup: func(u *UpdaterMock, p *PublisherMock) {
				u.On("ApplyPaymentEvent", mock.Anything, "mp-123", "payment.approved").
					Return(int64(1), models.StatusActive, nil)
				p.On("Publish", mock.Anything, rabbitmq.KeySubscriptionActivated, models.SubscriptionEvent{
					SubscriptionRef: "mp-123",
					Status:          models.StatusActive,
					Action:          "payment.approved",
					OccurredAt:      at,
				}).Return(nil)
			},
		},
		{
			name: "failed cancels and publishes",
			n:    notification("subscription", "payment.failed"),
			setup: func(u *UpdaterMock, p *PublisherMock) {
				u.On("ApplyPaymentEvent", mock.Anything, "mp-123", "payment.failed").
					Return(int64(1), models.StatusCancelled, nil)
				p.On("Publish", mock.Anything, rabbitmq.KeySubscriptionCancelled, mock.Anything).Return(nil)
			},
		},
		{
			name: "publish failure is not an error",
			n:    notification("subscription", "payment.approved"),
			setup: func(u *UpdaterMock, p *PublisherMock) {
				u.On("ApplyPaymentEvent", mock.Anything, "mp-123", "payment.approved").
					Return(int64(1), models.StatusActive, nil)
				p.On("Publish", mock.Anything, rabbitmq.KeySubscriptionActivated, mock.Anything).
					Return(errors.New("channel closed"))
			},
		},
		{
			name: "unknown reference publishes nothing",
			n:    notification("subscription", "payment.approved"),
			setup: func(u *UpdaterMock, _ *PublisherMock) {
				u.On("ApplyPaymentEvent", mock.Anything, "mp-123", "payment.approved").
					Return(int64(0), models.StatusActive, nil)
			},
		},
		{
			name: "unknown action publishes nothing",
			n:    notification("subscription", "payment.refunded"),
			setup: func(u *UpdaterMock, _ *PublisherMock) {
				u.On("ApplyPaymentEvent", mock.Anything, "mp-123", "payment.refunded").
					Return(int64(0), models.SubscriptionStatus(""), nil)
			},
		},
		{
			name:  "other type is ignored",
			n:     notification("payment", "payment.approved"),
			setup: func(*UpdaterMock, *PublisherMock) {},
		},
		{
			name: "storage error",
			n:    notification("subscription", "payment.approved"),
			setup: func(u *UpdaterMock, _ *PublisherMock) {
				u.On("ApplyPaymentEvent", mock.Anything, "mp-123", "payment.approved").
					Return(int64(0), models.SubscriptionStatus(""), errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updater := new(UpdaterMock)
			publisher := new(PublisherMock)
			tt.setup(updater, publisher)

			s := NewService(updater, publisher, newNoopLogger())
			s.now = func() time.Time { return at }

			err := s.HandleNotification(context.Background(), tt.n)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			updater.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestService_HandleNotification_NopPublisher(t *testing.T) {
	updater := new(UpdaterMock)
	updater.On("ApplyPaymentEvent", mock.Anything, "mp-1", "payment.cancelled").
		Return(int64(1), models.StatusCancelled, nil)

	s := NewService(updater, rabbitmq.NopPublisher{}, newNoopLogger())
	err := s.HandleNotification(context.Background(), models.WebhookNotification{
		Type: "subscription", Action: "payment.cancelled", Data: models.WebhookData{ID: "mp-1"},
	})

	assert.NoError(t, err)
	updater.AssertExpectations(t)
}
