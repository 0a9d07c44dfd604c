package create

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/alcateia-auth/internal/models"
	"github.com/magabrotheeeer/alcateia-auth/internal/services/subscription"
	"github.com/magabrotheeeer/alcateia-auth/internal/storage/repository"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummySubscription) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

const userID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное создание подписки",
			body: fmt.Sprintf(`{"user_id":%q,"plan_type":"plus","mercadopago_subscription_id":"mp-1"}`, userID),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, models.DummySubscription{
					UserID: userID, PlanType: "plus", MercadoPagoSubscriptionID: "mp-1",
				}).Return("sub-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"subscription_id":"sub-1"}`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"user_id":`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "неизвестный тариф",
			body:           fmt.Sprintf(`{"user_id":%q,"plan_type":"gold"}`, userID),
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field PlanType must be one of: start plus premium`,
		},
		{
			name:           "user_id не uuid",
			body:           `{"user_id":"42","plan_type":"start"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field UserID can contain only uuid`,
		},
		{
			name: "тариф отсутствует в таблице лимитов",
			body: fmt.Sprintf(`{"user_id":%q,"plan_type":"premium"}`, userID),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return("", fmt.Errorf("%w: premium", subscription.ErrUnknownPlan))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `unknown plan type`,
		},
		{
			name: "пользователь не найден",
			body: fmt.Sprintf(`{"user_id":%q,"plan_type":"start"}`, userID),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).Return("", subscription.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name: "ошибка сервиса",
			body: fmt.Sprintf(`{"user_id":%q,"plan_type":"start"}`, userID),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not create subscription"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

// missingUserRepo отвечает на вставку так же, как хранилище при нарушении внешнего ключа.
type missingUserRepo struct{}

func (missingUserRepo) CreateSubscription(context.Context, models.Subscription, []models.SubscriptionFeature) (string, error) {
	return "", fmt.Errorf("storage.CreateSubscription: %w", repository.ErrReferenceNotFound)
}

func (missingUserRepo) GetActiveSubscription(context.Context, string) (*models.ActiveSubscription, error) {
	return nil, repository.ErrNotFound
}

func (missingUserRepo) UpdateStatusByExternalRef(context.Context, string, models.SubscriptionStatus) (int64, error) {
	return 0, nil
}

func (missingUserRepo) IncrementFeatureUsage(context.Context, string, models.FeatureType, int) (int64, error) {
	return 0, nil
}

func TestCreateHandler_UnknownUserWithService(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := subscription.NewService(missingUserRepo{}, subscription.DefaultPlans(), logger)

	body := fmt.Sprintf(`{"user_id":%q,"plan_type":"plus"}`, userID)
	req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(body))
	w := httptest.NewRecorder()
	New(logger, service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"Error","error":"user not found"}`, w.Body.String())
}
