package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/alcateia-auth/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListSessions(ctx context.Context, subscriptionID string) ([]*models.ProducerSession, error) {
	args := m.Called(ctx, subscriptionID)
	if s, ok := args.Get(0).([]*models.ProducerSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

const subID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func TestListSessionsHandler(t *testing.T) {
	date := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		subID          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "список сессий",
			subID: subID,
			setupMock: func(m *MockService) {
				m.On("ListSessions", mock.Anything, subID).Return([]*models.ProducerSession{
					{ID: "ps-1", SubscriptionID: subID, ProducerName: "DJ Lobo", SessionDate: date},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"session_date":"2025-03-01T15:00:00Z"`,
		},
		{
			name:  "пустой список",
			subID: subID,
			setupMock: func(m *MockService) {
				m.On("ListSessions", mock.Anything, subID).Return([]*models.ProducerSession{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "некорректный id",
			subID:          "42",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid subscription id`,
		},
		{
			name:  "ошибка хранилища",
			subID: subID,
			setupMock: func(m *MockService) {
				m.On("ListSessions", mock.Anything, subID).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not list sessions`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/producer-sessions/"+tt.subID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("subscription_id", tt.subID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rec := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
