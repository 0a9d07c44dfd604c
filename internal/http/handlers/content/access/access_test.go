package access

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
	"github.com/magabrotheeeer/alcateia-auth/internal/services/ledger"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) RecordAccess(ctx context.Context, req models.DummyContentAccess) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

const userID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func TestAccessHandler(t *testing.T) {
	valid := fmt.Sprintf(`{"user_id":%q,"content_type":"music","content_id":"track-9"}`, userID)

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "доступ записан",
			body: valid,
			setupMock: func(m *MockService) {
				m.On("RecordAccess", mock.Anything, models.DummyContentAccess{
					UserID: userID, ContentType: "music", ContentID: "track-9",
				}).Return("ca-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true}`,
		},
		{
			name:           "нет content_id",
			body:           fmt.Sprintf(`{"user_id":%q,"content_type":"music"}`, userID),
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field ContentID is a required field`,
		},
		{
			name: "пользователь не найден",
			body: valid,
			setupMock: func(m *MockService) {
				m.On("RecordAccess", mock.Anything, mock.Anything).Return("", ledger.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name: "ошибка хранилища",
			body: valid,
			setupMock: func(m *MockService) {
				m.On("RecordAccess", mock.Anything, mock.Anything).Return("", errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not record access`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/content/access", strings.NewReader(tt.body))
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
