package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/alcateia-auth/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListAccess(ctx context.Context, userID string) ([]*models.ContentAccess, error) {
	args := m.Called(ctx, userID)
	if s, ok := args.Get(0).([]*models.ContentAccess); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

const userID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func TestListAccessHandler(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "журнал доступа",
			userID: userID,
			setupMock: func(m *MockService) {
				m.On("ListAccess", mock.Anything, userID).Return([]*models.ContentAccess{
					{ID: "ca-1", UserID: userID, ContentType: "music", ContentID: "track-9"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"content_id":"track-9"`,
		},
		{
			name:           "некорректный id",
			userID:         "abc",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid user id`,
		},
		{
			name:   "ошибка хранилища",
			userID: userID,
			setupMock: func(m *MockService) {
				m.On("ListAccess", mock.Anything, userID).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not list content access`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/content/"+tt.userID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("user_id", tt.userID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rec := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
