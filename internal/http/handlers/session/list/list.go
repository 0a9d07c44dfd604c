// Package list реализует HTTP-обработчик списка сессий подписки.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/alcateia-auth/internal/http/response"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
)

// Service чтение сессий.
type Service interface {
	ListSessions(ctx context.Context, subscriptionID string) ([]*models.ProducerSession, error)
}

// Handler обрабатывает GET /api/producer-sessions/{subscription_id}.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сессии подписки
// @Tags ProducerSessions
// @Produce json
// @Param subscription_id path string true "ID подписки"
// @Success 200 {array} models.ProducerSession
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /producer-sessions/{subscription_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subID := chi.URLParam(r, "subscription_id")
	if err := h.validate.Var(subID, "required,uuid"); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid subscription id"))
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), subID)
	if err != nil {
		log.Error("failed to list sessions", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list sessions"))
		return
	}
	render.JSON(w, r, sessions)
}
