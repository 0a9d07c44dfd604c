// Package create реализует HTTP-обработчик бронирования сессии с продюсером.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/alcateia-auth/internal/http/response"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
	"github.com/magabrotheeeer/alcateia-auth/internal/services/ledger"
)

// Service бронирование сессии.
type Service interface {
	BookSession(ctx context.Context, req models.DummyProducerSession) (string, error)
}

// Handler обрабатывает POST /api/producer-sessions.
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
// @Summary Забронировать сессию с продюсером
// @Tags ProducerSessions
// @Accept json
// @Produce json
// @Param request body models.DummyProducerSession true "Данные сессии, дата в RFC 3339"
// @Success 200 {object} map[string]string "ID сессии"
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /producer-sessions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyProducerSession
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.BookSession(r.Context(), req)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidSessionDate) {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("field SessionDate must be RFC 3339 date-time"))
			return
		}
		if errors.Is(err, ledger.ErrSubscriptionNotFound) {
			log.Info("subscription not found", slog.String("subscription_id", req.SubscriptionID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
			return
		}
		log.Error("failed to book session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not book session"))
		return
	}

	log.Info("session booked", slog.String("id", id))
	render.JSON(w, r, map[string]string{
		"session_id": id,
	})
}
