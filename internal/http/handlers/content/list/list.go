// Package list реализует HTTP-обработчик журнала доступа пользователя к контенту.
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

// Service чтение журнала доступа.
type Service interface {
	ListAccess(ctx context.Context, userID string) ([]*models.ContentAccess, error)
}

// Handler обрабатывает GET /api/content/{user_id}.
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
// @Summary Журнал доступа пользователя
// @Tags Content
// @Produce json
// @Param user_id path string true "ID пользователя"
// @Success 200 {array} models.ContentAccess
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /content/{user_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "user_id")
	if err := h.validate.Var(userID, "required,uuid"); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	events, err := h.service.ListAccess(r.Context(), userID)
	if err != nil {
		log.Error("failed to list content access", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list content access"))
		return
	}
	render.JSON(w, r, events)
}
