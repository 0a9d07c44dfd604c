// Package access реализует HTTP-обработчик записи события доступа к контенту.
package access

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

// Service запись события доступа.
type Service interface {
	RecordAccess(ctx context.Context, req models.DummyContentAccess) (string, error)
}

// Handler обрабатывает POST /api/content/access.
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
// @Summary Записать доступ к контенту
// @Tags Content
// @Accept json
// @Produce json
// @Param request body models.DummyContentAccess true "Событие доступа"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /content/access [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.access"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyContentAccess
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

	if _, err := h.service.RecordAccess(r.Context(), req); err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			log.Info("user not found", slog.String("user_id", req.UserID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to record access", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not record access"))
		return
	}
	render.JSON(w, r, map[string]bool{
		"success": true,
	})
}
