// Package me отдаёт данные субъекта по проверенному JWT: ID, email и активную подписку.
package me

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/alcateia-auth/internal/http/middlewarectx"
	"github.com/magabrotheeeer/alcateia-auth/internal/http/response"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
	"github.com/magabrotheeeer/alcateia-auth/internal/services/auth"
)

// Service чтение субъекта.
type Service interface {
	Subject(ctx context.Context, userID string) (*models.Subject, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущий субъект
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Subject
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	subject, err := h.service.Subject(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to load subject", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}
	render.JSON(w, r, subject)
}
