// Package email реализует HTTP-обработчики /api/email/*: выдачу и проверку
// кодов подтверждения email и восстановления пароля, а также приветственное письмо.
//
// Тело ответа повторяет структуру verification.Result, HTTP-статус выбирается
// по причине неуспеха.
package email

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
	"github.com/magabrotheeeer/alcateia-auth/internal/services/notification"
	"github.com/magabrotheeeer/alcateia-auth/internal/services/verification"
)

// Verifier операции с одноразовыми кодами.
type Verifier interface {
	InitiateEmailVerification(ctx context.Context, email string) verification.Result
	VerifyEmailCode(ctx context.Context, email, code string) verification.Result
	InitiatePasswordReset(ctx context.Context, email string) verification.Result
	VerifyPasswordResetCode(ctx context.Context, email, code string) verification.Result
}

// WelcomeSender отправка приветственного письма.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, email string) bool
}

// Handler обработчики /api/email/*.
type Handler struct {
	log      *slog.Logger
	verifier Verifier
	welcome  WelcomeSender
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, verifier Verifier, welcome WelcomeSender) *Handler {
	return &Handler{
		log:      log,
		verifier: verifier,
		welcome:  welcome,
		validate: validator.New(),
	}
}

// StatusFor возвращает HTTP-статус для результата операции с кодом.
func StatusFor(res verification.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch {
	case errors.Is(res.Reason, verification.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(res.Reason, verification.ErrAlreadyVerified):
		return http.StatusConflict
	case errors.Is(res.Reason, verification.ErrNoCode), errors.Is(res.Reason, verification.ErrInvalidCode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decode читает и валидирует тело запроса. При ошибке ответ уже записан.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return false
		}
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return false
	}
	return true
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, log *slog.Logger, res verification.Result) {
	status := StatusFor(res)
	if status >= http.StatusInternalServerError {
		log.Error("operation failed", sl.Err(res.Reason))
	}
	render.Status(r, status)
	render.JSON(w, r, res)
}

// Verify godoc
// @Summary Отправить код подтверждения email
// @Tags Email
// @Accept json
// @Produce json
// @Param request body models.EmailRequest true "Email пользователя"
// @Success 200 {object} verification.Result
// @Failure 404 {object} verification.Result
// @Failure 409 {object} verification.Result
// @Failure 422 {object} response.ErrorResponse
// @Router /email/verify [post]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.email.Verify")
	var req models.EmailRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	h.respond(w, r, log, h.verifier.InitiateEmailVerification(r.Context(), req.Email))
}

// VerifyCode godoc
// @Summary Проверить код подтверждения email
// @Tags Email
// @Accept json
// @Produce json
// @Param request body models.CodeRequest true "Email и код"
// @Success 200 {object} verification.Result
// @Failure 400 {object} verification.Result
// @Router /email/verify-code [post]
func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.email.VerifyCode")
	var req models.CodeRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	h.respond(w, r, log, h.verifier.VerifyEmailCode(r.Context(), req.Email, req.Code))
}

// PasswordReset godoc
// @Summary Запросить код восстановления пароля
// @Tags Email
// @Accept json
// @Produce json
// @Param request body models.EmailRequest true "Email пользователя"
// @Success 200 {object} verification.Result
// @Router /email/password-reset [post]
func (h *Handler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.email.PasswordReset")
	var req models.EmailRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	h.respond(w, r, log, h.verifier.InitiatePasswordReset(r.Context(), req.Email))
}

// VerifyResetCode godoc
// @Summary Проверить код восстановления пароля
// @Tags Email
// @Accept json
// @Produce json
// @Param request body models.CodeRequest true "Email и код"
// @Success 200 {object} verification.Result
// @Failure 400 {object} verification.Result
// @Router /email/verify-reset-code [post]
func (h *Handler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.email.VerifyResetCode")
	var req models.CodeRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	h.respond(w, r, log, h.verifier.VerifyPasswordResetCode(r.Context(), req.Email, req.Code))
}

// Welcome godoc
// @Summary Отправить приветственное письмо
// @Tags Email
// @Accept json
// @Produce json
// @Param request body models.EmailRequest true "Email получателя"
// @Success 200 {object} verification.Result
// @Failure 500 {object} verification.Result
// @Router /email/welcome [post]
func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.email.Welcome")
	var req models.EmailRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	if !h.welcome.SendWelcome(r.Context(), req.Email) {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, verification.Result{Message: notification.MsgWelcomeFailed})
		return
	}
	render.JSON(w, r, verification.Result{Success: true, Message: notification.MsgWelcomeSent})
}
