// Package paymentwebhook принимает уведомления Mercado Pago о платежах подписок.
//
// Ответы текстовые: OK при успехе, Internal Server Error при ошибке обработки.
// Если задан секрет, заголовок x-signature проверяется до разбора тела.
package paymentwebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
	"github.com/magabrotheeeer/alcateia-auth/internal/services/payment"
)

const maxBodySize = 1 << 20

// Service обработка уведомления.
type Service interface {
	HandleNotification(ctx context.Context, n models.WebhookNotification) error
}

type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service
	validate      *validator.Validate
	webhookSecret string // Секрет для проверки подписи, пустой отключает проверку
}

func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		validate:      validator.New(),
		webhookSecret: secret,
	}
}

// parseSignature разбирает заголовок вида "ts=1704908010,v1=<hex>".
func parseSignature(header string) (ts, v1 string) {
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "v1":
			v1 = value
		}
	}
	return ts, v1
}

// manifest строка, которую подписывает Mercado Pago.
func manifest(dataID, requestID, ts string) string {
	var b strings.Builder
	if dataID != "" {
		b.WriteString("id:" + strings.ToLower(dataID) + ";")
	}
	if requestID != "" {
		b.WriteString("request-id:" + requestID + ";")
	}
	b.WriteString("ts:" + ts + ";")
	return b.String()
}

// Sign вычисляет подпись v1 для уведомления.
func Sign(secret, dataID, requestID, ts string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest(dataID, requestID, ts)))
	return hex.EncodeToString(mac.Sum(nil))
}

func (h *Handler) verifySignature(r *http.Request, dataID string) bool {
	ts, v1 := parseSignature(r.Header.Get("x-signature"))
	if ts == "" || v1 == "" {
		return false
	}
	expected := Sign(h.webhookSecret, dataID, r.Header.Get("x-request-id"), ts)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(v1)))
}

// ServeHTTP godoc
// @Summary Уведомление Mercado Pago
// @Tags Webhooks
// @Accept json
// @Produce plain
// @Param request body models.WebhookNotification true "Уведомление"
// @Success 200 {string} string "OK"
// @Failure 401 {string} string "Unauthorized"
// @Failure 405 {string} string "Method not allowed"
// @Failure 500 {string} string "Internal Server Error"
// @Router /webhooks/mercadopago [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		writeText(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	defer r.Body.Close()

	var n models.WebhookNotification
	if err := json.Unmarshal(body, &n); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if h.webhookSecret != "" && !h.verifySignature(r, n.Data.ID) {
		log.Error("invalid or missing webhook signature")
		writeText(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if n.Type == payment.TypeSubscription {
		if err := h.validateSubscription(n); err != nil {
			log.Error("invalid subscription notification", sl.Err(err))
			writeText(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
	}

	if err := h.service.HandleNotification(r.Context(), n); err != nil {
		log.Error("failed to process webhook event", sl.Err(err))
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	log.Info("webhook processed successfully", slog.String("type", n.Type), slog.String("data_id", n.Data.ID))
	writeText(w, http.StatusOK, "OK")
}

// validateSubscription проверяет поля, без которых нельзя сменить статус подписки.
func (h *Handler) validateSubscription(n models.WebhookNotification) error {
	if err := h.validate.Var(n.Action, "required"); err != nil {
		return fmt.Errorf("action: %w", err)
	}
	if err := h.validate.Var(n.Data.ID, "required"); err != nil {
		return fmt.Errorf("data.id: %w", err)
	}
	return nil
}

// writeText пишет текстовый ответ без завершающего перевода строки.
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
