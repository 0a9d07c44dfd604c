// Package verification управляет жизненным циклом одноразовых кодов:
// подтверждение email и восстановление пароля. Публичные методы не возвращают
// ошибок хранилища наружу, а формируют Result с сообщением для клиента.
package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/alcateia-auth/internal/lib/code"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/locker"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
	"github.com/magabrotheeeer/alcateia-auth/internal/services/notification"
	"github.com/magabrotheeeer/alcateia-auth/internal/storage/repository"
)

// Причины неуспеха операции.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyVerified = errors.New("email already verified")
	ErrNoCode          = errors.New("no active code")
	ErrInvalidCode     = errors.New("invalid or expired code")
	ErrInternal        = errors.New("internal error")
)

// Сообщения для клиента.
const (
	MsgUserNotFound       = "Usuário não encontrado"
	MsgAlreadyVerified    = "Email já verificado"
	MsgInternal           = "Erro interno do servidor"
	MsgVerificationSent   = "Código de verificação enviado"
	MsgNoVerificationCode = "Nenhum código de verificação encontrado"
	MsgInvalidCode        = "Código inválido ou expirado"
	MsgEmailVerified      = "Email verificado com sucesso!"
	MsgResetRequested     = "Se o email existir, você receberá instruções de recuperação"
	MsgResetSent          = "Código de recuperação enviado"
	MsgNoResetCode        = "Nenhum código de recuperação encontrado"
	MsgResetCodeValid     = "Código válido"
)

const (
	purposeVerification  = "verification"
	purposePasswordReset = "password_reset"
)

// Result результат операции с кодом.
type Result struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TimeRemaining *int   `json:"timeRemaining,omitempty"`
	Token         string `json:"token,omitempty"`
	Reason        error  `json:"-"`
}

// UserRepository состояние кодов пользователя и журнал писем.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetVerificationCode(ctx context.Context, userID, code string, expiresAt time.Time) error
	MarkEmailVerified(ctx context.Context, userID string) error
	SetPasswordResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error
	ClearExpiredCodes(ctx context.Context, now time.Time) (int64, int64, error)
	CreateEmailLog(ctx context.Context, entry models.EmailLog) (string, error)
	UpdateLatestPendingEmailLog(ctx context.Context, userID string, emailType models.EmailType, status models.EmailStatus, at time.Time) (int64, error)
}

// Dispatcher доставляет письмо с кодом.
type Dispatcher interface {
	Send(ctx context.Context, to string, kind models.EmailType, tpl notification.Template) bool
}

// Locker сериализует выдачу и проверку кодов одного пользователя.
type Locker interface {
	Lock(ctx context.Context, key string) (locker.Unlock, error)
}

// TokenIssuer выпускает токен субъекта после подтверждения email.
type TokenIssuer interface {
	IssueToken(ctx context.Context, userID, email string) (string, error)
}

// Metrics учитывает операции с кодами.
type Metrics interface {
	VerificationAttempt(purpose, outcome string)
}

// Service менеджер верификации.
type Service struct {
	repo       UserRepository
	dispatcher Dispatcher
	locker     Locker
	tokens     TokenIssuer
	metrics    Metrics
	gen        *code.Generator
	log        *slog.Logger
}

// NewService создает новый экземпляр Service. tokens может быть nil,
// тогда токен в ответе на подтверждение email не выдаётся.
func NewService(repo UserRepository, dispatcher Dispatcher, lk Locker, tokens TokenIssuer,
	metrics Metrics, gen *code.Generator, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		locker:     lk,
		tokens:     tokens,
		metrics:    metrics,
		gen:        gen,
		log:        log,
	}
}

func failure(reason error, msg string) Result {
	return Result{Success: false, Message: msg, Reason: reason}
}

func internal() Result {
	return failure(ErrInternal, MsgInternal)
}

func outcome(r Result) string {
	switch {
	case r.Reason == nil:
		return "success"
	case errors.Is(r.Reason, ErrUserNotFound):
		return "not_found"
	case errors.Is(r.Reason, ErrAlreadyVerified):
		return "already_verified"
	case errors.Is(r.Reason, ErrNoCode):
		return "no_code"
	case errors.Is(r.Reason, ErrInvalidCode):
		return "invalid"
	default:
		return "internal"
	}
}

// withLock выполняет fn под блокировкой пользователя email.
func (s *Service) withLock(ctx context.Context, log *slog.Logger, email string, fn func() Result) Result {
	unlock, err := s.locker.Lock(ctx, "user:"+email)
	if err != nil {
		log.Error("failed to acquire user lock", sl.Err(err))
		return internal()
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to release user lock", sl.Err(err))
		}
	}()
	return fn()
}

// lookup загружает пользователя. ok=false означает, что res уже содержит ответ.
func (s *Service) lookup(ctx context.Context, log *slog.Logger, email string) (user *models.User, res Result, ok bool) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, failure(ErrUserNotFound, MsgUserNotFound), false
		}
		log.Error("failed to get user", sl.Err(err))
		return nil, internal(), false
	}
	return user, Result{}, true
}

// logEmail пишет pending-запись журнала. Ошибка не влияет на результат операции.
func (s *Service) logEmail(ctx context.Context, log *slog.Logger, userID string, kind models.EmailType, email string) {
	now := s.gen.Now()
	if _, err := s.repo.CreateEmailLog(ctx, models.EmailLog{
		UserID:         userID,
		EmailType:      kind,
		RecipientEmail: email,
		Status:         models.EmailPending,
		SentAt:         &now,
	}); err != nil {
		log.Warn("failed to write email log", sl.Err(err))
	}
}

// InitiateEmailVerification выдаёт новый код подтверждения и отправляет его на email.
func (s *Service) InitiateEmailVerification(ctx context.Context, email string) Result {
	const op = "verification.InitiateEmailVerification"
	log := s.log.With(slog.String("op", op))

	res := s.withLock(ctx, log, email, func() Result {
		user, res, ok := s.lookup(ctx, log, email)
		if !ok {
			return res
		}
		if user.EmailVerified {
			return failure(ErrAlreadyVerified, MsgAlreadyVerified)
		}

		c := s.gen.VerificationCode()
		if err := s.repo.SetVerificationCode(ctx, user.ID, c.Value, c.ExpiresAt); err != nil {
			log.Error("failed to store verification code", sl.Err(err))
			return internal()
		}
		s.logEmail(ctx, log, user.ID, models.EmailVerification, email)

		minutes := s.gen.VerificationMinutes()
		if !s.dispatcher.Send(ctx, email, models.EmailVerification, notification.VerificationTemplate(c.Value, minutes)) {
			return internal()
		}
		return Result{Success: true, Message: MsgVerificationSent, TimeRemaining: &minutes}
	})
	s.metrics.VerificationAttempt(purposeVerification, outcome(res))
	return res
}

// VerifyEmailCode проверяет код подтверждения и помечает email подтверждённым.
func (s *Service) VerifyEmailCode(ctx context.Context, email, input string) Result {
	const op = "verification.VerifyEmailCode"
	log := s.log.With(slog.String("op", op))

	res := s.withLock(ctx, log, email, func() Result {
		user, res, ok := s.lookup(ctx, log, email)
		if !ok {
			return res
		}
		if user.EmailVerified {
			return failure(ErrAlreadyVerified, MsgAlreadyVerified)
		}
		if user.VerificationCode == nil || *user.VerificationCode == "" {
			return failure(ErrNoCode, MsgNoVerificationCode)
		}
		if user.VerificationExpiresAt == nil ||
			!code.Validate(input, *user.VerificationCode, *user.VerificationExpiresAt, s.gen.Now()) {
			return failure(ErrInvalidCode, MsgInvalidCode)
		}

		if err := s.repo.MarkEmailVerified(ctx, user.ID); err != nil {
			log.Error("failed to mark email verified", sl.Err(err))
			return internal()
		}
		if _, err := s.repo.UpdateLatestPendingEmailLog(ctx, user.ID, models.EmailVerification,
			models.EmailSent, s.gen.Now()); err != nil {
			log.Warn("failed to update email log", sl.Err(err))
		}

		result := Result{Success: true, Message: MsgEmailVerified}
		if s.tokens != nil {
			token, err := s.tokens.IssueToken(ctx, user.ID, user.Email)
			if err != nil {
				log.Warn("failed to issue subject token", sl.Err(err))
			} else {
				result.Token = token
			}
		}
		return result
	})
	s.metrics.VerificationAttempt(purposeVerification, outcome(res))
	return res
}

// InitiatePasswordReset выдаёт код восстановления пароля. Для неизвестного email
// возвращается тот же успешный ответ без отправки письма.
func (s *Service) InitiatePasswordReset(ctx context.Context, email string) Result {
	const op = "verification.InitiatePasswordReset"
	log := s.log.With(slog.String("op", op))

	res := s.withLock(ctx, log, email, func() Result {
		user, res, ok := s.lookup(ctx, log, email)
		if !ok {
			if errors.Is(res.Reason, ErrUserNotFound) {
				return Result{Success: true, Message: MsgResetRequested}
			}
			return res
		}

		c := s.gen.PasswordResetCode()
		if err := s.repo.SetPasswordResetCode(ctx, user.ID, c.Value, c.ExpiresAt); err != nil {
			log.Error("failed to store password reset code", sl.Err(err))
			return internal()
		}
		s.logEmail(ctx, log, user.ID, models.EmailPasswordReset, email)

		minutes := s.gen.PasswordResetMinutes()
		if !s.dispatcher.Send(ctx, email, models.EmailPasswordReset, notification.PasswordResetTemplate(c.Value, minutes)) {
			return internal()
		}
		return Result{Success: true, Message: MsgResetSent, TimeRemaining: &minutes}
	})
	s.metrics.VerificationAttempt(purposePasswordReset, outcome(res))
	return res
}

// VerifyPasswordResetCode сообщает, действителен ли код восстановления.
// Код при этом не сбрасывается.
func (s *Service) VerifyPasswordResetCode(ctx context.Context, email, input string) Result {
	const op = "verification.VerifyPasswordResetCode"
	log := s.log.With(slog.String("op", op))

	res := s.withLock(ctx, log, email, func() Result {
		user, res, ok := s.lookup(ctx, log, email)
		if !ok {
			return res
		}
		if user.PasswordResetCode == nil || *user.PasswordResetCode == "" {
			return failure(ErrNoCode, MsgNoResetCode)
		}
		if user.PasswordResetExpiresAt == nil ||
			!code.Validate(input, *user.PasswordResetCode, *user.PasswordResetExpiresAt, s.gen.Now()) {
			return failure(ErrInvalidCode, MsgInvalidCode)
		}
		// TODO: сбрасывать код, когда появится операция смены пароля, которая его потребляет.
		return Result{Success: true, Message: MsgResetCodeValid}
	})
	s.metrics.VerificationAttempt(purposePasswordReset, outcome(res))
	return res
}

// ClearExpiredCodes обнуляет просроченные коды обоих видов.
func (s *Service) ClearExpiredCodes(ctx context.Context) (int64, int64, error) {
	const op = "verification.ClearExpiredCodes"
	log := s.log.With(slog.String("op", op))

	verification, reset, err := s.repo.ClearExpiredCodes(ctx, s.gen.Now())
	if err != nil {
		log.Error("failed to clear expired codes", sl.Err(err))
		return 0, 0, err
	}
	log.Info("expired codes cleared",
		slog.Int64("verification", verification),
		slog.Int64("password_reset", reset))
	return verification, reset, nil
}
