package verification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/alcateia-auth/internal/lib/code"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/locker"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/metrics"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
	"github.com/magabrotheeeer/alcateia-auth/internal/services/notification"
	"github.com/magabrotheeeer/alcateia-auth/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) SetVerificationCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	return m.Called(ctx, userID, code, expiresAt).Error(0)
}

func (m *RepoMock) MarkEmailVerified(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *RepoMock) SetPasswordResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	return m.Called(ctx, userID, code, expiresAt).Error(0)
}

func (m *RepoMock) ClearExpiredCodes(ctx context.Context, now time.Time) (int64, int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *RepoMock) CreateEmailLog(ctx context.Context, entry models.EmailLog) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) UpdateLatestPendingEmailLog(ctx context.Context, userID string, emailType models.EmailType,
	status models.EmailStatus, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, emailType, status, at)
	return args.Get(0).(int64), args.Error(1)
}

type DispatcherMock struct{ mock.Mock }

func (m *DispatcherMock) Send(ctx context.Context, to string, kind models.EmailType, tpl notification.Template) bool {
	return m.Called(ctx, to, kind, tpl).Bool(0)
}

type TokenIssuerMock struct{ mock.Mock }

func (m *TokenIssuerMock) IssueToken(ctx context.Context, userID, email string) (string, error) {
	args := m.Called(ctx, userID, email)
	return args.String(0), args.Error(1)
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string) (locker.Unlock, error) {
	return nil, locker.ErrLockBusy
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestGenerator(now *time.Time) *code.Generator {
	gen := code.NewGenerator(10*time.Minute, 15*time.Minute)
	gen.Now = func() time.Time { return *now }
	return gen
}

func newTestService(repo UserRepository, d Dispatcher, tokens TokenIssuer, now *time.Time) *Service {
	return NewService(repo, d, locker.Nop{}, tokens, (*metrics.Metrics)(nil), newTestGenerator(now), newNoopLogger())
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// memoryRepo хранит пользователей в памяти и повторяет семантику репозитория.
type memoryRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	logs  []models.EmailLog
}

func newMemoryRepo(users ...models.User) *memoryRepo {
	r := &memoryRepo{users: make(map[string]*models.User)}
	for i := range users {
		u := users[i]
		r.users[u.Email] = &u
	}
	return r
}

func (r *memoryRepo) byID(id string) *models.User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (r *memoryRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryRepo) SetVerificationCode(_ context.Context, userID, c string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byID(userID)
	if u == nil {
		return errors.New("no such user")
	}
	u.VerificationCode, u.VerificationExpiresAt = &c, &expiresAt
	return nil
}

func (r *memoryRepo) MarkEmailVerified(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byID(userID)
	u.EmailVerified = true
	u.VerificationCode, u.VerificationExpiresAt = nil, nil
	return nil
}

func (r *memoryRepo) SetPasswordResetCode(_ context.Context, userID, c string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byID(userID)
	u.PasswordResetCode, u.PasswordResetExpiresAt = &c, &expiresAt
	return nil
}

func (r *memoryRepo) ClearExpiredCodes(_ context.Context, now time.Time) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var v, p int64
	for _, u := range r.users {
		if u.VerificationExpiresAt != nil && u.VerificationExpiresAt.Before(now) {
			u.VerificationCode, u.VerificationExpiresAt = nil, nil
			v++
		}
		if u.PasswordResetExpiresAt != nil && u.PasswordResetExpiresAt.Before(now) {
			u.PasswordResetCode, u.PasswordResetExpiresAt = nil, nil
			p++
		}
	}
	return v, p, nil
}

func (r *memoryRepo) CreateEmailLog(_ context.Context, entry models.EmailLog) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entry)
	return "log", nil
}

func (r *memoryRepo) UpdateLatestPendingEmailLog(_ context.Context, userID string, kind models.EmailType,
	status models.EmailStatus, _ time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.logs) - 1; i >= 0; i-- {
		l := &r.logs[i]
		if l.UserID == userID && l.EmailType == kind && l.Status == models.EmailPending {
			l.Status = status
			return 1, nil
		}
	}
	return 0, nil
}

// captureDispatcher запоминает отправленные письма.
type captureDispatcher struct {
	sent []notification.Template
	ok   bool
}

func (d *captureDispatcher) Send(_ context.Context, _ string, _ models.EmailType, tpl notification.Template) bool {
	d.sent = append(d.sent, tpl)
	return d.ok
}
