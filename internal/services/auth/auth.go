// Package auth содержит регистрацию пользователей и выдачу JWT после
// подтверждения email.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/magabrotheeeer/alcateia-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
	"github.com/magabrotheeeer/alcateia-auth/internal/storage/repository"
)

// ErrUserNotFound пользователь с таким идентификатором не существует.
var ErrUserNotFound = errors.New("user not found")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// GetOrCreateUser возвращает ID существующего пользователя или создаёт нового.
	GetOrCreateUser(ctx context.Context, email string, name *string) (string, error)

	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// SubscriptionReader чтение активной подписки.
type SubscriptionReader interface {
	GetActive(ctx context.Context, userID string) (*models.ActiveSubscription, error)
}

// Service отвечает за регистрацию, выдачу и проверку JWT.
type Service struct {
	users    UserRepository
	subs     SubscriptionReader
	jwtMaker jwt.Maker
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, subs SubscriptionReader, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		subs:     subs,
		jwtMaker: jwtMaker,
	}
}

// Register возвращает ID пользователя с данным email, создавая его при первом обращении.
func (s *Service) Register(ctx context.Context, email, name string) (string, error) {
	var namePtr *string
	if name = strings.TrimSpace(name); name != "" {
		namePtr = &name
	}
	return s.users.GetOrCreateUser(ctx, strings.TrimSpace(email), namePtr)
}

// IssueToken выпускает JWT для пользователя. В токен попадает тариф активной
// подписки, если она есть.
func (s *Service) IssueToken(ctx context.Context, userID, email string) (string, error) {
	sub, err := s.subs.GetActive(ctx, userID)
	if err != nil {
		return "", err
	}
	plan := ""
	if sub != nil {
		plan = string(sub.PlanType)
	}
	return s.jwtMaker.GenerateToken(userID, email, plan)
}

// ValidateToken проверяет JWT и возвращает его claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.SubjectClaims, error) {
	return s.jwtMaker.ParseToken(token)
}

// Subject собирает данные пользователя вместе с активной подпиской.
func (s *Service) Subject(ctx context.Context, userID string) (*models.Subject, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	sub, err := s.subs.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.Subject{
		ID:           user.ID,
		Email:        user.Email,
		Subscription: sub,
	}, nil
}
