package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/alcateia-auth/internal/models"
)

// CreateProducerSession добавляет бронирование сессии и возвращает его ID.
// Неизвестная подписка даёт ErrReferenceNotFound.
func (s *Storage) CreateProducerSession(ctx context.Context, session models.ProducerSession) (string, error) {
	const op = "storage.CreateProducerSession"
	if err := ctxErr(ctx, op); err != nil {
		return "", err
	}

	query := `INSERT INTO producer_sessions (id, subscription_id, producer_name, session_date, notes)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var id string
	if err := s.DB.QueryRowContext(ctx, query, uuid.NewString(), session.SubscriptionID,
		session.ProducerName, session.SessionDate, nullString(session.Notes)).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: %w", op, referenceErr(err))
	}
	return id, nil
}

// ListProducerSessions возвращает сессии подписки, самые поздние по дате первыми.
func (s *Storage) ListProducerSessions(ctx context.Context, subscriptionID string) ([]*models.ProducerSession, error) {
	const op = "storage.ListProducerSessions"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, subscription_id, producer_name, session_date, notes, created_at
			  FROM producer_sessions
			  WHERE subscription_id = $1
			  ORDER BY session_date DESC, created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.ProducerSession, 0)
	for rows.Next() {
		var (
			ps    models.ProducerSession
			notes sql.NullString
		)
		if err := rows.Scan(&ps.ID, &ps.SubscriptionID, &ps.ProducerName, &ps.SessionDate,
			&notes, &ps.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps.Notes = stringPtr(notes)
		result = append(result, &ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateContentAccess записывает событие доступа к контенту.
// Неизвестный пользователь даёт ErrReferenceNotFound.
func (s *Storage) CreateContentAccess(ctx context.Context, access models.ContentAccess) (string, error) {
	const op = "storage.CreateContentAccess"
	if err := ctxErr(ctx, op); err != nil {
		return "", err
	}

	query := `INSERT INTO content_access (id, user_id, content_type, content_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var id string
	if err := s.DB.QueryRowContext(ctx, query, uuid.NewString(), access.UserID,
		access.ContentType, access.ContentID).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: %w", op, referenceErr(err))
	}
	return id, nil
}

// ListContentAccess возвращает события доступа пользователя, новые первыми.
func (s *Storage) ListContentAccess(ctx context.Context, userID string) ([]*models.ContentAccess, error) {
	const op = "storage.ListContentAccess"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, content_type, content_id, accessed_at
			  FROM content_access
			  WHERE user_id = $1
			  ORDER BY accessed_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.ContentAccess, 0)
	for rows.Next() {
		var a models.ContentAccess
		if err := rows.Scan(&a.ID, &a.UserID, &a.ContentType, &a.ContentID, &a.AccessedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
