package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/alcateia-auth/internal/models"
)

// CreateEmailLog добавляет запись в журнал писем и возвращает её ID.
func (s *Storage) CreateEmailLog(ctx context.Context, entry models.EmailLog) (string, error) {
	const op = "storage.CreateEmailLog"
	if err := ctxErr(ctx, op); err != nil {
		return "", err
	}

	query := `INSERT INTO email_logs (id, user_id, email_type, recipient_email, status, sent_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var id string
	if err := s.DB.QueryRowContext(ctx, query, uuid.NewString(), entry.UserID, entry.EmailType,
		entry.RecipientEmail, entry.Status, entry.SentAt).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UpdateLatestPendingEmailLog переводит самую свежую pending-запись пользователя
// указанного вида в новый статус.
func (s *Storage) UpdateLatestPendingEmailLog(ctx context.Context, userID string, emailType models.EmailType, status models.EmailStatus, at time.Time) (int64, error) {
	const op = "storage.UpdateLatestPendingEmailLog"
	if err := ctxErr(ctx, op); err != nil {
		return 0, err
	}

	query := `UPDATE email_logs
			  SET status = $1, sent_at = $2
			  WHERE id = (
			      SELECT id FROM email_logs
			      WHERE user_id = $3 AND email_type = $4 AND status = 'pending'
			      ORDER BY created_at DESC
			      LIMIT 1
			  )`
	res, err := s.DB.ExecContext(ctx, query, status, at, userID, emailType)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

// ListEmailLogs возвращает журнал писем пользователя, новые первыми.
func (s *Storage) ListEmailLogs(ctx context.Context, userID string) ([]*models.EmailLog, error) {
	const op = "storage.ListEmailLogs"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, email_type, recipient_email, status, sent_at, created_at
			  FROM email_logs
			  WHERE user_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.EmailLog
	for rows.Next() {
		var l models.EmailLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.EmailType, &l.RecipientEmail, &l.Status,
			&l.SentAt, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
