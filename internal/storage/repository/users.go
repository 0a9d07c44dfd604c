package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/alcateia-auth/internal/models"
)

const userColumns = `id, email, name, email_verified, verification_code, verification_expires_at,
			      password_reset_code, password_reset_expires_at, created_at`

// GetOrCreateUser возвращает ID пользователя по email, создавая его при первом обращении.
func (s *Storage) GetOrCreateUser(ctx context.Context, email string, name *string) (string, error) {
	const op = "storage.GetOrCreateUser"
	if err := ctxErr(ctx, op); err != nil {
		return "", err
	}

	query := `INSERT INTO users (id, email, name)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
			  RETURNING id`
	var id string
	if err := s.DB.QueryRowContext(ctx, query, uuid.NewString(), email, nullString(name)).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u                  models.User
		name, vCode, rCode sql.NullString
		vExpires, rExpires sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Email, &name, &u.EmailVerified, &vCode, &vExpires,
		&rCode, &rExpires, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Name = stringPtr(name)
	u.VerificationCode = stringPtr(vCode)
	u.PasswordResetCode = stringPtr(rCode)
	if vExpires.Valid {
		u.VerificationExpiresAt = &vExpires.Time
	}
	if rExpires.Valid {
		u.PasswordResetExpiresAt = &rExpires.Time
	}
	return &u, nil
}

// SetVerificationCode перезаписывает код подтверждения email и срок его действия.
func (s *Storage) SetVerificationCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	const op = "storage.SetVerificationCode"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users
			  SET verification_code = $1, verification_expires_at = $2, updated_at = NOW()
			  WHERE id = $3`
	if _, err := s.DB.ExecContext(ctx, query, code, expiresAt, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkEmailVerified помечает email подтверждённым и очищает код.
func (s *Storage) MarkEmailVerified(ctx context.Context, userID string) error {
	const op = "storage.MarkEmailVerified"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users
			  SET email_verified = TRUE, verification_code = NULL,
			      verification_expires_at = NULL, updated_at = NOW()
			  WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetPasswordResetCode перезаписывает код восстановления пароля и срок его действия.
func (s *Storage) SetPasswordResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	const op = "storage.SetPasswordResetCode"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users
			  SET password_reset_code = $1, password_reset_expires_at = $2, updated_at = NOW()
			  WHERE id = $3`
	if _, err := s.DB.ExecContext(ctx, query, code, expiresAt, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClearExpiredCodes обнуляет коды, срок которых строго меньше now.
// Возвращает количество очищенных кодов подтверждения и восстановления.
func (s *Storage) ClearExpiredCodes(ctx context.Context, now time.Time) (int64, int64, error) {
	const op = "storage.ClearExpiredCodes"
	if err := ctxErr(ctx, op); err != nil {
		return 0, 0, err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE users
			  SET verification_code = NULL, verification_expires_at = NULL
			  WHERE verification_expires_at < $1`, now)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	verification, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	res, err = s.DB.ExecContext(ctx, `UPDATE users
			  SET password_reset_code = NULL, password_reset_expires_at = NULL
			  WHERE password_reset_expires_at < $1`, now)
	if err != nil {
		return verification, 0, fmt.Errorf("%s: %w", op, err)
	}
	reset, err := res.RowsAffected()
	if err != nil {
		return verification, 0, fmt.Errorf("%s: %w", op, err)
	}
	return verification, reset, nil
}
