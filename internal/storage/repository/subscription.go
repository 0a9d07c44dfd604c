package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/alcateia-auth/internal/models"
)

// CreateSubscription вставляет подписку и строки её функций в одной транзакции.
// Возвращает ID подписки. Неизвестный пользователь даёт ErrReferenceNotFound.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription, features []models.SubscriptionFeature) (string, error) {
	const op = "storage.CreateSubscription"
	if err := ctxErr(ctx, op); err != nil {
		return "", err
	}

	id := uuid.NewString()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO subscriptions (id, user_id, plan_type, status, mercadopago_subscription_id, expires_at)
				  VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.ExecContext(ctx, query, id, sub.UserID, sub.PlanType, sub.Status,
			nullString(sub.MercadoPagoSubscriptionID), sub.ExpiresAt); err != nil {
			return referenceErr(err)
		}

		featureQuery := `INSERT INTO subscription_features (id, subscription_id, feature_type, feature_value, used_count)
						 VALUES ($1, $2, $3, $4, $5)`
		for _, f := range features {
			if _, err := tx.ExecContext(ctx, featureQuery, uuid.NewString(), id, f.FeatureType,
				f.FeatureValue, f.UsedCount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetSubscription возвращает подписку по ID.
func (s *Storage) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, plan_type, status, mercadopago_subscription_id,
				created_at, updated_at, expires_at
			  FROM subscriptions WHERE id = $1`
	var (
		sub     models.Subscription
		extRef  sql.NullString
		expires sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&sub.ID, &sub.UserID, &sub.PlanType, &sub.Status,
		&extRef, &sub.CreatedAt, &sub.UpdatedAt, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.MercadoPagoSubscriptionID = stringPtr(extRef)
	if expires.Valid {
		sub.ExpiresAt = &expires.Time
	}
	return &sub, nil
}

// GetActiveSubscription возвращает самую свежую активную подписку пользователя
// вместе с лимитами и использованием функций.
func (s *Storage) GetActiveSubscription(ctx context.Context, userID string) (*models.ActiveSubscription, error) {
	const op = "storage.GetActiveSubscription"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, plan_type, status
			  FROM subscriptions
			  WHERE user_id = $1 AND status = 'active'
			  ORDER BY created_at DESC
			  LIMIT 1`
	var result models.ActiveSubscription
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(&result.ID, &result.PlanType, &result.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT feature_type, feature_value, used_count
			  FROM subscription_features
			  WHERE subscription_id = $1`, result.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result.Features = make(map[models.FeatureType]models.FeatureUsage, len(models.FeatureTypes))
	for _, f := range models.FeatureTypes {
		result.Features[f] = models.FeatureUsage{}
	}
	for rows.Next() {
		var (
			ft    models.FeatureType
			usage models.FeatureUsage
		)
		if err := rows.Scan(&ft, &usage.Limit, &usage.Used); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Features[ft] = usage
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateStatusByExternalRef меняет статус подписок с указанной внешней ссылкой
// платёжного провайдера и возвращает количество изменённых строк.
func (s *Storage) UpdateStatusByExternalRef(ctx context.Context, externalRef string, status models.SubscriptionStatus) (int64, error) {
	const op = "storage.UpdateStatusByExternalRef"
	if err := ctxErr(ctx, op); err != nil {
		return 0, err
	}

	query := `UPDATE subscriptions
			  SET status = $1, updated_at = NOW()
			  WHERE mercadopago_subscription_id = $2`
	res, err := s.DB.ExecContext(ctx, query, status, externalRef)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

// IncrementFeatureUsage увеличивает used_count функции подписки на n.
func (s *Storage) IncrementFeatureUsage(ctx context.Context, subscriptionID string, feature models.FeatureType, n int) (int64, error) {
	const op = "storage.IncrementFeatureUsage"
	if err := ctxErr(ctx, op); err != nil {
		return 0, err
	}

	query := `UPDATE subscription_features
			  SET used_count = used_count + $1
			  WHERE subscription_id = $2 AND feature_type = $3`
	res, err := s.DB.ExecContext(ctx, query, n, subscriptionID, feature)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

// GetOwnerByExternalRef возвращает владельца подписки по внешней ссылке провайдера.
func (s *Storage) GetOwnerByExternalRef(ctx context.Context, externalRef string) (*models.User, error) {
	const op = "storage.GetOwnerByExternalRef"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT u.id, u.email, u.name, u.email_verified, u.verification_code, u.verification_expires_at,
				u.password_reset_code, u.password_reset_expires_at, u.created_at
			  FROM subscriptions s
			  JOIN users u ON u.id = s.user_id
			  WHERE s.mercadopago_subscription_id = $1
			  ORDER BY s.created_at DESC
			  LIMIT 1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, externalRef))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
