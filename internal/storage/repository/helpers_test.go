package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/alcateia-auth/internal/migrations"
	"github.com/magabrotheeeer/alcateia-auth/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))
	require.NoError(t, CheckDatabaseReady(storage))

	return storage
}

// testDataFactory создаёт тестовые записи напрямую через хранилище.
type testDataFactory struct {
	t       *testing.T
	storage *Storage
}

func newTestDataFactory(t *testing.T, storage *Storage) *testDataFactory {
	return &testDataFactory{t: t, storage: storage}
}

func (f *testDataFactory) user(email string) string {
	id, err := f.storage.GetOrCreateUser(context.Background(), email, nil)
	require.NoError(f.t, err)
	return id
}

func (f *testDataFactory) subscription(userID string, plan models.PlanType, status models.SubscriptionStatus, ref string) string {
	features := []models.SubscriptionFeature{
		{FeatureType: models.FeatureMusicLimit, FeatureValue: 2},
		{FeatureType: models.FeatureProducerSessions, FeatureValue: 1},
		{FeatureType: models.FeatureDomainRegistration, FeatureValue: 0},
	}
	var extRef *string
	if ref != "" {
		extRef = &ref
	}
	id, err := f.storage.CreateSubscription(context.Background(), models.Subscription{
		UserID:                    userID,
		PlanType:                  plan,
		Status:                    status,
		MercadoPagoSubscriptionID: extRef,
	}, features)
	require.NoError(f.t, err)
	return id
}
