package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"

	_ "github.com/magabrotheeeer/alcateia-auth/docs" // swagger spec
	"github.com/magabrotheeeer/alcateia-auth/internal/config"
	"github.com/magabrotheeeer/alcateia-auth/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/alcateia-auth/internal/http/handlers/auth/register"
	contentaccess "github.com/magabrotheeeer/alcateia-auth/internal/http/handlers/content/access"
	contentlist "github.com/magabrotheeeer/alcateia-auth/internal/http/handlers/content/list"
	"github.com/magabrotheeeer/alcateia-auth/internal/http/handlers/email"
	"github.com/magabrotheeeer/alcateia-auth/internal/http/handlers/health"
	"github.com/magabrotheeeer/alcateia-auth/internal/http/handlers/payment/paymentwebhook"
	sessioncreate "github.com/magabrotheeeer/alcateia-auth/internal/http/handlers/session/create"
	sessionlist "github.com/magabrotheeeer/alcateia-auth/internal/http/handlers/session/list"
	subscriptioncreate "github.com/magabrotheeeer/alcateia-auth/internal/http/handlers/subscription/create"
	subscriptionread "github.com/magabrotheeeer/alcateia-auth/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/code"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/locker"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/metrics"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/alcateia-auth/internal/lib/sl"
	"github.com/magabrotheeeer/alcateia-auth/internal/migrations"
	authservice "github.com/magabrotheeeer/alcateia-auth/internal/services/auth"
	ledgerservice "github.com/magabrotheeeer/alcateia-auth/internal/services/ledger"
	"github.com/magabrotheeeer/alcateia-auth/internal/services/notification"
	paymentservice "github.com/magabrotheeeer/alcateia-auth/internal/services/payment"
	subservice "github.com/magabrotheeeer/alcateia-auth/internal/services/subscription"
	"github.com/magabrotheeeer/alcateia-auth/internal/services/verification"
	"github.com/magabrotheeeer/alcateia-auth/internal/storage/repository"
)

// App HTTP API сервиса.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	redis  *redis.Client
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New подключает хранилище, применяет миграции и собирает маршруты.
// Redis и RabbitMQ необязательны: без адреса используются заглушки.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{logger: logger, db: db}

	var lk verification.Locker = locker.Nop{}
	if cfg.AddressRedis != "" {
		a.redis, err = locker.InitClient(ctx, cfg.RedisConnection)
		if err != nil {
			a.close()
			return nil, err
		}
		lk = locker.New(a.redis, cfg.LockTTL)
	} else {
		logger.Warn("redis address is empty, per-user locking disabled")
	}

	var publisher paymentservice.Publisher = rabbitmq.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		a.conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
		}
		a.ch, err = rabbitmq.SetupChannel(a.conn, rabbitmq.GetSubscriptionQueues())
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
		}
		publisher = rabbitmq.NewPublisher(a.ch)
	} else {
		logger.Warn("rabbitmq url is empty, subscription events are not published")
	}

	transport, err := notification.NewTransport(cfg.Email, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	subscriptionService := subservice.NewService(db, subservice.DefaultPlans(), logger)
	authService := authservice.NewService(db, subscriptionService, jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL))
	notificationService := notification.NewService(transport, db, m, logger)
	verificationService := verification.NewService(db, notificationService, lk, authService, m,
		code.NewGenerator(cfg.VerificationTTL, cfg.PasswordResetTTL), logger)
	ledgerService := ledgerservice.NewService(db, subscriptionService, logger)
	paymentService := paymentservice.NewService(subscriptionService, publisher, logger)

	emailHandler := email.New(logger, verificationService, notificationService)

	router := chi.NewRouter()
	RegisterRoutes(router, RouterDeps{
		Log:      logger,
		CORS:     cfg.CORS,
		Limit:    cfg.RateLimit,
		Auth:     authService,
		Metrics:  m,
		Gatherer: reg,
	}, Handlers{
		EmailVerify:          emailHandler.Verify,
		EmailVerifyCode:      emailHandler.VerifyCode,
		EmailPasswordReset:   emailHandler.PasswordReset,
		EmailVerifyResetCode: emailHandler.VerifyResetCode,
		EmailWelcome:         emailHandler.Welcome,
		Register:             register.New(logger, authService),
		Me:                   me.New(logger, authService),
		SubscriptionCreate:   subscriptioncreate.New(logger, subscriptionService),
		SubscriptionRead:     subscriptionread.New(logger, subscriptionService),
		SessionCreate:        sessioncreate.New(logger, ledgerService),
		SessionList:          sessionlist.New(logger, ledgerService),
		ContentAccess:        contentaccess.New(logger, ledgerService),
		ContentList:          contentlist.New(logger, ledgerService),
		Webhook:              paymentwebhook.New(logger, paymentService, cfg.WebhookSecret),
		Health:               health.New(logger, db.DB),
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер за 15 секунд.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}
