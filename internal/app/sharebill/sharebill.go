// Package sharebill собирает основное API-приложение: хранилище, кэш,
// брокер уведомлений, бизнес-сервисы и HTTP-сервер.
package sharebill

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/sharebill/sharebill/internal/cache"
	"github.com/sharebill/sharebill/internal/config"
	"github.com/sharebill/sharebill/internal/lib/jwt"
	"github.com/sharebill/sharebill/internal/migrations"
	"github.com/sharebill/sharebill/internal/rabbitmq"
	"github.com/sharebill/sharebill/internal/services"
	"github.com/sharebill/sharebill/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы, которые нужно закрыть при останове.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает приложение: подключает зависимости, применяет миграции
// и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheStore := cache.New(ctx, cfg.RedisConnection, logger)

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, err
	}
	emailPublisher := rabbitmq.NewEmailPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := services.NewAuthService(db, jwtMaker, emailPublisher, logger)
	userService := services.NewUserService(db, emailPublisher, logger)
	catalogService := services.NewCatalogService(db, cacheStore, logger)
	subscriptionService := services.NewSubscriptionService(db, logger)
	profileService := services.NewProfileService(db, logger)
	paymentService := services.NewPaymentService(db, emailPublisher, logger)
	statementService := services.NewStatementService(db, emailPublisher, logger)
	balanceService := services.NewBalanceService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, jwtMaker, &Services{
		Auth:         authService,
		User:         userService,
		Catalog:      catalogService,
		Subscription: subscriptionService,
		Profile:      profileService,
		Payment:      paymentService,
		Statement:    statementService,
		Balance:      balanceService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста.
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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
