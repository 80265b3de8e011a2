// Package memberauth собирает зависимости сервиса аутентификации
// и управляет жизненным циклом HTTP-сервера.
package memberauth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/member-auth/internal/cache"
	"github.com/magabrotheeeer/member-auth/internal/config"
	"github.com/magabrotheeeer/member-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/member-auth/internal/lib/sl"
	"github.com/magabrotheeeer/member-auth/internal/migrations"
	"github.com/magabrotheeeer/member-auth/internal/rabbitmq"
	services "github.com/magabrotheeeer/member-auth/internal/services/auth"
	"github.com/magabrotheeeer/member-auth/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		// Кэш профилей опционален: без Redis сервис работает напрямую с базой.
		logger.Warn("redis unavailable, profile cache disabled", sl.Err(err))
		cacheRedis = nil
	}

	// Поток событий опционален: любая ошибка подключения или настройки
	// канала отключает публикацию, но не мешает старту сервиса.
	var publisher *rabbitmq.Publisher
	conn, err := rabbitmq.Connect(cfg.RabbitConnection.AddressRabbit,
		cfg.RabbitConnection.RetriesRabbit, cfg.RabbitConnection.DelayRabbit)
	if err != nil {
		logger.Warn("rabbitmq unavailable, auth events disabled", sl.Err(err))
	} else if ch, err := rabbitmq.SetupChannel(conn); err != nil {
		logger.Warn("rabbitmq channel setup failed, auth events disabled", sl.Err(err))
	} else {
		publisher = rabbitmq.NewPublisher(ch)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	authService := services.NewAuthService(db, jwtMaker,
		cacheOrNil(cacheRedis), publisherOrNil(publisher), logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, jwtMaker)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

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
		a.db.DB.Close()
		return err
	}
}

// cacheOrNil превращает нулевой указатель в нулевой интерфейс,
// чтобы проверка s.cache == nil в сервисе работала корректно.
func cacheOrNil(c *cache.Cache) services.ProfileCache {
	if c == nil {
		return nil
	}
	return c
}

func publisherOrNil(p *rabbitmq.Publisher) services.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
