// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и жизненного цикла сброса пароля.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/member-auth/internal/apperr"
	"github.com/magabrotheeeer/member-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/member-auth/internal/lib/password"
	"github.com/magabrotheeeer/member-auth/internal/lib/resettoken"
	"github.com/magabrotheeeer/member-auth/internal/lib/sl"
	"github.com/magabrotheeeer/member-auth/internal/models"
	"github.com/magabrotheeeer/member-auth/internal/rabbitmq"
	"github.com/magabrotheeeer/member-auth/internal/storage/repository"
)

// profileCacheTTL — время жизни публичного профиля в кэше.
const profileCacheTTL = 5 * time.Minute

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает созданную запись.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)

	// GetUserByEmail возвращает пользователя по email или ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUID возвращает пользователя по UID или ErrUserNotFound.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)

	// UpdateUserProfile частично обновляет имя и/или email пользователя.
	UpdateUserProfile(ctx context.Context, userUID string, name, email *string) (*models.User, error)

	// SetResetToken записывает хэш токена сброса и срок действия.
	SetResetToken(ctx context.Context, userUID, tokenHash string, expire time.Time) error

	// ConsumeResetToken атомарно сверяет токен, меняет пароль и очищает поля сброса.
	ConsumeResetToken(ctx context.Context, tokenHash, newPasswordHash string) (*models.User, error)
}

// ProfileCache описывает контракт кэша публичных профилей.
type ProfileCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher описывает контракт публикации событий аутентификации.
type EventPublisher interface {
	Publish(event rabbitmq.Event) error
}

// AuthService отвечает за регистрацию, авторизацию, профиль и сброс пароля.
//
// Кэш и издатель событий опциональны: nil отключает соответствующую функцию.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	cache    ProfileCache
	events   EventPublisher
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, cache ProfileCache, events EventPublisher, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		cache:    cache,
		events:   events,
		log:      log,
	}
}

// NormalizeEmail приводит email к каноническому виду для хранения и поиска.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
//
// Повторная регистрация занятого email возвращает ошибку вида Conflict.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (*models.User, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: hashed,
		Role:         models.RoleUser, // дефолтная роль при регистрации
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperr.Wrap(apperr.KindConflict, "email is already registered", err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish("user.registered", created)
	return created, nil
}

// Login проверяет учётные данные и выпускает JWT.
//
// Неизвестный email и неверный пароль неразличимы для вызывающего:
// оба случая возвращают одну и ту же ошибку Unauthorized, чтобы
// по ответу нельзя было перечислять зарегистрированные адреса.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, apperr.Wrap(apperr.KindUnauthorized, "invalid credentials", err)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, apperr.Wrap(apperr.KindUnauthorized, "invalid credentials", err)
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// GetProfile возвращает публичный профиль пользователя по его UID.
//
// Профиль читается из кэша; при промахе — из хранилища с записью в кэш.
// Для пользователя, удалённого после выпуска токена, возвращается NotFound.
func (s *AuthService) GetProfile(ctx context.Context, userUID string) (*models.PublicUser, error) {
	const op = "services.auth.GetProfile"

	key := profileCacheKey(userUID)
	if s.cache != nil {
		var cached models.PublicUser
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("profile cache read failed", sl.Op(op), sl.Err(err))
		} else if found {
			return &cached, nil
		}
	}

	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, "user not found", err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	public := user.Public()
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, public, profileCacheTTL); err != nil {
			s.log.Warn("profile cache write failed", sl.Op(op), sl.Err(err))
		}
	}
	return &public, nil
}

// UpdateProfile частично обновляет имя и/или email пользователя.
//
// Пароль и роль этим путём недостижимы: патч состоит только из имени и email.
func (s *AuthService) UpdateProfile(ctx context.Context, userUID string, name, email *string) (*models.User, error) {
	const op = "services.auth.UpdateProfile"

	if email != nil {
		normalized := NormalizeEmail(*email)
		email = &normalized
	}
	user, err := s.users.UpdateUserProfile(ctx, userUID, name, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, "user not found", err)
		}
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperr.Wrap(apperr.KindConflict, "email is already registered", err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateProfile(ctx, userUID, op)
	return user, nil
}

// ForgotPassword запускает сброс пароля: выпускает секрет, сохраняет его хэш
// и срок действия на записи пользователя и возвращает секрет вызывающему.
//
// Секрет возвращается напрямую, канал доставки не входит в сервис.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	const op = "services.auth.ForgotPassword"

	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apperr.Wrap(apperr.KindNotFound, "there is no user with that email", err)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, hash, expire, err := resettoken.Generate()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.SetResetToken(ctx, user.UID, hash, expire); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ResetPassword потребляет токен сброса и устанавливает новый пароль.
//
// Сверка хэша токена, проверка срока, запись нового хэша пароля и очистка
// полей сброса выполняются одним условным обновлением в хранилище, поэтому
// из двух конкурентных попыток с одним токеном успевает только одна.
// Невалидный и истёкший токен неразличимы: оба дают Forbidden.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) (string, *models.User, error) {
	const op = "services.auth.ResetPassword"

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.ConsumeResetToken(ctx, resettoken.Hash(resetToken), hashed)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenInvalid) {
			return "", nil, apperr.Wrap(apperr.KindForbidden, "reset token is invalid or has expired", err)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateProfile(ctx, user.UID, op)
	s.publish("user.password_reset", user)

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

func (s *AuthService) invalidateProfile(ctx context.Context, userUID, op string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, profileCacheKey(userUID)); err != nil {
		s.log.Warn("profile cache invalidate failed", sl.Op(op), sl.Err(err))
	}
}

// publish отправляет событие аутентификации, ошибки только логируются:
// публикация не должна ломать основную операцию.
func (s *AuthService) publish(name string, user *models.User) {
	if s.events == nil {
		return
	}
	event := rabbitmq.Event{
		Name:       name,
		UserUID:    user.UID,
		Email:      user.Email,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(event); err != nil {
		s.log.Warn("failed to publish auth event", slog.String("event", name), sl.Err(err))
	}
}

func profileCacheKey(userUID string) string {
	return "profile:" + userUID
}
