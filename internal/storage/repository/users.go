package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/member-auth/internal/models"
)

const userColumns = `uid, name, email, password_hash, role, reset_password_token,
			      reset_password_expire, created_at, updated_at`

// CreateUser сохраняет нового пользователя в базу данных и возвращает созданную запись.
//
// Уникальность email обеспечивается уникальным индексом: из двух конкурентных
// регистраций с одинаковым email одна получает ErrEmailTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (name, email, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUID возвращает пользователя по его UID.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUserProfile частично обновляет имя и/или email пользователя.
//
// Поля со значением nil остаются без изменений. Пароль и роль через
// этот метод недостижимы.
func (s *Storage) UpdateUserProfile(ctx context.Context, userUID string, name, email *string) (*models.User, error) {
	const op = "storage.UpdateUserProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = COALESCE($2, name),
			      email = COALESCE($3, email),
			      updated_at = now()
			  WHERE uid = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID, name, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// SetResetToken записывает хэш токена сброса и срок его действия.
//
// Обновляются только два поля сброса: полная перевалидация записи
// не выполняется, остальные поля уже валидны.
func (s *Storage) SetResetToken(ctx context.Context, userUID, tokenHash string, expire time.Time) error {
	const op = "storage.SetResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET reset_password_token = $2,
			      reset_password_expire = $3,
			      updated_at = now()
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID, tokenHash, expire)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// ConsumeResetToken атомарно потребляет токен сброса: одним запросом
// сверяет хэш и срок действия, устанавливает новый хэш пароля и очищает
// оба поля сброса. Возвращает обновлённого пользователя.
//
// Из двух держателей одного токена успеет только один: второй запрос
// не найдёт строку и получит ErrResetTokenInvalid.
func (s *Storage) ConsumeResetToken(ctx context.Context, tokenHash, newPasswordHash string) (*models.User, error) {
	const op = "storage.ConsumeResetToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $2,
			      reset_password_token = NULL,
			      reset_password_expire = NULL,
			      updated_at = now()
			  WHERE reset_password_token = $1
			    AND reset_password_expire > now()
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, tokenHash, newPasswordHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrResetTokenInvalid)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var resetToken sql.NullString
	var resetExpire sql.NullTime
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&resetToken, &resetExpire, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if resetToken.Valid {
		u.ResetPasswordToken = &resetToken.String
	}
	if resetExpire.Valid {
		u.ResetPasswordExpire = &resetExpire.Time
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
