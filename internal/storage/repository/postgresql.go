// Package repository реализует хранилище данных на основе PostgreSQL
// для управления пользователями. Предоставляет методы создания и чтения
// учётных записей, частичного обновления профиля и атомарной работы
// с токеном сброса пароля.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища. Бизнес-уровень переводит их в типизированные
// ошибки apperr, наружу они не выдаются.
var (
	// ErrUserNotFound — пользователь с заданным идентификатором или email отсутствует.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken — нарушение уникального индекса по email.
	ErrEmailTaken = errors.New("email is already taken")
	// ErrResetTokenInvalid — токен сброса не совпал или его срок истёк.
	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
