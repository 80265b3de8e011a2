// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и поля сброса пароля.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователя.
const (
	RoleUser      = "user"
	RolePublisher = "publisher"
)

// User представляет зарегистрированного пользователя системы.
//
// PasswordHash, ResetPasswordToken и ResetPasswordExpire никогда не попадают
// в ответы API: наружу пользователь выдаётся проекцией Public.
// ResetPasswordToken и ResetPasswordExpire устанавливаются и очищаются
// только вместе.
type User struct {
	UID                 string     // Уникальный идентификатор пользователя
	Name                string     // Имя пользователя
	Email               string     // Электронная почта (уникальная, нормализованная)
	PasswordHash        string     // Хэш пароля пользователя
	Role                string     // Роль пользователя, user или publisher
	ResetPasswordToken  *string    // SHA-256 хэш секрета сброса пароля
	ResetPasswordExpire *time.Time // Время истечения токена сброса
	CreatedAt           time.Time  // Время создания записи
	UpdatedAt           time.Time  // Время последнего изменения записи
}

// PublicUser — подмножество полей User, безопасное для выдачи владельцу.
type PublicUser struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public возвращает проекцию пользователя без хэша пароля и полей сброса.
func (u *User) Public() PublicUser {
	return PublicUser{
		UID:       u.UID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
