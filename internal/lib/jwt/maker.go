// Package jwt реализует выпуск и проверку JWT токенов сессии.
//
// Maker определяет интерфейс для создания и проверки подписанных токенов,
// несущих идентификатор пользователя и его роль.
// MakerImpl — конкретная реализация с симметричной подписью HS256,
// секретный ключ и время жизни токена задаются при создании.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен с идентификатором пользователя и ролью.
	GenerateToken(userUID, role string) (string, error)
	// ParseToken проверяет подпись и срок действия токена и возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
//
// Отзыва токенов нет: токен перестает действовать только по истечении срока,
// а смена секретного ключа разом обесценивает все выпущенные токены.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
