// Package resettoken реализует жизненный цикл одноразового токена сброса пароля.
//
// Generate выпускает случайный секрет, его быстрый хэш для хранения и срок действия.
// Секрет возвращается вызывающему ровно один раз и никогда не сохраняется:
// в базе остаётся только SHA-256 хэш и время истечения.
// Validate сверяет предъявленный секрет с сохранённым хэшом и сроком действия.
package resettoken

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// secretLen — размер случайного секрета в байтах (40 hex-символов).
	secretLen = 20
	// TTL — фиксированное окно действия токена сброса.
	TTL = 10 * time.Minute
)

// Generate выпускает новый токен сброса пароля.
//
// Возвращает секрет в hex-виде, SHA-256 хэш секрета для хранения
// и время истечения (сейчас + TTL).
func Generate() (token, hash string, expire time.Time, err error) {
	const op = "resettoken.Generate"
	buf := make([]byte, secretLen)
	if _, err := rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	token = hex.EncodeToString(buf)
	return token, Hash(token), time.Now().Add(TTL), nil
}

// Hash возвращает SHA-256 хэш секрета в hex-виде.
//
// Токен одноразовый и короткоживущий, поэтому достаточно быстрого
// криптографического хэша, а не медленного bcrypt.
func Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Validate проверяет предъявленный секрет против сохранённого хэша и срока действия.
//
// Возвращает true только если хэш секрета совпадает с сохранённым И срок
// ещё не истёк. Оба условия сведены в один булев результат: по ответу
// нельзя понять, какая именно проверка не прошла. Сравнение хэшей
// выполняется за постоянное время.
func Validate(token, storedHash string, expire, now time.Time) bool {
	match := subtle.ConstantTimeCompare([]byte(Hash(token)), []byte(storedHash)) == 1
	return match && now.Before(expire)
}
