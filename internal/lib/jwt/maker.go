// Package jwt выпускает и проверяет токены субъекта, полученные после
// подтверждения email. Токен несёт ID пользователя, email и тариф активной подписки.
package jwt

import (
	"time"
)

// Maker описывает генерацию и разбор токенов субъекта.
type Maker interface {
	GenerateToken(userID, email, plan string) (string, error)
	ParseToken(tokenStr string) (*SubjectClaims, error)
}

// MakerImpl реализует Maker с симметричным ключом HS256.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
