package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SubjectClaims данные субъекта, хранящиеся в JWT. ID пользователя лежит в sub.
type SubjectClaims struct {
	Email                string `json:"email"`
	Plan                 string `json:"plan,omitempty"` // тариф активной подписки, пусто если её нет
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, Subject
}

// UserID возвращает ID пользователя из claim sub.
func (c *SubjectClaims) UserID() string {
	return c.Subject
}

// GenerateToken создаёт подписанный токен субъекта.
func (j *MakerImpl) GenerateToken(userID, email, plan string) (string, error) {
	now := time.Now()
	claims := SubjectClaims{
		Email: email,
		Plan:  plan,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken проверяет подпись и срок действия токена и возвращает его claims.
func (j *MakerImpl) ParseToken(tokenStr string) (*SubjectClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &SubjectClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*SubjectClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
