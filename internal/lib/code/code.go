// Package code генерирует одноразовые числовые коды подтверждения
// и проверяет их по сроку действия.
package code

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	// Length количество цифр в коде.
	Length = 6
	// DefaultVerificationTTL время жизни кода подтверждения email.
	DefaultVerificationTTL = 10 * time.Minute
	// DefaultPasswordResetTTL время жизни кода восстановления пароля.
	DefaultPasswordResetTTL = 15 * time.Minute
)

var (
	minCode = big.NewInt(100000)
	span    = big.NewInt(900000)
)

// Code пара из кода и момента, после которого он недействителен.
type Code struct {
	Value     string
	ExpiresAt time.Time
}

// Generator выпускает коды с заданными окнами действия.
type Generator struct {
	VerificationTTL  time.Duration
	PasswordResetTTL time.Duration
	Now              func() time.Time
}

// NewGenerator создаёт Generator; нулевые окна заменяются значениями по умолчанию.
func NewGenerator(verificationTTL, passwordResetTTL time.Duration) *Generator {
	if verificationTTL <= 0 {
		verificationTTL = DefaultVerificationTTL
	}
	if passwordResetTTL <= 0 {
		passwordResetTTL = DefaultPasswordResetTTL
	}
	return &Generator{
		VerificationTTL:  verificationTTL,
		PasswordResetTTL: passwordResetTTL,
		Now:              time.Now,
	}
}

// Generate возвращает строку из Length цифр в диапазоне [100000, 999999].
func Generate() string {
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		// crypto/rand не возвращает ошибку на поддерживаемых платформах
		panic(err)
	}
	return strconv.FormatInt(n.Add(n, minCode).Int64(), 10)
}

// VerificationCode новый код подтверждения email.
func (g *Generator) VerificationCode() Code {
	return Code{Value: Generate(), ExpiresAt: g.Now().Add(g.VerificationTTL)}
}

// PasswordResetCode новый код восстановления пароля.
func (g *Generator) PasswordResetCode() Code {
	return Code{Value: Generate(), ExpiresAt: g.Now().Add(g.PasswordResetTTL)}
}

// VerificationMinutes окно действия кода подтверждения в минутах.
func (g *Generator) VerificationMinutes() int {
	return int(g.VerificationTTL / time.Minute)
}

// PasswordResetMinutes окно действия кода восстановления в минутах.
func (g *Generator) PasswordResetMinutes() int {
	return int(g.PasswordResetTTL / time.Minute)
}

// IsValid сообщает, что срок ещё не наступил. Совпадение с now считается истёкшим.
func IsValid(expiresAt, now time.Time) bool {
	return expiresAt.After(now)
}

// Validate true только если код совпадает с сохранённым и срок не истёк.
func Validate(input, stored string, expiresAt, now time.Time) bool {
	if input == "" || stored == "" {
		return false
	}
	if !IsValid(expiresAt, now) {
		return false
	}
	return input == stored
}

// TimeRemaining оставшееся время в минутах с округлением вверх, не меньше нуля.
func TimeRemaining(expiresAt, now time.Time) int {
	diff := expiresAt.Sub(now)
	if diff <= 0 {
		return 0
	}
	minutes := diff / time.Minute
	if diff%time.Minute != 0 {
		minutes++
	}
	return int(minutes)
}
