package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry возвращается, когда токен не содержит срока действия.
var ErrNoExpiry = errors.New("token has no expiry claim")

// TokenExpiry извлекает срок действия из JWT без проверки подписи.
// Подпись принадлежит бэкенду; клиент использует срок только для диагностики
// устаревшей сессии при старте.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("expiry claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}

	return exp.Time, nil
}

// TokenExpired сообщает, истёк ли срок действия токена.
// Токен без срока действия считается действующим.
func TokenExpired(token string, now time.Time) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return false
	}
	return exp.Before(now)
}
