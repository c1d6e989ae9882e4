// Package validation содержит функции валидации входных данных.
package validation

import (
	"strings"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
)

// IsValidEmail выполняет структурную проверку адреса почты.
// Полная RFC-валидация не нужна: окончательное слово за бэкендом.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.Contains(domain, "@") {
		return false
	}
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// IsValidOfferType проверяет, что тип предложения принадлежит закрытому перечню.
func IsValidOfferType(t string) bool {
	switch t {
	case model.OfferTypeFree, model.OfferTypeDiscount:
		return true
	}
	return false
}

// IsValidQuantity проверяет количество порций предложения.
func IsValidQuantity(n int) bool {
	return n >= 1
}

// IsValidDiscountRate проверяет процент скидки.
func IsValidDiscountRate(n int) bool {
	return n >= 0 && n <= 100
}

// IsValidQRCode выполняет минимальную проверку предъявленного QR-кода.
// Формат кода — дело бэкенда; клиент отсекает только пустой ввод.
func IsValidQRCode(code string) bool {
	return strings.TrimSpace(code) != ""
}
