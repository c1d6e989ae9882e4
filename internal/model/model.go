// Package model содержит доменные сущности клиента FoodShare.
package model

import (
	"math"
	"strconv"
	"strings"
)

// Role описывает роль пользователя в системе.
type Role string

const (
	RoleStudent    Role = "student"
	RoleRestaurant Role = "restaurant"
	RoleAdmin      Role = "admin"
)

// ParseRole приводит строку из API к известной роли.
// Неизвестная роль возвращается как есть вместе с признаком ok=false.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleStudent, RoleRestaurant, RoleAdmin:
		return r, true
	}
	return r, false
}

// User представляет авторизованного пользователя (сессию) клиента.
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Status string `json:"status"`
}

// Типы предложений еды.
const (
	OfferTypeFree     = "free"
	OfferTypeDiscount = "discount"
)

// Coord принимает координату из JSON как число или строку.
// Нечисловое значение превращается в NaN и отбрасывается при санации списка.
type Coord float64

// UnmarshalJSON реализует разбор числового или строкового представления координаты.
func (c *Coord) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*c = Coord(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*c = Coord(math.NaN())
		return nil
	}
	*c = Coord(v)
	return nil
}

// Valid сообщает, является ли координата конечным числом.
func (c Coord) Valid() bool {
	v := float64(c)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Offer описывает предложение излишков еды от ресторана.
type Offer struct {
	ID           int64   `json:"id"`
	Restaurant   string  `json:"restaurant"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	Quantity     int     `json:"quantity"`
	DiscountRate int     `json:"discount_rate"`
	Lat          Coord   `json:"lat"`
	Lng          Coord   `json:"lng"`
	Distance     float64 `json:"distance,omitempty"`
	Recommended  bool    `json:"is_recommended,omitempty"`
}

// ClaimHistoryItem описывает одну запись истории бронирований студента.
// Запись неизменяема после получения и служит входом для расчёта игровых метрик.
type ClaimHistoryItem struct {
	ID             int64  `json:"id"`
	RestaurantName string `json:"restaurant_name"`
	OfferTitle     string `json:"offer_title"`
	Type           string `json:"type"`
	Date           string `json:"date"`
	QRCode         string `json:"qr_code"`
	Status         string `json:"status"`
}

// ClaimResult описывает результат бронирования предложения.
type ClaimResult struct {
	QRCode    string `json:"qr_code"`
	OfferDesc string `json:"offer_desc"`
	Message   string `json:"message"`
}

// DerivedStats содержит игровые метрики, вычисленные из истории бронирований.
// Метрики пересчитываются целиком при каждой загрузке истории и нигде не сохраняются.
type DerivedStats struct {
	TotalOrders     int
	FreeCount       int
	DiscountCount   int
	Points          int
	Rank            int
	NextLevelPoints int
}

// LeaderboardEntry описывает позицию ресторана в таблице лидеров.
type LeaderboardEntry struct {
	Restaurant string `json:"restaurant"`
	Points     int    `json:"points"`
	Meals      int    `json:"meals"`
	Rank       int    `json:"rank,omitempty"`
}

// AdminStats содержит сводные показатели для панели администратора.
type AdminStats struct {
	TotalUsers       int `json:"total_users"`
	TotalRestaurants int `json:"total_restaurants"`
	ActiveOffers     int `json:"active_offers"`
	TotalClaims      int `json:"total_claims"`
	PendingApprovals int `json:"pending_approvals"`
}

// PendingUser описывает пользователя, ожидающего одобрения администратором.
type PendingUser struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Type     string `json:"type"`
	Detail   string `json:"detail"`
	Doc      string `json:"doc,omitempty"`
	JoinedAt string `json:"joined_at"`
}
