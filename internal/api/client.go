// Package api предоставляет HTTP-клиент бэкенда FoodShare.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
)

// APIError описывает бизнес-ошибку, о которой сообщил бэкенд (success=false).
// Message предназначен для показа пользователю.
type APIError struct {
	StatusCode int
	Message    string
}

// Error реализует интерфейс error.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// Client инкапсулирует HTTP-взаимодействие с бэкендом FoodShare.
// Повторов и бэкоффа нет: каждый вызов выполняется один раз.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient создаёт HTTP-клиент для обращения к бэкенду по указанному адресу.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken устанавливает токен авторизации для последующих запросов.
// Пустая строка сбрасывает токен.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token возвращает текущий токен авторизации.
func (c *Client) Token() string {
	return c.token
}

// StatusResponse описывает типовой ответ бэкенда с флагом успеха и сообщением.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResponse описывает ответ на запрос входа.
type LoginResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user"`
	Token   string      `json:"token,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Login выполняет вход по почте и паролю.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Message: resp.Message}
	}
	return &resp, nil
}

// RegisterRequest описывает данные регистрации нового пользователя.
type RegisterRequest struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	Role         model.Role `json:"role"`
	BusinessName string     `json:"business_name,omitempty"`
}

// Register регистрирует нового пользователя. Автоматического входа нет.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Message: resp.Message}
	}
	return &resp, nil
}

// UpdateProfileRequest описывает изменяемые поля профиля.
type UpdateProfileRequest struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

type updateProfileResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user"`
	Message string      `json:"message,omitempty"`
}

// UpdateProfile обновляет профиль и возвращает его новое состояние.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*model.User, error) {
	var resp updateProfileResponse
	if err := c.do(ctx, http.MethodPut, "/auth/update", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Message: resp.Message}
	}
	return resp.User, nil
}

// Offers запрашивает предложения рядом с указанными координатами.
func (c *Client) Offers(ctx context.Context, userID int64, lat, lng float64) ([]model.Offer, error) {
	params := url.Values{}
	params.Set("user_id", strconv.FormatInt(userID, 10))
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))

	var offers []model.Offer
	if err := c.do(ctx, http.MethodGet, "/offers?"+params.Encode(), nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// CreateOfferRequest описывает публикуемое рестораном предложение.
type CreateOfferRequest struct {
	UserID       int64  `json:"user_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Quantity     int    `json:"quantity"`
	DiscountRate int    `json:"discount_rate"`
}

// CreateOffer публикует новое предложение от имени ресторана.
func (c *Client) CreateOffer(ctx context.Context, req CreateOfferRequest) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(ctx, http.MethodPost, "/offers/create", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Message: resp.Message}
	}
	return &resp, nil
}

type claimResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	QRCode    string `json:"qr_code"`
	OfferDesc string `json:"offer_desc"`
}

// ClaimOffer бронирует предложение для студента и возвращает QR-код.
func (c *Client) ClaimOffer(ctx context.Context, userID, offerID int64) (*model.ClaimResult, error) {
	body := map[string]int64{"user_id": userID, "offer_id": offerID}

	var resp claimResponse
	if err := c.do(ctx, http.MethodPost, "/offers/claim", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Message: resp.Message}
	}
	return &model.ClaimResult{
		QRCode:    resp.QRCode,
		OfferDesc: resp.OfferDesc,
		Message:   resp.Message,
	}, nil
}

// VerifyResult описывает результат проверки QR-кода рестораном.
type VerifyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Points  int    `json:"points"`
}

// VerifyQR проверяет предъявленный QR-код и начисляет баллы ресторану.
func (c *Client) VerifyQR(ctx context.Context, qrCode string) (*VerifyResult, error) {
	body := map[string]string{"qr_code": qrCode}

	var resp VerifyResult
	if err := c.do(ctx, http.MethodPost, "/claims/verify", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Message: resp.Message}
	}
	return &resp, nil
}

// History возвращает историю бронирований студента.
func (c *Client) History(ctx context.Context, userID int64) ([]model.ClaimHistoryItem, error) {
	var items []model.ClaimHistoryItem
	path := fmt.Sprintf("/student/history/%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Leaderboard возвращает таблицу лидеров среди ресторанов.
func (c *Client) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, "/leaderboard", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AdminStats возвращает сводные показатели платформы.
func (c *Client) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminPending возвращает список пользователей, ожидающих одобрения.
func (c *Client) AdminPending(ctx context.Context) ([]model.PendingUser, error) {
	var users []model.PendingUser
	if err := c.do(ctx, http.MethodGet, "/admin/pending", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminApprove одобряет пользователя по идентификатору.
func (c *Client) AdminApprove(ctx context.Context, userID int64) (*StatusResponse, error) {
	body := map[string]int64{"user_id": userID}

	var resp StatusResponse
	if err := c.do(ctx, http.MethodPost, "/admin/approve", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Message: resp.Message}
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("api client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var status StatusResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&status); decodeErr == nil && status.Message != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: status.Message}
		}
		return &APIError{StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
