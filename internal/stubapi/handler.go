package stubapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/middleware"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/validation"
)

// Handler реализует HTTP-обработчики заглушки бэкенда FoodShare.
type Handler struct {
	store          *Store
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика заглушки.
func NewHandler(store *Store, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		store:          store,
		logger:         logger,
		authMiddleware: auth,
	}
}

type statusBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) writeStatus(w http.ResponseWriter, code int, success bool, message string) {
	h.writeJSON(w, code, statusBody{Success: success, Message: message})
}

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	BusinessName string `json:"business_name"`
}

// Register регистрирует нового пользователя. Ресторан попадает в очередь
// на одобрение администратором и до одобрения войти не может.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, false, "Invalid request body.")
		return
	}

	if req.Name == "" || req.Password == "" || !validation.IsValidEmail(req.Email) {
		h.writeStatus(w, http.StatusBadRequest, false, "Missing or invalid registration fields.")
		return
	}

	role, ok := model.ParseRole(req.Role)
	if !ok {
		role = model.RoleStudent
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		h.writeStatus(w, http.StatusInternalServerError, false, "Server error.")
		return
	}

	if _, err := h.store.CreateUser(req.Name, req.Email, hash, role, req.BusinessName); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			h.writeStatus(w, http.StatusBadRequest, false, "This email address is already in use.")
			return
		}
		h.logger.Error("create user", zap.Error(err))
		h.writeStatus(w, http.StatusInternalServerError, false, "Server error.")
		return
	}

	msg := "Registration successful! You can log in."
	if role == model.RoleRestaurant {
		msg = "Application received. You can log in after admin approval."
	}
	h.writeStatus(w, http.StatusCreated, true, msg)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user,omitempty"`
	Token   string      `json:"token,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Login выполняет вход и выдаёт JWT-токен.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, false, "Invalid request body.")
		return
	}

	u, err := h.store.UserByEmail(req.Email)
	if err != nil || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		h.writeStatus(w, http.StatusUnauthorized, false, "Invalid email or password.")
		return
	}

	if u.Role == model.RoleRestaurant && u.Status != "verified" {
		h.writeStatus(w, http.StatusForbidden, false, "Your application is pending admin approval.")
		return
	}

	token, err := h.authMiddleware.IssueToken(u.ID, u.Role)
	if err != nil {
		h.logger.Error("issue token", zap.Error(err))
		h.writeStatus(w, http.StatusInternalServerError, false, "Server error.")
		return
	}

	h.writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		User: &model.User{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Role:   u.Role,
			Status: u.Status,
		},
		Token: token,
	})
}

type updateProfileRequest struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type updateProfileResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user,omitempty"`
	Message string      `json:"message,omitempty"`
}

// UpdateProfile обновляет имя и почту пользователя.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, false, "Invalid request body.")
		return
	}

	u, err := h.store.UpdateUser(req.UserID, req.Name, req.Email)
	if err != nil {
		h.writeStatus(w, http.StatusNotFound, false, "User not found.")
		return
	}

	h.writeJSON(w, http.StatusOK, updateProfileResponse{
		Success: true,
		User: &model.User{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Role:   u.Role,
			Status: u.Status,
		},
	})
}

// Offers возвращает активные предложения, отсортированные по расстоянию
// до координат из строки запроса.
func (h *Handler) Offers(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		lat = 41.0082
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		lng = 28.9784
	}

	h.writeJSON(w, http.StatusOK, h.store.ActiveOffers(lat, lng))
}

type createOfferRequest struct {
	UserID       int64  `json:"user_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Quantity     int    `json:"quantity"`
	DiscountRate int    `json:"discount_rate"`
}

// CreateOffer публикует предложение от имени ресторана.
func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var req createOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, false, "Invalid request body.")
		return
	}

	if req.Title == "" || !validation.IsValidOfferType(req.Type) ||
		!validation.IsValidQuantity(req.Quantity) || !validation.IsValidDiscountRate(req.DiscountRate) {
		h.writeStatus(w, http.StatusBadRequest, false, "Missing or invalid offer fields.")
		return
	}

	if _, err := h.store.CreateOffer(req.UserID, req.Title, req.Description, req.Type, req.Quantity, req.DiscountRate); err != nil {
		if errors.Is(err, ErrRestaurantNotFound) {
			h.writeStatus(w, http.StatusNotFound, false, "Restaurant profile not found.")
			return
		}
		h.logger.Error("create offer", zap.Error(err))
		h.writeStatus(w, http.StatusInternalServerError, false, "Server error.")
		return
	}

	h.writeStatus(w, http.StatusCreated, true, "Offer published successfully!")
}

type claimRequest struct {
	UserID  int64 `json:"user_id"`
	OfferID int64 `json:"offer_id"`
}

type claimResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	QRCode    string `json:"qr_code,omitempty"`
	OfferDesc string `json:"offer_desc,omitempty"`
}

// Claim бронирует предложение и возвращает QR-код для выдачи.
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, false, "Invalid request body.")
		return
	}

	claim, offer, err := h.store.ClaimOffer(req.UserID, req.OfferID)
	if err != nil {
		switch {
		case errors.Is(err, ErrOfferNotFound):
			h.writeStatus(w, http.StatusNotFound, false, "Offer not found.")
		case errors.Is(err, ErrSoldOut):
			h.writeStatus(w, http.StatusBadRequest, false, "Sorry, this item is sold out.")
		default:
			h.logger.Error("claim offer", zap.Error(err))
			h.writeStatus(w, http.StatusInternalServerError, false, "Processing error.")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, claimResponse{
		Success:   true,
		Message:   "Meal reserved! Your QR Code has been generated.",
		QRCode:    claim.QRCode,
		OfferDesc: offer.Description,
	})
}

type verifyRequest struct {
	QRCode string `json:"qr_code"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Points  int    `json:"points"`
}

// Verify подтверждает предъявленный QR-код и начисляет баллы ресторану.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, false, "Invalid request body.")
		return
	}

	if !validation.IsValidQRCode(req.QRCode) {
		h.writeStatus(w, http.StatusBadRequest, false, "Invalid QR Code.")
		return
	}

	awarded, total, err := h.store.VerifyClaim(req.QRCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrClaimNotFound):
			h.writeStatus(w, http.StatusNotFound, false, "Invalid QR Code. Claim not found.")
		case errors.Is(err, ErrClaimUsed):
			h.writeStatus(w, http.StatusBadRequest, false, "This code has already been used!")
		default:
			h.logger.Error("verify claim", zap.Error(err))
			h.writeStatus(w, http.StatusInternalServerError, false, "Verification server error.")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, verifyResponse{
		Success: true,
		Message: "Validation Successful! You earned +" + strconv.Itoa(awarded) + " Points.",
		Points:  total,
	})
}

// History возвращает историю бронирований студента.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, false, "Invalid user id.")
		return
	}

	h.writeJSON(w, http.StatusOK, h.store.HistoryByUser(userID))
}

// Leaderboard возвращает таблицу лидеров среди ресторанов.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Leaderboard())
}

// AdminStats возвращает сводные показатели платформы.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Stats())
}

// AdminPending возвращает пользователей в очереди на одобрение.
func (h *Handler) AdminPending(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.PendingUsers())
}

type approveRequest struct {
	UserID int64 `json:"user_id"`
}

// AdminApprove одобряет пользователя.
func (h *Handler) AdminApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, false, "Invalid request body.")
		return
	}

	u, err := h.store.Approve(req.UserID)
	if err != nil {
		h.writeStatus(w, http.StatusNotFound, false, "User not found.")
		return
	}

	h.writeStatus(w, http.StatusOK, true, u.Name+" successfully approved.")
}
