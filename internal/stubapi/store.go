// Package stubapi реализует локальную заглушку бэкенда FoodShare.
//
// Заглушка держит всё состояние в памяти и воспроизводит контракт настоящего
// API ровно настолько, насколько его потребляет клиент: регистрация и вход,
// предложения, бронирования с QR-кодами, таблица лидеров и админ-операции.
// Используется интеграционными тестами и как локальный сервер для разработки.
package stubapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
)

// Ошибки доменных операций заглушки.
var (
	ErrEmailTaken       = errors.New("email already in use")
	ErrUserNotFound     = errors.New("user not found")
	ErrRestaurantNotFound = errors.New("restaurant profile not found")
	ErrOfferNotFound    = errors.New("offer not found")
	ErrSoldOut          = errors.New("offer sold out")
	ErrClaimNotFound    = errors.New("claim not found")
	ErrClaimUsed        = errors.New("claim already validated")
)

// User — учётная запись в заглушке.
type User struct {
	ID           int64
	Name         string
	Email        string
	Role         model.Role
	Status       string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Restaurant — профиль ресторана, создаётся при регистрации роли restaurant.
type Restaurant struct {
	ID      int64
	OwnerID int64
	Name    string
	Lat     float64
	Lng     float64
}

// Offer — предложение излишков еды.
type Offer struct {
	ID               int64
	RestaurantID     int64
	Title            string
	Description      string
	Type             string
	Quantity         int
	OriginalQuantity int
	DiscountRate     int
	Status           string
	CreatedAt        time.Time
}

// Claim — бронирование предложения студентом.
type Claim struct {
	ID          int64
	UserID      int64
	OfferID     int64
	QRCode      string
	Status      string
	Timestamp   time.Time
	ValidatedAt *time.Time
}

type leaderboardRow struct {
	points int
	meals  int
}

// Store — потокобезопасное хранилище состояния заглушки.
type Store struct {
	mu sync.Mutex

	users       map[int64]*User
	restaurants map[int64]*Restaurant
	offers      map[int64]*Offer
	claims      map[int64]*Claim
	leaderboard map[int64]*leaderboardRow

	nextUserID       int64
	nextRestaurantID int64
	nextOfferID      int64
	nextClaimID      int64
}

// NewStore создаёт пустое хранилище заглушки.
func NewStore() *Store {
	return &Store{
		users:       make(map[int64]*User),
		restaurants: make(map[int64]*Restaurant),
		offers:      make(map[int64]*Offer),
		claims:      make(map[int64]*Claim),
		leaderboard: make(map[int64]*leaderboardRow),
	}
}

// CreateUser регистрирует пользователя. Ресторан получает статус pending
// и профиль с координатами по умолчанию; студент — unverified.
func (s *Store) CreateUser(name, email string, passwordHash []byte, role model.Role, businessName string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return nil, ErrEmailTaken
		}
	}

	status := "unverified"
	if role == model.RoleRestaurant {
		status = "pending"
	}
	if role == model.RoleAdmin {
		status = "verified"
	}

	s.nextUserID++
	u := &User{
		ID:           s.nextUserID,
		Name:         name,
		Email:        email,
		Role:         role,
		Status:       status,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[u.ID] = u

	if role == model.RoleRestaurant {
		s.nextRestaurantID++
		profileName := businessName
		if profileName == "" {
			profileName = name
		}
		s.restaurants[s.nextRestaurantID] = &Restaurant{
			ID:      s.nextRestaurantID,
			OwnerID: u.ID,
			Name:    profileName,
			Lat:     41.0082,
			Lng:     28.9784,
		}
	}

	return u, nil
}

// UserByEmail возвращает пользователя по адресу почты.
func (s *Store) UserByEmail(email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// UpdateUser меняет имя и почту пользователя и возвращает новое состояние.
func (s *Store) UpdateUser(id int64, name, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if name != "" {
		u.Name = name
	}
	if email != "" {
		u.Email = email
	}
	return u, nil
}

// CreateOffer публикует предложение от ресторана, принадлежащего пользователю.
func (s *Store) CreateOffer(ownerID int64, title, description, offerType string, quantity, discountRate int) (*Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rest *Restaurant
	for _, r := range s.restaurants {
		if r.OwnerID == ownerID {
			rest = r
			break
		}
	}
	if rest == nil {
		return nil, ErrRestaurantNotFound
	}

	if offerType != model.OfferTypeDiscount {
		discountRate = 0
	}

	s.nextOfferID++
	o := &Offer{
		ID:               s.nextOfferID,
		RestaurantID:     rest.ID,
		Title:            title,
		Description:      description,
		Type:             offerType,
		Quantity:         quantity,
		OriginalQuantity: quantity,
		DiscountRate:     discountRate,
		Status:           "active",
		CreatedAt:        time.Now(),
	}
	s.offers[o.ID] = o
	return o, nil
}

// ActiveOffers возвращает активные предложения с остатком, с координатами
// ресторана и расстоянием до указанной точки, отсортированные по расстоянию.
func (s *Store) ActiveOffers(lat, lng float64) []model.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Offer, 0, len(s.offers))
	for _, o := range s.offers {
		if o.Status != "active" || o.Quantity < 1 {
			continue
		}
		rest := s.restaurants[o.RestaurantID]
		if rest == nil {
			continue
		}

		dist := haversineKm(lat, lng, rest.Lat, rest.Lng)
		out = append(out, model.Offer{
			ID:           o.ID,
			Restaurant:   rest.Name,
			Title:        o.Title,
			Description:  o.Description,
			Type:         o.Type,
			Quantity:     o.Quantity,
			DiscountRate: o.DiscountRate,
			Lat:          model.Coord(rest.Lat),
			Lng:          model.Coord(rest.Lng),
			Distance:     dist,
			Recommended:  o.Type == model.OfferTypeFree || dist < 2.0,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

// ClaimOffer бронирует предложение: уменьшает остаток, при исчерпании
// помечает предложение как sold_out и выдаёт уникальный QR-код.
func (s *Store) ClaimOffer(userID, offerID int64) (*Claim, *Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.offers[offerID]
	if !ok {
		return nil, nil, ErrOfferNotFound
	}
	if o.Quantity < 1 || o.Status != "active" {
		return nil, nil, ErrSoldOut
	}

	o.Quantity--
	if o.Quantity == 0 {
		o.Status = "sold_out"
	}

	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	s.nextClaimID++
	c := &Claim{
		ID:        s.nextClaimID,
		UserID:    userID,
		OfferID:   offerID,
		QRCode:    fmt.Sprintf("OFF-%d-USR-%d-%s", offerID, userID, suffix),
		Status:    "pending",
		Timestamp: time.Now(),
	}
	s.claims[c.ID] = c
	return c, o, nil
}

// VerifyClaim подтверждает QR-код и начисляет баллы ресторану:
// 20 за бесплатное блюдо, 10 за скидочное. Код одноразовый.
func (s *Store) VerifyClaim(qrCode string) (awarded, total int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var claim *Claim
	for _, c := range s.claims {
		if c.QRCode == qrCode {
			claim = c
			break
		}
	}
	if claim == nil {
		return 0, 0, ErrClaimNotFound
	}
	if claim.Status == "validated" {
		return 0, 0, ErrClaimUsed
	}

	now := time.Now()
	claim.Status = "validated"
	claim.ValidatedAt = &now

	o := s.offers[claim.OfferID]
	if o == nil {
		return 0, 0, nil
	}

	row := s.leaderboard[o.RestaurantID]
	if row == nil {
		row = &leaderboardRow{}
		s.leaderboard[o.RestaurantID] = row
	}

	awarded = 10
	if o.Type == model.OfferTypeFree {
		awarded = 20
	}
	row.points += awarded
	row.meals++

	return awarded, row.points, nil
}

// HistoryByUser возвращает историю бронирований пользователя, новые раньше.
func (s *Store) HistoryByUser(userID int64) []model.ClaimHistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	claims := make([]*Claim, 0)
	for _, c := range s.claims {
		if c.UserID == userID {
			claims = append(claims, c)
		}
	}
	sort.Slice(claims, func(i, j int) bool { return claims[i].Timestamp.After(claims[j].Timestamp) })

	out := make([]model.ClaimHistoryItem, 0, len(claims))
	for _, c := range claims {
		item := model.ClaimHistoryItem{
			ID:     c.ID,
			QRCode: c.QRCode,
			Status: c.Status,
			Date:   c.Timestamp.Format("02-01-2006"),
		}
		if o := s.offers[c.OfferID]; o != nil {
			item.OfferTitle = o.Title
			item.Type = o.Type
			if rest := s.restaurants[o.RestaurantID]; rest != nil {
				item.RestaurantName = rest.Name
			}
		}
		out = append(out, item)
	}
	return out
}

// Leaderboard возвращает до десяти ресторанов по убыванию баллов.
func (s *Store) Leaderboard() []model.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.LeaderboardEntry, 0, len(s.leaderboard))
	for restID, row := range s.leaderboard {
		rest := s.restaurants[restID]
		if rest == nil {
			continue
		}
		out = append(out, model.LeaderboardEntry{
			Restaurant: rest.Name,
			Points:     row.points,
			Meals:      row.meals,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if len(out) > 10 {
		out = out[:10]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Stats возвращает сводные показатели платформы для панели администратора.
func (s *Store) Stats() model.AdminStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := model.AdminStats{
		TotalRestaurants: len(s.restaurants),
		TotalClaims:      len(s.claims),
	}
	for _, u := range s.users {
		stats.TotalUsers++
		if u.Status == "pending" {
			stats.PendingApprovals++
		}
	}
	for _, o := range s.offers {
		if o.Status == "active" {
			stats.ActiveOffers++
		}
	}
	return stats
}

// PendingUsers возвращает пользователей, ожидающих одобрения.
func (s *Store) PendingUsers() []model.PendingUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.PendingUser, 0)
	for _, u := range s.users {
		if u.Status != "pending" {
			continue
		}

		detail := "Unknown"
		switch u.Role {
		case model.RoleRestaurant:
			for _, r := range s.restaurants {
				if r.OwnerID == u.ID {
					detail = r.Name
					break
				}
			}
		case model.RoleStudent:
			detail = "Student ID Available"
		}

		out = append(out, model.PendingUser{
			UserID:   u.ID,
			Name:     u.Name,
			Email:    u.Email,
			Type:     string(u.Role),
			Detail:   detail,
			JoinedAt: u.CreatedAt.Format("02-01-2006"),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// Approve переводит пользователя в статус verified.
func (s *Store) Approve(userID int64) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.Status = "verified"
	return u, nil
}
