// Package session реализует машину состояний пользовательской сессии клиента.
//
// Менеджер собирается в точке композиции из хранилища, API-клиента и
// переводчика; никаких глобальных синглтонов. Все операции выполняются
// последовательно одним владельцем: одновременный запуск второй операции
// во время Busy — нарушение контракта вызывающей стороны.
package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/api"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/store"
)

// State описывает фазу жизненного цикла менеджера сессии.
type State int

const (
	// StateUninitialized — до первого обращения к локальному хранилищу.
	StateUninitialized State = iota
	// StateInitializing — идёт чтение сохранённого состояния.
	StateInitializing
	// StateReady — начальная загрузка завершена; сессия может отсутствовать.
	StateReady
)

// Error описывает ошибку операции с готовым для показа сообщением.
type Error struct {
	Message string
	Err     error
}

// Error реализует интерфейс error.
func (e *Error) Error() string { return e.Message }

// Unwrap возвращает исходную ошибку.
func (e *Error) Unwrap() error { return e.Err }

// Gateway описывает используемую менеджером часть API-клиента.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.StatusResponse, error)
	SetToken(token string)
}

// Storage описывает используемую менеджером часть локального хранилища.
type Storage interface {
	Load(ctx context.Context) store.Snapshot
	SaveSession(ctx context.Context, u *model.User) error
	SaveToken(ctx context.Context, token string) error
	SetLanguage(ctx context.Context, lang string) error
	Clear(ctx context.Context) error
}

// Translator описывает используемую менеджером часть переводчика.
type Translator interface {
	T(key string, params map[string]any) string
	SetLanguage(lang string)
	Language() string
}

// Manager владеет текущей сессией пользователя и синхронизирует её
// с локальным хранилищем.
type Manager struct {
	storage    Storage
	gateway    Gateway
	translator Translator
	logger     *zap.Logger

	state State
	busy  bool
	user  *model.User
	token string
}

// NewManager создаёт менеджер сессии в состоянии StateUninitialized.
func NewManager(storage Storage, gateway Gateway, translator Translator, logger *zap.Logger) *Manager {
	return &Manager{
		storage:    storage,
		gateway:    gateway,
		translator: translator,
		logger:     logger,
		state:      StateUninitialized,
	}
}

// State возвращает текущую фазу жизненного цикла.
func (m *Manager) State() State { return m.state }

// Busy сообщает, выполняется ли сейчас сетевая операция.
func (m *Manager) Busy() bool { return m.busy }

// User возвращает текущую сессию; nil означает неавторизованного пользователя.
func (m *Manager) User() *model.User { return m.user }

// Token возвращает текущий токен авторизации.
func (m *Manager) Token() string { return m.token }

// Language возвращает текущий язык интерфейса.
func (m *Manager) Language() string { return m.translator.Language() }

// T делегирует разрешение перевода текущему переводчику.
func (m *Manager) T(key string, params map[string]any) string {
	return m.translator.T(key, params)
}

// Initialize выполняет начальную загрузку сохранённого состояния.
// Вызывается ровно один раз при старте и всегда доводит менеджер до
// StateReady: любые проблемы чтения уже проглочены хранилищем.
func (m *Manager) Initialize(ctx context.Context) {
	if m.state != StateUninitialized {
		return
	}
	m.state = StateInitializing

	snap := m.storage.Load(ctx)

	m.translator.SetLanguage(snap.Language)
	m.user = snap.User
	m.token = snap.Token
	m.gateway.SetToken(snap.Token)

	if snap.Token != "" && api.TokenExpired(snap.Token, time.Now()) {
		m.logger.Warn("stored auth token is expired")
	}

	m.state = StateReady
}

// Login выполняет вход. При успехе сессия и токен сохраняются в хранилище.
// При отказе API или сетевой ошибке сессия не меняется, а возвращаемая ошибка
// несёт готовое для показа сообщение: текст бэкенда либо общий перевод.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.busy = true
	defer func() { m.busy = false }()

	resp, err := m.gateway.Login(ctx, email, password)
	if err != nil {
		return m.operationError(err)
	}

	m.user = resp.User
	m.token = resp.Token
	m.gateway.SetToken(resp.Token)

	if err := m.storage.SaveSession(ctx, resp.User); err != nil {
		m.logger.Error("persist session failed", zap.Error(err))
	}
	if resp.Token != "" {
		if err := m.storage.SaveToken(ctx, resp.Token); err != nil {
			m.logger.Error("persist token failed", zap.Error(err))
		}
	}

	return nil
}

// Register регистрирует пользователя и возвращает сообщение об успехе.
// Автоматического входа нет. Ошибки оформляются так же, как при входе.
func (m *Manager) Register(ctx context.Context, req api.RegisterRequest) (string, error) {
	m.busy = true
	defer func() { m.busy = false }()

	resp, err := m.gateway.Register(ctx, req)
	if err != nil {
		return "", m.operationError(err)
	}

	return resp.Message, nil
}

// Logout сбрасывает сессию в памяти и в хранилище, сохраняя язык.
// С точки зрения вызывающего операция всегда успешна: ошибки очистки
// хранилища логируются и не всплывают.
func (m *Manager) Logout(ctx context.Context) {
	m.busy = true
	defer func() { m.busy = false }()

	m.user = nil
	m.token = ""
	m.gateway.SetToken("")

	if err := m.storage.Clear(ctx); err != nil {
		m.logger.Error("clear stored session failed", zap.Error(err))
	}
}

// UpdateUser заменяет сессию в памяти и сразу сохраняет её в хранилище,
// чтобы правки профиля переживали перезапуск.
func (m *Manager) UpdateUser(ctx context.Context, u *model.User) {
	m.user = u
	if u == nil {
		return
	}
	if err := m.storage.SaveSession(ctx, u); err != nil {
		m.logger.Error("persist updated session failed", zap.Error(err))
	}
}

// ChangeLanguage переключает язык интерфейса и сохраняет выбор.
// Операция не зависит от жизненного цикла сессии.
func (m *Manager) ChangeLanguage(ctx context.Context, lang string) {
	m.translator.SetLanguage(lang)
	if err := m.storage.SetLanguage(ctx, lang); err != nil {
		m.logger.Error("persist language failed", zap.Error(err))
	}
}

// operationError оборачивает ошибку операции в Error с сообщением для показа.
func (m *Manager) operationError(err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &Error{Message: apiErr.Message, Err: err}
	}
	return &Error{Message: m.translator.T("error", nil), Err: err}
}
