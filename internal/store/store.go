// Package store реализует локальное хранилище состояния клиента на SQLite.
//
// Хранилище играет роль key-value стораджа устройства: язык интерфейса,
// сериализованная сессия и токен авторизации лежат под независимыми ключами
// без общей транзакции и версионирования схемы.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/i18n"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
)

// Ключи локального хранилища. Сохранены исторические имена мобильного клиента.
const (
	keyUser  = "@FoodShare_User"
	keyToken = "@FoodShare_Token"
	keyLang  = "@FoodShare_Lang"
)

// Snapshot содержит состояние, прочитанное из локального хранилища при старте.
type Snapshot struct {
	Language string
	User     *model.User
	Token    string
}

// Store предоставляет доступ к локальному key-value хранилищу клиента.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New открывает (при необходимости создаёт) файл хранилища по указанному пути.
func New(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init store schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close закрывает файл хранилища.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load читает сохранённое состояние. Операция никогда не возвращает ошибку:
// проблемы чтения или повреждённое содержимое логируются, а вызывающий
// получает значения по умолчанию (язык по умолчанию, отсутствие сессии).
func (s *Store) Load(ctx context.Context) Snapshot {
	snap := Snapshot{Language: i18n.DefaultLanguage}

	if lang, err := s.get(ctx, keyLang); err != nil {
		s.logger.Warn("load language failed", zap.Error(err))
	} else if lang != "" {
		snap.Language = lang
	}

	raw, err := s.get(ctx, keyUser)
	if err != nil {
		s.logger.Warn("load session failed", zap.Error(err))
	} else if raw != "" {
		var u model.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.logger.Warn("stored session is malformed", zap.Error(err))
		} else {
			snap.User = &u
		}
	}

	if token, err := s.get(ctx, keyToken); err != nil {
		s.logger.Warn("load token failed", zap.Error(err))
	} else {
		snap.Token = token
	}

	return snap
}

// SaveSession сериализует сессию пользователя в хранилище.
func (s *Store) SaveSession(ctx context.Context, u *model.User) error {
	if u == nil {
		return errors.New("nil session")
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.set(ctx, keyUser, string(raw))
}

// SaveToken сохраняет токен авторизации.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.set(ctx, keyToken, token)
}

// SetLanguage сохраняет выбранный язык. Язык живёт независимо от сессии.
func (s *Store) SetLanguage(ctx context.Context, lang string) error {
	return s.set(ctx, keyLang, lang)
}

// Clear удаляет сессию и токен, сохраняя языковую настройку.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?)`, keyUser, keyToken)
	if err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
