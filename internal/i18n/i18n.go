// Package i18n реализует разрешение локализованных строк клиента FoodShare.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// DefaultLanguage используется при первом запуске и при отсутствии сохранённого выбора.
const DefaultLanguage = "tr"

// FallbackLanguage используется, когда ключ отсутствует в текущем языке.
const FallbackLanguage = "en"

// Translator разрешает ключи перевода в строки текущего языка.
// Разрешение тотально: при отсутствии ключа возвращается ключ в верхнем регистре.
type Translator struct {
	lang   string
	tables map[string]map[string]string
	logger *zap.Logger
}

// New загружает встроенные таблицы переводов и создаёт Translator с языком по умолчанию.
func New(logger *zap.Logger) (*Translator, error) {
	tables := make(map[string]map[string]string)

	entries, err := fs.ReadDir(localesFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	for _, entry := range entries {
		data, err := localesFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", entry.Name(), err)
		}

		table := make(map[string]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", entry.Name(), err)
		}

		lang := strings.TrimSuffix(entry.Name(), ".yaml")
		tables[lang] = table
	}

	if _, ok := tables[FallbackLanguage]; !ok {
		return nil, fmt.Errorf("fallback locale %q is missing", FallbackLanguage)
	}

	return &Translator{
		lang:   DefaultLanguage,
		tables: tables,
		logger: logger,
	}, nil
}

// Language возвращает текущий язык.
func (tr *Translator) Language() string {
	return tr.lang
}

// SetLanguage переключает текущий язык. Неизвестный язык допускается:
// все ключи будут разрешаться через запасную таблицу.
func (tr *Translator) SetLanguage(lang string) {
	if lang != "" {
		tr.lang = lang
	}
}

// Languages возвращает список доступных языков.
func (tr *Translator) Languages() []string {
	langs := make([]string, 0, len(tr.tables))
	for lang := range tr.tables {
		langs = append(langs, lang)
	}
	return langs
}

// T разрешает ключ перевода. Порядок поиска: текущий язык, затем запасной.
// При полном отсутствии ключа возвращается ключ в верхнем регистре и пишется
// предупреждение в лог. Подстановки вида {name} заменяются значениями из params;
// плейсхолдеры без соответствующего параметра остаются как есть.
func (tr *Translator) T(key string, params map[string]any) string {
	value, ok := tr.tables[tr.lang][key]
	if !ok {
		value, ok = tr.tables[FallbackLanguage][key]
	}
	if !ok {
		if tr.logger != nil {
			tr.logger.Warn("missing translation key",
				zap.String("lang", tr.lang),
				zap.String("key", key),
			)
		}
		return strings.ToUpper(key)
	}

	for name, v := range params {
		value = strings.ReplaceAll(value, "{"+name+"}", fmt.Sprint(v))
	}

	return value
}
