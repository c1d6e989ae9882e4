// Package config содержит логику чтения конфигурации клиента FoodShare.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации клиента FoodShare.
type Config struct {
	APIAddress string  `env:"FOODSHARE_API_ADDRESS"`
	StatePath  string  `env:"FOODSHARE_STATE_PATH"`
	Lat        float64 `env:"FOODSHARE_LAT"`
	Lng        float64 `env:"FOODSHARE_LNG"`
}

// Координаты по умолчанию — центр города, как в мобильном клиенте.
const (
	defaultAPIAddress = "http://localhost:5000/api"
	defaultStatePath  = "foodshare.db"
	defaultLat        = 41.0082
	defaultLng        = 28.9784
)

// Parse считывает конфигурацию из флагов командной строки и переменных
// окружения. Переменные окружения имеют приоритет над флагами.
// Вызывает flag.Parse, поэтому флаги команд нужно объявлять до вызова.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envAPIAddress := cfg.APIAddress
	envStatePath := cfg.StatePath
	envLat := cfg.Lat
	envLng := cfg.Lng

	flag.StringVar(&cfg.APIAddress, "a", defaultAPIAddress, "FoodShare API base address")
	flag.StringVar(&cfg.StatePath, "s", defaultStatePath, "path to local state file")
	flag.Float64Var(&cfg.Lat, "lat", defaultLat, "current latitude for offer search")
	flag.Float64Var(&cfg.Lng, "lng", defaultLng, "current longitude for offer search")

	flag.Parse()

	if envAPIAddress != "" {
		cfg.APIAddress = envAPIAddress
	}
	if envStatePath != "" {
		cfg.StatePath = envStatePath
	}
	if envLat != 0 {
		cfg.Lat = envLat
	}
	if envLng != 0 {
		cfg.Lng = envLng
	}

	if cfg.APIAddress == "" {
		cfg.APIAddress = defaultAPIAddress
	}
	if cfg.StatePath == "" {
		cfg.StatePath = defaultStatePath
	}

	return cfg, nil
}
