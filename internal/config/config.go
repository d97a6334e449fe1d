package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	API struct {
		BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8080/api"`
		Token   string        `envconfig:"API_TOKEN"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	}

	Board struct {
		// Background full-refetch interval; 0 disables the ticker.
		RefreshInterval time.Duration `envconfig:"BOARD_REFRESH_INTERVAL" default:"60s"`
	}

	Export struct {
		Dir string `envconfig:"EXPORT_DIR" default:"./exports"`
	}

	Stub struct {
		Port int  `envconfig:"STUB_PORT" default:"8080"`
		Seed bool `envconfig:"STUB_SEED" default:"true"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
