package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Feed struct {
		UserID          int           `env:"FEED_USER_ID"`
		PageSize        int           `env:"FEED_PAGE_SIZE" env-default:"10"`
		RefreshInterval time.Duration `env:"FEED_REFRESH_INTERVAL" env-default:"5m"`
	}
	Source struct {
		Driver  string        `env:"SOURCE_DRIVER" env-default:"http"`
		BaseURL string        `env:"SOURCE_BASE_URL"`
		Token   string        `env:"SOURCE_TOKEN"`
		Timeout time.Duration `env:"SOURCE_TIMEOUT" env-default:"15s"`
	}
	Redis struct {
		Addr string `env:"REDIS_ADDR" env-default:"localhost:6379"`
		Pass string `env:"REDIS_PASS"`
		DB   int    `env:"REDIS_DB" env-default:"0"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
}

// GetDSN returns the postgres connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
