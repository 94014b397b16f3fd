package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// BaseURL is prefixed to every backend endpoint.
	BaseURL     string        `env:"DIRECTORY_BASE_URL, default=http://localhost:8080"`
	HTTPTimeout time.Duration `env:"DIRECTORY_HTTP_TIMEOUT, default=15s"`
	Env         string        `env:"ENV,       default=development"`
	LogLevel    string        `env:"LOG_LEVEL, default=info"`
	LogPretty   bool          `env:"LOG_PRETTY, default=false"`

	Session SessionConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	// Backend selects where the bearer token is persisted: "file" or "redis".
	Backend string `env:"SESSION_BACKEND, default=file"`
	// TokenPath is the token file location for the file backend. Empty means
	// a "directory-client" file under the user config directory.
	TokenPath string `env:"SESSION_TOKEN_PATH"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,  default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
