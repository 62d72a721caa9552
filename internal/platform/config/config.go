package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr string

	// Backend REST de Annotate.
	APIBaseURL string
	APITimeout time.Duration

	// Store de sesión (token/user/theme por navegador).
	SessionBackend string
	SessionTTL     time.Duration
	SessionCookie  string
	CookieSecure   bool
	DBDSN          string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	LogLevel  string
	LogFormat string
	AppName   string

	// Throttle de login / canje de códigos por IP.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Zona para interpretar los LocalDateTime del backend.
	Location *time.Location
}

// Load lee defaults + archivo opcional (CONFIG_FILE o ./config.*) + env.
func Load() (Config, error) {
	return LoadFrom(viper.New())
}

func LoadFrom(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if err := readFile(v); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:              ":" + strings.TrimPrefix(strings.TrimSpace(v.GetString("PORT")), ":"),
		APIBaseURL:        strings.TrimRight(strings.TrimSpace(v.GetString("API_BASE_URL")), "/"),
		APITimeout:        v.GetDuration("API_TIMEOUT"),
		SessionBackend:    strings.ToLower(strings.TrimSpace(v.GetString("SESSION_BACKEND"))),
		SessionTTL:        v.GetDuration("SESSION_TTL"),
		SessionCookie:     strings.TrimSpace(v.GetString("SESSION_COOKIE")),
		CookieSecure:      v.GetBool("COOKIE_SECURE"),
		DBDSN:             strings.TrimSpace(v.GetString("DB_DSN")),
		RedisAddr:         strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		AppName:           v.GetString("APP_NAME"),
		RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
		RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),
	}

	// Sin backend explícito: DB_DSN => postgres, REDIS_ADDR => redis, si no memoria.
	if cfg.SessionBackend == "" {
		switch {
		case cfg.DBDSN != "":
			cfg.SessionBackend = BackendPostgres
		case cfg.RedisAddr != "":
			cfg.SessionBackend = BackendRedis
		default:
			cfg.SessionBackend = BackendMemory
		}
	}

	loc, err := time.LoadLocation(strings.TrimSpace(v.GetString("TIME_ZONE")))
	if err != nil {
		return Config{}, fmt.Errorf("%w: TIME_ZONE: %v", ErrInvalidConfig, err)
	}
	cfg.Location = loc

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("API_TIMEOUT", 30*time.Second)
	v.SetDefault("SESSION_BACKEND", "")
	v.SetDefault("SESSION_TTL", 7*24*time.Hour)
	v.SetDefault("SESSION_COOKIE", "annotate_session")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("DB_DSN", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_NAME", "annotate-web")
	v.SetDefault("RATE_LIMIT_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("TIME_ZONE", "Local")
	v.SetDefault("CONFIG_FILE", "")
}

func readFile(v *viper.Viper) error {
	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, file, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) validate() error {
	if c.Addr == ":" {
		return fmt.Errorf("%w: PORT required", ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(c.APIBaseURL); err != nil {
		return fmt.Errorf("%w: API_BASE_URL: %v", ErrInvalidConfig, err)
	}
	if c.SessionCookie == "" {
		return fmt.Errorf("%w: SESSION_COOKIE required", ErrInvalidConfig)
	}
	switch c.SessionBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("%w: DB_DSN required for postgres sessions", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: REDIS_ADDR required for redis sessions", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown SESSION_BACKEND %q", ErrInvalidConfig, c.SessionBackend)
	}
	return nil
}
