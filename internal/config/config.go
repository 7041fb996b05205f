package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized in addition to the config file.
const (
	EnvConfigPath     = "CONFIG_PATH"
	EnvDBConnection   = "DB_CONNECTION"
	EnvJWTSecret      = "JWT_SECRET"
	EnvJWTExpiry      = "JWT_EXPIRY"
	EnvSecretKey      = "SECRET_KEY"
	EnvHost           = "HOST"
	EnvPort           = "PORT"
	EnvDebug          = "DEBUG"
	EnvBaseURL        = "BASE_URL"
	EnvAllowedOrigins = "ALLOWED_ORIGINS"
	EnvRedisAddr      = "REDIS_ADDR"
	EnvRedisPassword  = "REDIS_PASSWORD"
	EnvRedisDB        = "REDIS_DB"
	EnvRateLimit      = "RATE_LIMIT"
	EnvOpenAIKey      = "OPENAI_API_KEY"
	EnvAnthropicKey   = "ANTHROPIC_API_KEY"
	EnvPayoutWallet   = "PAYOUT_WALLET"
)

// Defaults applied when neither the config file nor the environment
// provides a value.
const (
	DefaultPort        = 8001
	DefaultHost        = "0.0.0.0"
	DefaultBaseURL     = "https://vibechat.app"
	DefaultDatabaseDSN = "file:vibechat.db"
	DefaultAIModel     = "gpt-3.5-turbo"
	DefaultRedisPrefix = "vibechat:ratelimit"

	defaultJWTExpiry = 30 * 24 * time.Hour
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
}

// JWTConfig holds access-token signing settings.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// CacheConfig holds Redis settings used by the rate limiter.
type CacheConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// AIConfig holds external AI provider settings. The analysis endpoints
// are placeholders, so the keys are loaded but never dialed.
type AIConfig struct {
	DefaultModel    string `yaml:"default-model"`
	OpenAIAPIKey    string `yaml:"openai-api-key"`
	AnthropicAPIKey string `yaml:"anthropic-api-key"`
}

// BillingConfig holds Bitcoin payout settings.
type BillingConfig struct {
	PayoutWallet string `yaml:"payout-wallet"`
}

// Config is the resolved, immutable application configuration. It is
// constructed once at startup and passed to each component.
type Config struct {
	SecretKey      string
	BaseURL        string
	DatabaseDSN    string
	AllowedOrigins []string
	RateLimit      int

	Server  ServerConfig
	JWT     JWTConfig
	Cache   CacheConfig
	AI      AIConfig
	Billing BillingConfig
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = os.Getenv(EnvConfigPath)
		trimmed = strings.TrimSpace(trimmed)
	}
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// fileConfig maps the YAML layout of the config file.
type fileConfig struct {
	SecretKey      string        `yaml:"secret-key"`
	BaseURL        string        `yaml:"base-url"`
	AllowedOrigins []string      `yaml:"allowed-origins"`
	RateLimit      int           `yaml:"rate-limit"`
	Server         ServerConfig  `yaml:"server"`
	Database       struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	JWT     JWTConfig     `yaml:"jwt"`
	Cache   CacheConfig   `yaml:"cache"`
	AI      AIConfig      `yaml:"ai"`
	Billing BillingConfig `yaml:"billing"`
}

// Load reads the config file at path (if present), applies environment
// overrides, and fills in defaults. A missing config file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	var file fileConfig
	data, errRead := os.ReadFile(path)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, &file); errUnmarshal != nil {
			return Config{}, fmt.Errorf("parse config file: %w", errUnmarshal)
		}
	} else if !os.IsNotExist(errRead) {
		return Config{}, fmt.Errorf("read config file: %w", errRead)
	}

	cfg := Config{
		SecretKey:      strings.TrimSpace(file.SecretKey),
		BaseURL:        strings.TrimSpace(file.BaseURL),
		DatabaseDSN:    strings.TrimSpace(file.Database.DSN),
		AllowedOrigins: file.AllowedOrigins,
		RateLimit:      file.RateLimit,
		Server:         file.Server,
		JWT:            file.JWT,
		Cache:          file.Cache,
		AI:             file.AI,
		Billing:        file.Billing,
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvSecretKey)); v != "" {
		cfg.SecretKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDBConnection)); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAllowedOrigins)); v != "" {
		cfg.AllowedOrigins = splitOrigins(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvHost)); v != "" {
		cfg.Server.Host = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		if port, errParse := strconv.Atoi(v); errParse == nil && port > 0 && port <= 65535 {
			cfg.Server.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvDebug)); v != "" {
		if debug, errParse := strconv.ParseBool(v); errParse == nil {
			cfg.Server.Debug = debug
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRateLimit)); v != "" {
		if limit, errParse := strconv.Atoi(v); errParse == nil && limit >= 0 {
			cfg.RateLimit = limit
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvJWTSecret)); v != "" {
		cfg.JWT.Secret = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); v != "" {
		if expiry, errParse := time.ParseDuration(v); errParse == nil && expiry > 0 {
			cfg.JWT.Expiry = expiry
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisAddr)); v != "" {
		cfg.Cache.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisPassword)); v != "" {
		cfg.Cache.Password = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisDB)); v != "" {
		if db, errParse := strconv.Atoi(v); errParse == nil && db >= 0 {
			cfg.Cache.DB = db
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvOpenAIKey)); v != "" {
		cfg.AI.OpenAIAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAnthropicKey)); v != "" {
		cfg.AI.AnthropicAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPayoutWallet)); v != "" {
		cfg.Billing.PayoutWallet = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = DefaultDatabaseDSN
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.RateLimit < 0 {
		cfg.RateLimit = 0
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = cfg.SecretKey
	}
	if cfg.JWT.Expiry <= 0 {
		cfg.JWT.Expiry = defaultJWTExpiry
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = DefaultRedisPrefix
	}
	if cfg.Cache.DB < 0 {
		cfg.Cache.DB = 0
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = DefaultAIModel
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
