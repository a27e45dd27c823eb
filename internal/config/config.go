package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/resume-assistant/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// DefaultBackendURL is used when neither BACKEND_URL nor BuildBackendURL is set
const DefaultBackendURL = "http://localhost:8000"

// BuildBackendURL can be set at build time:
//
//	go build -ldflags "-X github.com/futig/resume-assistant/internal/config.BuildBackendURL=https://api.example.com"
var BuildBackendURL string

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":3000"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	// Resume analysis backend
	BackendCfg BackendConnectorConfig `envPrefix:"BACKEND_"`

	// Web view
	WebCfg WebConfig `envPrefix:"WEB_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

type BackendConnectorConfig struct {
	HTTPClientConfig
	UploadEndpoint   string `env:"UPLOAD_ENDPOINT" envDefault:"/upload"`
	AskEndpoint      string `env:"ASK_ENDPOINT" envDefault:"/ask"`
	FitScoreEndpoint string `env:"FIT_SCORE_ENDPOINT" envDefault:"/fit-score"`
}

// HTTPClientConfig defaults to the platform transport settings and no request timeout
type HTTPClientConfig struct {
	Url                   string        `env:"URL"`
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"0s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"30s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"30s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"0s"`
}

// WebConfig holds the browser session and upload limits
type WebConfig struct {
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	CookieName    string        `env:"COOKIE_NAME" envDefault:"resume_session"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"false"`
	MaxUploadSize int64         `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB
	WriteTimeout  time.Duration `env:"WRITE_TIMEOUT" envDefault:"5m"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string               `env:"BOT_TOKEN"`
	UpdateTimeout      int                  `env:"UPDATE_TIMEOUT" envDefault:"60"`
	ShutdownTimeout    time.Duration        `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MaxFileSize        int64                `env:"MAX_FILE_SIZE" envDefault:"20971520"` // Bot API download limit
	DownloadTimeout    time.Duration        `env:"DOWNLOAD_TIMEOUT" envDefault:"60s"`
	RateLimitPerMinute int                  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int                  `env:"RATE_LIMIT_BURST" envDefault:"5"`
	Retry              pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// Validate checks the settings only the Telegram bot needs
func (c *TelegramConfig) Validate() error {
	var errs []string

	if c.BotToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}
	if c.MaxFileSize < 1 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_MAX_FILE_SIZE must be positive, got %d", c.MaxFileSize))
	}
	if c.RateLimitPerMinute < 1 || c.RateLimitBurst < 1 {
		errs = append(errs, "TELEGRAM_RATE_LIMIT_PER_MINUTE and TELEGRAM_RATE_LIMIT_BURST must be positive")
	}
	if c.Retry.Attempts < 1 {
		errs = append(errs, "TELEGRAM_RETRY_ATTEMPTS must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("telegram configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LoadConfig reads the -env flag and loads configuration for that environment
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load loads .env.<environment> if present, then parses the process environment
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s file: %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment
	cfg.BackendCfg.Url = resolveBackendURL(cfg.BackendCfg.Url)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func resolveBackendURL(fromEnv string) string {
	switch {
	case fromEnv != "":
		return fromEnv
	case BuildBackendURL != "":
		return BuildBackendURL
	default:
		return DefaultBackendURL
	}
}

func validateConfig(cfg *Config) error {
	var errs []string

	if !strings.HasPrefix(cfg.BackendCfg.Url, "http://") && !strings.HasPrefix(cfg.BackendCfg.Url, "https://") {
		errs = append(errs, fmt.Sprintf("BACKEND_URL must be an http(s) URL, got %q", cfg.BackendCfg.Url))
	}

	if cfg.WebCfg.MaxUploadSize < 1 {
		errs = append(errs, fmt.Sprintf("WEB_MAX_UPLOAD_SIZE must be positive, got %d", cfg.WebCfg.MaxUploadSize))
	}

	if cfg.WebCfg.SessionTTL <= 0 {
		errs = append(errs, fmt.Sprintf("WEB_SESSION_TTL must be positive, got %s", cfg.WebCfg.SessionTTL))
	}

	if cfg.WebCfg.CookieName == "" {
		errs = append(errs, "WEB_COOKIE_NAME must not be empty")
	}

	if cfg.BackendCfg.RequestTimeout < 0 {
		errs = append(errs, fmt.Sprintf("BACKEND_TIMEOUT must not be negative, got %s", cfg.BackendCfg.RequestTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
