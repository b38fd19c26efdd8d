package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"

	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreNone   = "none"
)

// Config holds the configuration for the application.
type Config struct {
	Env     string
	Port    string
	LogMode string

	// SitePassword is the shared secret for the access gate. Empty disables the gate.
	SitePassword string

	LLMProvider   string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	GroqAPIKey    string
	GroqModel     string

	GenerationTimeout time.Duration

	StoreBackend string
	DataDir      string
	DatabasePath string
	RedisURL     string

	// Telegram Config (optional)
	TelegramBotToken string
	TelegramChatID   int64

	Location           *time.Location
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// NewFromEnv creates a new Config object from environment variables, an
// optional .env file and an optional gohan.yaml. Missing credentials are not
// an error here; the components that need them report it when used.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("gohan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_MODE", "dev")
	v.SetDefault("LLM_PROVIDER", ProviderGemini)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
	v.SetDefault("GROQ_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("GENERATION_TIMEOUT", "2m")
	v.SetDefault("STORE_BACKEND", StoreSQLite)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("DATABASE_PATH", "data/gohan.db")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Env:           strings.ToLower(v.GetString("APP_ENV")),
		Port:          v.GetString("PORT"),
		LogMode:       v.GetString("LOG_MODE"),
		SitePassword:  v.GetString("SITE_PASSWORD"),
		LLMProvider:   strings.ToLower(v.GetString("LLM_PROVIDER")),
		GeminiAPIKey:  v.GetString("GEMINI_API_KEY"),
		GeminiModel:   v.GetString("GEMINI_MODEL"),
		OpenAIAPIKey:  v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL: v.GetString("OPENAI_BASE_URL"),
		OpenAIModel:   v.GetString("OPENAI_MODEL"),
		GroqAPIKey:    v.GetString("GROQ_API_KEY"),
		GroqModel:     v.GetString("GROQ_MODEL"),
		StoreBackend:  strings.ToLower(v.GetString("STORE_BACKEND")),
		DataDir:       v.GetString("DATA_DIR"),
		DatabasePath:  v.GetString("DATABASE_PATH"),
		RedisURL:      v.GetString("REDIS_URL"),

		TelegramBotToken: v.GetString("TELEGRAM_BOT_TOKEN"),
	}

	var err error
	if cfg.GenerationTimeout, err = parseDuration(v, "GENERATION_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDuration(v, "SHUTDOWN_TIMEOUT"); err != nil {
		return nil, err
	}

	if raw := strings.TrimSpace(v.GetString("TELEGRAM_CHAT_ID")); raw != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID is not a valid chat id: %w", err)
		}
	}

	cfg.Location = time.Local
	if tz := strings.TrimSpace(v.GetString("APP_TIMEZONE")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("APP_TIMEZONE is not a valid time zone: %w", err)
		}
		cfg.Location = loc
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	switch cfg.LLMProvider {
	case ProviderGemini, ProviderOpenAI, ProviderGroq:
	default:
		return nil, fmt.Errorf("LLM_PROVIDER %q is not supported", cfg.LLMProvider)
	}

	switch cfg.StoreBackend {
	case StoreSQLite, StoreFile, StoreMemory, StoreNone:
	case StoreRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL environment variable not set")
		}
	default:
		return nil, fmt.Errorf("STORE_BACKEND %q is not supported", cfg.StoreBackend)
	}

	return cfg, nil
}

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// LLMCredential returns the environment variable name and value of the API
// key the selected provider needs.
func (c *Config) LLMCredential() (name, value string) {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY", c.OpenAIAPIKey
	case ProviderGroq:
		return "GROQ_API_KEY", c.GroqAPIKey
	default:
		return "GEMINI_API_KEY", c.GeminiAPIKey
	}
}

// TelegramEnabled reports whether plan notifications should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
