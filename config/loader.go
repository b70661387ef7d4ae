package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads .env files, an optional config.yaml and the environment, in that
// order of increasing precedence.
func Load() (*Config, error) {
	loadEnvFile()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// comma separated lists come through the environment as a single string
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = splitList(cfg.CORS.AllowedOrigins[0])
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads .env.<ENV> and falls back to .env.
func loadEnvFile() {
	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	envFile := ".env." + env
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("no %s or .env file found, using process environment", envFile)
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "invai")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", "8000")
	v.SetDefault("app.media_root", "media")
	v.SetDefault("app.media_url", "/media")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "invai")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open", 25)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.url", "")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiration_hours", 24)
	v.SetDefault("auth.cookie_name", "sessionid")
	v.SetDefault("auth.cookie_secure", false)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})

	v.SetDefault("ai.gemini_api_key", "")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.max_retries", 2)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.top_p", 0.95)
	v.SetDefault("ai.top_k", 40)
	v.SetDefault("ai.max_output_tokens", 1024)

	v.SetDefault("notifications.cleanup_days", 30)
	v.SetDefault("notifications.high_value_threshold", 1000)
	v.SetDefault("notifications.major_value_threshold", 5000)
	v.SetDefault("notifications.stream_buffer", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// bindLegacyEnv keeps the flat variable names used by existing deployments.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("ai.gemini_api_key", "AI_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("auth.jwt_expiration_hours", "AUTH_JWT_EXPIRATION_HOURS", "JWT_EXPIRATION_HOURS")
	_ = v.BindEnv("app.port", "APP_PORT", "PORT")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = v.BindEnv("redis.address", "REDIS_ADDRESS", "REDIS_ADDR")
}

func validate(cfg *Config) error {
	if cfg.Auth.JWTSecret == "" {
		if cfg.App.Environment == "production" {
			return errors.New("auth.jwt_secret is required in production")
		}
		cfg.Auth.JWTSecret = "insecure-development-secret"
	}
	if cfg.Auth.JWTExpirationHours <= 0 {
		return errors.New("auth.jwt_expiration_hours must be positive")
	}
	if cfg.AI.MaxRetries < 0 {
		return errors.New("ai.max_retries must not be negative")
	}
	if cfg.Notifications.CleanupDays <= 0 {
		return errors.New("notifications.cleanup_days must be positive")
	}
	if cfg.Notifications.MajorValueThreshold < cfg.Notifications.HighValueThreshold {
		return errors.New("notifications.major_value_threshold must not be below high_value_threshold")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
