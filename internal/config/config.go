package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultJWTSecret is the development fallback; production refuses to start with it.
const DefaultJWTSecret = "default_super_secret_key"

// Config holds process-level settings loaded from the environment.
// Business settings (connection string, exchange rate, platform fees) live in
// the XML Store instead, so they can be edited from the Settings page.
type Config struct {
	Port       string
	Env        string
	ConfigPath string
	LogLevel   string

	AdminUsername string
	AdminPassword string
	JWTSecret     string
	LoginRate     string

	CORSOrigins []string
}

// Load reads configs/.env and .env when present, then the environment.
func Load() *Config {
	if err := godotenv.Load("configs/.env"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Debug().Msg("no .env file found, using environment variables")
		}
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("APP_ENV", "development"),
		ConfigPath:    getEnv("CONFIG_PATH", "config.xml"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),
		JWTSecret:     getEnv("JWT_SECRET", DefaultJWTSecret),
		LoginRate:     getEnv("LOGIN_RATE", "10-M"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
	}
}

// IsProduction reports whether the process runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
