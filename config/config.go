package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings read from the environment.
type Config struct {
	Env            string
	Port           string
	LogLevel       string
	JWTSecret      string
	TokenTTL       time.Duration
	GoogleClientID string
	AdminEmail     string
	AdminPassword  string
	RedisAddr      string
	RedisUser      string
	RedisPassword  string
	CacheTTL       time.Duration
	FetchBackoff   time.Duration
	AllowedOrigins []string
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env not loaded, using process environment: %v", err)
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}

// Load reads Config from the environment. LoadEnv should run first.
func Load() Config {
	return Config{
		Env:            getEnvDefault("ENV", "dev"),
		Port:           getEnvDefault("PORT", "8083"),
		LogLevel:       getEnvDefault("LOG_LEVEL", "info"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 60*24)) * time.Minute,
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisUser:      os.Getenv("REDIS_USER"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		CacheTTL:       time.Duration(getEnvInt("CACHE_TTL_MINUTES", 10)) * time.Minute,
		FetchBackoff:   time.Duration(getEnvInt("FETCH_RETRY_BACKOFF_MS", 500)) * time.Millisecond,
		AllowedOrigins: splitOrigins(os.Getenv("CORS_ORIGINS")),
	}
}

func splitOrigins(v string) []string {
	var origins []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
