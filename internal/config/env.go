package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-change-me"

var defaultCorsOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

type Env struct {
	AppAddr          string
	GinMode          string
	DBDriver         string
	DBDSN            string
	JWTSecret        string
	CorsOrigins      []string
	AliasesFile      string
	LogoFetchTimeout time.Duration
	LogoAllowedHosts []string
	MaxLogoBytes     int64
}

// LoadEnv reads an optional .env file and then the process environment.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[CONFIG] .env not loaded: %v", err)
	}

	env := Env{
		AppAddr:          getEnv("APP_ADDR", ":8080"),
		GinMode:          strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "")),
		DBDSN:            strings.TrimSpace(os.Getenv("DB_DSN")),
		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET")),
		CorsOrigins:      splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
		AliasesFile:      strings.TrimSpace(os.Getenv("TICKET_ALIASES_FILE")),
		LogoFetchTimeout: getDuration("LOGO_FETCH_TIMEOUT", 10*time.Second),
		LogoAllowedHosts: splitCSV(os.Getenv("LOGO_ALLOWED_HOSTS")),
		MaxLogoBytes:     getInt64("MAX_LOGO_BYTES", 2<<20),
	}
	if len(env.CorsOrigins) == 0 {
		env.CorsOrigins = defaultCorsOrigins
	}
	if env.DBDriver == "" {
		env.DBDriver = DriverMemory
		if env.DBDSN != "" {
			env.DBDriver = DriverMySQL
		}
	}
	if env.JWTSecret == "" && env.GinMode != gin.ReleaseMode {
		env.JWTSecret = devJWTSecret
		log.Printf("[CONFIG] JWT_SECRET not set, using development secret")
	}
	return env
}

// Validate reports settings the server must not start without.
func (e Env) Validate() error {
	if e.JWTSecret == "" || (e.GinMode == gin.ReleaseMode && e.JWTSecret == devJWTSecret) {
		return errors.New("JWT_SECRET is required when GIN_MODE=release")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("[CONFIG] invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("[CONFIG] invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
