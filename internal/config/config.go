package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	FrontendURL          string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	RedisDB              int
	SnapshotTTL          time.Duration
	JWTSecret            string
	SeatTokenTTL         time.Duration
	FinishedSessionTTL   time.Duration
	IdleSessionTTL       time.Duration
	CleanupInterval      time.Duration
}

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := strings.TrimRight(GetEnv("FRONTEND_URL", "http://localhost:5173"), "/")
	allowedOrigins := []string{frontendURL}
	if frontendURL != "http://localhost:5173" {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173") // Local development
	}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	return &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		DatabaseURL:          GetEnv("DATABASE_URL", ""),
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisURL:             GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		RedisDB:              GetEnvAsInt("REDIS_DB", 0),
		SnapshotTTL:          GetEnvAsDuration("SNAPSHOT_TTL_MINUTES", 60, time.Minute),
		JWTSecret:            GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		SeatTokenTTL:         GetEnvAsDuration("SEAT_TOKEN_TTL_HOURS", 24, time.Hour),
		FinishedSessionTTL:   GetEnvAsDuration("FINISHED_SESSION_TTL_MINUTES", 60, time.Minute),
		IdleSessionTTL:       GetEnvAsDuration("IDLE_SESSION_TTL_HOURS", 24, time.Hour),
		CleanupInterval:      GetEnvAsDuration("CLEANUP_INTERVAL_MINUTES", 10, time.Minute),
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit from key
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(GetEnvAsInt(key, defaultValue)) * unit
}
