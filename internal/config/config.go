package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	RedisAddr   string
	RedisDB     int
	JWTSecret   string
	CORSOrigins string
	ReportDir   string // working dir for pre-rendered report files
}

func Load() *Config {
	// .env is optional, real env vars win.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=warehouse port=5432 sslmode=disable"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		ReportDir:   getEnv("REPORT_DIR", os.TempDir()),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
