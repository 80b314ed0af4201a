// Package config reads the service configuration from the environment.
// Variables may also come from a .env file in the working directory.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds every runtime setting of the service.
type Config struct {
	Host string
	Port int

	DB DBConfig

	CORSAllowedOrigins []string

	// RateLimitRPS of zero disables the limiter.
	RateLimitRPS   float64
	RateLimitBurst int
}

// DBConfig describes how to reach PostgreSQL and how to size the pool.
type DBConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	LogLevel        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Load builds a Config from environment variables, applying defaults for
// anything unset. Malformed numbers fall back to the default with a warning.
func Load() Config {
	return Config{
		Host: envString("HOST", "0.0.0.0"),
		Port: envInt("PORT", 3000),
		DB: DBConfig{
			Host:            envString("DB_HOST", "localhost"),
			Port:            envInt("DB_PORT", 5432),
			Name:            envString("DB_NAME", "appdb"),
			User:            envString("DB_USER", "appuser"),
			Password:        os.Getenv("DB_PASSWORD"),
			SSLMode:         envString("DB_SSLMODE", "disable"),
			LogLevel:        envString("DB_LOG_LEVEL", "warn"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"https://*", "http://*"}),
		RateLimitRPS:       envFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:     envInt("RATE_LIMIT_BURST", 10),
	}
}

// DSN renders the key/value connection string understood by the pgx driver.
func (c DBConfig) DSN() string {
	parts := []string{
		"host=" + c.Host,
		"port=" + strconv.Itoa(c.Port),
		"user=" + c.User,
		"dbname=" + c.Name,
		"sslmode=" + c.SSLMode,
	}
	if c.Password != "" {
		parts = append(parts, "password="+c.Password)
	}
	return strings.Join(parts, " ")
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using default %d: %v", key, v, def, err)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using default %g: %v", key, v, def, err)
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using default %s: %v", key, v, def, err)
		return def
	}
	return d
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
