package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. It is built once at startup and
// passed by reference to the components that need it.
type Config struct {
	Environment string
	HTTPAddr    string

	LogLevel  string
	LogFormat string

	Database Database

	SnapshotPath       string
	CORSAllowedOrigins []string
}

// Database holds connection parameters for the relational store.
type Database struct {
	Type            string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var defaults = map[string]any{
	"APP_ENV":              "development",
	"HTTP_ADDR":            ":8080",
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "json",
	"DB_TYPE":              "mysql",
	"DB_HOST":              "localhost",
	"DB_PORT":              "3306",
	"DB_NAME":              "storefront",
	"DB_USER":              "root",
	"DB_PASSWORD":          "",
	"DB_SSLMODE":           "disable",
	"DB_MAX_OPEN_CONNS":    10,
	"DB_MAX_IDLE_CONNS":    5,
	"DB_CONN_MAX_LIFETIME": "30m",
	"SNAPSHOT_PATH":        "data.json",
	"CORS_ALLOWED_ORIGINS": "http://localhost:5173,http://127.0.0.1:5173",
}

// Load reads the .env file (if any) and the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		Environment: v.GetString("APP_ENV"),
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		Database: Database{
			Type:            strings.ToLower(strings.TrimSpace(v.GetString("DB_TYPE"))),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			Name:            v.GetString("DB_NAME"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		SnapshotPath:       v.GetString("SNAPSHOT_PATH"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}
}

// IsDevelopment reports whether the app runs outside production.
func (c Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
