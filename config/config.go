package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the storefront server
type Config struct {
	// Server settings
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`

	// Database
	DatabaseURL    string `yaml:"database_url"`
	DatabaseDriver string `yaml:"-"` // "postgres" or "sqlite", detected from DatabaseURL

	// Security
	JWTSecret   string        `yaml:"jwt_secret"`
	AdminAPIKey string        `yaml:"admin_api_key"`
	BcryptCost  int           `yaml:"bcrypt_cost"`
	ProfileTTL  time.Duration `yaml:"profile_ttl"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Front end
	DeployedBaseURL string `yaml:"deployed_base_url"`
}

const (
	defaultDeployedBaseURL = "https://webshop-backend-production-5952.up.railway.app"
	devJWTSecret           = "webshop-dev-secret-not-for-production"
)

// Load reads configuration from .env, an optional YAML file named by
// WEBSHOP_CONFIG, and the environment. Environment values win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path := os.Getenv("WEBSHOP_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = postgresDSNFromParts()
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "sqlite://./webshop.db"
	}
	cfg.DatabaseDriver = DetectDriver(cfg.DatabaseURL)
	if cfg.DatabaseDriver == "" {
		return nil, fmt.Errorf("unsupported DATABASE_URL %q", cfg.DatabaseURL)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", cfg.BcryptCost)
	}

	return cfg, nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Port:            8080,
		CORSOrigins:     []string{"*"},
		BcryptCost:      10,
		ProfileTTL:      365 * 24 * time.Hour,
		LogLevel:        "info",
		LogFormat:       "console",
		DeployedBaseURL: defaultDeployedBaseURL,
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	c.Port = getEnvInt("PORT", c.Port)
	c.CORSOrigins = getEnvList("CORS_ORIGINS", c.CORSOrigins)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.AdminAPIKey = getEnv("ADMIN_API_KEY", c.AdminAPIKey)
	c.BcryptCost = getEnvInt("BCRYPT_COST", c.BcryptCost)
	c.ProfileTTL = getEnvDuration("PROFILE_TTL", c.ProfileTTL)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.DeployedBaseURL = getEnv("DEPLOYED_BASE_URL", c.DeployedBaseURL)
}

// postgresDSNFromParts builds a DSN from DB_HOST and friends, the way the
// original deployment was configured.
func postgresDSNFromParts() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), host,
		getEnv("DB_PORT", "5432"), os.Getenv("DB_NAME"),
	)
}

// DetectDriver determines the database driver from a DSN
func DetectDriver(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "sqlite3://"), strings.HasPrefix(dsn, "file:"):
		return "sqlite"
	case dsn == ":memory:", strings.HasSuffix(dsn, ".db"), strings.HasSuffix(dsn, ".sqlite"):
		return "sqlite"
	}
	return ""
}

// CleanDSN strips the scheme prefix used for driver detection from sqlite DSNs.
func (c *Config) CleanDSN() string {
	if c.DatabaseDriver != "sqlite" {
		return c.DatabaseURL
	}
	dsn := c.DatabaseURL
	for _, prefix := range []string{"sqlite3://", "sqlite://"} {
		dsn = strings.TrimPrefix(dsn, prefix)
	}
	return dsn
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return i
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

func getEnvList(key string, defaultValue []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
