package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Compare   CompareConfig   `yaml:"compare"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Cleanup   CleanupConfig   `yaml:"cleanup"`
	Map       MapConfig       `yaml:"map"`
	Logging   LoggingConfig   `yaml:"logging"`
	Timezone  string          `yaml:"timezone"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig contains database settings.
// Type is one of "memory", "mysql" or "postgres".
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	APIKey  string `yaml:"api_key"`
	Index   string `yaml:"index"`
}

// CatalogConfig points at the property seed. An empty SeedPath uses the
// dataset built into the binary.
type CatalogConfig struct {
	SeedPath string `yaml:"seed_path"`
}

// CompareConfig contains comparison session settings
type CompareConfig struct {
	SessionTTLMinutes    int `yaml:"session_ttl_minutes"`
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes"`
}

// RateLimitConfig contains rate limiting settings for mutating API calls
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
	RequestsPerDay    int  `yaml:"requests_per_day"`
}

// SchedulerConfig contains catalog refresh settings
type SchedulerConfig struct {
	RefreshEnabled bool   `yaml:"refresh_enabled"`
	RefreshTime    string `yaml:"refresh_time"`
}

// CleanupConfig contains retention settings for removed listings and history
type CleanupConfig struct {
	RetentionDays    int `yaml:"retention_days"`
	MaxDeletionCount int `yaml:"max_deletion_count"`
}

// MapConfig is the default viewport handed to map clients
type MapConfig struct {
	CenterLat float64 `yaml:"center_lat"`
	CenterLng float64 `yaml:"center_lng"`
	Zoom      float64 `yaml:"zoom"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Encoding    string `yaml:"encoding"`
	Development bool   `yaml:"development"`
	LogRequests bool   `yaml:"log_requests"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8084",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Type: "memory",
		},
		Search: SearchConfig{
			Meilisearch: MeilisearchConfig{
				Enabled: false,
				Index:   "properties",
			},
		},
		Compare: CompareConfig{
			SessionTTLMinutes:    120,
			SweepIntervalMinutes: 10,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 120,
			RequestsPerHour:   3600,
			RequestsPerDay:    0,
		},
		Scheduler: SchedulerConfig{
			RefreshEnabled: false,
			RefreshTime:    "03:00",
		},
		Cleanup: CleanupConfig{
			RetentionDays:    90,
			MaxDeletionCount: 10000,
		},
		Map: MapConfig{
			CenterLat: 30.2672,
			CenterLng: -97.7431,
			Zoom:      11,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Encoding:    "json",
			LogRequests: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// GetSessionTTL returns the idle lifetime of a comparison session
func (c *CompareConfig) GetSessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// GetSweepInterval returns how often idle sessions are swept
func (c *CompareConfig) GetSweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}
