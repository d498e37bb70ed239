package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Library  LibraryConfig
	Redis    RedisConfig
	Dispatch DispatchConfig
	Logging  LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database specific configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// AuthConfig holds authentication specific configuration
type AuthConfig struct {
	JWTSecret           string
	AccessTokenDuration time.Duration
}

// LibraryConfig holds the loan policy. These are enforced as preconditions
// when a loan is created.
type LibraryConfig struct {
	MaxLoansPerCustomer int
	MaxLoanDurationDays int
}

// RedisConfig holds Redis specific configuration. Redis backs the token
// denylist used to revoke sessions on logout.
type RedisConfig struct {
	Enabled  bool
	URL      string
	Password string
	DB       int
}

// DispatchConfig holds overdue-notice dispatch configuration.
type DispatchConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads the configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Read from environment variables
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "120s")

	// Database defaults
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", "30m")

	// Auth defaults
	v.SetDefault("auth.accessTokenDuration", "15m")

	// Loan policy defaults
	v.SetDefault("library.maxLoansPerCustomer", 2)
	v.SetDefault("library.maxLoanDurationDays", 14)

	// Dispatch defaults
	v.SetDefault("dispatch.enabled", false)
	v.SetDefault("dispatch.topic", "overdue-notices")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
