package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	Host string
	Port int

	// Token settings
	TokenLifetime time.Duration

	// Request log consumed by the test driver
	LogFile string

	// The only credential pair the password grant accepts
	Username string
	Password string

	// Observability
	MetricsEnabled bool
	Debug          bool
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		Host:          getEnv("MOCK_HOST", "127.0.0.1"),
		Port:          getEnvInt("MOCK_PORT", 9999),
		TokenLifetime: getEnvSeconds("MOCK_TOKEN_LIFETIME", 20*time.Second),
		LogFile:       getEnv("MOCK_LOG_FILE", "/tmp/mock_veeam_server.log"),

		Username: getEnv("MOCK_USERNAME", "test"),
		Password: getEnv("MOCK_PASSWORD", "test"),

		MetricsEnabled: getEnvBool("MOCK_METRICS_ENABLED", true),
		Debug:          getEnvBool("MOCK_DEBUG", false),
	}
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BaseURL returns the http URL clients should use to reach the server.
func (c *Config) BaseURL() string {
	return "http://" + c.Addr()
}

func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("listen host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid listen port: %d (must be 1-65535)", c.Port)
	}
	if c.TokenLifetime <= 0 {
		return fmt.Errorf("token lifetime must be positive, got %v", c.TokenLifetime)
	}
	if c.LogFile == "" {
		return errors.New("log file path must not be empty")
	}
	if c.Username == "" || c.Password == "" {
		return errors.New("expected credentials must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvSeconds reads a duration expressed as a whole number of seconds,
// matching the --token-lifetime CLI flag.
func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil && i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return defaultValue
}
