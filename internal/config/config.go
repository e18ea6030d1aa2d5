// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment  string
	Server       ServerConfig
	Storage      StorageConfig
	Database     DatabaseConfig
	AWS          AWSConfig
	IntMax       IntMaxConfig
	Subscription SubscriptionConfig
	Frontend     FrontendConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type StorageConfig struct {
	Driver        string // "file" or "postgres"
	ContentsFile  string
	PublicDir     string
	MaxUploadSize int64 // in bytes
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type IntMaxConfig struct {
	APIURL        string
	Environment   string
	EthPrivateKey string
	L1RPCURL      string
	Timeout       int // in seconds, covers the whole reconciliation call
	RetryAttempts int
	RetryBackoff  int // initial backoff in milliseconds, doubles per attempt
	TokenDecimals int
}

type SubscriptionConfig struct {
	Duration int // in seconds
}

type FrontendConfig struct {
	Origin string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "3000"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 60),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", "file"),
			ContentsFile:  getEnv("CONTENTS_FILE", "./data/contents.json"),
			PublicDir:     getEnv("PUBLIC_DIR", "./public"),
			MaxUploadSize: int64(getEnvAsInt("MAX_UPLOAD_SIZE_MB", 50)) * 1024 * 1024,
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "zksub"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "zksub-content"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		IntMax: IntMaxConfig{
			APIURL:        getEnv("INTMAX_API_URL", "http://localhost:3100"),
			Environment:   getEnv("INTMAX_ENVIRONMENT", "testnet"),
			EthPrivateKey: getEnv("ETH_PRIVATE_KEY", ""),
			L1RPCURL:      getEnv("L1_RPC_URL", ""),
			Timeout:       getEnvAsInt("INTMAX_TIMEOUT", 30),
			RetryAttempts: getEnvAsInt("INTMAX_RETRY_ATTEMPTS", 3),
			RetryBackoff:  getEnvAsInt("INTMAX_RETRY_BACKOFF_MS", 500),
			TokenDecimals: getEnvAsInt("INTMAX_TOKEN_DECIMALS", 18),
		},
		Subscription: SubscriptionConfig{
			Duration: getEnvAsInt("SUBSCRIPTION_DURATION", 86400), // 24 hours
		},
		Frontend: FrontendConfig{
			Origin: getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Storage.Driver != "file" && c.Storage.Driver != "postgres" {
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}

	if c.Environment == "production" {
		if c.IntMax.EthPrivateKey == "" {
			return fmt.Errorf("ETH_PRIVATE_KEY is required in production")
		}
		if c.Storage.Driver == "postgres" && c.Database.Password == "" {
			return fmt.Errorf("database password is required in production")
		}
	}

	if c.IntMax.RetryAttempts < 1 {
		return fmt.Errorf("INTMAX_RETRY_ATTEMPTS must be at least 1")
	}

	if c.Subscription.Duration <= 0 {
		return fmt.Errorf("SUBSCRIPTION_DURATION must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
