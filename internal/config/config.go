// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment   string
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	AWS           AWSConfig
	Payment       PaymentConfig
	Frontend      FrontendConfig
	RateLimit     RateLimitConfig
	Log           LogConfig
	CORS          CORSConfig
	I18n          I18nConfig
	CatalogPath   string
	DefaultAvatar string

	// EnforceSeatLimit refuses approvals that would affiliate more
	// employees than the HR's package limit.
	EnforceSeatLimit bool
}

type FrontendConfig struct {
	BaseURL string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
}

type DatabaseConfig struct {
	Driver       string // postgres, sqlite or mongo
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

	SQLitePath string

	MongoURI          string
	MongoDatabase     string
	MongoTransactions bool
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in minutes
}

func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.AccessTokenTTL) * time.Minute
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
	LocalUploadDir  string
}

type PaymentConfig struct {
	StripeSecretKey     string
	StripeWebhookSecret string
	Currency            string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// Sensitive limits apply to token issuing, uploads and checkout.
	SensitivePerSecond float64
	SensitiveBurst     int
}

type LogConfig struct {
	Level  string
	Format string // text or json
}

type CORSConfig struct {
	AllowedOrigins []string
}

type I18nConfig struct {
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	environment := getEnv("ENVIRONMENT", "development")
	logFormat := "text"
	if environment == "production" {
		logFormat = "json"
	}

	config := &Config{
		Environment: environment,
		Server: ServerConfig{
			Port:            getEnv("PORT", getEnv("SERVER_PORT", "5000")),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:     getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			ShutdownTimeout: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Driver:            strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnv("DB_PORT", "5432"),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Database:          getEnv("DB_NAME", "gearguard"),
			SSLMode:           getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:      getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:      getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:       getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:          getEnv("DB_LOG_LEVEL", "warn"),
			SQLitePath:        getEnv("SQLITE_PATH", "gearguard.db"),
			MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase:     getEnv("MONGO_DATABASE", "gearGuard"),
			MongoTransactions: getEnvAsBool("MONGO_TRANSACTIONS", false),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("ACCESS_TOKEN_SECRET", getEnv("JWT_SECRET", defaultJWTSecret)),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL_MINUTES", 60),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", ""),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
			LocalUploadDir:  getEnv("LOCAL_UPLOAD_DIR", "./uploads"),
		},
		Payment: PaymentConfig{
			StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Currency:            strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
		},
		Frontend: FrontendConfig{
			BaseURL: strings.TrimRight(getEnv("SITE_DOMAIN", getEnv("FRONTEND_URL", "http://localhost:5173")), "/"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond:  getEnvAsFloat("RATE_LIMIT_RPS", 10),
			Burst:              getEnvAsInt("RATE_LIMIT_BURST", 20),
			SensitivePerSecond: getEnvAsFloat("RATE_LIMIT_SENSITIVE_RPS", 1),
			SensitiveBurst:     getEnvAsInt("RATE_LIMIT_SENSITIVE_BURST", 5),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", logFormat),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		CatalogPath:   getEnv("PACKAGE_CATALOG", ""),
		DefaultAvatar: getEnv("DEFAULT_AVATAR_URL", "https://i.ibb.co/5xVqcD1/user.png"),

		EnforceSeatLimit: getEnvAsBool("ENFORCE_SEAT_LIMIT", false),
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == defaultJWTSecret && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT access token TTL must be positive")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" && c.Environment == "production" {
			return fmt.Errorf("database password is required in production")
		}
	case DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
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

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
