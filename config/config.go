package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	HTTP          ServerConfig
	GRPC          ServerConfig
	MySQL         MySQLConfig
	Redis         RedisConfig
	Log           LogConfig
	Auth          AuthConfig
	Plans         PlanConfig
	Usage         UsageConfig
	Webhook       WebhookConfig
	Storage       StorageConfig
	Email         EmailConfig
	Subscriptions SubscriptionConfig
	Jobs          JobsConfig
}

type AppConfig struct {
	ServiceName string
	APIKey      string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is optional; an empty URL keeps usage counters in MySQL.
type RedisConfig struct {
	URL            string
	ConnectTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
}

type PlanConfig struct {
	DefaultPlanSlug string
}

type UsageConfig struct {
	DailyLimitKey string
}

type WebhookConfig struct {
	Timeout       time.Duration
	MaxRetries    int
	SigningSecret string
}

// StorageConfig enables archiving tool outputs to S3 when Bucket is set.
type StorageConfig struct {
	Bucket         string
	Region         string
	Endpoint       string
	AccessKeyID    string
	SecretKey      string
	ForcePathStyle bool
	OutputPrefix   string
}

type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

type SubscriptionConfig struct {
	FreePeriodYears       int
	PaidPeriodDays        int
	PendingPaymentTimeout time.Duration
	CheckoutBaseURL       string
}

type JobsConfig struct {
	PendingCleanupInterval  time.Duration
	ExpirationCheckInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "toolhub-service"),
			APIKey:      getEnv("APP_API_KEY", ""),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		GRPC: ServerConfig{
			Host: getEnv("GRPC_HOST", "0.0.0.0"),
			Port: getEnv("GRPC_PORT", "9090"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:            getEnv("REDIS_URL", ""),
			ConnectTimeout: getSecondsEnv("REDIS_CONNECT_TIMEOUT_SECONDS", 10*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret: jwtSecret,
			JWTIssuer: getEnv("JWT_ISSUER", ""),
		},
		Plans: PlanConfig{
			DefaultPlanSlug: getEnv("DEFAULT_PLAN_SLUG", "free"),
		},
		Usage: UsageConfig{
			DailyLimitKey: getEnv("USAGE_DAILY_LIMIT_KEY", "tools_daily"),
		},
		Webhook: WebhookConfig{
			Timeout:       getSecondsEnv("WEBHOOK_TIMEOUT_SECONDS", 60*time.Second),
			MaxRetries:    getIntEnv("WEBHOOK_MAX_RETRIES", 2),
			SigningSecret: getEnv("WEBHOOK_SIGNING_SECRET", ""),
		},
		Storage: StorageConfig{
			Bucket:         getEnv("S3_BUCKET", ""),
			Region:         getEnv("S3_REGION", "us-east-1"),
			Endpoint:       getEnv("S3_ENDPOINT", ""),
			AccessKeyID:    getEnv("S3_ACCESS_KEY", ""),
			SecretKey:      getEnv("S3_SECRET_KEY", ""),
			ForcePathStyle: getBoolEnv("S3_FORCE_PATH_STYLE", false),
			OutputPrefix:   getEnv("S3_OUTPUT_PREFIX", "tool-outputs"),
		},
		Email: EmailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:      getEnv("EMAIL_FROM_ADDRESS", "no-reply@toolhub.local"),
			FromName:       getEnv("EMAIL_FROM_NAME", "ToolHub"),
		},
		Subscriptions: SubscriptionConfig{
			FreePeriodYears:       getIntEnv("FREE_PERIOD_YEARS", 10),
			PaidPeriodDays:        getIntEnv("PAID_PERIOD_DAYS", 30),
			PendingPaymentTimeout: getDurationEnv("PENDING_PAYMENT_TIMEOUT_MINUTES", 30*time.Minute),
			CheckoutBaseURL:       getEnv("CHECKOUT_BASE_URL", "http://localhost:3000/billing/checkout"),
		},
		Jobs: JobsConfig{
			PendingCleanupInterval:  getDurationEnv("PENDING_CLEANUP_INTERVAL_MINUTES", 10*time.Minute),
			ExpirationCheckInterval: getDurationEnv("EXPIRATION_CHECK_INTERVAL_MINUTES", time.Hour),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
