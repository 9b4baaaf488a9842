package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// DevJWTSecret is used outside production when JWT_SECRET is unset.
const DevJWTSecret = "dev-secret-key-change-in-production"

// Config holds all application configuration
type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`

	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Bootstrap BootstrapConfig
	Logging   LoggingConfig
	Billing   BillingConfig
	Email     EmailConfig
	Redis     RedisConfig
	Worker    WorkerConfig

	// InsecureJWTSecret is set by Load when DevJWTSecret was substituted.
	InsecureJWTSecret bool `env:"-"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"3001"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	FrontendURL     string        `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	RateLimitRPS    float64       `env:"RATE_LIMIT_RPS" envDefault:"100"`
	RateLimitBurst  int           `env:"RATE_LIMIT_BURST" envDefault:"200"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"sqlite"`
	URL             string        `env:"DATABASE_URL"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            int           `env:"DB_PORT" envDefault:"5432"`
	Name            string        `env:"DB_NAME" envDefault:"flowvera"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	// For SQLite
	Path string `env:"DB_PATH" envDefault:"./data.db"`
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET"`
	AccessTokenExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"168h"`
	RefreshTokenExpiry time.Duration `env:"JWT_REFRESH_EXPIRY" envDefault:"720h"`
	BCryptCost         int           `env:"BCRYPT_COST" envDefault:"10"`
	SecureCookies      bool          `env:"SECURE_COOKIES" envDefault:"false"`
}

// BootstrapConfig describes the admin account created on first start.
type BootstrapConfig struct {
	AdminEmail    string `env:"DEFAULT_ADMIN_EMAIL" envDefault:"admin@flowvera.com"`
	AdminPassword string `env:"DEFAULT_ADMIN_PASSWORD" envDefault:"Admin123!"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"json"`
	OutputPath string `env:"LOG_OUTPUT" envDefault:"stdout"`
}

// BillingConfig selects and configures the billing gateway.
type BillingConfig struct {
	MockMode bool   `env:"STRIPE_MOCK_MODE" envDefault:"false"`
	Provider string `env:"BILLING_PROVIDER" envDefault:"stripe"`
	Stripe   StripeConfig
	Paddle   PaddleConfig
	// EventTTL bounds how long processed webhook event ids are remembered.
	EventTTL time.Duration `env:"WEBHOOK_EVENT_TTL" envDefault:"72h"`
}

// StripeConfig contains Stripe credentials and price identifiers.
type StripeConfig struct {
	SecretKey      string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret  string `env:"STRIPE_WEBHOOK_SECRET"`
	BasicPriceID   string `env:"STRIPE_BASIC_PRICE_ID"`
	PremiumPriceID string `env:"STRIPE_PREMIUM_PRICE_ID"`
}

// PaddleConfig contains Paddle credentials and price identifiers.
type PaddleConfig struct {
	APIKey         string `env:"PADDLE_API_KEY"`
	WebhookSecret  string `env:"PADDLE_WEBHOOK_SECRET"`
	Environment    string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
	BasicPriceID   string `env:"PADDLE_BASIC_PRICE_ID"`
	PremiumPriceID string `env:"PADDLE_PREMIUM_PRICE_ID"`
}

// EmailConfig contains outbound email configuration. The first configured
// provider wins: Postmark, then SMTP, then a log-only sender.
type EmailConfig struct {
	From                 string `env:"EMAIL_FROM" envDefault:"noreply@flowvera.com"`
	FromName             string `env:"EMAIL_FROM_NAME" envDefault:"Flowvera"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SMTPHost             string `env:"SMTP_HOST"`
	SMTPPort             int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser             string `env:"SMTP_USER"`
	SMTPPassword         string `env:"SMTP_PASSWORD"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	URL            string        `env:"REDIS_URL"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"5s"`
}

// WorkerConfig configures the trial reminder job.
type WorkerConfig struct {
	ReminderSchedule string        `env:"REMINDER_SCHEDULE"`
	ReminderWindow   time.Duration `env:"REMINDER_WINDOW" envDefault:"72h"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Auth.JWTSecret == "" && !cfg.IsProduction() {
		cfg.Auth.JWTSecret = DevJWTSecret
		cfg.InsecureJWTSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("invalid database driver: %s (must be sqlite or postgres)", c.Database.Driver)
	}

	if c.Auth.BCryptCost < bcrypt.MinCost || c.Auth.BCryptCost > bcrypt.MaxCost {
		return fmt.Errorf("invalid bcrypt cost: %d", c.Auth.BCryptCost)
	}

	if c.Billing.MockMode {
		return nil
	}

	switch c.Billing.Provider {
	case "stripe":
		if c.IsProduction() && (c.Billing.Stripe.SecretKey == "" || c.Billing.Stripe.WebhookSecret == "") {
			return fmt.Errorf("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET are required in production")
		}
	case "paddle":
		if c.IsProduction() && (c.Billing.Paddle.APIKey == "" || c.Billing.Paddle.WebhookSecret == "") {
			return fmt.Errorf("PADDLE_API_KEY and PADDLE_WEBHOOK_SECRET are required in production")
		}
	default:
		return fmt.Errorf("invalid billing provider: %s (must be stripe or paddle)", c.Billing.Provider)
	}

	return nil
}
