package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Secrets (DATABASE_URL, JWT_SECRET) have no defaults: Load fails without them.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Database
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int    `mapstructure:"DB_MAX_IDLE_CONNS"`

	// Redis is optional; without it rate limiting stays in-process.
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`

	// HTTP
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LoginRateLimit     int    `mapstructure:"LOGIN_RATE_LIMIT"` // attempts per minute per IP
	APIRateLimit       int    `mapstructure:"API_RATE_LIMIT"`   // requests per minute per IP

	// SMTP (offer e-mail). Empty host disables sending.
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	// Business
	PhoneRegion    string `mapstructure:"PHONE_REGION"`
	CompanyName    string `mapstructure:"COMPANY_NAME"`
	CompanyAddress string `mapstructure:"COMPANY_ADDRESS"`
	CompanyTaxID   string `mapstructure:"COMPANY_TAX_ID"`
	CompanyPhone   string `mapstructure:"COMPANY_PHONE"`
	OfferAuthor    string `mapstructure:"OFFER_AUTHOR"`
}

// Company is the issuer block printed on offer documents.
type Company struct {
	Name    string
	Address string
	TaxID   string
	Phone   string
	Author  string
}

// Company returns the issuer details used by the offer PDF.
func (c *Config) Company() Company {
	return Company{
		Name:    c.CompanyName,
		Address: c.CompanyAddress,
		TaxID:   c.CompanyTaxID,
		Phone:   c.CompanyPhone,
		Author:  c.OfferAuthor,
	}
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// MailEnabled reports whether SMTP delivery is configured.
func (c *Config) MailEnabled() bool { return c.SMTPHost != "" }

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PORT", 8000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOGIN_RATE_LIMIT", 20)
	v.SetDefault("API_RATE_LIMIT", 1000)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("PHONE_REGION", "PL")
	v.SetDefault("COMPANY_NAME", "")
	v.SetDefault("COMPANY_ADDRESS", "")
	v.SetDefault("COMPANY_TAX_ID", "")
	v.SetDefault("COMPANY_PHONE", "")
	v.SetDefault("OFFER_AUTHOR", "")
	// Keys without defaults must still be known to Unmarshal for AutomaticEnv to apply.
	for _, k := range []string{"DATABASE_URL", "JWT_SECRET", "REDIS_URL", "SMTP_HOST", "SMTP_USER", "SMTP_PASSWORD", "SMTP_FROM"} {
		_ = v.BindEnv(k)
	}

	// Optional .env file for local development; a missing file is not an error
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the process cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 bytes"))
	}
	if c.JWTExpirationHours <= 0 {
		errs = append(errs, fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", c.JWTExpirationHours))
	}
	return errors.Join(errs...)
}
