package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings, sourced from the environment (a .env
// file is loaded by bootstrap before this runs).
type Config struct {
	Port        string `mapstructure:"PORT"`
	AppEnv      string `mapstructure:"APP_ENV"`
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDB     string `mapstructure:"MONGO_DB"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	SessionSecret    string `mapstructure:"SESSION_SECRET"`
	AdminSecretToken string `mapstructure:"ADMIN_SECRET_TOKEN"`
	FrontendURL      string `mapstructure:"FRONTEND_URL"`

	MailProvider string `mapstructure:"MAIL_PROVIDER"`
	FromEmail    string `mapstructure:"FROM_EMAIL"`
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPass     string `mapstructure:"SMTP_PASS"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
}

// NewConfig reads settings from the environment via viper and applies
// defaults suitable for local development.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "taskflow")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("MAIL_PROVIDER", "smtp")
	v.SetDefault("SMTP_PORT", 587)

	// AutomaticEnv alone does not surface env vars through Unmarshal, so
	// bind every key we care about explicitly.
	for _, key := range []string{
		"PORT", "APP_ENV", "MONGO_URI", "MONGO_DB", "CORS_ORIGINS",
		"SESSION_SECRET", "ADMIN_SECRET_TOKEN", "FRONTEND_URL",
		"MAIL_PROVIDER", "FROM_EMAIL", "SMTP_HOST", "SMTP_PORT",
		"SMTP_USER", "SMTP_PASS", "RESEND_API_KEY",
	} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Production reports whether the app runs behind HTTPS with cross-site
// cookies (Secure + SameSite=None).
func (c *Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// AllowedOrigins splits CORS_ORIGINS into its comma-separated entries.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
