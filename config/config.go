package config

import (
	"errors"
	"fmt"
	"solara/constants"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingSecret = errors.New("JWT_SECRET is required")
	ErrWeakSecret    = fmt.Errorf("JWT_SECRET must be at least %d characters", constants.MIN_JWT_SECRET_LENGTH)
)

type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     int
	Username string
	Password string
	Name     string
}

// DSN returns the connection string for the configured driver.
func (c DatabaseConfig) DSN() string {
	switch c.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.Username, c.Password, c.Host, c.Port, c.Name)
	default:
		return c.Path
	}
}

type LogConfig struct {
	Level  string
	Format string
}

type AdminConfig struct {
	Email    string
	Password string
}

type Config struct {
	Port     int
	Database DatabaseConfig
	Log      LogConfig
	Admin    AdminConfig

	JWTSecret string
	TokenTTL  time.Duration

	UploadDir          string
	CORSAllowedOrigins []string

	RateLimitPerMinute      int
	LoginRateLimitPerMinute int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", constants.DEFAULT_PORT)

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "solara.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USERNAME", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_DATABASE", "solara")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRES_IN", constants.DEFAULT_TOKEN_TTL)

	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")

	v.SetDefault("RATE_LIMIT_PER_MINUTE", 100)
	v.SetDefault("LOGIN_RATE_LIMIT_PER_MINUTE", 10)
}

// Load reads configuration from the environment and, when path is not empty,
// from the given config file. Environment variables win over file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port: v.GetInt("PORT"),
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Path:     v.GetString("DB_PATH"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			Username: v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_DATABASE"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		JWTSecret:               v.GetString("JWT_SECRET"),
		TokenTTL:                v.GetDuration("JWT_EXPIRES_IN"),
		UploadDir:               v.GetString("UPLOAD_DIR"),
		CORSAllowedOrigins:      splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimitPerMinute:      v.GetInt("RATE_LIMIT_PER_MINUTE"),
		LoginRateLimitPerMinute: v.GetInt("LOGIN_RATE_LIMIT_PER_MINUTE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the server must not start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if len(c.JWTSecret) < constants.MIN_JWT_SECRET_LENGTH {
		return ErrWeakSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", c.TokenTTL)
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case "mysql":
		if c.Database.Host == "" || c.Database.Name == "" {
			return errors.New("DB_HOST and DB_DATABASE are required for the mysql driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.UploadDir == "" {
		return errors.New("UPLOAD_DIR must not be empty")
	}

	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
