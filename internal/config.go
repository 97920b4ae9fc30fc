package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env           string              `mapstructure:"env" validate:"required,oneof=development production test"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	User          UserConfig          `mapstructure:"user"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	BasePath          string        `mapstructure:"base_path" validate:"omitempty,startswith=/"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	// LoginRateLimit is the number of login attempts allowed per IP per minute. Zero disables it.
	LoginRateLimit int `mapstructure:"login_rate_limit" validate:"min=0"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source" validate:"required"`
}

type SecurityConfig struct {
	BCryptCost  int           `mapstructure:"bcrypt_cost" validate:"required,min=4,max=31"`
	TokenName   string        `mapstructure:"token_name" validate:"required,max=255"`
	TokenFormat string        `mapstructure:"token_format" validate:"required,oneof=opaque jwt"`
	TokenTTL    time.Duration `mapstructure:"token_ttl" validate:"min=0"`
	JWTSecret   string        `mapstructure:"jwt_secret" validate:"required_if=TokenFormat jwt"`
}

type UserConfig struct {
	DefaultRole      string             `mapstructure:"default_role" validate:"required"`
	AdminRole        string             `mapstructure:"admin_role" validate:"required"`
	ManagePermission string             `mapstructure:"manage_permission" validate:"required"`
	DefaultAdmin     DefaultAdminConfig `mapstructure:"default_admin"`
}

type DefaultAdminConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	Email    string `mapstructure:"email" validate:"required,email"`
	Password string `mapstructure:"password" validate:"omitempty,min=8"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// DefaultConfig returns the configuration used when a key is absent from every source.
func DefaultConfig() Config {
	return Config{
		Env: "development",
		Server: ServerConfig{
			Port:              8080,
			BasePath:          "/api",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
			WriteTimeout:      15 * time.Second,
			LoginRateLimit:    10,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Security: SecurityConfig{
			BCryptCost:  12,
			TokenName:   "api-token",
			TokenFormat: "opaque",
		},
		User: UserConfig{
			DefaultRole:      "user",
			AdminRole:        "admin",
			ManagePermission: "manage_user",
			DefaultAdmin: DefaultAdminConfig{
				Name:  "admin",
				Email: "admin@example.com",
			},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

// LoadConfigFromEnv builds the configuration from plain environment variables (container deployments).
func LoadConfigFromEnv() *Config {
	cfg := DefaultConfig()

	cfg.Env = getEnv("APP_ENV", cfg.Env)

	cfg.Server.Port = getEnvAsInt("HTTP_PORT", cfg.Server.Port)
	cfg.Server.BasePath = getEnv("HTTP_BASE_PATH", cfg.Server.BasePath)
	cfg.Server.AllowedOrigins = getEnv("HTTP_ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)
	cfg.Server.ReadTimeout = getEnvAsDuration("HTTP_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvAsDuration("HTTP_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getEnvAsDuration("HTTP_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.LoginRateLimit = getEnvAsInt("HTTP_LOGIN_RATE_LIMIT", cfg.Server.LoginRateLimit)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Source = getEnv("DB_SOURCE", cfg.Database.Source)
	cfg.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)

	cfg.Security.BCryptCost = getEnvAsInt("BCRYPT_COST", cfg.Security.BCryptCost)
	cfg.Security.TokenName = getEnv("AUTH_TOKEN_NAME", cfg.Security.TokenName)
	cfg.Security.TokenFormat = getEnv("AUTH_TOKEN_FORMAT", cfg.Security.TokenFormat)
	cfg.Security.TokenTTL = getEnvAsDuration("AUTH_TOKEN_TTL", cfg.Security.TokenTTL)
	cfg.Security.JWTSecret = getEnv("JWT_SECRET", cfg.Security.JWTSecret)

	cfg.User.DefaultRole = getEnv("DEFAULT_USER_ROLE", cfg.User.DefaultRole)
	cfg.User.AdminRole = getEnv("ADMIN_ROLE", cfg.User.AdminRole)
	cfg.User.ManagePermission = getEnv("MANAGE_USER_PERMISSION", cfg.User.ManagePermission)
	cfg.User.DefaultAdmin.Name = getEnv("DEFAULT_ADMIN_NAME", cfg.User.DefaultAdmin.Name)
	cfg.User.DefaultAdmin.Email = getEnv("DEFAULT_ADMIN_EMAIL", cfg.User.DefaultAdmin.Email)
	cfg.User.DefaultAdmin.Password = getEnv("DEFAULT_ADMIN_PASSWORD", cfg.User.DefaultAdmin.Password)

	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)

	return &cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

var configValidator = validator.New()

func (c *Config) Validate() error {
	var errs []string

	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if c.TokenFormat == "jwt" && len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	return nil
}
