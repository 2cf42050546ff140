package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before mapping them to
// config keys, e.g. MENU_DB_HOST -> db_host.
const EnvPrefix = "MENU_"

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port            string        `koanf:"port"`
	GinMode         string        `koanf:"gin_mode"`
	LogLevel        string        `koanf:"log_level"`
	StaticDir       string        `koanf:"static_dir"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	DBDriver          string        `koanf:"db_driver"`
	DBDSN             string        `koanf:"db_dsn"`
	DBHost            string        `koanf:"db_host"`
	DBPort            int           `koanf:"db_port"`
	DBUser            string        `koanf:"db_user"`
	DBPassword        string        `koanf:"db_password"`
	DBName            string        `koanf:"db_name"`
	DBMaxOpenConns    int           `koanf:"db_max_open_conns"`
	DBMaxIdleConns    int           `koanf:"db_max_idle_conns"`
	DBConnMaxLifetime time.Duration `koanf:"db_conn_max_lifetime"`

	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
}

// New returns the defaults used when no environment overrides are present.
func New() *Config {
	return &Config{
		Port:            "8080",
		GinMode:         "debug",
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,

		DBDriver:          DriverMySQL,
		DBHost:            "localhost",
		DBPort:            3306,
		DBUser:            "root",
		DBName:            "jacksdeli",
		DBMaxOpenConns:    10,
		DBMaxIdleConns:    5,
		DBConnMaxLifetime: 30 * time.Minute,

		RateLimitRPS:   50,
		RateLimitBurst: 100,
	}
}

// Load layers defaults, an optional .env file and MENU_* environment variables.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}))
}

func load(provider koanf.Provider) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(provider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("unsupported gin_mode %q", c.GinMode))
	}
	switch c.DBDriver {
	case DriverMySQL, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported db_driver %q", c.DBDriver))
	}
	if c.DBDriver == DriverSQLite && c.DBDSN == "" {
		errs = append(errs, errors.New("db_dsn is required for sqlite"))
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, errors.New("rate_limit_rps must be positive"))
	}
	if c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("rate_limit_burst must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// DSN returns the connection string for the configured driver. An explicit
// db_dsn wins over the individual parts.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
