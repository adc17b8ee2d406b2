package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/YelzhanWeb/mamantilie/internal/domain"
)

const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// InsecureTokenSecret is the placeholder shipped in sample configs. It is never accepted.
const InsecureTokenSecret = "change-me"

type Config struct {
	Server   ServerConfig      `yaml:"server"`
	Store    StoreConfig       `yaml:"store"`
	Database DatabaseConfig    `yaml:"database"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	RabbitMQ RabbitMQConfig    `yaml:"rabbitmq"`
	Admin    AdminConfig       `yaml:"admin"`
	Telegram TelegramConfig    `yaml:"telegram"`
	Log      LogConfig         `yaml:"log"`
	Menu     []domain.MenuItem `yaml:"menu"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type StoreConfig struct {
	Driver     string `yaml:"driver"`
	Path       string `yaml:"path"`
	Name       string `yaml:"name"`
	StrictLoad bool   `yaml:"strict_load"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type AdminConfig struct {
	Password      string `yaml:"password"`
	TokenSecret   string `yaml:"token_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 3000},
		Store: StoreConfig{
			Driver: StoreDriverFile,
			Path:   "food_requests.json",
			Name:   "food_requests",
		},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Database: "mamantilie"},
		SQLite:   SQLiteConfig{Path: "mamantilie.db"},
		RabbitMQ: RabbitMQConfig{Host: "localhost", Port: 5672, User: "guest", Password: "guest"},
		Admin:    AdminConfig{Password: "admin123", TokenTTLHours: 12},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, then applies .env and environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional; variables already set win.
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"STORE_DRIVER":       &cfg.Store.Driver,
		"STORE_PATH":         &cfg.Store.Path,
		"DB_HOST":            &cfg.Database.Host,
		"DB_USER":            &cfg.Database.User,
		"DB_PASSWORD":        &cfg.Database.Password,
		"DB_NAME":            &cfg.Database.Database,
		"SQLITE_PATH":        &cfg.SQLite.Path,
		"RABBITMQ_HOST":      &cfg.RabbitMQ.Host,
		"RABBITMQ_USER":      &cfg.RabbitMQ.User,
		"RABBITMQ_PASSWORD":  &cfg.RabbitMQ.Password,
		"ADMIN_PASSWORD":     &cfg.Admin.Password,
		"ADMIN_TOKEN_SECRET": &cfg.Admin.TokenSecret,
		"TG_TOKEN":           &cfg.Telegram.Token,
		"LOG_LEVEL":          &cfg.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PORT":          &cfg.Server.Port,
		"DB_PORT":       &cfg.Database.Port,
		"RABBITMQ_PORT": &cfg.RabbitMQ.Port,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv("RABBITMQ_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RABBITMQ_ENABLED: %w", err)
		}
		cfg.RabbitMQ.Enabled = enabled
	}

	return nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverFile:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the file driver")
		}
	case StoreDriverPostgres, StoreDriverSQLite:
		if c.Store.Name == "" {
			return errors.New("store.name is required for database drivers")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Admin.Password == "" {
		return errors.New("admin.password must not be empty")
	}
	// Пустой секрет допустим: токены подпишутся случайным ключом до рестарта
	if c.Admin.TokenSecret == InsecureTokenSecret {
		return fmt.Errorf("admin.token_secret must not be the placeholder %q", InsecureTokenSecret)
	}
	if c.Admin.TokenTTLHours <= 0 {
		return errors.New("admin.token_ttl_hours must be positive")
	}

	return nil
}

// Catalog returns the configured menu, or the default one when none is configured.
func (c *Config) Catalog() (*domain.Catalog, error) {
	if len(c.Menu) == 0 {
		return domain.DefaultCatalog(), nil
	}
	catalog, err := domain.NewCatalog(c.Menu)
	if err != nil {
		return nil, fmt.Errorf("invalid menu: %w", err)
	}
	return catalog, nil
}
