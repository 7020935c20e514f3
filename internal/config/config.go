package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	RepositoryPostgres = "postgres"
	RepositorySQLite   = "sqlite"
	RepositoryInMemory = "inmemory"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	HTTP       HTTPConfig       `yaml:"http"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	MaxConnections int           `yaml:"max_connections"`
	MinConnections int           `yaml:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Development bool   `yaml:"development"`
	Level       string `yaml:"level"` // zap level name or "off"; empty keeps the mode default
}

type RepositoryConfig struct {
	Type string `yaml:"type"` // "postgres", "sqlite" or "inmemory"
}

type HTTPConfig struct {
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     2 * time.Minute,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConnections: 10,
			MinConnections: 2,
			IdleTimeout:    5 * time.Minute,
		},
		SQLite:     SQLiteConfig{Path: "tasks.db"},
		Logging:    LoggingConfig{Development: true},
		Repository: RepositoryConfig{Type: RepositorySQLite},
		HTTP: HTTPConfig{
			RateLimitPerMinute: 100,
			AllowedOrigins:     []string{"*"},
		},
	}
}

// Load reads the YAML file named by TASKS_CONFIG (config.yml by default) on
// top of Default, then applies environment overrides. A missing file is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	path := os.Getenv("TASKS_CONFIG")
	if path == "" {
		path = "config.yml"
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("open %s: %w", path, err)
	default:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("TASKS_SERVER_PORT"); ok {
		c.Server.Port = v
	}
	if v, ok := os.LookupEnv("TASKS_REPOSITORY_TYPE"); ok {
		c.Repository.Type = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		c.Database.URL = v
	}
	if v, ok := os.LookupEnv("TASKS_SQLITE_PATH"); ok {
		c.SQLite.Path = v
	}
	if v, ok := os.LookupEnv("TASKS_LOG_DEVELOPMENT"); ok {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TASKS_LOG_DEVELOPMENT: %w", err)
		}
		c.Logging.Development = dev
	}
	if v, ok := os.LookupEnv("TASKS_LOG_LEVEL"); ok {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required for the postgres repository")
		}
	case RepositorySQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite.path is required for the sqlite repository")
		}
	case RepositoryInMemory:
	default:
		return fmt.Errorf("unknown repository type %q", c.Repository.Type)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
