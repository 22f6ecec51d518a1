package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// MaxShortCodeLength matches the width of the short_code column.
const MaxShortCodeLength = 32

type Config struct {
	Env        string `yaml:"env"`
	Log        `yaml:"log"`
	ShortCode  `yaml:"short_code"`
	HTTPServer `yaml:"http_server"`
	Storage    `yaml:"storage"`
	Migrations `yaml:"migrations"`
	Postgres   `yaml:"postgres"`
	SQLite     `yaml:"sqlite"`
	Redis      `yaml:"redis"`
}

type Log struct {
	Level   string `yaml:"level"`
	Concise bool   `yaml:"concise"`
}

// SlogLevel maps the configured level name onto slog. Unknown names fall
// back to info.
func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type ShortCode struct {
	Length     int `yaml:"length"`
	MaxRetries int `yaml:"max_retries"`
}

var defaultShortCode = ShortCode{
	Length:     6,
	MaxRetries: 10,
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
	DocsPath       string        `yaml:"docs_path"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
	DocsPath:       "./docs/swagger.yml",
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// TLS reports whether both certificate and key are configured.
func (s *HTTPServer) TLS() bool {
	return s.CertFile != "" && s.KeyFile != ""
}

type Storage struct {
	Driver string `yaml:"driver"`
}

var defaultStorage = Storage{
	Driver: DriverPostgres,
}

type Migrations struct {
	Dir  string `yaml:"dir"`
	Auto bool   `yaml:"auto"`
}

var defaultMigrations = Migrations{
	Dir:  "migrations",
	Auto: true,
}

// SourceURL returns the golang-migrate source for the given driver.
func (m *Migrations) SourceURL(driver string) string {
	return fmt.Sprintf("file://%s/%s", strings.TrimSuffix(m.Dir, "/"), driver)
}

type Postgres struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

type SQLite struct {
	Path        string        `yaml:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

var defaultSQLite = SQLite{
	Path:        "linkshrink.db",
	BusyTimeout: 5 * time.Second,
}

// DSN returns the modernc sqlite data source with the busy timeout pragma.
func (s *SQLite) DSN() string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", s.Path, s.BusyTimeout.Milliseconds())
}

// MigrateURL returns the golang-migrate database URL.
func (s *SQLite) MigrateURL() string {
	return "sqlite://" + s.Path
}

type Redis struct {
	Enabled   bool          `yaml:"enabled"`
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	TTL       time.Duration `yaml:"ttl"`
	KeyPrefix string        `yaml:"key_prefix"`
}

var defaultRedis = Redis{
	Addr:      "localhost:6379",
	TTL:       24 * time.Hour,
	KeyPrefix: "link:code:",
}

// Load reads the YAML config at path. Dotenv files are loaded into the
// environment first; missing ones are skipped. ${VAR} references in the
// file are expanded from the environment before decoding.
func Load(path string, envFiles ...string) (*Config, error) {
	const op = "config.Load"

	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: failed to load env file: %w", op, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.Storage.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.ShortCode.Length <= 0 {
		return fmt.Errorf("short_code.length must be positive, got %d", cfg.ShortCode.Length)
	}
	if cfg.ShortCode.Length > MaxShortCodeLength {
		return fmt.Errorf("short_code.length must be at most %d, got %d", MaxShortCodeLength, cfg.ShortCode.Length)
	}
	if cfg.ShortCode.MaxRetries <= 0 {
		return fmt.Errorf("short_code.max_retries must be positive, got %d", cfg.ShortCode.MaxRetries)
	}

	return nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.Log = Log{Level: "info"}
	cfg.ShortCode = defaultShortCode
	cfg.HTTPServer = defaultHTTPServer
	cfg.Storage = defaultStorage
	cfg.Migrations = defaultMigrations
	cfg.Postgres = defaultPostgres
	cfg.SQLite = defaultSQLite
	cfg.Redis = defaultRedis
}
