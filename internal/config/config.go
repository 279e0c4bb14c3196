package config

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	AI       AIConfig       `yaml:"ai"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AIConfig describes the OpenAI-compatible chat completion gateway.
// An empty APIKey is allowed at startup; every analysis then fails with a
// configuration error instead of reaching the network.
type AIConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // mysql, postgres or sqlite
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type StorageConfig struct {
	Dir         string `yaml:"dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 9871, ShutdownTimeout: 30 * time.Second},
		Log:    LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		AI: AIConfig{
			BaseURL: "https://ai.gateway.lovable.dev/v1",
			Model:   "google/gemini-2.5-flash",
			Timeout: 60 * time.Second,
		},
		Database: DatabaseConfig{Driver: "mysql", Port: 3306, Name: "file_insight"},
		Storage:  StorageConfig{Dir: "data/uploaded-files", MaxUploadMB: 10},
		Auth:     AuthConfig{JWTSecret: "file-insight-dev-secret", TokenTTL: 7 * 24 * time.Hour},
	}
}

func Load(configFile string) *Config {
	c := Default()

	paths := []string{"etc/config-dev.yaml", "/etc/file-insight/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, c); err != nil {
				slog.Warn("config file invalid, using defaults", "path", path, "err", err)
				*c = *Default()
			}
			break
		}
	}

	c.applyEnv()
	return c
}

func (c *Config) applyEnv() {
	envOverride(&c.AI.APIKey, "LOVABLE_API_KEY")
	envOverride(&c.AI.APIKey, "AI_GATEWAY_API_KEY")
	envOverride(&c.AI.BaseURL, "AI_GATEWAY_URL")
	envOverride(&c.AI.Model, "AI_MODEL")
	envOverride(&c.Database.Driver, "DB_DRIVER")
	envOverride(&c.Database.DSN, "DB_DSN")
	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.User, "DB_USER")
	envOverride(&c.Database.Password, "DB_PASS")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverride(&c.Storage.Dir, "STORAGE_DIR")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "DB_PORT")
	envOverrideDuration(&c.AI.Timeout, "AI_TIMEOUT")
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// MaxUploadBytes is the upload ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Storage.MaxUploadMB << 20
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Database.Driver {
	case "mysql", "":
		conn, err := c.openMySQL()
		if err != nil {
			return nil, err
		}
		dialector = mysql.New(mysql.Config{Conn: conn})
	case "postgres":
		dsn := c.Database.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name)
		}
		dialector = postgres.Open(dsn)
	case "sqlite":
		dsn := c.Database.DSN
		if dsn == "" {
			dsn = c.Database.Name + ".db"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func (c *Config) openMySQL() (*sql.DB, error) {
	var cfg *gomysql.Config
	if c.Database.DSN != "" {
		parsed, err := gomysql.ParseDSN(c.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		cfg = parsed
	} else {
		cfg = gomysql.NewConfig()
		cfg.User = c.Database.User
		cfg.Passwd = c.Database.Password
		cfg.Net = "tcp"
		cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
		cfg.DBName = c.Database.Name
	}
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return sqlDB, nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
