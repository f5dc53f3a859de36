package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

var ErrNoSessionSecret = errors.New("SESSION_SECRET is required in prod")

type Config struct {
	Env    string
	DB     DB
	Server Server
	Auth   Auth
	Mail   Mail
	Logger Logger
}

type DB struct {
	Engine      string `env:"DB_ENGINE"`
	Host        string `env:"DB_HOST"`
	Port        int    `env:"DB_PORT"`
	User        string `env:"DB_USER"`
	Password    string `env:"DB_PASS"`
	Name        string `env:"DB_NAME"`
	DatabaseURI string `env:"DATABASE_URI"`
	SQLitePath  string `env:"SQLITE_PATH"`
}

type Server struct {
	RunAddress      string        `env:"PORT"`
	StaticDir       string        `env:"STATIC_DIR"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT"`
}

type Auth struct {
	Username      string        `env:"ADMIN_USERNAME"`
	Password      string        `env:"ADMIN_PASSWORD"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL"`
	SecureCookie  bool          `env:"COOKIE_SECURE"`
}

type Mail struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	Secure   bool   `env:"SMTP_SECURE"`
	To       string `env:"MAIL_TO"`
	From     string `env:"MAIL_FROM"`
}

type Logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("port", "3000")
	v.SetDefault("http_read_timeout", 15*time.Second)
	v.SetDefault("http_write_timeout", 60*time.Second)
	v.SetDefault("http_shutdown_timeout", 10*time.Second)
	v.SetDefault("sqlite_path", "data/surveys.db")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_user", "root")
	v.SetDefault("db_name", "surveys")
	v.SetDefault("admin_username", "admin")
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("smtp_port", 587)
	v.SetDefault("log_level", "info")
}

// Load собирает конфигурацию из уже настроенного экземпляра viper.
func Load(v *viper.Viper) *Config {
	v.AutomaticEnv()
	setDefaults(v)

	config := Config{
		Env: v.GetString("app_env"),
		DB: DB{
			Engine:      engine(v.GetString("db_engine"), v.GetBool("use_mysql")),
			Host:        v.GetString("db_host"),
			Port:        v.GetInt("db_port"),
			User:        v.GetString("db_user"),
			Password:    v.GetString("db_pass"),
			Name:        v.GetString("db_name"),
			DatabaseURI: v.GetString("database_uri"),
			SQLitePath:  v.GetString("sqlite_path"),
		},
		Server: Server{
			RunAddress:      runAddress(v.GetString("port")),
			StaticDir:       v.GetString("static_dir"),
			ReadTimeout:     v.GetDuration("http_read_timeout"),
			WriteTimeout:    v.GetDuration("http_write_timeout"),
			ShutdownTimeout: v.GetDuration("http_shutdown_timeout"),
		},
		Auth: Auth{
			Username:      v.GetString("admin_username"),
			Password:      v.GetString("admin_password"),
			SessionSecret: v.GetString("session_secret"),
			SessionTTL:    v.GetDuration("session_ttl"),
			SecureCookie:  v.GetBool("cookie_secure"),
		},
		Mail: Mail{
			Host:     v.GetString("smtp_host"),
			Port:     v.GetInt("smtp_port"),
			User:     v.GetString("smtp_user"),
			Password: v.GetString("smtp_pass"),
			Secure:   v.GetBool("smtp_secure"),
			To:       v.GetString("mail_to"),
			From:     v.GetString("mail_from"),
		},
		Logger: Logger{LogLevel: v.GetString("log_level")},
	}

	return &config
}

// Validate reports settings the service must not start without.
func (c *Config) Validate() error {
	if c.Env == EnvProd && strings.TrimSpace(c.Auth.SessionSecret) == "" {
		return ErrNoSessionSecret
	}
	return nil
}

func engine(name string, useMySQL bool) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case EngineMySQL:
		return EngineMySQL
	case EnginePostgres, "postgresql", "pg":
		return EnginePostgres
	case EngineSQLite, "sqlite3":
		return EngineSQLite
	}
	if useMySQL {
		return EngineMySQL
	}
	return EngineSQLite
}

// runAddress принимает как голый порт ("3000"), так и адрес ("127.0.0.1:3000").
func runAddress(port string) string {
	port = strings.TrimSpace(port)
	if _, err := strconv.Atoi(port); err == nil {
		return ":" + port
	}
	if _, _, err := net.SplitHostPort(port); err == nil {
		return port
	}
	return ":3000"
}
