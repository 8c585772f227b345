package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port      int    `yaml:"port"`
	GinMode   string `yaml:"gin_mode"`
	ClientURL string `yaml:"client_url"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	Issuer      string `yaml:"issuer"`
	SessionTTL  string `yaml:"session_ttl"`
	ExtendedTTL string `yaml:"extended_ttl"`
}

type OTPConfig struct {
	TTL string `yaml:"ttl"`
}

type EmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Email    EmailConfig    `yaml:"email"`
	Google   GoogleConfig   `yaml:"google"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Port               string
	GinMode            string
	ClientURL          string
	DSN                string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	JWTSecret          string
	JWTIssuer          string
	SessionTTL         time.Duration
	SessionExtendedTTL time.Duration
	OTPTTL             time.Duration
	EmailHost          string
	EmailPort          int
	EmailUser          string
	EmailPassword      string
	EmailFrom          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	CasbinModelPath    string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// Load builds the configuration from an optional yaml file overridden by
// environment variables. A local .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	file := &ConfigFile{}
	path := env("CONFIG_FILE", "config/config.yml")
	if bytes, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(bytes, file); err != nil {
			return nil, fmt.Errorf("could not parse config yaml at %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:               env("PORT", defString(itoa(file.App.Port), "8080")),
		GinMode:            env("GIN_MODE", defString(file.App.GinMode, "debug")),
		ClientURL:          env("CLIENT_URL", defString(file.App.ClientURL, "http://localhost:5173")),
		DSN:                env("DATABASE_DSN", file.Database.DSN),
		RedisAddr:          env("REDIS_ADDR", defString(file.Redis.Addr, "localhost:6379")),
		RedisPassword:      env("REDIS_PASSWORD", file.Redis.Password),
		RedisDB:            envInt("REDIS_DB", file.Redis.DB),
		JWTSecret:          env("JWT_SECRET", file.JWT.Secret),
		JWTIssuer:          env("JWT_ISSUER", defString(file.JWT.Issuer, "notesvc")),
		EmailHost:          env("EMAIL_HOST", defString(file.Email.Host, "smtp.gmail.com")),
		EmailPort:          envInt("EMAIL_PORT", defInt(file.Email.Port, 587)),
		EmailUser:          env("EMAIL_USER", file.Email.User),
		EmailPassword:      env("EMAIL_PASS", file.Email.Password),
		EmailFrom:          env("EMAIL_FROM", file.Email.From),
		GoogleClientID:     env("GOOGLE_CLIENT_ID", file.Google.ClientID),
		GoogleClientSecret: env("GOOGLE_CLIENT_SECRET", file.Google.ClientSecret),
		GoogleRedirectURL:  env("GOOGLE_REDIRECT_URL", file.Google.RedirectURL),
		CasbinModelPath:    env("CASBIN_MODEL_PATH", defString(file.Casbin.ModelPath, "config/model.conf")),
	}
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = cfg.EmailUser
	}

	var err error
	cfg.SessionTTL, err = parseTTL(env("SESSION_TTL", file.JWT.SessionTTL), 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}
	cfg.SessionExtendedTTL, err = parseTTL(env("SESSION_EXTENDED_TTL", file.JWT.ExtendedTTL), 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid extended session TTL: %w", err)
	}
	cfg.OTPTTL, err = parseTTL(env("OTP_TTL", file.OTP.TTL), 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}

	return cfg, nil
}

func parseTTL(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

func defString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func defInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

func itoa(i int) string {
	if i == 0 {
		return ""
	}
	return strconv.Itoa(i)
}
