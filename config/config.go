package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App        AppConfig        `koanf:"app"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	JWT        JWTConfig        `koanf:"jwt"`
	SMTP       SMTPConfig       `koanf:"smtp"`
	Google     GoogleConfig     `koanf:"google"`
	Storage    StorageConfig    `koanf:"storage"`
	Cloudinary CloudinaryConfig `koanf:"cloudinary"`
	AI         AIConfig         `koanf:"ai"`
	Log        LogConfig        `koanf:"log"`
	Cron       CronConfig       `koanf:"cron"`
}

type AppConfig struct {
	Port        string `koanf:"port"`
	Env         string `koanf:"env"`
	FrontendURL string `koanf:"frontend_url"`
	CORSOrigins string `koanf:"cors_origins"`
}

type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// RedisConfig is optional; an empty Addr keeps OAuth state in process memory.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type JWTConfig struct {
	Secret     string        `koanf:"secret"`
	AccessTTL  time.Duration `koanf:"access_ttl"`
	RefreshTTL time.Duration `koanf:"refresh_ttl"`
}

type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

type GoogleConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURL  string `koanf:"redirect_url"`
}

// Enabled reports whether calendar sync credentials are present.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

type StorageConfig struct {
	Driver    string `koanf:"driver"` // local | cloudinary
	UploadDir string `koanf:"upload_dir"`
}

type CloudinaryConfig struct {
	CloudName    string `koanf:"cloud_name"`
	APIKey       string `koanf:"api_key"`
	APISecret    string `koanf:"api_secret"`
	UploadPreset string `koanf:"upload_preset"`
}

type AIConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type CronConfig struct {
	Enabled bool `koanf:"enabled"`
}

// envMappings maps environment variable names to config paths. Variables not
// listed here are ignored.
var envMappings = map[string]string{
	"PORT":                     "app.port",
	"APP_ENV":                  "app.env",
	"FRONTEND_URL":             "app.frontend_url",
	"CORS_ORIGINS":             "app.cors_origins",
	"DATABASE_URL":             "database.url",
	"REDIS_ADDR":               "redis.addr",
	"REDIS_PASSWORD":           "redis.password",
	"REDIS_DB":                 "redis.db",
	"JWT_SECRET":               "jwt.secret",
	"JWT_ACCESS_TTL":           "jwt.access_ttl",
	"JWT_REFRESH_TTL":          "jwt.refresh_ttl",
	"SMTP_HOST":                "smtp.host",
	"SMTP_PORT":                "smtp.port",
	"EMAIL_USER":               "smtp.user",
	"EMAIL_PASS":               "smtp.password",
	"EMAIL_FROM":               "smtp.from",
	"GOOGLE_CLIENT_ID":         "google.client_id",
	"GOOGLE_CLIENT_SECRET":     "google.client_secret",
	"GOOGLE_REDIRECT_URL":      "google.redirect_url",
	"STORAGE_DRIVER":           "storage.driver",
	"UPLOAD_DIR":               "storage.upload_dir",
	"CLOUDINARY_CLOUD_NAME":    "cloudinary.cloud_name",
	"CLOUDINARY_API_KEY":       "cloudinary.api_key",
	"CLOUDINARY_API_SECRET":    "cloudinary.api_secret",
	"CLOUDINARY_UPLOAD_PRESET": "cloudinary.upload_preset",
	"AI_API_KEY":               "ai.api_key",
	"AI_BASE_URL":              "ai.base_url",
	"AI_MODEL":                 "ai.model",
	"AI_TIMEOUT":               "ai.timeout",
	"LOG_LEVEL":                "log.level",
	"LOG_FORMAT":               "log.format",
	"CRON_ENABLED":             "cron.enabled",
}

func envKey(key string) string {
	return envMappings[strings.ToUpper(key)]
}

// Default returns the built-in configuration used before the environment is applied.
func Default() Config {
	return Config{
		App: AppConfig{
			Port:        "8000",
			Env:         "development",
			FrontendURL: "http://localhost:3000",
			CORSOrigins: "*",
		},
		JWT: JWTConfig{
			AccessTTL:  24 * time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		Storage: StorageConfig{
			Driver:    "local",
			UploadDir: "uploads",
		},
		AI: AIConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Cron: CronConfig{
			Enabled: true,
		},
	}
}

// Load reads .env (if present), layers the environment over the defaults and
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the keys the server cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	switch c.Storage.Driver {
	case "local":
	case "cloudinary":
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			return fmt.Errorf("cloudinary storage requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	return nil
}

// Origins splits the CORS origin list.
func (a AppConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(a.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
