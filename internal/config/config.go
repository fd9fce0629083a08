package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Storage  StorageConfig  `envPrefix:"STORAGE_"`
	Admin    AdminConfig    `envPrefix:"ADMIN_"`
	Log      LogConfig      `envPrefix:"LOG_"`

	DatabaseURL     string `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret       string `env:"JWT_SECRET,required,notEmpty"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"ar"`
}

type HTTPConfig struct {
	Port               string        `env:"HTTP_PORT"                 envDefault:"8080"`
	RequestTimeout     time.Duration `env:"HTTP_REQUEST_TIMEOUT"      envDefault:"10s"`
	MaxBodyBytes       int64         `env:"HTTP_MAX_BODY_BYTES"       envDefault:"1048576"`
	CORSAllowedOrigins []string      `env:"HTTP_CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	TrustProxy         bool          `env:"HTTP_TRUST_PROXY"          envDefault:"false"`
}

type DatabaseConfig struct {
	MaxOpenConns  int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns  int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxIdle   time.Duration `env:"CONN_MAX_IDLE"  envDefault:"5m"`
	ConnMaxLife   time.Duration `env:"CONN_MAX_LIFE"  envDefault:"30m"`
	RunMigrations bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
}

type RedisConfig struct {
	URL string `env:"URL"`
}

type AuthConfig struct {
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`
	BcryptCost      int           `env:"BCRYPT_COST"       envDefault:"12"`
}

type StorageConfig struct {
	Driver         string `env:"DRIVER"           envDefault:"local"`
	LocalDir       string `env:"LOCAL_DIR"        envDefault:"./uploads"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL"  envDefault:"/files"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
	Cloudinary     CloudinaryConfig
}

type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
}

type AdminConfig struct {
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"Wasata Admin"`
}

type LogConfig struct {
	Level  string `env:"LEVEL"  envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

const (
	StorageDriverLocal      = "local"
	StorageDriverCloudinary = "cloudinary"
)

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse(env.ToMap(os.Environ()))
}

// Parse builds the config from an explicit environment map.
func Parse(environment map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Admin.Email = strings.ToLower(strings.TrimSpace(cfg.Admin.Email))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Sanitize()
	return &cfg, nil
}

// Validate checks requirements that depend on other settings; plain
// required variables are enforced by the env tags.
func (c *Config) Validate() error {
	missing := make([]string, 0, 4)
	switch c.Storage.Driver {
	case StorageDriverLocal:
	case StorageDriverCloudinary:
		if c.Storage.Cloudinary.CloudName == "" {
			missing = append(missing, "STORAGE_CLOUDINARY_CLOUD_NAME")
		}
		if c.Storage.Cloudinary.APIKey == "" {
			missing = append(missing, "STORAGE_CLOUDINARY_API_KEY")
		}
		if c.Storage.Cloudinary.APISecret == "" {
			missing = append(missing, "STORAGE_CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %s or %s, got %q", StorageDriverLocal, StorageDriverCloudinary, c.Storage.Driver)
	}
	if c.Admin.Email != "" && c.Admin.Password == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Sanitize clamps values that would otherwise break the server at runtime.
func (c *Config) Sanitize() {
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		c.Auth.BcryptCost = 12
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.HTTP.RequestTimeout <= 0 {
		c.HTTP.RequestTimeout = 10 * time.Second
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 1 << 20
	}
	if c.Storage.MaxUploadBytes < 1<<10 {
		c.Storage.MaxUploadBytes = 1 << 10
	}
	if c.Storage.MaxUploadBytes > 20<<20 {
		c.Storage.MaxUploadBytes = 20 << 20
	}
	if c.Auth.AccessTokenTTL <= 0 {
		c.Auth.AccessTokenTTL = 15 * time.Minute
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		c.Auth.RefreshTokenTTL = 30 * 24 * time.Hour
	}
	lang := strings.ToLower(strings.TrimSpace(c.DefaultLanguage))
	if lang != "ar" && lang != "en" {
		lang = "ar"
	}
	c.DefaultLanguage = lang
}
