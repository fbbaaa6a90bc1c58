// Package config loads server settings from the environment, after merging
// in a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreMySQL  = "mysql"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port string `env:"PORT" envDefault:"5000"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"mongo"`
	DBUser        string `env:"DBUSER"`
	DBPass        string `env:"DBPASS"`
	DBHost        string `env:"DBHOST" envDefault:"127.0.0.1:3306"`
	DBName        string `env:"DBNAME"`
	MongoURI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"your_database"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTSecretOld string        `env:"JWT_SECRET_OLD"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	OTPTTL       time.Duration `env:"OTP_TTL" envDefault:"10m"`

	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	EmailHost     string `env:"EMAIL_HOST" envDefault:"smtp.gmail.com"`
	EmailPort     int    `env:"EMAIL_PORT" envDefault:"587"`
	EmailUser     string `env:"EMAIL_USER"`
	EmailPassword string `env:"EMAIL_PASSWORD"`

	AuthRateLimit       float64  `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	RateLimitIPLookups  []string `env:"AUTH_RATE_LIMIT_IP_LOOKUPS" envSeparator:"," envDefault:"RemoteAddr,X-Forwarded-For,X-Real-IP"`
	ConcealUnknownEmail bool     `env:"AUTH_CONCEAL_UNKNOWN_EMAIL" envDefault:"false"`
	CORSOrigins         []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`

	LogFile  string `env:"LOG_FILE"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the given .env files (".env" when none are named) and then
// parses the environment. Missing .env files are not an error; values already
// in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case StoreMySQL:
		if c.DBName == "" {
			return errors.New("DBNAME is required for the mysql store")
		}
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.TokenTTL <= 0 || c.OTPTTL <= 0 {
		return errors.New("TOKEN_TTL and OTP_TTL must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
