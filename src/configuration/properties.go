package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type (
	Properties struct {
		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

		API     APIProperties        `envPrefix:"API_"`
		Session SessionProperties    `envPrefix:"SESSION_"`
		Auth    AuthProperties       `envPrefix:"AUTH_"`
		Feed    FeedProperties       `envPrefix:"FEED_"`
		S3      S3Properties         `envPrefix:"S3_"`
		Server  HttpServerProperties `envPrefix:"HTTP_"`
	}

	APIProperties struct {
		BaseURL string `env:"BASE_URL" envDefault:"http://localhost:5000"`
		// Zero means no timeout.
		Timeout time.Duration `env:"TIMEOUT" envDefault:"0s"`
	}

	SessionProperties struct {
		Backend   string `env:"BACKEND" envDefault:"file"`
		Path      string `env:"PATH"`
		Key       string `env:"KEY" envDefault:"auth"`
		RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
		JWKSURL   string `env:"JWKS_URL"`
	}

	AuthProperties struct {
		RedirectDelay time.Duration `env:"REDIRECT_DELAY" envDefault:"1500ms"`
	}

	FeedProperties struct {
		PageSize int `env:"PAGE_SIZE" envDefault:"20"`
	}

	S3Properties struct {
		Host      string        `env:"HOST"`
		AccessKey string        `env:"ACCESS_KEY"`
		SecretKey string        `env:"SECRET_KEY"`
		Bucket    string        `env:"BUCKET" envDefault:"pictures"`
		UseSSL    bool          `env:"USE_SSL" envDefault:"true"`
		URLExpiry time.Duration `env:"URL_EXPIRY" envDefault:"168h"`
	}

	HttpServerProperties struct {
		Port         string        `env:"PORT" envDefault:"8088"`
		ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
		AllowOrigins []string      `env:"ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
		Pprof        bool          `env:"PPROF" envDefault:"false"`
	}
)

const (
	SessionBackendFile   = "file"
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// ParseProperties loads an optional .env file and then reads the environment.
func ParseProperties(envFiles ...string) (*Properties, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	config := &Properties{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("read config error: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func ReadProperties() *Properties {
	config, err := ParseProperties()
	if err != nil {
		panic(err)
	}
	return config
}

func (p *Properties) validate() error {
	switch p.Session.Backend {
	case SessionBackendFile, SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("unknown session backend %q", p.Session.Backend)
	}
	if p.API.BaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if p.Feed.PageSize <= 0 {
		return fmt.Errorf("FEED_PAGE_SIZE must be positive, got %d", p.Feed.PageSize)
	}
	return nil
}
