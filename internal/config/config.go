package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	minProdSecretLen = 32
)

type (
	Container struct {
		App       *App
		Token     *Token
		Hash      *Hash
		DB        *DB
		HTTP      *HTTP
		Redis     *Redis
		RateLimit *RateLimit
	}

	App struct {
		Name    string `env:"APP_NAME" envDefault:"auth_microservice"`
		Env     string `env:"APP_ENV" envDefault:"local"`
		Version string `env:"APP_VERSION" envDefault:"1.0.0"`
	}

	Token struct {
		Secret   string        `env:"TOKEN_SECRET"`
		Duration time.Duration `env:"TOKEN_DURATION" envDefault:"24h"`
	}

	Hash struct {
		Algorithm string `env:"HASH_ALGORITHM" envDefault:"bcrypt"`
		// Cost is the bcrypt cost or the argon2id time parameter; 0 picks the algorithm default.
		Cost    int `env:"HASH_COST"`
		Workers int `env:"HASH_WORKERS"`
	}

	DB struct {
		Driver   string `env:"STORE_DRIVER" envDefault:"postgres"`
		Host     string `env:"DB_HOST" envDefault:"localhost"`
		Port     string `env:"DB_PORT" envDefault:"5432"`
		User     string `env:"DB_USER" envDefault:"postgres"`
		Password string `env:"DB_PASSWORD"`
		Name     string `env:"DB_NAME" envDefault:"auth"`
		SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	}

	HTTP struct {
		Env            string `env:"APP_ENV" envDefault:"local"`
		Port           string `env:"HTTP_PORT" envDefault:"8080"`
		AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`
		URL            string `env:"HTTP_URL" envDefault:"0.0.0.0"`
		// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is honoured.
		// Empty trusts none, so the client IP is the socket peer.
		TrustedProxies string `env:"TRUSTED_PROXIES"`
	}

	Redis struct {
		Address  string        `env:"REDIS_ADDRESS"`
		Password string        `env:"REDIS_PASSWORD"`
		CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	}

	RateLimit struct {
		Signup int           `env:"RATE_LIMIT_SIGNUP" envDefault:"5"`
		Signin int           `env:"RATE_LIMIT_SIGNIN" envDefault:"10"`
		Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	}
)

func New() (*Container, error) {
	if env := os.Getenv("APP_ENV"); env != "production" && env != "prod" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	c := &Container{
		App:       &App{},
		Token:     &Token{},
		Hash:      &Hash{},
		DB:        &DB{},
		HTTP:      &HTTP{},
		Redis:     &Redis{},
		RateLimit: &RateLimit{},
	}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) Validate() error {
	var errs []error

	switch {
	case c.Token.Secret == "":
		errs = append(errs, errors.New("TOKEN_SECRET is required"))
	case c.IsProduction() && len(c.Token.Secret) < minProdSecretLen:
		errs = append(errs, fmt.Errorf("TOKEN_SECRET must be at least %d bytes in production", minProdSecretLen))
	}
	if c.Token.Duration <= 0 {
		errs = append(errs, errors.New("TOKEN_DURATION must be positive"))
	}

	switch c.Hash.Algorithm {
	case "bcrypt", "argon2id":
	default:
		errs = append(errs, fmt.Errorf("HASH_ALGORITHM %q is not supported", c.Hash.Algorithm))
	}

	switch c.DB.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not supported", c.DB.Driver))
	}

	return errors.Join(errs...)
}

func (c *Container) IsProduction() bool {
	return c.App.Env == "prod" || c.App.Env == "production"
}

func (d *DB) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func (h *HTTP) ListenAddr() string {
	return fmt.Sprintf("%s:%s", h.URL, h.Port)
}

func (h *HTTP) Origins() []string {
	return splitList(h.AllowedOrigins)
}

func (h *HTTP) Proxies() []string {
	return splitList(h.TrustedProxies)
}

func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
