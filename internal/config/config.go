package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	MongoURI     string
	DatabaseName string
	StoreTimeout time.Duration

	JWTSecret       string
	JWTAlgorithm    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	TokenCacheSize  int

	CORSOrigin string

	AppData AppDataConfig
}

type AppDataConfig struct {
	YearsBack      int
	YearsForward   int
	UploadInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mongoURI, err := requireEnv("DEV_MONGO_URI")
	if err != nil {
		return nil, err
	}
	secret, err := requireEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}

	alg := getEnv("JWT_ALGORITHM", "HS256")
	switch alg {
	case jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg():
	default:
		return nil, fmt.Errorf("unsupported JWT_ALGORITHM %q", alg)
	}

	p := &parser{}
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MongoURI:     mongoURI,
		DatabaseName: getEnv("DEV_DB_NAME", "ck"),
		StoreTimeout: p.duration("STORE_TIMEOUT", 5*time.Second),

		JWTSecret:       secret,
		JWTAlgorithm:    alg,
		AccessTokenTTL:  p.duration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: p.duration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		TokenCacheSize:  p.integer("TOKEN_CACHE_SIZE", 1024),

		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		AppData: AppDataConfig{
			YearsBack:      p.integer("APP_DATA_YEARS_BACK", 1),
			YearsForward:   p.integer("APP_DATA_YEARS_FORWARD", 5),
			UploadInterval: p.duration("APP_DATA_UPLOAD_INTERVAL", 0),
		},
	}

	if p.err != nil {
		return nil, p.err
	}
	if cfg.TokenCacheSize <= 0 {
		return nil, fmt.Errorf("TOKEN_CACHE_SIZE must be positive, got %d", cfg.TokenCacheSize)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func requireEnv(key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", fmt.Errorf("required environment variable not set: %s", key)
	}
	return value, nil
}

// parser reads typed variables and keeps the first value it cannot parse.
type parser struct {
	err error
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
}

// duration falls back only when key is unset.
func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value, err)
		return fallback
	}
	return d
}

func (p *parser) integer(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, err)
		return fallback
	}
	return n
}
