package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds all environment settings for the storefront API.
type Config struct {
	Port string
	Env  string

	MongoURI string
	MongoDB  string
	RedisURL string // empty disables the product cache

	JWTSecret string
	JWTTTL    time.Duration

	KafkaBrokers   []string // empty disables cart events
	KafkaCartTopic string

	CartMaxAttempts int
	ProductCacheTTL time.Duration
	RequestTimeout  time.Duration

	AllowedOrigins []string
}

// SecretGetter resolves a named secret. Implemented by SecretsClient.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Load reads the optional .env file, then environment variables with defaults.
// If AWS_USE_SECRETS=true the JWT secret is looked up in Secrets Manager and
// falls back to JWT_SECRET on failure.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var secrets SecretGetter
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		sm, err := NewSecretsClient(ctx)
		if err != nil {
			zap.L().Warn("Secrets Manager unavailable, using environment", zap.Error(err))
		} else {
			secrets = sm
		}
	}
	return load(ctx, secrets)
}

func load(ctx context.Context, secrets SecretGetter) (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "storefront"),
		RedisURL:        os.Getenv("REDIS_URL"),
		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaCartTopic:  getEnv("KAFKA_CART_TOPIC", "cart.events"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		JWTTTL:          24 * time.Hour,
		ProductCacheTTL: 10 * time.Minute,
		RequestTimeout:  30 * time.Second,
		CartMaxAttempts: 3,
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", cfg.JWTTTL); err != nil {
		return nil, err
	}
	if cfg.ProductCacheTTL, err = getDuration("PRODUCT_CACHE_TTL", cfg.ProductCacheTTL); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return nil, err
	}
	if v := os.Getenv("CART_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("CART_MAX_ATTEMPTS must be a positive integer, got %q", v)
		}
		cfg.CartMaxAttempts = n
	}

	if secrets != nil {
		name := getEnv("JWT_SECRET_NAME", "storefront/JWT_SECRET")
		if s, err := secrets.GetSecret(ctx, name); err == nil && s != "" {
			cfg.JWTSecret = s
		} else if err != nil {
			zap.L().Warn("Failed to read JWT secret from Secrets Manager", zap.String("name", name), zap.Error(err))
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(p), "/")); p != "" {
			out = append(out, p)
		}
	}
	return out
}
