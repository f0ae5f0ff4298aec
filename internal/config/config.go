package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName         = "TrendtacticsAPI"
	defaultAppEnv          = "development"
	defaultPort            = "4000"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultDataDir         = "data"
	defaultClientURL       = "https://trendtacticsdigital.com"
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultAITimeout       = 60 * time.Second
	defaultLoginRateLimit  = 5
	maxOpenRouterKeys      = 21
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName   string
	AppEnv    string
	Port      string
	LogLevel  string
	LogFormat string

	SupabaseURL     string
	SupabaseKey     string
	SupabaseAnonKey string
	DatabaseURL     string
	RedisURL        string

	DataDir         string
	StaticDir       string
	LocalAuthSecret string

	OpenRouterKeys []string
	OpenAIKey      string
	GoogleAIKey    string
	ClientURL      string
	AITimeout      time.Duration

	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	LoginRateLimit int
}

// Load reads a .env file when present, then populates a Config from the
// environment. Variables already set in the process take precedence over
// the file. Missing provider settings are not an error.
func Load() (Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Config{
		AppName:         getEnv("APP_NAME", defaultAppName),
		AppEnv:          getEnv("APP_ENV", defaultAppEnv),
		Port:            getEnv("PORT", defaultPort),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat)),
		SupabaseURL:     strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseKey:     os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		DataDir:         getEnv("DATA_DIR", defaultDataDir),
		StaticDir:       os.Getenv("STATIC_DIR"),
		LocalAuthSecret: os.Getenv("LOCAL_AUTH_SECRET"),
		OpenRouterKeys:  openRouterKeys(),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		GoogleAIKey:     os.Getenv("GOOGLE_AI_API_KEY"),
		ClientURL:       getEnv("CLIENT_URL", defaultClientURL),
		AITimeout:       defaultAITimeout,
		ShutdownPeriod:  defaultShutdownDelay,
		IdempotencyTTL:  defaultIdempotencyTTL,
		LoginRateLimit:  defaultLoginRateLimit,
	}
	if cfg.SupabaseKey == "" {
		cfg.SupabaseKey = cfg.SupabaseAnonKey
	}

	var err error
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("AI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid AI_TIMEOUT: %w", err)
		}
		cfg.AITimeout = d
	}
	if v := os.Getenv("LOGIN_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOGIN_RATE_LIMIT: %w", err)
		}
		cfg.LoginRateLimit = n
	}

	if cfg.LocalAuthSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, fmt.Errorf("generate local auth secret: %w", err)
		}
		cfg.LocalAuthSecret = secret
	}

	return cfg, nil
}

// SupabaseConfigured reports whether both provider URL and key are present.
func (c Config) SupabaseConfigured() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// IsDev reports whether the process runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// durationFromEnv prefers the integer-seconds variable over the Go duration one.
func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

// openRouterKeys collects OPENROUTER_KEY_1..21, falling back to
// OPENROUTER_API_KEY when none of the numbered keys is set.
func openRouterKeys() []string {
	var keys []string
	for i := 1; i <= maxOpenRouterKeys; i++ {
		if key := os.Getenv(fmt.Sprintf("OPENROUTER_KEY_%d", i)); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
