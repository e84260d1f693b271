package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
// The Supabase URL and keys have no defaults on purpose: they must be
// injected, never hardcoded.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Public site origins allowed by CORS
	AllowedOrigins []string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxStreams     int // max concurrent obra event streams

	// Page cache (invalidated by GET /api/revalidate)
	PageCacheTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Supabase
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	SupabaseJWTSecret  string

	// Realtime
	RealtimeHeartbeat time.Duration

	// Showroom ticker timing
	HeroInterval   time.Duration
	BackgroundHold time.Duration
	BackgroundFade time.Duration

	// Session cookie
	CookieName   string
	CookieSecure bool

	// Feed stub
	FeedDelay time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "*")),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxStreams:     getEnvInt("MAX_STREAMS", 200),

		PageCacheTTL: getEnvDuration("PAGE_CACHE_TTL", 5*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseJWTSecret:  getEnv("SUPABASE_JWT_SECRET", ""),

		RealtimeHeartbeat: getEnvDuration("REALTIME_HEARTBEAT", 30*time.Second),

		HeroInterval:   getEnvDuration("HERO_INTERVAL", 5*time.Second),
		BackgroundHold: getEnvDuration("BACKGROUND_HOLD", 7*time.Second),
		BackgroundFade: getEnvDuration("BACKGROUND_FADE", 1500*time.Millisecond),

		CookieName:   getEnv("SESSION_COOKIE_NAME", "vn_session"),
		CookieSecure: getEnv("SESSION_COOKIE_SECURE", "true") == "true",

		FeedDelay: getEnvDuration("FEED_DELAY", 300*time.Millisecond),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
