package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Environment   string
	LogLevel      string
	DatabaseURL   string
	RedisURL      string
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Completion service
	LLMProvider    string
	GeminiAPIKey   string
	GeminiModel    string
	LLMTemperature float32
	LLMMaxTokens   int
	LLMTimeout     time.Duration

	OpenRouterAPIKey   string
	OpenRouterBase     string
	OpenRouterModel    string
	OpenRouterAppTitle string
	OpenRouterReferer  string

	StoreTimeout time.Duration

	// Rendering
	PDFEngine      string
	TypstBin       string
	ChromePath     string
	RenderCacheTTL time.Duration

	ATSMaxUploadBytes  int64
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:     getEnv("JWT_ISSUER", "resumedia"),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 30*24*60),

		LLMProvider:    strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 2048),
		LLMTimeout:     getEnvSeconds("LLM_TIMEOUT_SECONDS", 45),

		OpenRouterAPIKey:   os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBase:     os.Getenv("OPENROUTER_BASE_URL"),
		OpenRouterModel:    os.Getenv("OPENROUTER_MODEL"),
		OpenRouterAppTitle: getEnv("OPENROUTER_APP_TITLE", "Resumedia"),
		OpenRouterReferer:  os.Getenv("OPENROUTER_REFERER"),

		StoreTimeout: getEnvSeconds("STORE_TIMEOUT_SECONDS", 5),

		PDFEngine:      strings.ToLower(getEnv("PDF_ENGINE", "typst")),
		TypstBin:       getEnv("TYPST_BIN", "typst"),
		ChromePath:     os.Getenv("CHROME_PATH"),
		RenderCacheTTL: getEnvSeconds("RENDER_CACHE_TTL_SECONDS", 600),

		ATSMaxUploadBytes:  int64(getEnvInt("ATS_MAX_UPLOAD_MB", 10)) << 20,
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 10),
	}
	return cfg
}

// IsDevelopment reports whether the service runs with development defaults.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return def
}

func getEnvSeconds(key string, def int) time.Duration {
	return time.Duration(getEnvInt(key, def)) * time.Second
}
