package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	LogLevel        string

	DatabaseURL       string
	DBConnectAttempts int

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioUseSSL     bool
	SignedURLTTL    time.Duration

	LLMProvider string
	LLMModel    string
	LLMBaseURL  string
	LLMAPIKey   string
	LLMTimeout  time.Duration

	JWTSecret          string
	OIDCIssuer         string
	OIDCClientID       string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURL  string
	UIRedirectURL      string

	RedisURL               string
	GenerateRateLimitRPS   float64
	GenerateRateLimitBurst int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("DB_CONNECT_ATTEMPTS", 5)
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("MINIO_BUCKET", "resumes")
	v.SetDefault("MINIO_USE_SSL", true)
	v.SetDefault("SIGNED_URL_TTL", "1h")
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_MODEL", "gemma-3-12b-it")
	v.SetDefault("LLM_TIMEOUT", "120s")
	v.SetDefault("GENERATE_RATE_LIMIT_RPS", 0)
	v.SetDefault("GENERATE_RATE_LIMIT_BURST", 5)
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            v.GetString("PORT"),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		Env:             env,
		LogLevel:        v.GetString("LOG_LEVEL"),

		DatabaseURL:       dbURL,
		DBConnectAttempts: v.GetInt("DB_CONNECT_ATTEMPTS"),

		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),
		SSEKMSKeyID:     v.GetString("SSE_KMS_KEY_ID"),
		MinioEndpoint:   v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:  v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:  v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:     v.GetString("MINIO_BUCKET"),
		MinioUseSSL:     v.GetBool("MINIO_USE_SSL"),
		SignedURLTTL:    v.GetDuration("SIGNED_URL_TTL"),

		LLMProvider: normalizeProvider(v.GetString("LLM_PROVIDER")),
		LLMModel:    v.GetString("LLM_MODEL"),
		LLMBaseURL:  v.GetString("LLM_BASE_URL"),
		LLMAPIKey:   v.GetString("LLM_API_KEY"),
		LLMTimeout:  v.GetDuration("LLM_TIMEOUT"),

		JWTSecret:          v.GetString("JWT_SECRET"),
		OIDCIssuer:         v.GetString("OIDC_ISSUER"),
		OIDCClientID:       v.GetString("OIDC_CLIENT_ID"),
		GitHubClientID:     v.GetString("GITHUB_CLIENT_ID"),
		GitHubClientSecret: v.GetString("GITHUB_CLIENT_SECRET"),
		GitHubRedirectURL:  v.GetString("GITHUB_REDIRECT_URL"),
		UIRedirectURL:      v.GetString("UI_REDIRECT_URL"),

		RedisURL:               v.GetString("REDIS_URL"),
		GenerateRateLimitRPS:   v.GetFloat64("GENERATE_RATE_LIMIT_RPS"),
		GenerateRateLimitBurst: v.GetInt("GENERATE_RATE_LIMIT_BURST"),
	}
}

// IsDevLike reports whether env allows in-memory fallbacks.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "minio", "supabase":
		return "minio"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "echo":
		return "echo"
	default:
		return "openai"
	}
}
