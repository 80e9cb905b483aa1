package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	githubauth "coverletter-backend/internal/auth"
	"coverletter-backend/internal/coverletters"
	"coverletter-backend/internal/export"
	"coverletter-backend/internal/generation"
	"coverletter-backend/internal/llm"
	openai "coverletter-backend/internal/llm/openai"
	"coverletter-backend/internal/prompts"
	"coverletter-backend/internal/resumes"
	"coverletter-backend/internal/services/health"
	"coverletter-backend/internal/shared/auth"
	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/server"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/storage/db"
	"coverletter-backend/internal/shared/storage/object"
	localstore "coverletter-backend/internal/shared/storage/object/local"
	miniostore "coverletter-backend/internal/shared/storage/object/minio"
	s3store "coverletter-backend/internal/shared/storage/object/s3"
	"coverletter-backend/internal/shared/telemetry"
	"coverletter-backend/internal/users"
)

const (
	dbRetryDelay    = 2 * time.Second
	rateLimitWindow = time.Minute
)

// App holds shared dependencies and the wired router.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Store     object.ObjectStore
	Redis     *redis.Client
	Generator llm.Generator

	Prompts      prompts.Repo
	Resumes      resumes.Repo
	CoverLetters coverletters.Repo
	Users        users.Repo
}

// Build prepares every dependency and wires the HTTP router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	secret, err := auth.SecretFor(cfg.JWTSecret, cfg.Env)
	if err != nil {
		return nil, err
	}
	verifier, err := buildVerifier(ctx, cfg, secret)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	gen, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}
	rdb, err := buildRedis(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Redis:     rdb,
		Generator: gen,
	}
	if sqlDB != nil {
		app.Prompts = prompts.NewPGRepo(sqlDB)
		app.Resumes = resumes.NewPGRepo(sqlDB)
		app.CoverLetters = coverletters.NewPGRepo(sqlDB)
		app.Users = users.NewPGRepo(sqlDB)
	} else {
		app.Prompts = prompts.NewSeededMemoryRepo()
		app.Resumes = resumes.NewMemoryRepo()
		app.CoverLetters = coverletters.NewMemoryRepo()
		app.Users = users.NewMemoryRepo()
	}

	rule := middleware.RateLimitRule{Rate: cfg.GenerateRateLimitRPS, Burst: cfg.GenerateRateLimitBurst}
	var limit gin.HandlerFunc
	if rdb != nil {
		limit = middleware.RedisRateLimit(rdb, rule, rateLimitWindow)
	} else {
		limit = middleware.RateLimit(rule, nil)
	}

	resolver := prompts.NewResolver(app.Prompts)
	github := githubauth.NewGitHubService(githubauth.GitHubConfig{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		RedirectURL:  cfg.GitHubRedirectURL,
		UIRedirect:   cfg.UIRedirectURL,
		Users:        users.NewService(app.Users),
	}, secret)

	app.Router = server.NewRouter(server.RouterDeps{
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		Verifier:        verifier,
		Health:          health.NewService(sqlDB),
		Handlers: []server.RouteRegistrar{
			github,
			prompts.NewHandler(prompts.NewService(app.Prompts)),
			generation.NewHandler(generation.NewService(resolver, gen), limit),
			resumes.NewHandler(resumes.NewService(store, app.Resumes, cfg.SignedURLTTL)),
			coverletters.NewHandler(coverletters.NewService(app.CoverLetters)),
			export.NewHandler(),
		},
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"database":     sqlDB != nil,
		"object_store": cfg.ObjectStoreType,
		"llm":          cfg.LLMProvider,
		"redis":        rdb != nil,
	})
	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildVerifier(ctx context.Context, cfg config.Config, secret []byte) (auth.Verifier, error) {
	chain := auth.Chain{auth.NewHS256Verifier(secret)}
	if strings.TrimSpace(cfg.OIDCIssuer) == "" {
		return chain, nil
	}
	oidcVerifier, err := auth.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.oidc_unavailable", map[string]any{"error": err})
			return chain, nil
		}
		return nil, err
	}
	return append(chain, oidcVerifier), nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	attempts := cfg.DBConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	sqlDB, err := db.ConnectWithRetry(ctx, cfg.DatabaseURL, opts, uint(attempts), dbRetryDelay)
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "minio":
		return miniostore.New(ctx, miniostore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			Region:    cfg.AWSRegion,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildGenerator(cfg config.Config) (llm.Generator, error) {
	if cfg.LLMProvider == "echo" {
		return llm.Echo{}, nil
	}
	client, err := openai.NewClient(openai.Config{
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		BaseURL: cfg.LLMBaseURL,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.llm_echo", map[string]any{"error": err})
			return llm.Echo{}, nil
		}
		return nil, err
	}
	return client, nil
}

func buildRedis(cfg config.Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}
