package routes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"

	"github.com/trendtactics/academy-api/internal/account"
	"github.com/trendtactics/academy-api/internal/ai"
	"github.com/trendtactics/academy-api/internal/config"
	"github.com/trendtactics/academy-api/internal/course"
	"github.com/trendtactics/academy-api/internal/functions"
	"github.com/trendtactics/academy-api/internal/identity"
	"github.com/trendtactics/academy-api/internal/middleware"
	"github.com/trendtactics/academy-api/internal/quiz"
)

// Deps aggregates shared dependencies required to wire routes. Any client
// may be nil when its setting is absent.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Supabase *supabase.Client
	Logger   *slog.Logger
}

// backends are the provider-facing ports the CRUD handlers run on.
type backends struct {
	auth     identity.Provider
	accounts account.Repository
	courses  course.Repository
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Idempotency-Key, X-Request-ID",
		ExposeHeaders: "X-Request-ID, Idempotent-Replayed",
	}))
	RegisterHealthRoutes(app, d)
	api := app.Group("/api")
	api.Get("/health", healthHandler(d.Cfg))

	idem := idempotency(d)
	b, err := selectBackends(d)
	if err != nil {
		return err
	}
	if b != nil {
		authn := middleware.Authenticate(identity.NewAuthenticator(b.auth))
		accounts := account.NewHandler(account.NewService(b.auth, b.accounts, d.Logger))
		courses := course.NewHandler(course.NewService(b.courses, d.Logger))
		RegisterAuthRoutes(api, accounts, authn, middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit, d.Logger))
		RegisterUserRoutes(api, accounts, authn)
		RegisterCourseRoutes(api, courses, authn, idem)
	}

	aiHandler, err := newAIHandler(context.Background(), d)
	if err != nil {
		return err
	}
	RegisterAIRoutes(api, aiHandler)

	anonKey := d.Cfg.SupabaseAnonKey
	if anonKey == "" {
		anonKey = d.Cfg.SupabaseKey
	}
	invoker := functions.NewInvoker(d.Cfg.SupabaseURL, anonKey, d.Cfg.AITimeout)
	RegisterFunctionRoutes(api, functions.NewHandler(invoker, d.Logger))

	RegisterQuizRoutes(api, quiz.NewHandler(newQuizService(d), d.Logger), idem)

	api.All("/*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})

	if d.Cfg.StaticDir != "" {
		RegisterStaticSite(app, d.Cfg.StaticDir)
	}
	return nil
}

// idempotency is the per-route Idempotency-Key replay, a no-op without Redis.
// It only goes on writes that create records, never on /auth.
func idempotency(d Deps) fiber.Handler {
	if d.Cache == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
}

// selectBackends picks the Supabase adapters when configured. Development
// falls back to in-memory ports; elsewhere the CRUD routes stay unmounted.
func selectBackends(d Deps) (*backends, error) {
	if d.Supabase != nil {
		return &backends{
			auth:     identity.NewSupabaseProvider(d.Supabase.Auth),
			accounts: account.NewSupabaseRepository(d.Supabase),
			courses:  course.NewSupabaseRepository(d.Supabase),
		}, nil
	}
	if !d.Cfg.IsDev() {
		d.Logger.Warn("supabase not configured; auth, user and course routes are disabled")
		return nil, nil
	}
	if d.Cfg.LocalAuthSecret == "" {
		return nil, fmt.Errorf("local auth secret is required for in-memory backends")
	}
	d.Logger.Warn("supabase not configured; using in-memory auth and repositories")
	return &backends{
		auth:     identity.NewMemoryProvider(d.Cfg.LocalAuthSecret),
		accounts: account.NewMemoryRepository(),
		courses:  course.NewMemoryRepository(),
	}, nil
}

func newAIHandler(ctx context.Context, d Deps) (*ai.Handler, error) {
	openRouter := ai.NewOpenRouter(ai.NewKeyRing(d.Cfg.OpenRouterKeys...), d.Cfg.ClientURL, d.Cfg.AITimeout)
	openAI := ai.NewOpenAI(d.Cfg.OpenAIKey, d.Cfg.AITimeout)
	chat := map[string]ai.ChatProvider{
		"openrouter": openRouter,
		"openai":     openAI,
	}
	images := map[string]ai.ImageProvider{
		"openrouter": openRouter,
		"openai":     openAI,
	}
	if d.Cfg.GoogleAIKey != "" {
		google, err := ai.NewGoogleProvider(ctx, d.Cfg.GoogleAIKey, "")
		if err != nil {
			return nil, err
		}
		chat["google"] = google
	} else {
		chat["google"] = unconfiguredChat{}
	}
	return ai.NewHandler(ai.NewService(chat, images, d.Logger)), nil
}

// unconfiguredChat keeps "google" a supported provider name that fails with
// the missing-key error instead of a 400.
type unconfiguredChat struct{}

func (unconfiguredChat) Complete(context.Context, ai.ChatRequest) (ai.Completion, error) {
	return ai.Completion{}, ai.ErrNoKeys
}

func newQuizService(d Deps) *quiz.Service {
	fallback := quiz.NewFileStore(d.Cfg.DataDir, d.Logger)
	var primary quiz.PrimaryStore
	switch {
	case d.Supabase != nil:
		primary = quiz.NewSupabaseStore(d.Supabase)
	case d.DB != nil:
		primary = quiz.NewPostgresStore(d.DB)
	default:
		d.Logger.Warn("no primary quiz store configured; results go to the fallback file", slog.String("path", fallback.Path()))
	}
	return quiz.NewService(primary, fallback, d.Logger)
}
