package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/nyayasahayak/legallibrary/internal/pkg/metrics"
)

// requestTimeout bounds every REST handler. Chat completions take up to
// 30s upstream, so the limit sits above that.
const requestTimeout = 35 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	if deps.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: deps.AllowOrigins,
			AllowMethods: "GET,POST,PATCH,OPTIONS",
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", apiVersion)
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())
	app.Use(DeprecationMiddleware(LegacyRoutes))

	app.Get("/", IndexHandler())
	app.Get("/ping", PingHandler())

	// Health & readiness, no timeout
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	with := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, requestTimeout)
	}
	auth := RequireAuth(deps)

	v1 := app.Group("/v1")
	v1.Post("/auth/signup", with(SignUpHandler(deps)))
	v1.Post("/auth/login", with(LoginHandler(deps)))
	v1.Post("/auth/verify-token", with(VerifyTokenHandler(deps)))

	v1.Get("/acts", with(ListActsHandler(deps)))
	v1.Get("/acts/:id", with(GetActHandler(deps)))
	v1.Get("/articles", with(ListArticlesHandler(deps)))
	v1.Get("/cases", with(ListCasesHandler(deps)))
	v1.Get("/lawyers", with(SearchLawyersHandler(deps)))
	v1.Post("/chat", with(ChatHandler(deps)))

	v1.Get("/states", with(ListStatesHandler(deps)))
	v1.Get("/states/:code/districts", with(ListDistrictsHandler(deps)))
	v1.Get("/districts/:code/police-stations", with(ListDistrictStationsHandler(deps)))
	v1.Get("/police-stations/nearby", with(NearbyStationsHandler(deps)))

	v1.Post("/firs", with(FileFIRHandler(deps)))
	v1.Get("/firs", auth, with(ListFIRsHandler(deps)))
	v1.Get("/firs/:id", with(GetFIRHandler(deps)))
	v1.Patch("/firs/:id/status", auth, with(UpdateFIRStatusHandler(deps)))

	app.Get("/debug/db-status", auth, with(DBStatusHandler(deps)))

	// Unversioned aliases; DeprecationMiddleware tags them with a successor link.
	app.Get("/health", HealthHandler(deps))
	app.Get("/acts", with(ListActsHandler(deps)))
	app.Get("/acts/:id", with(GetActHandler(deps)))
	app.Get("/articles", with(ListArticlesHandler(deps)))
	app.Get("/cases", with(ListCasesHandler(deps)))
	app.Get("/lawyers", with(SearchLawyersHandler(deps)))
	app.Post("/chat", with(ChatHandler(deps)))
	app.Post("/auth/signup", with(SignUpHandler(deps)))
	app.Post("/auth/login", with(LoginHandler(deps)))
	app.Post("/auth/verify-token", with(VerifyTokenHandler(deps)))

	// GraphQL
	app.Post("/graphql", with(GraphQLHandler(deps)))

	// API documentation (Swagger UI)
	SetupDocs(app, deps.SpecPath)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
