package server

import (
	"context"

	"github.com/cliplink/cliplink/internal/app/service"
	inthttp "github.com/cliplink/cliplink/internal/http/handler"
	"github.com/cliplink/cliplink/internal/http/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Dependencies bundles infrastructure and services required by the HTTP server.
type Dependencies struct {
	Logger       *zap.Logger
	Postgres     *pgxpool.Pool
	NATS         *nats.Conn
	JetStream    nats.JetStreamContext
	Auth         *service.AuthService
	URLs         *service.URLService
	Clicks       *service.ClickService
	Visits       *service.VisitPublisher
	CookieSecure bool
	AllowOrigin  string
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with default routes.
func New(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Use(middleware.Recovery(deps.Logger))
	app.Use(middleware.Logger(deps.Logger))
	app.Use(middleware.CORS(deps.AllowOrigin))

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerRoutes()
	return s
}

// App exposes the underlying Fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	requireAuth := middleware.RequireAuth(s.deps.Auth)

	authHandler := inthttp.NewAuthHandler(inthttp.AuthDeps{
		Logger:       s.deps.Logger,
		Auth:         s.deps.Auth,
		CookieSecure: s.deps.CookieSecure,
	})
	authHandler.Register(s.app)

	userHandler := inthttp.NewUserHandler(inthttp.UserDeps{
		Logger: s.deps.Logger,
	})
	userHandler.Register(s.app, requireAuth)

	urlHandler := inthttp.NewURLHandler(inthttp.URLDeps{
		Logger: s.deps.Logger,
		URLs:   s.deps.URLs,
	})
	urlHandler.Register(s.app, requireAuth)

	clickHandler := inthttp.NewClickHandler(inthttp.ClickDeps{
		Logger: s.deps.Logger,
		Clicks: s.deps.Clicks,
	})
	clickHandler.Register(s.app, requireAuth)

	// Last: owns the catch-all GET /:code route.
	redirectHandler := inthttp.NewRedirectHandler(inthttp.RedirectDeps{
		Logger:   s.deps.Logger,
		URLs:     s.deps.URLs,
		Visits:   s.deps.Visits,
		Postgres: s.deps.Postgres,
	})
	redirectHandler.Register(s.app)
}
