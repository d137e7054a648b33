// Package httpd wires the fiber route surface over the auth and tracker
// domains.
package httpd

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dracker/dracker/internal/auth"
	"github.com/dracker/dracker/internal/middleware/authware"
	"github.com/dracker/dracker/internal/middleware/csrf"
	"github.com/dracker/dracker/internal/tracker"
)

// Config collects everything the server needs.
type Config struct {
	Repo     auth.RepositoryManager
	Tokens   *auth.TokenService
	Auther   *auth.Authenticator
	Signup   *auth.SignupHandler
	ResetIni *auth.InitializePasswordResetHandler
	ResetFin *auth.FinalizePasswordResetHandler
	Trackers tracker.Trackers
	Pings    tracker.Pings
	Slugs    *tracker.SlugCodec
	Logger   auth.Logger

	// Debug leaks internal error messages into 500 bodies.
	Debug bool
}

// Server owns the fiber app.
type Server struct {
	app    *fiber.App
	cfg    Config
	logger auth.Logger
}

// New builds the app and mounts every route.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = auth.NewNopLogger()
	}

	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "dracker",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(cfg.Logger, cfg.Debug),
	})

	s.routes()
	return s
}

func (s *Server) routes() {
	app := s.app

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusTeapot)
	})

	// Public surface.
	app.Get("/csrf", csrf.TokenHandler)
	app.Post("/login", s.loginToken)
	app.Post("/login/cookie", s.loginCookie)
	app.Post("/signup", s.signup)
	app.Post("/password", s.passwordSet)
	app.Post("/password/forgot", s.passwordForgot)
	app.Post("/ping", s.pingIngest)

	// Everything below requires a live session.
	authd := app.Group("", authware.New(authware.Config{
		Tokens:   s.cfg.Tokens,
		Sessions: s.cfg.Repo.Sessions(),
		Logger:   s.logger,
	}))

	authd.Delete("/logout", s.logout)

	authd.Get("/users/me", s.userMe)
	authd.Put("/users/me", s.userUpdate)
	authd.Delete("/users/me", s.userDestroy)

	authd.Get("/tokens", s.tokenIndex)
	authd.Get("/tokens/count", s.tokenCount)
	authd.Delete("/tokens/:id", s.tokenDestroy)
	authd.Delete("/tokens", s.tokenDestroyAll)

	authd.Get("/trackers", s.trackerIndex)

	authd.Get("/pings", s.pingIndex)
	authd.Get("/pings/count", s.pingCount)
	authd.Post("/pings", s.pingStore)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on addr.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// claims returns the request claims; the auth middleware guarantees they
// exist on protected routes.
func (s *Server) claims(c *fiber.Ctx) (*auth.AuthClaims, error) {
	claims, ok := authware.ClaimsFromCtx(c)
	if !ok {
		return nil, auth.ErrCredentialsMissing
	}
	return claims, nil
}
