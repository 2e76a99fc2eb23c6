package server

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"askpdf/internal/logger"
)

// Config configures the HTTP front end.
type Config struct {
	Addr        string
	BodyLimitMB int
}

type Server struct {
	listenAddr string
	app        *fiber.App
}

// New builds the fiber app and registers the routes.
func New(cfg Config, session Session) *Server {
	fcfg := fiber.Config{
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	}
	if cfg.BodyLimitMB > 0 {
		fcfg.BodyLimit = cfg.BodyLimitMB * 1024 * 1024
	}
	app := fiber.New(fcfg)
	app.Use(recover.New())
	if logger.IsVerbose() {
		app.Use(fiberlogger.New(fiberlogger.Config{Output: logger.Output()}))
	}

	h := NewHandler(session)
	api := app.Group("/api")
	api.Get("/health", h.HandleHealth)
	api.Post("/document", h.HandleDocument)
	api.Post("/query", h.HandleQuery)

	return &Server{listenAddr: cfg.Addr, app: app}
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

// Run blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Run() error {
	logger.Info("listening on %s", s.listenAddr)
	return s.app.Listen(s.listenAddr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
