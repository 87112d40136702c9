// Package web serves the mushroom demo page over HTTP with fiber.
package web

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/YuminosukeSato/mantar/chart"
	"github.com/YuminosukeSato/mantar/internal/app"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/YuminosukeSato/mantar/pkg/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const requestIDLocal = "requestid"

// Server is the HTTP front end of a loaded Demo.
type Server struct {
	app    *fiber.App
	demo   *app.Demo
	charts *chart.Renderer
	tmpl   *template.Template
	logger log.Logger

	sampleRows int
	chartTTL   time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSampleRows sets how many table rows the page samples.
func WithSampleRows(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.sampleRows = n
		}
	}
}

// WithChartTTL sets how long a rendered chart stays cached.
func WithChartTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.chartTTL = ttl
		}
	}
}

// WithRand fixes the sampling source. Without it rows are drawn from the
// global unseeded source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Server) {
		s.rng = rng
	}
}

// New builds the fiber app for d and registers every route.
func New(d *app.Demo, opts ...Option) (*Server, error) {
	if d == nil {
		return nil, errors.NewValueError("web.New", "demo is nil")
	}

	s := &Server{
		demo:       d,
		logger:     log.Default(),
		sampleRows: 5,
		chartTTL:   10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(log.ComponentKey, "web")

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	s.tmpl = tmpl
	s.charts = chart.NewRenderer(s.chartTTL, chart.DefaultSize)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, errors.Wrap(err, "static assets")
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "mantar",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	// Middleware
	s.app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDLocal,
	}))
	s.app.Use(s.logRequests)
	s.app.Use(recover.New())

	// Static
	s.app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(static),
		MaxAge: 3600,
	}))

	// Routes
	newPageController(s).RegisterRoutes(s.app)

	return s, nil
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for open requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// handleError answers errors returned by handlers with a plain text body.
// Unknown categories are client errors; anything unexpected is a 500 whose
// details stay in the log.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := err.Error()

	var fe *fiber.Error
	var unknown *errors.UnknownCategoryError
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		msg = fe.Message
	case errors.As(err, &unknown):
		code = fiber.StatusBadRequest
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			log.RouteKey, c.Path(),
			log.RequestIDKey, requestID(c),
			"error", err,
		)
		msg = utils.StatusMessage(code)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(msg)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	if err := c.Next(); err != nil {
		if herr := s.handleError(c, err); herr != nil {
			return herr
		}
	}

	s.logger.Info("request served",
		log.MethodKey, c.Method(),
		log.RouteKey, c.Route().Path,
		log.StatusKey, c.Response().StatusCode(),
		log.RequestIDKey, requestID(c),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocal).(string)
	return id
}

// sample draws row indices for the page table. rand.Rand is not safe for
// concurrent use, so a fixed source is guarded.
func (s *Server) sample(n int) []int {
	if s.rng == nil {
		return s.demo.Table.Sample(n, nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.demo.Table.Sample(n, s.rng)
}
