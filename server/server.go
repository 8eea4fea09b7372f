package server

import (
	"context"
	"time"

	"postapi/config"
	"postapi/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// PostStore is the set of post operations the routes need
type PostStore interface {
	List(ctx context.Context, page int) (*models.Envelope, error)
	GetByID(ctx context.Context, postId int64) (*models.Envelope, error)
	Create(ctx context.Context, post models.Post) (*models.Envelope, error)
	Update(ctx context.Context, post models.Post, mode models.ColumnMode) (*models.Envelope, error)
	Delete(ctx context.Context, postId int64) (*models.Envelope, error)
}

type ServerConfig struct {

	// The store backing the /v1/post routes
	Posts PostStore

	// Either config.ErrorModeStrict or config.ErrorModeLegacy
	ErrorMode string

	// Maximum request body size in bytes, fiber's default when zero
	BodyLimit int

	// Registry for the request metrics, a fresh one when nil
	Registry *prometheus.Registry
}

// Returns a fiber.App instance serving the post API
func Server(cfg *ServerConfig) *fiber.App {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := newMetrics(registry)

	app := fiber.New(fiber.Config{
		AppName:               "postapi",
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		// start timer
		start := time.Now()

		// next routes, errors are rendered here so the status is final
		if err := c.Next(); err != nil {
			if handlerErr := c.App().Config().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		latency := time.Since(start)
		m.observe(c, latency)

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": latency,
		}).Info("Request")
		return nil
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(fiberrecover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "ok"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	h := &handlers{posts: cfg.Posts}
	legacy := cfg.ErrorMode == config.ErrorModeLegacy
	posts := app.Group("/v1/post")
	for _, r := range routes(h) {
		handler := r.handler
		if legacy && r.local != nil {
			handler = localErrors(r.local, handler)
		}
		posts.Add(r.method, r.path, handler)
	}

	return app
}
