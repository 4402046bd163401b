package server

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"strings"
	"time"

	"newsdesk/feeds"
	"newsdesk/models"
	"newsdesk/news"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

//go:embed dist/*
var dist embed.FS

// NewsService produces the aggregated article list for a source selector
type NewsService interface {
	GetNews(ctx context.Context, sourceId string) (*models.NewsResponse, error)
}

type ServerConfig struct {

	// Feed registry served to the page and used by the news service
	Registry *feeds.Registry

	// Pipeline used to answer news requests
	News NewsService

	// Comma separated list of origins allowed by CORS
	AllowOrigins string

	// How long registry responses may be cached
	FeedsCacheTTL time.Duration
}

const loadNewsFailed = "Failed to load news"

// Returns a fiber.App instance serving the JSON API and the embedded page
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New(fiber.Config{
		AppName:               "newsdesk",
		DisableStartupMessage: true,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(compress.New())

	allowOrigins := config.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,HEAD,OPTIONS",
		AllowHeaders: "Cache-Control",
	}))

	// The registry never changes while the process runs, news is always fresh
	ttl := config.FeedsCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	app.Use(cache.New(cache.Config{
		Next: func(c *fiber.Ctx) bool {
			if c.Method() != fiber.MethodGet {
				return true
			}
			return !strings.HasSuffix(c.Path(), "/feeds")
		},
		Expiration:   ttl,
		CacheControl: true,
	}))

	registerRoutes(app, config)
	registerRoutes(app.Group("/api"), config)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Serve the page
	app.Use("/", filesystem.New(filesystem.Config{
		Browse:     false,
		Index:      "index.html",
		Root:       http.FS(dist),
		PathPrefix: "/dist",
	}))

	return app
}

func registerRoutes(router fiber.Router, config *ServerConfig) {
	router.Get("/feeds", feedsHandler(config.Registry))
	router.Get("/news", newsHandler(config.News))
}

func feedsHandler(registry *feeds.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(registry.List())
	}
}

func newsHandler(svc NewsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sourceId := strings.TrimSpace(c.Query("source", ""))

		resp, err := svc.GetNews(c.UserContext(), sourceId)
		if err != nil {
			log.WithFields(log.Fields{
				"source": sourceId,
				"error":  err,
			}).Error("Error loading news")

			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
				Error:   loadNewsFailed,
				Details: errorDetails(err),
			})
		}

		log.WithFields(log.Fields{
			"source": sourceId,
			"count":  len(resp.Articles),
		}).Debug("Loaded news")

		return c.Status(fiber.StatusOK).JSON(resp)
	}
}

// errorDetails reports the failure of the upstream source when there is one
func errorDetails(err error) string {
	var srcErr *news.SourceError
	if errors.As(err, &srcErr) {
		return srcErr.Error()
	}
	return err.Error()
}
