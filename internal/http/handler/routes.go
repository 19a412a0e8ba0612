package handler

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"moviesapi/docs"
	"moviesapi/internal/service"
)

// APIPrefix is the mount point of the versioned movie routes.
const APIPrefix = "/api/v1"

// swaggerMu guards docs.SwaggerInfo, which is rewritten per request.
var swaggerMu sync.Mutex

// SwaggerUI serves the API docs with the host and scheme the client used.
func SwaggerUI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		swaggerMu.Lock()
		defer swaggerMu.Unlock()
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, pinger Pinger, svc service.MovieService) {
	app.Get("/", Index())
	app.Get("/health", HealthCheck(pinger))
	app.Get("/healthz", LivenessProbe())

	app.Get("/swagger/*", SwaggerUI())

	movies := app.Group(APIPrefix + "/movies")
	// Fixed segments first so they are not captured by /:id.
	movies.Get("/", ListMovies(svc))
	movies.Get("/search", SearchMovies(svc))
	movies.Get("/stats", MovieStats(svc))
	movies.Get("/genre/:genre", MoviesByGenre(svc))
	movies.Get("/:id", GetMovie(svc))
	movies.Post("/", CreateMovie(svc))
	movies.Put("/:id", UpdateMovie(svc))
	movies.Delete("/:id", DeleteMovie(svc))
}
