package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/matsyaark/api/internal/config"
	"github.com/matsyaark/api/internal/handler"
	"github.com/matsyaark/api/internal/metrics"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Contact    *handler.ContactHandler
	Vision     *handler.VisionHandler
	Detections *handler.DetectionsHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers, m *metrics.Metrics) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	api := e.Group("/api")
	api.POST("/posts/contact", handlers.Contact.Submit, echoMiddleware.BodyLimit(cfg.MaxContactBodySize))
	api.POST("/gemini/gemini", handlers.Vision.Describe, echoMiddleware.BodyLimit(cfg.MaxUploadSize))

	if handlers.Detections != nil {
		api.GET("/fish/detections", handlers.Detections.Latest)
	}
}
