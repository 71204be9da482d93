package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// LegacyDocumentPath is the route older clients still post to.
const LegacyDocumentPath = "/api/api.php"

// NewRouter wires the gateway routes. Extra middleware (e.g. idempotency)
// runs on the document routes only.
func NewRouter(h *Handler, docMW ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, "X-Request-Id", "X-Request-At"},
	}))

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
	e.Any("/document", h.Document, docMW...)
	e.Any(LegacyDocumentPath, h.Document, docMW...)
	return e
}
