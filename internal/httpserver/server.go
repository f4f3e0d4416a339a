package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Avinash0717/Nitigati/internal/config"
	"github.com/Avinash0717/Nitigati/internal/ws"
)

// Server bundles the echo router and its dependencies.
type Server struct {
	Echo *echo.Echo
}

// New constructs the HTTP server with routes: health, the onboarding
// websocket, and the provider registration API.
func New(cfg config.Config, registry Registry, wsHandler *ws.Handler) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/ws/onboarding", func(c echo.Context) error {
		wsHandler.ServeWebSocket(c.Response(), c.Request())
		return nil
	})

	Handlers{Registry: registry}.Register(e)

	return &Server{Echo: e}
}
