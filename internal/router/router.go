// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/secret-greeter/internal/handler"
	"github.com/iliyamo/secret-greeter/internal/metrics"
	"github.com/iliyamo/secret-greeter/internal/middleware"
)

// Deps bundles what the routes need. Limiter guards the routes that call the
// secret store; nil means no admission control.
type Deps struct {
	Health   *handler.HealthHandler
	Greeting *handler.GreetingHandler
	Limiter  echo.MiddlewareFunc
	Logger   *zap.SugaredLogger
}

// New returns an Echo instance with global middleware and every route
// registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// Recover sits inside the logger so panics are still logged and counted.
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.Recover())
	RegisterRoutes(e, d)
	return e
}

// RegisterRoutes maps GET /health, GET / and GET /metrics.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/health", d.Health.Health)

	var greetingMW []echo.MiddlewareFunc
	if d.Limiter != nil {
		greetingMW = append(greetingMW, d.Limiter)
	}
	e.GET("/", d.Greeting.Greeting, greetingMW...)

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
