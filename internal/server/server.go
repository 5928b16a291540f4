// Package server exposes the holder gate and message feed over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/warroom/internal/core/chat"
	"github.com/vietddude/warroom/internal/core/domain"
	"github.com/vietddude/warroom/internal/health"
)

// Deps are the components the HTTP layer serves.
type Deps struct {
	Verifier chat.Verifier
	Chat     *chat.Service
	// Stream serves the websocket feed; nil disables the route.
	Stream  http.Handler
	Monitor *health.Monitor
}

type Server struct {
	port int
	deps Deps
	e    *echo.Echo
}

// NewServer returns a server with every route registered.
func NewServer(port int, deps Deps) *Server {
	s := &Server{
		port: port,
		deps: deps,
		e:    echo.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.e
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("64K"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				slog.Warn("Request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Debug("Request", attrs...)
			return nil
		},
	}))

	e.GET("/ping", s.Ping)
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/verify-holder", s.VerifyHolder)
	e.GET("/messages", s.ListMessages)
	e.POST("/messages", s.PostMessage)
	if s.deps.Stream != nil {
		e.GET("/messages/stream", echo.WrapHandler(s.deps.Stream))
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) Start() error {
	slog.Info("HTTP server listening", "port", s.port)
	err := s.e.Start(fmt.Sprintf(":%d", s.port))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a pipeline error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler renders every error as {"error": "..."}.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := statusFor(err)
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if code >= http.StatusInternalServerError {
		slog.Error("Request error", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errorResponse{Error: msg})
}
