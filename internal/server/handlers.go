package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vietddude/warroom/internal/core/chat"
	"github.com/vietddude/warroom/internal/core/domain"
	"github.com/vietddude/warroom/internal/health"
)

type verifyRequest struct {
	Address string `json:"address"`
}

type verifyResponse struct {
	Holder  bool     `json:"holder"`
	Balance *float64 `json:"balance,omitempty"`
	MinHold *float64 `json:"minHold,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type listResponse struct {
	Messages []*domain.Message `json:"messages"`
	Count    int               `json:"count"`
}

type postResponse struct {
	Message *domain.Message `json:"message"`
}

type notHolderResponse struct {
	Error   string  `json:"error"`
	Holder  bool    `json:"holder"`
	Balance float64 `json:"balance"`
}

func (s *Server) Ping(c echo.Context) error {
	return c.String(http.StatusOK, "War Room is running")
}

func (s *Server) Health(c echo.Context) error {
	if s.deps.Monitor == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": string(health.StatusHealthy)})
	}
	report := s.deps.Monitor.CheckHealth(c.Request().Context())
	code := http.StatusOK
	if report.Status == health.StatusCritical {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, report)
}

// VerifyHolder reports whether an address meets the holding threshold. A
// ledger failure is a soft result: 200 with holder false and the error.
func (s *Server) VerifyHolder(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Address) == "" {
		return c.JSON(http.StatusBadRequest, verifyResponse{
			Error: "Missing or invalid `address` in request body",
		})
	}

	result, err := s.deps.Verifier.Verify(c.Request().Context(), req.Address)
	switch {
	case errors.Is(err, domain.ErrUpstream):
		return c.JSON(http.StatusOK, verifyResponse{Error: err.Error()})
	case err != nil:
		return c.JSON(statusFor(err), verifyResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, verifyResponse{
		Holder:  result.IsHolder,
		Balance: &result.Balance,
		MinHold: &result.MinHold,
	})
}

func (s *Server) ListMessages(c echo.Context) error {
	messages := s.deps.Chat.List(c.Request().Context())
	return c.JSON(http.StatusOK, listResponse{Messages: messages, Count: len(messages)})
}

func (s *Server) PostMessage(c echo.Context) error {
	var req chat.PostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}

	msg, err := s.deps.Chat.Post(c.Request().Context(), req)
	if err != nil {
		var notHolder *domain.NotHolderError
		if errors.As(err, &notHolder) {
			return c.JSON(http.StatusForbidden, notHolderResponse{
				Error:   "Insufficient token holdings",
				Holder:  false,
				Balance: notHolder.Balance,
			})
		}
		return err
	}

	return c.JSON(http.StatusCreated, postResponse{Message: msg})
}
