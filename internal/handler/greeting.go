package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/secret-greeter/internal/secrets"
)

const greetingPrefix = "Hello from Node.js! API Key: "

// GreetingHandler renders a greeting carrying one value from the secret
// bundle, fetched per request.
type GreetingHandler struct {
	Secrets secrets.Store
	KeyName string
	Logger  *zap.SugaredLogger
}

func NewGreetingHandler(store secrets.Store, keyName string, logger *zap.SugaredLogger) *GreetingHandler {
	return &GreetingHandler{Secrets: store, KeyName: keyName, Logger: logger}
}

// Greeting writes nothing until the value is known, so failures never leave
// a partial body behind.
func (h *GreetingHandler) Greeting(c echo.Context) error {
	bundle, err := h.Secrets.Fetch(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	value, err := bundle.Get(h.KeyName)
	if err != nil {
		return h.fail(c, err)
	}
	return c.String(http.StatusOK, greetingPrefix+value)
}

func (h *GreetingHandler) fail(c echo.Context, err error) error {
	h.Logger.Errorw("greeting failed", "key", h.KeyName, "error", err)
	switch {
	case errors.Is(err, secrets.ErrSecretStore):
		return c.String(http.StatusInternalServerError, "Secret store error")
	case errors.Is(err, secrets.ErrMissingSecret):
		return c.String(http.StatusInternalServerError, "Missing secret")
	default:
		return c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
