package http

import (
	"context"
	"net/http"

	"golang-fund/internal/apperror"
	"golang-fund/internal/service"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	h.SetupFunds(base)
	h.SetupAnalysis(base)
	h.SetupBacktest(base)
	h.SetupPositions(base)
}

// errorJSON maps the stable error kinds onto HTTP statuses and returns the
// kind in the body so clients can branch without parsing messages.
func errorJSON(c echo.Context, err error) error {
	kind := apperror.Kind(err)
	status := http.StatusInternalServerError
	switch kind {
	case "not_found":
		status = http.StatusNotFound
	case "invalid_parameter", "insufficient_shares", "insufficient_history":
		status = http.StatusBadRequest
	case "transient_data_error":
		status = http.StatusBadGateway
	}
	return c.JSON(status, map[string]string{
		"kind":  kind,
		"error": err.Error(),
	})
}
