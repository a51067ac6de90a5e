package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"prediction-tracker/internal/dto"
	"prediction-tracker/internal/repository"
	"prediction-tracker/internal/service"

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
	h.SetupPredictions(base)
	h.SetupRanking(base)
	h.SetupStats(base)
	h.SetupQuotes(base)
	h.SetupJobs(base)
}

// userID reads the stable identifier supplied by the external auth layer.
func userID(c echo.Context) (uint, error) {
	raw := c.Request().Header.Get("X-User-ID")
	if raw == "" {
		return 0, errors.New("missing X-User-ID header")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid X-User-ID header")
	}
	return uint(id), nil
}

func userName(c echo.Context) string {
	return c.Request().Header.Get("X-User-Name")
}

func recordID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid prediction id")
	}
	return uint(id), nil
}

// errorResponse maps service failures onto the response envelope.
// Validation and not-found cases keep their specific message; upstream and
// persistence failures collapse into a generic retry-later message, with
// the timeout case kept distinguishable.
func errorResponse(err error) *dto.BaseResponse {
	switch {
	case errors.Is(err, service.ErrValidation):
		return dto.NewBaseResponse(http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrNotFound):
		return dto.NewBaseResponse(http.StatusNotFound, "prediction not found", nil)
	case service.IsQuoteTimeout(err):
		return dto.NewBaseResponse(http.StatusGatewayTimeout, "quote source timed out, please retry later", nil)
	case errors.Is(err, repository.ErrQuoteUnavailable), errors.Is(err, repository.ErrQuoteIncomplete):
		return dto.NewBaseResponse(http.StatusBadGateway, "quote source unavailable, please retry later", nil)
	default:
		return dto.NewBaseResponse(http.StatusInternalServerError, "something went wrong, please retry later", nil)
	}
}
