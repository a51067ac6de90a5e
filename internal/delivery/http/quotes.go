package http

import (
	"net/http"

	"prediction-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupQuotes(base *echo.Group) {
	v1 := base.Group("/v1/quotes")
	{
		v1.GET("", h.GetQuotes)
	}
}

// GetQuotes returns current quotes for every instrument; instruments the
// source could not resolve carry their error inline rather than failing
// the whole response.
func (h *HttpAPIHandler) GetQuotes(c echo.Context) error {
	quotes := h.service.QuoteService.GetQuotes(c.Request().Context())
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", quotes))
}
