package http

import (
	"net/http"

	"prediction-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStats(base *echo.Group) {
	v1 := base.Group("/v1/stats")
	{
		v1.GET("", h.GetStats)
	}
}

func (h *HttpAPIHandler) GetStats(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	summaries, err := h.service.StatsService.GetStats(c.Request().Context(), uid)
	if err != nil {
		resp := errorResponse(err)
		return c.JSON(resp.Code, resp)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", summaries))
}
