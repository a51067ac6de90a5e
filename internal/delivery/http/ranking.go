package http

import (
	"net/http"

	"prediction-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupRanking(base *echo.Group) {
	v1 := base.Group("/v1/ranking")
	{
		v1.GET("", h.GetRanking)
	}
}

func (h *HttpAPIHandler) GetRanking(c echo.Context) error {
	period := c.QueryParam("period")
	ranking, err := h.service.RankingService.GetRanking(c.Request().Context(), period)
	if err != nil {
		resp := errorResponse(err)
		return c.JSON(resp.Code, resp)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", ranking))
}
