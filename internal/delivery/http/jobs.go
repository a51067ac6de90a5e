package http

import (
	"net/http"

	"prediction-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupJobs(base *echo.Group) {
	v1 := base.Group("/v1/jobs")
	{
		v1.POST("/sweep", h.RunSweep)
	}
}

// RunSweep is the external-scheduler hook for the cross-user
// auto-confirmation pass.
func (h *HttpAPIHandler) RunSweep(c echo.Context) error {
	result, err := h.service.SweepService.SweepAll(c.Request().Context())
	if err != nil {
		resp := errorResponse(err)
		return c.JSON(resp.Code, resp)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Sweep completed", result))
}
