package http

import (
	"net/http"

	"prediction-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPredictions(base *echo.Group) {
	v1 := base.Group("/v1/predictions")
	{
		v1.POST("", h.CreatePrediction)
		v1.GET("", h.GetAllPredictions)
		v1.GET("/today", h.GetTodayPrediction)
		v1.GET("/pending", h.GetPendingPredictions)
		v1.POST("/:id/confirm", h.ConfirmPrediction)
		v1.PATCH("/:id", h.EditPrediction)
		v1.PUT("/:id/comment", h.SaveComment)
		v1.DELETE("/:id", h.DeletePrediction)
	}
}

func (h *HttpAPIHandler) CreatePrediction(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	var req dto.CreatePredictionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	record, err := h.service.PredictionService.Create(c.Request().Context(), uid, userName(c), req)
	if err != nil {
		resp := errorResponse(err)
		return c.JSON(resp.Code, resp)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Prediction saved", record))
}

func (h *HttpAPIHandler) GetAllPredictions(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	records, err := h.service.PredictionService.GetAll(c.Request().Context(), uid)
	if err != nil {
		resp := errorResponse(err)
		return c.JSON(resp.Code, resp)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", records))
}

func (h *HttpAPIHandler) GetTodayPrediction(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	record, err := h.service.PredictionService.GetToday(c.Request().Context(), uid)
	if err != nil {
		resp := errorResponse(err)
		return c.JSON(resp.Code, resp)
	}
	if record == nil {
		return c.JSON(http.StatusOK, dto.NewSuccessResponse("No prediction for today", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", record))
}

func (h *HttpAPIHandler) GetPendingPredictions(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	records, err := h.service.PredictionService.GetPending(c.Request().Context(), uid)
	if err != nil {
		resp := errorResponse(err)
		return c.JSON(resp.Code, resp)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", records))
}

func (h *HttpAPIHandler) ConfirmPrediction(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	id, err := recordID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	var req dto.ConfirmPredictionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	record, err := h.service.PredictionService.Confirm(c.Request().Context(), uid, id, req.Actuals)
	if err != nil {
		resp := errorResponse(err)
		return c.JSON(resp.Code, resp)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Prediction confirmed", record))
}

func (h *HttpAPIHandler) EditPrediction(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	id, err := recordID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	var req dto.EditPredictionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	record, err := h.service.PredictionService.Edit(c.Request().Context(), uid, id, req)
	if err != nil {
		resp := errorResponse(err)
		return c.JSON(resp.Code, resp)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Prediction updated", record))
}

func (h *HttpAPIHandler) SaveComment(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	id, err := recordID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	var req dto.SaveCommentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	record, err := h.service.PredictionService.SaveComment(c.Request().Context(), uid, id, req.Comment)
	if err != nil {
		resp := errorResponse(err)
		return c.JSON(resp.Code, resp)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Comment saved", record))
}

func (h *HttpAPIHandler) DeletePrediction(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	id, err := recordID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	if err := h.service.PredictionService.Delete(c.Request().Context(), uid, id); err != nil {
		resp := errorResponse(err)
		return c.JSON(resp.Code, resp)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Prediction deleted", nil))
}
