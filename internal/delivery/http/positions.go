package http

import (
	"net/http"
	"strconv"

	"golang-fund/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPositions(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.POST("/positions", h.addHolding)
		v1.POST("/positions/liquidate", h.liquidatePosition)
		v1.GET("/users/:user_id/positions", h.listHoldings)
		v1.GET("/users/:user_id/position-logs", h.listPositionLogs)
	}
}

func (h *HttpAPIHandler) addHolding(c echo.Context) error {
	req := new(dto.AddHoldingRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	position, err := h.service.PositionService.AddHolding(c.Request().Context(), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, position)
}

func (h *HttpAPIHandler) liquidatePosition(c echo.Context) error {
	req := new(dto.LiquidateRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	record, err := h.service.PositionService.Liquidate(c.Request().Context(), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

func (h *HttpAPIHandler) listHoldings(c echo.Context) error {
	result, err := h.service.PositionService.Holdings(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) listPositionLogs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	records, err := h.service.PositionService.History(c.Request().Context(), c.Param("user_id"), limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, records)
}
