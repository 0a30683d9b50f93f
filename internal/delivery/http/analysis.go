package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAnalysis(base *echo.Group) {
	base.GET("/v1/funds/compare", h.compareFunds)

	v1 := base.Group("/v1/funds/:code/analysis")
	{
		v1.GET("/technical", h.getTechnicalReport)
		v1.GET("/quant", h.getQuantReport)
		v1.POST("/report", h.generateAIReport)
	}
}

func (h *HttpAPIHandler) compareFunds(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	comparison, err := h.service.AnalysisService.Compare(c.Request().Context(), c.QueryParam("left"), c.QueryParam("right"), days)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, comparison)
}

func (h *HttpAPIHandler) getTechnicalReport(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	report, err := h.service.AnalysisService.TechnicalReport(c.Request().Context(), c.Param("code"), days)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *HttpAPIHandler) getQuantReport(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	report, err := h.service.AnalysisService.QuantReport(c.Request().Context(), c.Param("code"), days)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *HttpAPIHandler) generateAIReport(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	report, err := h.service.AnalysisService.AIReport(c.Request().Context(), c.Param("code"), days)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
