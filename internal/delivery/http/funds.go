package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupFunds(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.GET("/funds/search", h.searchFunds)
		v1.GET("/funds/valuation", h.getValuations)
		v1.GET("/funds/:code/quote", h.getQuote)
		v1.GET("/funds/:code/history", h.getHistory)
		v1.GET("/funds/:code/valuation", h.getValuation)
		v1.PUT("/users/:user_id/default-fund", h.setDefaultFund)
		v1.GET("/users/:user_id/default-fund", h.getDefaultFund)
	}
}

func (h *HttpAPIHandler) searchFunds(c echo.Context) error {
	results, err := h.service.FundService.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

func (h *HttpAPIHandler) getQuote(c echo.Context) error {
	quote, err := h.service.FundService.Quote(c.Request().Context(), c.Param("code"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}

func (h *HttpAPIHandler) getHistory(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	series, err := h.service.FundService.History(c.Request().Context(), c.Param("code"), days)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, series)
}

func (h *HttpAPIHandler) getValuation(c echo.Context) error {
	valuation, err := h.service.FundService.Valuation(c.Request().Context(), c.Param("code"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, valuation)
}

func (h *HttpAPIHandler) getValuations(c echo.Context) error {
	codes := strings.Split(c.QueryParam("codes"), ",")
	result, err := h.service.FundService.Valuations(c.Request().Context(), codes)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

type setDefaultFundRequest struct {
	FundCode string `json:"fund_code" validate:"required"`
}

func (h *HttpAPIHandler) setDefaultFund(c echo.Context) error {
	req := new(setDefaultFundRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.service.FundService.SetDefaultFund(c.Request().Context(), c.Param("user_id"), req.FundCode); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"default_fund_code": req.FundCode})
}

func (h *HttpAPIHandler) getDefaultFund(c echo.Context) error {
	ctx := c.Request().Context()
	fundCode, err := h.service.FundService.ResolveFundCode(ctx, c.Param("user_id"), "")
	if err != nil {
		return errorJSON(c, err)
	}
	quote, err := h.service.FundService.Quote(ctx, fundCode)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}
