package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang-fund/config"
	"golang-fund/internal/apperror"
	"golang-fund/internal/dto"
	"golang-fund/pkg/cache"
	"golang-fund/pkg/httpclient"
	"golang-fund/pkg/logger"
	"golang-fund/pkg/utils"

	"golang.org/x/time/rate"
)

// MarketDataRepository is the market data collaborator contract. Transient
// upstream failures surface as apperror.ErrTransientData and are retryable by
// the caller, unknown fund codes as apperror.ErrNotFound.
type MarketDataRepository interface {
	FetchHistory(ctx context.Context, param dto.GetHistoryParam) (*dto.PriceSeries, error)
	FetchLatestNav(ctx context.Context, fundCode string) (*dto.FundQuote, error)
	FetchValuation(ctx context.Context, fundCode string) (*dto.FundValuation, error)
	Search(ctx context.Context, keyword string) ([]dto.FundSearchResult, error)
}

type eastmoneyRepository struct {
	httpClient      httpclient.HTTPClient
	searchClient    httpclient.HTTPClient
	valuationClient httpclient.HTTPClient
	cfg             *config.Config
	logger          *logger.Logger
	cache           cache.Cache
	requestLimiter  *rate.Limiter
}

func NewEastmoneyRepository(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Eastmoney.MaxRequestPerMinute)
	return &eastmoneyRepository{
		httpClient:      httpclient.New(cfg.Eastmoney.BaseURL, cfg.Eastmoney.Timeout),
		searchClient:    httpclient.New(cfg.Eastmoney.SearchBaseURL, cfg.Eastmoney.Timeout),
		valuationClient: httpclient.New(cfg.Eastmoney.ValuationBaseURL, cfg.Eastmoney.Timeout),
		cfg:             cfg,
		logger:          log,
		cache:           inmemoryCache,
		requestLimiter:  rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
	"Referer":    "https://fund.eastmoney.com/",
}

// FetchHistory pulls up to param.Days published NAV rows and returns them as
// an immutable date-ascending series.
func (r *eastmoneyRepository) FetchHistory(ctx context.Context, param dto.GetHistoryParam) (*dto.PriceSeries, error) {
	cacheKey := fmt.Sprintf("eastmoney:history:%s:%d", param.FundCode, param.Days)
	if cached, found := cache.GetTyped[*dto.PriceSeries](r.cache, cacheKey); found {
		return cached, nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter interrupted: %v", apperror.ErrTransientData, err)
	}

	queryParams := map[string]string{
		"fundCode":  param.FundCode,
		"pageIndex": "1",
		"pageSize":  strconv.Itoa(param.Days),
	}

	var historyResp dto.EastmoneyHistoryResponse
	resp, err := r.httpClient.Get(ctx, "/f10/lsjz", queryParams, browserHeaders, &historyResp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch nav history for %s: %v", apperror.ErrTransientData, param.FundCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Eastmoney history returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("fund_code", param.FundCode))
		return nil, fmt.Errorf("%w: nav history endpoint returned status %d", apperror.ErrTransientData, resp.StatusCode)
	}
	if historyResp.ErrCode != 0 {
		return nil, fmt.Errorf("%w: nav history endpoint error: %s", apperror.ErrTransientData, historyResp.ErrMsg)
	}
	if len(historyResp.Data.LSJZList) == 0 {
		return nil, fmt.Errorf("%w: fund %s has no nav history", apperror.ErrNotFound, param.FundCode)
	}

	series, err := mapHistoryToSeries(param.FundCode, historyResp.Data.LSJZList)
	if err != nil {
		return nil, err
	}

	r.cache.Set(cacheKey, series, r.cfg.Eastmoney.HistoryCacheTTL)
	return series, nil
}

// FetchLatestNav returns the most recently published NAV row for the fund.
func (r *eastmoneyRepository) FetchLatestNav(ctx context.Context, fundCode string) (*dto.FundQuote, error) {
	cacheKey := fmt.Sprintf("eastmoney:quote:%s", fundCode)
	if cached, found := cache.GetTyped[*dto.FundQuote](r.cache, cacheKey); found {
		return cached, nil
	}

	series, err := r.FetchHistory(ctx, dto.GetHistoryParam{FundCode: fundCode, Days: 1})
	if err != nil {
		return nil, err
	}
	latest := series.Latest()
	if latest == nil {
		return nil, fmt.Errorf("%w: fund %s has no published nav", apperror.ErrNotFound, fundCode)
	}

	quote := &dto.FundQuote{
		FundCode:       fundCode,
		FundName:       series.FundName,
		UnitNav:        latest.UnitNav,
		CumulativeNav:  latest.CumulativeNav,
		DailyGrowthPct: latest.DailyGrowthPct,
		NavDate:        latest.Date,
	}
	r.cache.Set(cacheKey, quote, r.cfg.Eastmoney.QuoteCacheTTL)
	return quote, nil
}

// FetchValuation returns the intraday estimate for an OTC fund. The feed is
// a jsonpgz() wrapper; outside trading hours the estimate fields are empty
// and only the last published NAV survives the mapping.
func (r *eastmoneyRepository) FetchValuation(ctx context.Context, fundCode string) (*dto.FundValuation, error) {
	fundCode = strings.TrimSpace(fundCode)
	if fundCode == "" {
		return nil, fmt.Errorf("%w: fund code is empty", apperror.ErrInvalidParameter)
	}

	cacheKey := fmt.Sprintf("eastmoney:valuation:%s", fundCode)
	if cached, found := cache.GetTyped[*dto.FundValuation](r.cache, cacheKey); found {
		return cached, nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter interrupted: %v", apperror.ErrTransientData, err)
	}

	queryParams := map[string]string{
		"rt": strconv.FormatInt(time.Now().UnixMilli(), 10),
	}
	headers := map[string]string{
		"User-Agent": browserHeaders["User-Agent"],
		"Referer":    fmt.Sprintf("https://fund.eastmoney.com/%s.html", fundCode),
	}

	resp, err := r.valuationClient.Get(ctx, fmt.Sprintf("/js/%s.js", fundCode), queryParams, headers, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch valuation for %s: %v", apperror.ErrTransientData, fundCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: valuation endpoint returned status %d", apperror.ErrTransientData, resp.StatusCode)
	}

	valuation, err := parseValuationJSONP(resp.Body, fundCode)
	if err != nil {
		return nil, err
	}

	r.cache.Set(cacheKey, valuation, r.cfg.Eastmoney.ValuationCacheTTL)
	return valuation, nil
}

// Search looks up fund codes and names by keyword via the suggest endpoint.
func (r *eastmoneyRepository) Search(ctx context.Context, keyword string) ([]dto.FundSearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: search keyword is empty", apperror.ErrInvalidParameter)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter interrupted: %v", apperror.ErrTransientData, err)
	}

	queryParams := map[string]string{
		"m":   "1",
		"key": keyword,
	}

	var searchResp dto.EastmoneySearchResponse
	resp, err := r.searchClient.Get(ctx, "/FundSearch/api/FundSearchAPI.ashx", queryParams, browserHeaders, &searchResp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search funds: %v", apperror.ErrTransientData, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fund search endpoint returned status %d", apperror.ErrTransientData, resp.StatusCode)
	}

	var results []dto.FundSearchResult
	for _, row := range searchResp.Datas {
		if row.Code == "" {
			continue
		}
		results = append(results, dto.FundSearchResult{
			FundCode: row.Code,
			FundName: row.Name,
			FundType: row.FundType,
		})
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no funds matched %q", apperror.ErrNotFound, keyword)
	}
	return results, nil
}

// parseValuationJSONP unwraps the jsonpgz(...) envelope and maps the body to
// a FundValuation. A row without a parseable unit NAV means the fund has no
// OTC valuation feed.
func parseValuationJSONP(body []byte, fundCode string) (*dto.FundValuation, error) {
	text := strings.TrimSpace(string(body))
	open := strings.Index(text, "(")
	end := strings.LastIndex(text, ")")
	if open < 0 || end <= open {
		return nil, fmt.Errorf("%w: fund %s has no valuation feed", apperror.ErrNotFound, fundCode)
	}

	var valuationBody dto.EastmoneyValuationBody
	if err := json.Unmarshal([]byte(text[open+1:end]), &valuationBody); err != nil {
		return nil, fmt.Errorf("%w: malformed valuation payload for %s: %v", apperror.ErrNotFound, fundCode, err)
	}

	unitNav, err := strconv.ParseFloat(valuationBody.DWJZ, 64)
	if err != nil || unitNav <= 0 {
		return nil, fmt.Errorf("%w: fund %s published no unit nav in valuation feed", apperror.ErrNotFound, fundCode)
	}

	valuation := &dto.FundValuation{
		FundCode:     fundCode,
		FundName:     valuationBody.Name,
		UnitNav:      unitNav,
		EstimateTime: valuationBody.GZTime,
	}
	if valuationBody.Fundcode != "" {
		valuation.FundCode = valuationBody.Fundcode
	}
	if navDate, err := utils.ParseNavDate(valuationBody.JZRQ); err == nil {
		valuation.NavDate = navDate
	}
	if estimate, err := strconv.ParseFloat(valuationBody.GSZ, 64); err == nil && estimate > 0 {
		valuation.EstimatedNav = &estimate
		change := estimate - unitNav
		valuation.EstimatedChange = &change
	}
	if changePct, err := strconv.ParseFloat(valuationBody.GSZZL, 64); err == nil {
		valuation.EstimatedChangePct = &changePct
	}
	return valuation, nil
}

// mapHistoryToSeries converts the newest-first feed rows into a
// date-ascending series, skipping rows without a published unit NAV.
func mapHistoryToSeries(fundCode string, rows []dto.EastmoneyNavRow) (*dto.PriceSeries, error) {
	points := make([]dto.NavPoint, 0, len(rows))
	for _, row := range rows {
		if row.DWJZ == "" || row.FSRQ == "" {
			continue
		}
		date, err := utils.ParseNavDate(row.FSRQ)
		if err != nil {
			continue
		}
		unitNav, err := strconv.ParseFloat(row.DWJZ, 64)
		if err != nil || unitNav <= 0 {
			continue
		}

		point := dto.NavPoint{Date: date, UnitNav: unitNav}
		if v, err := strconv.ParseFloat(row.LJJZ, 64); err == nil {
			point.CumulativeNav = v
		}
		if v, err := strconv.ParseFloat(row.JZZZL, 64); err == nil {
			point.DailyGrowthPct = v
		}
		points = append(points, point)
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: fund %s published no usable nav rows", apperror.ErrNotFound, fundCode)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return &dto.PriceSeries{
		FundCode: fundCode,
		Points:   points,
		HasOHLC:  false,
	}, nil
}
