package service

import (
	"context"
	"testing"
	"time"

	"golang-fund/config"
	"golang-fund/internal/apperror"
	"golang-fund/internal/dto"
	"golang-fund/internal/model"
	"golang-fund/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFundNavRepo struct {
	upserted []model.FundNav
}

func (f *fakeFundNavRepo) Upsert(ctx context.Context, navs []model.FundNav) (int, error) {
	f.upserted = append(f.upserted, navs...)
	return len(navs), nil
}

func (f *fakeFundNavRepo) ListByFund(ctx context.Context, fundCode string, limit int) ([]model.FundNav, error) {
	return nil, nil
}

type fakeAIRepo struct {
	lastPayload *dto.AIReportPayload
}

func (f *fakeAIRepo) GenerateFundReport(ctx context.Context, payload *dto.AIReportPayload) (*dto.AIFundReport, error) {
	f.lastPayload = payload
	return &dto.AIFundReport{FundCode: payload.FundCode, Summary: "steady climb"}, nil
}

func testSeries(navs []float64) *dto.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]dto.NavPoint, len(navs))
	for i, v := range navs {
		points[i] = dto.NavPoint{Date: start.AddDate(0, 0, i), UnitNav: v}
	}
	return &dto.PriceSeries{FundCode: "000001", FundName: "Test Growth Fund", Points: points}
}

func TestTrailingReturn(t *testing.T) {
	series := testSeries([]float64{1.0, 1.1, 1.2, 1.3, 1.4, 1.5, 1.65})

	got := trailingReturn(series, 5)
	require.NotNil(t, got)
	assert.InDelta(t, 1.65/1.1-1, *got, 1e-9)

	assert.Nil(t, trailingReturn(series, 10), "window longer than the series")
}

func TestTrailingRange(t *testing.T) {
	series := testSeries([]float64{1.0, 1.4, 0.9, 1.2, 1.1})

	high, low := trailingRange(series, 5)
	require.NotNil(t, high)
	require.NotNil(t, low)
	assert.InDelta(t, 1.4, *high, 1e-9)
	assert.InDelta(t, 0.9, *low, 1e-9)

	high, low = trailingRange(series, 10)
	assert.Nil(t, high)
	assert.Nil(t, low)
}

func TestTechnicalReport_PersistsNavHistory(t *testing.T) {
	navs := make([]float64, 30)
	for i := range navs {
		navs[i] = 1.0 + 0.01*float64(i)
	}
	series := testSeries(navs)

	navRepo := &fakeFundNavRepo{}
	svc := NewAnalysisService(
		&config.Config{Analytics: config.AnalyticsConfig{DefaultHistoryDays: 120}},
		logger.NewNop(),
		&fakeMarketDataRepo{series: series},
		&fakeFundRepo{},
		navRepo,
		&fakeAIRepo{},
	)

	report, err := svc.TechnicalReport(context.Background(), "000001", 0)
	require.NoError(t, err)

	assert.Equal(t, "000001", report.FundCode)
	assert.InDelta(t, navs[len(navs)-1], report.LatestNav, 1e-9)
	require.NotNil(t, report.Snapshot)
	require.NotNil(t, report.Snapshot.MA5)
	require.NotNil(t, report.Return20D)
	assert.InDelta(t, navs[29]/navs[9]-1, *report.Return20D, 1e-9)

	assert.Len(t, navRepo.upserted, 30, "fetched history lands in the nav table")
}

func namedSeries(fundCode, fundName string, navs []float64) *dto.PriceSeries {
	series := testSeries(navs)
	series.FundCode = fundCode
	series.FundName = fundName
	return series
}

func TestCompare_TwoQuantRunsSideBySide(t *testing.T) {
	steady := make([]float64, 30)
	choppy := make([]float64, 30)
	for i := range steady {
		steady[i] = 1.0 + 0.01*float64(i)
		choppy[i] = 1.0 + 0.05*float64(i%2)
	}

	svc := NewAnalysisService(
		&config.Config{Analytics: config.AnalyticsConfig{DefaultHistoryDays: 120, RiskFreeRate: 0.02}},
		logger.NewNop(),
		&fakeMarketDataRepo{seriesByCode: map[string]*dto.PriceSeries{
			"000001": namedSeries("000001", "Steady Growth", steady),
			"000002": namedSeries("000002", "Choppy Value", choppy),
		}},
		&fakeFundRepo{},
		&fakeFundNavRepo{},
		&fakeAIRepo{},
	)

	comparison, err := svc.Compare(context.Background(), "000001", "000002", 30)
	require.NoError(t, err)

	assert.Equal(t, 30, comparison.WindowDays)
	assert.Equal(t, "Steady Growth", comparison.LeftName)
	assert.Equal(t, "Choppy Value", comparison.RightName)
	require.NotNil(t, comparison.Left)
	require.NotNil(t, comparison.Right)
	assert.Equal(t, "000001", comparison.Left.FundCode)
	assert.Equal(t, "000002", comparison.Right.FundCode)

	require.NotNil(t, comparison.Left.CumulativeReturn)
	require.NotNil(t, comparison.Right.CumulativeReturn)
	assert.InDelta(t, steady[29]/steady[0]-1, *comparison.Left.CumulativeReturn, 1e-9)
	assert.InDelta(t, choppy[29]/choppy[0]-1, *comparison.Right.CumulativeReturn, 1e-9)

	require.NotNil(t, comparison.Left.AnnualizedVolatility)
	require.NotNil(t, comparison.Right.AnnualizedVolatility)
	assert.Greater(t, *comparison.Right.AnnualizedVolatility, *comparison.Left.AnnualizedVolatility,
		"the alternating series is the riskier one")
}

func TestCompare_RejectsBadCodePairs(t *testing.T) {
	svc := NewAnalysisService(
		&config.Config{Analytics: config.AnalyticsConfig{DefaultHistoryDays: 120}},
		logger.NewNop(),
		&fakeMarketDataRepo{},
		&fakeFundRepo{},
		&fakeFundNavRepo{},
		&fakeAIRepo{},
	)

	_, err := svc.Compare(context.Background(), "000001", "000001", 30)
	assert.ErrorIs(t, err, apperror.ErrInvalidParameter)

	_, err = svc.Compare(context.Background(), "", "000002", 30)
	assert.ErrorIs(t, err, apperror.ErrInvalidParameter)
}

func TestAIReport_PayloadCarriesAllSections(t *testing.T) {
	navs := make([]float64, 40)
	for i := range navs {
		navs[i] = 1.0 + 0.005*float64(i)
	}
	series := testSeries(navs)

	aiRepo := &fakeAIRepo{}
	svc := NewAnalysisService(
		&config.Config{Analytics: config.AnalyticsConfig{DefaultHistoryDays: 120, RiskFreeRate: 0.02}},
		logger.NewNop(),
		&fakeMarketDataRepo{series: series},
		&fakeFundRepo{},
		&fakeFundNavRepo{},
		aiRepo,
	)

	report, err := svc.AIReport(context.Background(), "000001", 0)
	require.NoError(t, err)
	assert.Equal(t, "steady climb", report.Summary)

	payload := aiRepo.lastPayload
	require.NotNil(t, payload)
	require.NotNil(t, payload.Quote)
	assert.InDelta(t, navs[len(navs)-1], payload.Quote.UnitNav, 1e-9)
	require.NotNil(t, payload.Technical)
	require.NotNil(t, payload.Quant)
	assert.NotNil(t, payload.Quant.CumulativeReturn)
	require.NotNil(t, payload.Backtest)
	assert.Equal(t, dto.StrategyMACross, payload.Backtest.Strategy.Kind)
}
