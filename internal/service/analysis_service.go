package service

import (
	"context"
	"fmt"
	"strings"

	"golang-fund/config"
	"golang-fund/internal/analysis"
	"golang-fund/internal/apperror"
	"golang-fund/internal/dto"
	"golang-fund/internal/model"
	"golang-fund/internal/repository"
	"golang-fund/pkg/logger"
	"golang-fund/pkg/utils"
)

type AnalysisService interface {
	TechnicalReport(ctx context.Context, fundCode string, days int) (*dto.TechnicalReport, error)
	QuantReport(ctx context.Context, fundCode string, days int) (*dto.QuantReport, error)
	Compare(ctx context.Context, leftCode, rightCode string, days int) (*dto.FundComparison, error)
	AIReport(ctx context.Context, fundCode string, days int) (*dto.AIFundReport, error)
}

type analysisService struct {
	cfg            *config.Config
	log            *logger.Logger
	marketDataRepo repository.MarketDataRepository
	fundRepo       repository.FundRepository
	fundNavRepo    repository.FundNavRepository
	geminiAIRepo   repository.AIRepository
}

func NewAnalysisService(
	cfg *config.Config,
	log *logger.Logger,
	marketDataRepo repository.MarketDataRepository,
	fundRepo repository.FundRepository,
	fundNavRepo repository.FundNavRepository,
	geminiAIRepo repository.AIRepository,
) AnalysisService {
	return &analysisService{
		cfg:            cfg,
		log:            log,
		marketDataRepo: marketDataRepo,
		fundRepo:       fundRepo,
		fundNavRepo:    fundNavRepo,
		geminiAIRepo:   geminiAIRepo,
	}
}

func (s *analysisService) TechnicalReport(ctx context.Context, fundCode string, days int) (*dto.TechnicalReport, error) {
	series, err := s.fetchSeries(ctx, fundCode, days)
	if err != nil {
		return nil, err
	}

	snapshots := analysis.ComputeSnapshots(series)
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: no price points for fund %s", apperror.ErrInsufficientHistory, fundCode)
	}
	latest := snapshots[len(snapshots)-1]
	latestPoint := series.Latest()

	report := &dto.TechnicalReport{
		FundCode:  fundCode,
		FundName:  series.FundName,
		AsOf:      latestPoint.Date,
		LatestNav: latestPoint.UnitNav,
		Snapshot:  &latest,
		Return5D:  trailingReturn(series, 5),
		Return10D: trailingReturn(series, 10),
		Return20D: trailingReturn(series, 20),
	}
	report.High20D, report.Low20D = trailingRange(series, 20)
	return report, nil
}

func (s *analysisService) QuantReport(ctx context.Context, fundCode string, days int) (*dto.QuantReport, error) {
	series, err := s.fetchSeries(ctx, fundCode, days)
	if err != nil {
		return nil, err
	}
	return analysis.ComputeQuantReport(series, s.cfg.Analytics.RiskFreeRate), nil
}

// Compare runs the quant summary for two funds over the same window and
// returns them side by side.
func (s *analysisService) Compare(ctx context.Context, leftCode, rightCode string, days int) (*dto.FundComparison, error) {
	leftCode = strings.TrimSpace(leftCode)
	rightCode = strings.TrimSpace(rightCode)
	if leftCode == "" || rightCode == "" {
		return nil, fmt.Errorf("%w: comparison needs two fund codes", apperror.ErrInvalidParameter)
	}
	if leftCode == rightCode {
		return nil, fmt.Errorf("%w: comparison needs two distinct fund codes", apperror.ErrInvalidParameter)
	}
	if days <= 0 {
		days = s.cfg.Analytics.DefaultHistoryDays
	}

	leftSeries, err := s.fetchSeries(ctx, leftCode, days)
	if err != nil {
		return nil, err
	}
	rightSeries, err := s.fetchSeries(ctx, rightCode, days)
	if err != nil {
		return nil, err
	}

	return &dto.FundComparison{
		WindowDays: days,
		LeftName:   leftSeries.FundName,
		RightName:  rightSeries.FundName,
		Left:       analysis.ComputeQuantReport(leftSeries, s.cfg.Analytics.RiskFreeRate),
		Right:      analysis.ComputeQuantReport(rightSeries, s.cfg.Analytics.RiskFreeRate),
	}, nil
}

// AIReport assembles the full structured payload and hands it to the AI
// collaborator. Quote, technical, quant and a default MA-cross backtest are
// computed from one history fetch so the payload is internally consistent.
func (s *analysisService) AIReport(ctx context.Context, fundCode string, days int) (*dto.AIFundReport, error) {
	series, err := s.fetchSeries(ctx, fundCode, days)
	if err != nil {
		return nil, err
	}
	latestPoint := series.Latest()
	if latestPoint == nil {
		return nil, fmt.Errorf("%w: no price points for fund %s", apperror.ErrInsufficientHistory, fundCode)
	}

	snapshots := analysis.ComputeSnapshots(series)
	latest := snapshots[len(snapshots)-1]

	technical := &dto.TechnicalReport{
		FundCode:  fundCode,
		FundName:  series.FundName,
		AsOf:      latestPoint.Date,
		LatestNav: latestPoint.UnitNav,
		Snapshot:  &latest,
		Return5D:  trailingReturn(series, 5),
		Return10D: trailingReturn(series, 10),
		Return20D: trailingReturn(series, 20),
	}
	technical.High20D, technical.Low20D = trailingRange(series, 20)

	quant := analysis.ComputeQuantReport(series, s.cfg.Analytics.RiskFreeRate)

	backtest, err := analysis.RunBacktest(series, snapshots, dto.StrategyParams{Kind: dto.StrategyMACross})
	if err != nil {
		s.log.WarnContext(ctx, "backtest skipped for ai report",
			logger.StringField("fund_code", fundCode), logger.ErrorField(err))
		backtest = nil
	}

	quote := &dto.FundQuote{
		FundCode:       fundCode,
		FundName:       series.FundName,
		UnitNav:        latestPoint.UnitNav,
		CumulativeNav:  latestPoint.CumulativeNav,
		DailyGrowthPct: latestPoint.DailyGrowthPct,
		NavDate:        latestPoint.Date,
	}

	payload := &dto.AIReportPayload{
		FundCode:  fundCode,
		FundName:  series.FundName,
		AsOf:      latestPoint.Date,
		Quote:     quote,
		Technical: technical,
		Quant:     quant,
		Backtest:  backtest,
	}

	return s.geminiAIRepo.GenerateFundReport(ctx, payload)
}

// fetchSeries pulls history from the upstream and persists the observations
// so the local NAV table keeps filling in as a side effect of analysis.
func (s *analysisService) fetchSeries(ctx context.Context, fundCode string, days int) (*dto.PriceSeries, error) {
	if days <= 0 {
		days = s.cfg.Analytics.DefaultHistoryDays
	}
	series, err := s.marketDataRepo.FetchHistory(ctx, dto.GetHistoryParam{FundCode: fundCode, Days: days})
	if err != nil {
		return nil, err
	}

	if series.FundName != "" {
		if err := s.fundRepo.Ensure(ctx, model.Fund{Code: fundCode, Name: series.FundName}); err != nil {
			s.log.WarnContext(ctx, "failed to upsert fund metadata",
				logger.StringField("fund_code", fundCode), logger.ErrorField(err))
		}
	}

	navs := make([]model.FundNav, 0, series.Len())
	for _, p := range series.Points {
		navs = append(navs, model.FundNav{
			FundCode:       fundCode,
			NavDate:        p.Date,
			UnitNav:        p.UnitNav,
			CumulativeNav:  p.CumulativeNav,
			DailyGrowthPct: p.DailyGrowthPct,
		})
	}
	if _, err := s.fundNavRepo.Upsert(ctx, navs); err != nil {
		s.log.WarnContext(ctx, "failed to persist nav history",
			logger.StringField("fund_code", fundCode), logger.ErrorField(err))
	}

	return series, nil
}

// trailingReturn is the simple return over the last n observations, nil when
// the series is shorter than n+1 points.
func trailingReturn(series *dto.PriceSeries, n int) *float64 {
	if series.Len() < n+1 {
		return nil
	}
	first := series.Points[series.Len()-1-n].UnitNav
	last := series.Points[series.Len()-1].UnitNav
	if first == 0 {
		return nil
	}
	return utils.ToPointer(last/first - 1)
}

func trailingRange(series *dto.PriceSeries, n int) (high, low *float64) {
	if series.Len() < n {
		return nil, nil
	}
	points := series.Points[series.Len()-n:]
	h, l := points[0].UnitNav, points[0].UnitNav
	for _, p := range points[1:] {
		if p.UnitNav > h {
			h = p.UnitNav
		}
		if p.UnitNav < l {
			l = p.UnitNav
		}
	}
	return utils.ToPointer(h), utils.ToPointer(l)
}
