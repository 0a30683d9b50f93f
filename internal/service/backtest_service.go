package service

import (
	"context"

	"golang-fund/config"
	"golang-fund/internal/analysis"
	"golang-fund/internal/dto"
	"golang-fund/internal/repository"
	"golang-fund/pkg/logger"
)

type BacktestService interface {
	Run(ctx context.Context, req *dto.BacktestRequest) (*dto.BacktestResult, error)
}

type backtestService struct {
	cfg            *config.Config
	log            *logger.Logger
	marketDataRepo repository.MarketDataRepository
}

func NewBacktestService(cfg *config.Config, log *logger.Logger, marketDataRepo repository.MarketDataRepository) BacktestService {
	return &backtestService{
		cfg:            cfg,
		log:            log,
		marketDataRepo: marketDataRepo,
	}
}

func (s *backtestService) Run(ctx context.Context, req *dto.BacktestRequest) (*dto.BacktestResult, error) {
	days := req.Days
	if days <= 0 {
		days = s.cfg.Analytics.DefaultHistoryDays
	}

	series, err := s.marketDataRepo.FetchHistory(ctx, dto.GetHistoryParam{FundCode: req.FundCode, Days: days})
	if err != nil {
		return nil, err
	}

	snapshots := analysis.ComputeSnapshots(series)
	result, err := analysis.RunBacktest(series, snapshots, req.Strategy)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "backtest completed",
		logger.StringField("fund_code", req.FundCode),
		logger.StringField("strategy", string(req.Strategy.Kind)),
		logger.IntField("round_trips", result.RoundTrips),
	)
	return result, nil
}
