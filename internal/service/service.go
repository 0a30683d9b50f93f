package service

import (
	"golang-fund/config"
	"golang-fund/internal/repository"
	"golang-fund/pkg/cache"
	"golang-fund/pkg/logger"
)

type Service struct {
	FundService     FundService
	AnalysisService AnalysisService
	BacktestService BacktestService
	PositionService PositionService
	NavSyncService  NavSyncService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	fundService := NewFundService(cfg, log, repo.MarketDataRepo, repo.FundRepo, repo.UserSettingRepo)
	analysisService := NewAnalysisService(cfg, log, repo.MarketDataRepo, repo.FundRepo, repo.FundNavRepo, repo.GeminiAIRepo)
	backtestService := NewBacktestService(cfg, log, repo.MarketDataRepo)
	positionService := NewPositionService(cfg, log, repo.MarketDataRepo, repo.FundRepo, repo.PositionsRepo, repo.PositionLogRepo, repo.UnitOfWork)
	navSyncService := NewNavSyncService(cfg, log, repo.MarketDataRepo, repo.FundRepo, repo.FundNavRepo)

	return &Service{
		FundService:     fundService,
		AnalysisService: analysisService,
		BacktestService: backtestService,
		PositionService: positionService,
		NavSyncService:  navSyncService,
	}
}
