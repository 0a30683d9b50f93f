package service

import (
	"context"

	"golang-fund/config"
	"golang-fund/internal/dto"
	"golang-fund/internal/model"
	"golang-fund/internal/repository"
	"golang-fund/pkg/logger"

	"github.com/robfig/cron/v3"
)

// NavSyncService keeps the local NAV table current for every fund held in at
// least one open position. It runs on a cron schedule so valuations and
// analytics can fall back to stored history when the upstream is flaky.
type NavSyncService interface {
	Start(ctx context.Context) error
	Stop()
	SyncHeldFunds(ctx context.Context) error
}

type navSyncService struct {
	cfg            *config.Config
	log            *logger.Logger
	marketDataRepo repository.MarketDataRepository
	fundRepo       repository.FundRepository
	fundNavRepo    repository.FundNavRepository
	cron           *cron.Cron
}

func NewNavSyncService(
	cfg *config.Config,
	log *logger.Logger,
	marketDataRepo repository.MarketDataRepository,
	fundRepo repository.FundRepository,
	fundNavRepo repository.FundNavRepository,
) NavSyncService {
	return &navSyncService{
		cfg:            cfg,
		log:            log,
		marketDataRepo: marketDataRepo,
		fundRepo:       fundRepo,
		fundNavRepo:    fundNavRepo,
		cron:           cron.New(),
	}
}

func (s *navSyncService) Start(ctx context.Context) error {
	if !s.cfg.NavSync.Enabled {
		s.log.Info("nav sync disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.NavSync.CronSchedule, func() {
		if err := s.SyncHeldFunds(ctx); err != nil {
			s.log.ErrorContext(ctx, "nav sync run failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("nav sync scheduled", logger.StringField("schedule", s.cfg.NavSync.CronSchedule))
	return nil
}

func (s *navSyncService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

func (s *navSyncService) SyncHeldFunds(ctx context.Context) error {
	funds, err := s.fundRepo.ListHeld(ctx)
	if err != nil {
		return err
	}
	if len(funds) == 0 {
		s.log.DebugContext(ctx, "no held funds to sync")
		return nil
	}

	for _, fund := range funds {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.syncFund(ctx, fund); err != nil {
			// One fund failing must not starve the rest of the sweep.
			s.log.WarnContext(ctx, "nav sync failed for fund",
				logger.StringField("fund_code", fund.Code), logger.ErrorField(err))
		}
	}
	return nil
}

func (s *navSyncService) syncFund(ctx context.Context, fund model.Fund) error {
	series, err := s.marketDataRepo.FetchHistory(ctx, dto.GetHistoryParam{
		FundCode: fund.Code,
		Days:     s.cfg.NavSync.FetchDays,
	})
	if err != nil {
		return err
	}

	navs := make([]model.FundNav, 0, series.Len())
	for _, p := range series.Points {
		navs = append(navs, model.FundNav{
			FundCode:       fund.Code,
			NavDate:        p.Date,
			UnitNav:        p.UnitNav,
			CumulativeNav:  p.CumulativeNav,
			DailyGrowthPct: p.DailyGrowthPct,
		})
	}
	stored, err := s.fundNavRepo.Upsert(ctx, navs)
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "nav history synced",
		logger.StringField("fund_code", fund.Code),
		logger.IntField("points", stored),
	)
	return nil
}
