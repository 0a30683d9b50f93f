package repository

import (
	"golang-fund/config"
	"golang-fund/pkg/cache"
	"golang-fund/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	FundRepo        FundRepository
	FundNavRepo     FundNavRepository
	PositionsRepo   PositionsRepository
	PositionLogRepo PositionLogRepository
	UserSettingRepo UserSettingRepository
	MarketDataRepo  MarketDataRepository
	GeminiAIRepo    AIRepository
	UnitOfWork      UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger, inmemoryCache cache.Cache) (*Repository, error) {
	uow := NewUnitOfWork(db)
	geminiAIRepo, err := NewGeminiAIRepository(db, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		FundRepo:        NewFundRepository(db),
		FundNavRepo:     NewFundNavRepository(db),
		PositionsRepo:   NewPositionsRepository(db),
		PositionLogRepo: NewPositionLogRepository(db),
		UserSettingRepo: NewUserSettingRepository(db),
		MarketDataRepo:  NewEastmoneyRepository(cfg, log, inmemoryCache),
		GeminiAIRepo:    geminiAIRepo,
		UnitOfWork:      uow,
	}, nil
}
