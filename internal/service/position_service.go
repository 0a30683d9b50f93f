package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang-fund/config"
	"golang-fund/internal/analysis"
	"golang-fund/internal/apperror"
	"golang-fund/internal/dto"
	"golang-fund/internal/model"
	"golang-fund/internal/repository"
	"golang-fund/pkg/logger"
	"golang-fund/pkg/utils"
)

// shareEpsilon absorbs float residue when deciding whether a sell empties
// the position or exceeds it.
const shareEpsilon = 1e-8

type PositionService interface {
	AddHolding(ctx context.Context, req *dto.AddHoldingRequest) (*model.Position, error)
	Liquidate(ctx context.Context, req *dto.LiquidateRequest) (*dto.LiquidationRecord, error)
	Holdings(ctx context.Context, userID string) (*dto.RefreshResult, error)
	History(ctx context.Context, userID string, limit int) ([]dto.LiquidationRecord, error)
}

type positionService struct {
	cfg             *config.Config
	log             *logger.Logger
	marketDataRepo  repository.MarketDataRepository
	fundRepo        repository.FundRepository
	positionsRepo   repository.PositionsRepository
	positionLogRepo repository.PositionLogRepository
	unitOfWork      repository.UnitOfWork

	// mu serializes mutations per (user, fund) so concurrent buys and sells
	// never interleave a read-modify-write.
	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

func NewPositionService(
	cfg *config.Config,
	log *logger.Logger,
	marketDataRepo repository.MarketDataRepository,
	fundRepo repository.FundRepository,
	positionsRepo repository.PositionsRepository,
	positionLogRepo repository.PositionLogRepository,
	unitOfWork repository.UnitOfWork,
) PositionService {
	return &positionService{
		cfg:             cfg,
		log:             log,
		marketDataRepo:  marketDataRepo,
		fundRepo:        fundRepo,
		positionsRepo:   positionsRepo,
		positionLogRepo: positionLogRepo,
		unitOfWork:      unitOfWork,
		keyLocks:        make(map[string]*sync.Mutex),
	}
}

func (s *positionService) lockFor(userID, fundCode string) *sync.Mutex {
	key := userID + ":" + fundCode
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.keyLocks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.keyLocks[key] = l
	return l
}

func (s *positionService) AddHolding(ctx context.Context, req *dto.AddHoldingRequest) (*model.Position, error) {
	if req.Shares <= 0 || req.CostPerShare <= 0 {
		return nil, fmt.Errorf("%w: shares and cost per share must be positive", apperror.ErrInvalidParameter)
	}

	// Confirm the fund exists upstream before touching the ledger.
	quote, err := s.marketDataRepo.FetchLatestNav(ctx, req.FundCode)
	if err != nil {
		return nil, err
	}
	if err := s.fundRepo.Ensure(ctx, model.Fund{Code: req.FundCode, Name: quote.FundName}); err != nil {
		return nil, err
	}

	lock := s.lockFor(req.UserID, req.FundCode)
	lock.Lock()
	defer lock.Unlock()

	var result *model.Position
	err = s.unitOfWork.Run(func(opts ...utils.DBOption) error {
		position, err := s.positionsRepo.Get(ctx, req.UserID, req.FundCode, opts...)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}

		now := utils.TimeNowCST()
		switch {
		case position == nil:
			position = &model.Position{
				UserID:   req.UserID,
				FundCode: req.FundCode,
				Shares:   req.Shares,
				AvgCost:  req.CostPerShare,
				Status:   model.PositionStatusOpen,
				OpenedAt: now,
			}
		case position.Status == model.PositionStatusClosed:
			// Reopening a closed row starts a fresh cost basis.
			position.Shares = req.Shares
			position.AvgCost = req.CostPerShare
			position.Status = model.PositionStatusOpen
			position.OpenedAt = now
		default:
			totalCost := position.Shares*position.AvgCost + req.Shares*req.CostPerShare
			position.Shares += req.Shares
			position.AvgCost = totalCost / position.Shares
			position.Status = model.PositionStatusOpen
		}

		if err := s.positionsRepo.Save(ctx, position, opts...); err != nil {
			return err
		}
		result = position
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "holding added",
		logger.StringField("user_id", req.UserID),
		logger.StringField("fund_code", req.FundCode),
		logger.Float64Field("shares", result.Shares),
		logger.Float64Field("avg_cost", result.AvgCost),
	)
	return result, nil
}

// Liquidate sells part or all of a holding at the latest published NAV. The
// amount is resolved against the holding at execution time; the position
// update and its log entry commit in one transaction or not at all.
func (s *positionService) Liquidate(ctx context.Context, req *dto.LiquidateRequest) (*dto.LiquidationRecord, error) {
	quote, err := s.marketDataRepo.FetchLatestNav(ctx, req.FundCode)
	if err != nil {
		return nil, err
	}

	lock := s.lockFor(req.UserID, req.FundCode)
	lock.Lock()
	defer lock.Unlock()

	var record *dto.LiquidationRecord
	err = s.unitOfWork.Run(func(opts ...utils.DBOption) error {
		position, err := s.positionsRepo.Get(ctx, req.UserID, req.FundCode, opts...)
		if err != nil {
			return err
		}
		if position.Status == model.PositionStatusClosed || position.Shares <= shareEpsilon {
			return fmt.Errorf("%w: position for fund %s is closed", apperror.ErrNotFound, req.FundCode)
		}

		sharesToSell, err := utils.ParseSellAmount(req.Amount, position.Shares)
		if err != nil {
			return fmt.Errorf("%w: %v", apperror.ErrInvalidParameter, err)
		}
		if sharesToSell > position.Shares+shareEpsilon {
			return fmt.Errorf("%w: requested %.2f shares but only %.2f held",
				apperror.ErrInsufficientShares, sharesToSell, position.Shares)
		}

		sharesBefore := position.Shares
		remaining := position.Shares - sharesToSell
		closed := remaining <= shareEpsilon
		if closed {
			remaining = 0
		}

		nextStatus := model.PositionStatusPartiallyReduced
		if closed {
			nextStatus = model.PositionStatusClosed
		}
		if !position.CanTransitionTo(nextStatus) {
			return fmt.Errorf("%w: position cannot move from %s to %s",
				apperror.ErrInvalidParameter, position.Status, nextStatus)
		}

		realizedPnl := sharesToSell * (quote.UnitNav - position.AvgCost)

		position.Shares = remaining
		position.Status = nextStatus
		if err := s.positionsRepo.Save(ctx, position, opts...); err != nil {
			return err
		}

		entry := &model.PositionLog{
			UserID:       req.UserID,
			FundCode:     req.FundCode,
			Action:       string(dto.ActionSell),
			SharesSold:   sharesToSell,
			SharesBefore: sharesBefore,
			SharesAfter:  remaining,
			AvgCost:      position.AvgCost,
			SaleNav:      quote.UnitNav,
			NavDate:      quote.NavDate,
			RealizedPnl:  realizedPnl,
		}
		if err := s.positionLogRepo.Append(ctx, entry, opts...); err != nil {
			return err
		}

		record = &dto.LiquidationRecord{
			UserID:          req.UserID,
			FundCode:        req.FundCode,
			Date:            quote.NavDate,
			SharesSold:      sharesToSell,
			SaleNav:         quote.UnitNav,
			RealizedPnl:     realizedPnl,
			RemainingShares: remaining,
			PositionClosed:  closed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "position liquidated",
		logger.StringField("user_id", req.UserID),
		logger.StringField("fund_code", req.FundCode),
		logger.Float64Field("shares_sold", record.SharesSold),
		logger.Float64Field("realized_pnl", record.RealizedPnl),
	)
	return record, nil
}

// Holdings revalues every open position against the latest NAV. A fetch
// failure for one fund degrades that row to cost-only data instead of
// failing the whole listing.
func (s *positionService) Holdings(ctx context.Context, userID string) (*dto.RefreshResult, error) {
	positions, err := s.positionsRepo.ListOpen(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &dto.RefreshResult{UserID: userID}
	for _, position := range positions {
		valuation := dto.HoldingValuation{
			FundCode: position.FundCode,
			FundName: position.Fund.Name,
			Shares:   position.Shares,
			AvgCost:  position.AvgCost,
			Status:   string(position.Status),
			OpenedAt: position.OpenedAt,
		}

		quote, err := s.marketDataRepo.FetchLatestNav(ctx, position.FundCode)
		if err != nil {
			s.log.WarnContext(ctx, "valuation fetch failed",
				logger.StringField("fund_code", position.FundCode), logger.ErrorField(err))
			valuation.FetchError = apperror.Kind(err)
			result.Failed = append(result.Failed, valuation)
			continue
		}

		marketValue := position.Shares * quote.UnitNav
		valuation.CurrentNav = utils.ToPointer(quote.UnitNav)
		valuation.NavDate = utils.ToPointer(quote.NavDate)
		valuation.MarketValue = utils.ToPointer(marketValue)
		valuation.UnrealizedPnl = utils.ToPointer(marketValue - position.Shares*position.AvgCost)
		valuation.ReturnPct = utils.ToPointer(analysis.HoldingReturn(position.AvgCost, quote.UnitNav))
		result.Refreshed = append(result.Refreshed, valuation)
	}
	return result, nil
}

func (s *positionService) History(ctx context.Context, userID string, limit int) ([]dto.LiquidationRecord, error) {
	logs, err := s.positionLogRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	records := make([]dto.LiquidationRecord, 0, len(logs))
	for _, entry := range logs {
		records = append(records, dto.LiquidationRecord{
			UserID:          entry.UserID,
			FundCode:        entry.FundCode,
			Date:            entry.NavDate,
			SharesSold:      entry.SharesSold,
			SaleNav:         entry.SaleNav,
			RealizedPnl:     entry.RealizedPnl,
			RemainingShares: entry.SharesAfter,
			PositionClosed:  entry.SharesAfter <= shareEpsilon,
		})
	}
	return records, nil
}
