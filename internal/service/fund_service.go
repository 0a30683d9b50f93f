package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"golang-fund/config"
	"golang-fund/internal/apperror"
	"golang-fund/internal/dto"
	"golang-fund/internal/model"
	"golang-fund/internal/repository"
	"golang-fund/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type FundService interface {
	Quote(ctx context.Context, fundCode string) (*dto.FundQuote, error)
	Search(ctx context.Context, keyword string) ([]dto.FundSearchResult, error)
	History(ctx context.Context, fundCode string, days int) (*dto.PriceSeries, error)
	Valuation(ctx context.Context, fundCode string) (*dto.FundValuation, error)
	Valuations(ctx context.Context, fundCodes []string) (*dto.BatchValuationResult, error)
	SetDefaultFund(ctx context.Context, userID, fundCode string) error
	ResolveFundCode(ctx context.Context, userID, fundCode string) (string, error)
}

type fundService struct {
	cfg             *config.Config
	log             *logger.Logger
	marketDataRepo  repository.MarketDataRepository
	fundRepo        repository.FundRepository
	userSettingRepo repository.UserSettingRepository
}

func NewFundService(
	cfg *config.Config,
	log *logger.Logger,
	marketDataRepo repository.MarketDataRepository,
	fundRepo repository.FundRepository,
	userSettingRepo repository.UserSettingRepository,
) FundService {
	return &fundService{
		cfg:             cfg,
		log:             log,
		marketDataRepo:  marketDataRepo,
		fundRepo:        fundRepo,
		userSettingRepo: userSettingRepo,
	}
}

func (s *fundService) Quote(ctx context.Context, fundCode string) (*dto.FundQuote, error) {
	quote, err := s.marketDataRepo.FetchLatestNav(ctx, fundCode)
	if err != nil {
		return nil, err
	}
	if quote.FundName != "" {
		if err := s.fundRepo.Ensure(ctx, model.Fund{Code: fundCode, Name: quote.FundName}); err != nil {
			s.log.WarnContext(ctx, "failed to upsert fund metadata",
				logger.StringField("fund_code", fundCode), logger.ErrorField(err))
		}
	}
	return quote, nil
}

func (s *fundService) Search(ctx context.Context, keyword string) ([]dto.FundSearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: search keyword is empty", apperror.ErrInvalidParameter)
	}
	return s.marketDataRepo.Search(ctx, keyword)
}

func (s *fundService) History(ctx context.Context, fundCode string, days int) (*dto.PriceSeries, error) {
	if days <= 0 {
		days = s.cfg.Analytics.DefaultHistoryDays
	}
	return s.marketDataRepo.FetchHistory(ctx, dto.GetHistoryParam{FundCode: fundCode, Days: days})
}

// Valuation returns the intraday estimated NAV for a single fund. Outside
// trading hours the estimate fields stay nil and only the last published unit
// NAV is carried.
func (s *fundService) Valuation(ctx context.Context, fundCode string) (*dto.FundValuation, error) {
	return s.marketDataRepo.FetchValuation(ctx, fundCode)
}

// Valuations fetches intraday valuations for several funds concurrently. A
// fund whose feed fails is reported under Failed instead of failing the batch.
func (s *fundService) Valuations(ctx context.Context, fundCodes []string) (*dto.BatchValuationResult, error) {
	codes := make([]string, 0, len(fundCodes))
	seen := make(map[string]struct{}, len(fundCodes))
	for _, code := range fundCodes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: no fund codes given", apperror.ErrInvalidParameter)
	}

	concurrency := s.cfg.Eastmoney.ValuationConcurrency
	if concurrency <= 0 {
		concurrency = 6
	}

	result := &dto.BatchValuationResult{
		Valuations: make([]dto.FundValuation, 0, len(codes)),
		Failed:     make(map[string]string),
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for _, code := range codes {
		code := code
		group.Go(func() error {
			valuation, err := s.marketDataRepo.FetchValuation(groupCtx, code)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.WarnContext(groupCtx, "valuation fetch failed",
					logger.StringField("fund_code", code), logger.ErrorField(err))
				result.Failed[code] = apperror.Kind(err)
				return nil
			}
			result.Valuations = append(result.Valuations, *valuation)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	// Collection order depends on goroutine scheduling, so restore the
	// request order before returning.
	sort.Slice(result.Valuations, func(i, j int) bool {
		return slices.Index(codes, result.Valuations[i].FundCode) < slices.Index(codes, result.Valuations[j].FundCode)
	})
	if len(result.Failed) == 0 {
		result.Failed = nil
	}
	return result, nil
}

func (s *fundService) SetDefaultFund(ctx context.Context, userID, fundCode string) error {
	// Validate against the upstream before persisting so a typo never
	// becomes a sticky default.
	quote, err := s.marketDataRepo.FetchLatestNav(ctx, fundCode)
	if err != nil {
		return err
	}
	if err := s.fundRepo.Ensure(ctx, model.Fund{Code: fundCode, Name: quote.FundName}); err != nil {
		return err
	}
	return s.userSettingRepo.SetDefaultFund(ctx, userID, fundCode)
}

// ResolveFundCode returns the explicit fund code when given, otherwise the
// user's stored default.
func (s *fundService) ResolveFundCode(ctx context.Context, userID, fundCode string) (string, error) {
	if fundCode != "" {
		return fundCode, nil
	}
	setting, err := s.userSettingRepo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if setting.DefaultFundCode == "" {
		return "", fmt.Errorf("%w: no fund code given and no default fund set for user %s", apperror.ErrInvalidParameter, userID)
	}
	return setting.DefaultFundCode, nil
}
