package analysis

import (
	"fmt"
	"math"

	"golang-fund/internal/apperror"
	"golang-fund/internal/dto"
)

const (
	defaultShortPeriod = 5
	defaultLongPeriod  = 20
	defaultRSIPeriod   = 14
	defaultOversold    = 30
	defaultOverbought  = 70
)

// RunBacktest walks the series once, forward in time, asking the selected
// strategy for a decision at every date and executing at that date's closing
// NAV. One position at a time, no slippage, signals on dates where the
// indicator window is not yet defined are holds.
func RunBacktest(series *dto.PriceSeries, snapshots []dto.IndicatorSnapshot, params dto.StrategyParams) (*dto.BacktestResult, error) {
	params = withDefaults(params)
	if err := validateParams(params); err != nil {
		return nil, err
	}

	result := &dto.BacktestResult{
		FundCode:         series.FundCode,
		Strategy:         params,
		UndefinedReasons: map[string]string{},
	}
	if series.Len() > 0 {
		result.WindowStart = series.Points[0].Date
		result.WindowEnd = series.Points[series.Len()-1].Date
	}

	inPosition := false
	var entry *dto.BacktestTrade
	var roundTripReturns []float64

	// equity tracks mark-to-market value of one unit of capital: flat cash at
	// 1x outside a position, scaled by price moves while inside one.
	equity := 1.0
	equityPeak := 1.0
	maxDD := 0.0
	lastPrice := 0.0

	for i := 1; i < len(snapshots); i++ {
		price := series.Points[i].UnitNav

		if inPosition && lastPrice > 0 {
			equity *= price / lastPrice
		}
		lastPrice = price

		action, reason := decide(params, &snapshots[i-1], &snapshots[i], inPosition)
		switch action {
		case dto.ActionBuy:
			trade := dto.BacktestTrade{
				Date:   snapshots[i].Date,
				Action: dto.ActionBuy,
				Price:  price,
				Reason: reason,
			}
			result.Trades = append(result.Trades, trade)
			entry = &result.Trades[len(result.Trades)-1]
			inPosition = true
		case dto.ActionSell:
			result.Trades = append(result.Trades, dto.BacktestTrade{
				Date:   snapshots[i].Date,
				Action: dto.ActionSell,
				Price:  price,
				Reason: reason,
			})
			if entry != nil && entry.Price > 0 {
				roundTripReturns = append(roundTripReturns, price/entry.Price-1)
			}
			entry = nil
			inPosition = false
		}

		if equity > equityPeak {
			equityPeak = equity
		} else if equityPeak > 0 {
			if dd := 1 - equity/equityPeak; dd > maxDD {
				maxDD = dd
			}
		}
	}

	if inPosition && entry != nil {
		open := *entry
		result.OpenTrade = &open
	}

	result.RoundTrips = len(roundTripReturns)
	summarize(result, roundTripReturns, maxDD)
	return result, nil
}

func summarize(result *dto.BacktestResult, roundTripReturns []float64, maxDD float64) {
	if len(roundTripReturns) == 0 {
		for _, field := range []string{"win_rate", "profit_loss_ratio", "total_return", "max_drawdown"} {
			result.UndefinedReasons[field] = "no completed round-trips"
		}
		return
	}

	var wins, losses int
	var winSum, lossSum float64
	total := 1.0
	for _, r := range roundTripReturns {
		total *= 1 + r
		if r > 0 {
			wins++
			winSum += r
		} else {
			losses++
			lossSum += r
		}
	}

	winRate := float64(wins) / float64(len(roundTripReturns))
	result.WinRate = &winRate

	totalReturn := total - 1
	result.TotalReturn = &totalReturn
	result.MaxDrawdown = &maxDD

	switch {
	case losses == 0:
		result.UndefinedReasons["profit_loss_ratio"] = "no losing trades"
	case wins == 0:
		result.UndefinedReasons["profit_loss_ratio"] = "no winning trades"
	default:
		plRatio := (winSum / float64(wins)) / math.Abs(lossSum/float64(losses))
		result.ProfitLossRatio = &plRatio
	}
}

func withDefaults(params dto.StrategyParams) dto.StrategyParams {
	switch params.Kind {
	case dto.StrategyMACross:
		if params.ShortPeriod == 0 {
			params.ShortPeriod = defaultShortPeriod
		}
		if params.LongPeriod == 0 {
			params.LongPeriod = defaultLongPeriod
		}
	case dto.StrategyRSIThreshold:
		if params.RSIPeriod == 0 {
			params.RSIPeriod = defaultRSIPeriod
		}
		if params.Oversold == 0 {
			params.Oversold = defaultOversold
		}
		if params.Overbought == 0 {
			params.Overbought = defaultOverbought
		}
	}
	return params
}

func validateParams(params dto.StrategyParams) error {
	switch params.Kind {
	case dto.StrategyMACross:
		if !supportedMAPeriod(params.ShortPeriod) || !supportedMAPeriod(params.LongPeriod) {
			return fmt.Errorf("%w: unsupported MA period %d/%d, supported: 5,10,20,60", apperror.ErrInvalidParameter, params.ShortPeriod, params.LongPeriod)
		}
		if params.ShortPeriod >= params.LongPeriod {
			return fmt.Errorf("%w: short MA period %d must be below long period %d", apperror.ErrInvalidParameter, params.ShortPeriod, params.LongPeriod)
		}
	case dto.StrategyRSIThreshold:
		if params.RSIPeriod != 6 && params.RSIPeriod != 14 {
			return fmt.Errorf("%w: unsupported RSI period %d, supported: 6,14", apperror.ErrInvalidParameter, params.RSIPeriod)
		}
		if params.Oversold >= params.Overbought {
			return fmt.Errorf("%w: oversold %v must be below overbought %v", apperror.ErrInvalidParameter, params.Oversold, params.Overbought)
		}
	default:
		return fmt.Errorf("%w: unknown strategy kind %q", apperror.ErrInvalidParameter, params.Kind)
	}
	return nil
}

func supportedMAPeriod(period int) bool {
	switch period {
	case 5, 10, 20, 60:
		return true
	default:
		return false
	}
}

// decide dispatches over the closed strategy set. Adding a strategy means
// adding one kind plus its decide function; the simulation loop above never
// changes.
func decide(params dto.StrategyParams, prev, curr *dto.IndicatorSnapshot, inPosition bool) (dto.TradeAction, string) {
	switch params.Kind {
	case dto.StrategyMACross:
		return decideMACross(params, prev, curr, inPosition)
	case dto.StrategyRSIThreshold:
		return decideRSIThreshold(params, prev, curr, inPosition)
	default:
		return dto.ActionHold, ""
	}
}

func decideMACross(params dto.StrategyParams, prev, curr *dto.IndicatorSnapshot, inPosition bool) (dto.TradeAction, string) {
	prevShort, prevLong := prev.MA(params.ShortPeriod), prev.MA(params.LongPeriod)
	currShort, currLong := curr.MA(params.ShortPeriod), curr.MA(params.LongPeriod)
	if prevShort == nil || prevLong == nil || currShort == nil || currLong == nil {
		return dto.ActionHold, ""
	}

	if !inPosition && *prevShort <= *prevLong && *currShort > *currLong {
		return dto.ActionBuy, fmt.Sprintf("golden cross MA%d/MA%d", params.ShortPeriod, params.LongPeriod)
	}
	if inPosition && *prevShort >= *prevLong && *currShort < *currLong {
		return dto.ActionSell, fmt.Sprintf("death cross MA%d/MA%d", params.ShortPeriod, params.LongPeriod)
	}
	return dto.ActionHold, ""
}

func decideRSIThreshold(params dto.StrategyParams, prev, curr *dto.IndicatorSnapshot, inPosition bool) (dto.TradeAction, string) {
	prevRSI, currRSI := prev.RSI(params.RSIPeriod), curr.RSI(params.RSIPeriod)
	if prevRSI == nil || currRSI == nil {
		return dto.ActionHold, ""
	}

	if !inPosition && *prevRSI < params.Oversold && *currRSI >= params.Oversold {
		return dto.ActionBuy, fmt.Sprintf("RSI%d crossed up through %.0f", params.RSIPeriod, params.Oversold)
	}
	if inPosition && *prevRSI > params.Overbought && *currRSI <= params.Overbought {
		return dto.ActionSell, fmt.Sprintf("RSI%d crossed down through %.0f", params.RSIPeriod, params.Overbought)
	}
	return dto.ActionHold, ""
}
