package analysis

import (
	"testing"
	"time"

	"golang-fund/internal/apperror"
	"golang-fund/internal/dto"
	"golang-fund/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maSnaps fabricates snapshots with controlled MA5/MA10 values so crossings
// land on known dates regardless of how the averages would really evolve.
func maSnaps(series *dto.PriceSeries, short, long []float64) []dto.IndicatorSnapshot {
	snaps := make([]dto.IndicatorSnapshot, len(series.Points))
	for i := range snaps {
		snaps[i].Date = series.Points[i].Date
		snaps[i].MA5 = utils.ToPointer(short[i])
		snaps[i].MA10 = utils.ToPointer(long[i])
	}
	return snaps
}

func TestRunBacktest_MACrossRoundTrip(t *testing.T) {
	series := buildSeries([]float64{1.0, 1.0, 1.1, 1.2, 1.0, 1.0})
	short := []float64{1.0, 1.0, 1.2, 1.2, 1.0, 1.0}
	long := []float64{1.1, 1.1, 1.1, 1.1, 1.1, 1.1}
	snaps := maSnaps(series, short, long)

	result, err := RunBacktest(series, snaps, dto.StrategyParams{
		Kind:        dto.StrategyMACross,
		ShortPeriod: 5,
		LongPeriod:  10,
	})
	require.NoError(t, err)

	require.Len(t, result.Trades, 2)
	assert.Equal(t, dto.ActionBuy, result.Trades[0].Action)
	assert.InDelta(t, 1.1, result.Trades[0].Price, 1e-9)
	assert.Equal(t, series.Points[2].Date, result.Trades[0].Date)

	assert.Equal(t, dto.ActionSell, result.Trades[1].Action)
	assert.InDelta(t, 1.0, result.Trades[1].Price, 1e-9)

	assert.Equal(t, 1, result.RoundTrips)
	assert.Nil(t, result.OpenTrade)

	require.NotNil(t, result.WinRate)
	assert.InDelta(t, 0.0, *result.WinRate, 1e-9)
	require.NotNil(t, result.TotalReturn)
	assert.InDelta(t, 1.0/1.1-1, *result.TotalReturn, 1e-9)
	require.NotNil(t, result.MaxDrawdown)
	assert.InDelta(t, 1-1.0/1.2, *result.MaxDrawdown, 1e-9)

	assert.Nil(t, result.ProfitLossRatio)
	assert.Contains(t, result.UndefinedReasons, "profit_loss_ratio")
}

func TestRunBacktest_OpenTradeExcludedFromStats(t *testing.T) {
	series := buildSeries([]float64{1.0, 1.0, 1.1, 1.2})
	short := []float64{1.0, 1.0, 1.2, 1.2}
	long := []float64{1.1, 1.1, 1.1, 1.1}
	snaps := maSnaps(series, short, long)

	result, err := RunBacktest(series, snaps, dto.StrategyParams{
		Kind:        dto.StrategyMACross,
		ShortPeriod: 5,
		LongPeriod:  10,
	})
	require.NoError(t, err)

	require.NotNil(t, result.OpenTrade)
	assert.Equal(t, dto.ActionBuy, result.OpenTrade.Action)
	assert.Equal(t, 0, result.RoundTrips)
	assert.Nil(t, result.WinRate)
	assert.Contains(t, result.UndefinedReasons, "win_rate")
}

func TestRunBacktest_NoSignals(t *testing.T) {
	series := flatSeries(6)
	short := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 1.0}
	long := []float64{1.1, 1.1, 1.1, 1.1, 1.1, 1.1}
	snaps := maSnaps(series, short, long)

	result, err := RunBacktest(series, snaps, dto.StrategyParams{
		Kind:        dto.StrategyMACross,
		ShortPeriod: 5,
		LongPeriod:  10,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Trades)
	assert.Equal(t, 0, result.RoundTrips)
	assert.Nil(t, result.OpenTrade)
	for _, field := range []string{"win_rate", "profit_loss_ratio", "total_return", "max_drawdown"} {
		assert.Contains(t, result.UndefinedReasons, field)
	}
}

func TestRunBacktest_DefaultsApplied(t *testing.T) {
	series := risingSeries(30)
	snaps := ComputeSnapshots(series)

	result, err := RunBacktest(series, snaps, dto.StrategyParams{Kind: dto.StrategyMACross})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Strategy.ShortPeriod)
	assert.Equal(t, 20, result.Strategy.LongPeriod)

	result, err = RunBacktest(series, snaps, dto.StrategyParams{Kind: dto.StrategyRSIThreshold})
	require.NoError(t, err)
	assert.Equal(t, 14, result.Strategy.RSIPeriod)
	assert.InDelta(t, 30.0, result.Strategy.Oversold, 1e-9)
	assert.InDelta(t, 70.0, result.Strategy.Overbought, 1e-9)
}

func TestRunBacktest_InvalidParams(t *testing.T) {
	series := risingSeries(10)
	snaps := ComputeSnapshots(series)

	tests := []struct {
		name   string
		params dto.StrategyParams
	}{
		{
			name:   "unknown strategy",
			params: dto.StrategyParams{Kind: "MOMENTUM"},
		},
		{
			name:   "short not below long",
			params: dto.StrategyParams{Kind: dto.StrategyMACross, ShortPeriod: 20, LongPeriod: 10},
		},
		{
			name:   "unsupported ma period",
			params: dto.StrategyParams{Kind: dto.StrategyMACross, ShortPeriod: 7, LongPeriod: 20},
		},
		{
			name:   "unsupported rsi period",
			params: dto.StrategyParams{Kind: dto.StrategyRSIThreshold, RSIPeriod: 21},
		},
		{
			name:   "oversold above overbought",
			params: dto.StrategyParams{Kind: dto.StrategyRSIThreshold, RSIPeriod: 14, Oversold: 80, Overbought: 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RunBacktest(series, snaps, tt.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrInvalidParameter)
		})
	}
}

func TestDecideRSIThreshold(t *testing.T) {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	params := dto.StrategyParams{Kind: dto.StrategyRSIThreshold, RSIPeriod: 14, Oversold: 30, Overbought: 70}

	snap := func(rsi float64) *dto.IndicatorSnapshot {
		return &dto.IndicatorSnapshot{Date: date, RSI14: utils.ToPointer(rsi)}
	}

	action, _ := decideRSIThreshold(params, snap(25), snap(35), false)
	assert.Equal(t, dto.ActionBuy, action)

	action, _ = decideRSIThreshold(params, snap(75), snap(65), true)
	assert.Equal(t, dto.ActionSell, action)

	// Already above the oversold line, no fresh crossing.
	action, _ = decideRSIThreshold(params, snap(35), snap(40), false)
	assert.Equal(t, dto.ActionHold, action)

	// Undefined window holds.
	action, _ = decideRSIThreshold(params, &dto.IndicatorSnapshot{Date: date}, snap(35), false)
	assert.Equal(t, dto.ActionHold, action)
}

func TestDecideMACross_NoRepeatedBuys(t *testing.T) {
	params := dto.StrategyParams{Kind: dto.StrategyMACross, ShortPeriod: 5, LongPeriod: 10}
	prev := &dto.IndicatorSnapshot{MA5: utils.ToPointer(1.0), MA10: utils.ToPointer(1.1)}
	curr := &dto.IndicatorSnapshot{MA5: utils.ToPointer(1.2), MA10: utils.ToPointer(1.1)}

	action, _ := decideMACross(params, prev, curr, false)
	assert.Equal(t, dto.ActionBuy, action)

	// The same crossing while holding must not buy again.
	action, _ = decideMACross(params, prev, curr, true)
	assert.Equal(t, dto.ActionHold, action)
}
