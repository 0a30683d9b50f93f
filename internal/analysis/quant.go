package analysis

import (
	"math"
	"sort"

	"golang-fund/internal/dto"
)

// tradingDaysPerYear is the annualization base for daily fund NAV series.
const tradingDaysPerYear = 252

// All dispersion statistics in this package are population-style (divide by
// N, not N-1), applied consistently across volatility, downside deviation and
// the Bollinger computation in indicator.go.

// ComputeQuantReport derives performance and risk metrics for the whole
// series window. Degenerate inputs (length <= 1, flat prices, no losses)
// degrade individual fields to nil with a reason instead of failing.
func ComputeQuantReport(series *dto.PriceSeries, riskFreeRate float64) *dto.QuantReport {
	report := &dto.QuantReport{
		FundCode:         series.FundCode,
		RiskFreeRate:     riskFreeRate,
		UndefinedReasons: map[string]string{},
	}
	if series.Len() > 0 {
		report.WindowStart = series.Points[0].Date
		report.WindowEnd = series.Points[series.Len()-1].Date
	}

	returns := dailyReturns(series)
	report.Observations = len(returns)
	if len(returns) == 0 {
		report.InsufficientData = true
		for _, field := range []string{
			"cumulative_return", "annualized_return", "annualized_volatility",
			"max_drawdown", "sharpe_ratio", "sortino_ratio", "calmar_ratio", "var95",
		} {
			report.UndefinedReasons[field] = "series has fewer than 2 observations"
		}
		return report
	}

	cumulative := 1.0
	for _, r := range returns {
		cumulative *= 1 + r
	}
	cumReturn := cumulative - 1
	report.CumulativeReturn = &cumReturn

	annReturn := math.Pow(1+cumReturn, tradingDaysPerYear/float64(len(returns))) - 1
	report.AnnualizedReturn = &annReturn

	annVol := populationStddev(returns) * math.Sqrt(tradingDaysPerYear)
	report.AnnualizedVolatility = &annVol

	mdd, peakIdx, troughIdx := maxDrawdown(series)
	report.MaxDrawdown = &mdd
	if peakIdx >= 0 {
		peak := series.Points[peakIdx].Date
		trough := series.Points[troughIdx].Date
		report.MaxDrawdownPeakDate = &peak
		report.MaxDrawdownTroughDate = &trough
	}

	if annVol == 0 {
		report.UndefinedReasons["sharpe_ratio"] = "volatility is zero (flat series)"
	} else {
		sharpe := (annReturn - riskFreeRate) / annVol
		report.SharpeRatio = &sharpe
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		report.UndefinedReasons["sortino_ratio"] = "no negative returns in window"
	} else {
		// Downside deviation over the negative returns only, annualized the
		// same way as total volatility.
		downDev := populationStddevAroundZero(downside) * math.Sqrt(tradingDaysPerYear)
		if downDev == 0 {
			report.UndefinedReasons["sortino_ratio"] = "downside deviation is zero"
		} else {
			sortino := (annReturn - riskFreeRate) / downDev
			report.SortinoRatio = &sortino
		}
	}

	if mdd == 0 {
		report.UndefinedReasons["calmar_ratio"] = "max drawdown is zero"
	} else {
		calmar := annReturn / mdd
		report.CalmarRatio = &calmar
	}

	var95 := percentile(returns, 0.05)
	report.VaR95 = &var95
	if latest := series.Latest(); latest != nil {
		value := var95 * latest.UnitNav
		report.VaR95Value = &value
	}

	return report
}

// dailyReturns is unit_nav[t]/unit_nav[t-1] - 1 for t >= 1, skipping pairs
// with a non-positive denominator.
func dailyReturns(series *dto.PriceSeries) []float64 {
	var returns []float64
	for i := 1; i < series.Len(); i++ {
		prev := series.Points[i-1].UnitNav
		if prev <= 0 {
			continue
		}
		returns = append(returns, series.Points[i].UnitNav/prev-1)
	}
	return returns
}

// maxDrawdown walks the cumulative-NAV path (falling back to unit NAV when
// the feed publishes no cumulative value) and reports the largest
// peak-to-trough decline with the first occurrence on ties.
func maxDrawdown(series *dto.PriceSeries) (mdd float64, peakIdx, troughIdx int) {
	peakIdx, troughIdx = -1, -1
	if series.Len() == 0 {
		return 0, peakIdx, troughIdx
	}

	nav := func(i int) float64 {
		if v := series.Points[i].CumulativeNav; v > 0 {
			return v
		}
		return series.Points[i].UnitNav
	}

	runningPeak := nav(0)
	runningPeakIdx := 0
	peakIdx, troughIdx = 0, 0
	for i := 1; i < series.Len(); i++ {
		v := nav(i)
		if v > runningPeak {
			runningPeak = v
			runningPeakIdx = i
			continue
		}
		if runningPeak <= 0 {
			continue
		}
		dd := 1 - v/runningPeak
		if dd > mdd {
			mdd = dd
			peakIdx = runningPeakIdx
			troughIdx = i
		}
	}
	return mdd, peakIdx, troughIdx
}

// percentile returns the q-quantile of the empirical distribution using
// linear interpolation between order statistics.
func percentile(values []float64, q float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func populationStddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)))
}

// populationStddevAroundZero measures dispersion around a zero target, the
// convention used for downside deviation.
func populationStddevAroundZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(values)))
}

// HoldingReturn is the simple return of a position against its cost basis,
// in percent. Shared by the valuation refresh path.
func HoldingReturn(avgCost, currentNav float64) float64 {
	if avgCost <= 0 {
		return 0
	}
	return (currentNav/avgCost - 1) * 100
}
