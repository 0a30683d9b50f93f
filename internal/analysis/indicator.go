// Package analysis holds the pure computation kernels: technical indicators,
// quantitative performance metrics, and the strategy backtest engine. Nothing
// here does I/O; every function is a deterministic map from a price series to
// derived numbers, safe to call concurrently.
package analysis

import (
	"math"

	"golang-fund/internal/dto"
)

const (
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
	kdjPeriod        = 9
	bollPeriod       = 20
	bollWidth        = 2.0
	atrPeriod        = 14
)

// ComputeSnapshots derives one indicator snapshot per date, covering the full
// series in date order. Indicators whose trailing window is not yet filled
// stay nil; a series shorter than every window yields all-nil snapshots
// rather than an error.
func ComputeSnapshots(series *dto.PriceSeries) []dto.IndicatorSnapshot {
	n := series.Len()
	snaps := make([]dto.IndicatorSnapshot, n)
	if n == 0 {
		return snaps
	}

	closes := make([]float64, n)
	for i, p := range series.Points {
		closes[i] = p.UnitNav
		snaps[i].Date = p.Date
	}

	for _, period := range []int{5, 10, 20, 60} {
		ma := movingAverage(closes, period)
		for i := range snaps {
			switch period {
			case 5:
				snaps[i].MA5 = ma[i]
			case 10:
				snaps[i].MA10 = ma[i]
			case 20:
				snaps[i].MA20 = ma[i]
			case 60:
				snaps[i].MA60 = ma[i]
			}
		}
	}

	dif, dea, hist := macd(closes)
	rsi6 := rsi(closes, 6)
	rsi14 := rsi(closes, 14)
	k, d, j := kdj(series)
	upper, middle, lower := bollinger(closes)
	atr := atr14(series)

	for i := range snaps {
		snaps[i].MACDDif = dif[i]
		snaps[i].MACDDea = dea[i]
		snaps[i].MACDHist = hist[i]
		snaps[i].RSI6 = rsi6[i]
		snaps[i].RSI14 = rsi14[i]
		snaps[i].KDJK = k[i]
		snaps[i].KDJD = d[i]
		snaps[i].KDJJ = j[i]
		snaps[i].BollUpper = upper[i]
		snaps[i].BollMiddle = middle[i]
		snaps[i].BollLower = lower[i]
		snaps[i].ATR14 = atr[i]
	}

	return snaps
}

// movingAverage is the simple mean of the trailing period values ending at
// each index, nil while fewer than period observations exist.
func movingAverage(values []float64, period int) []*float64 {
	out := make([]*float64, len(values))
	if period <= 0 {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			mean := sum / float64(period)
			out[i] = &mean
		}
	}
	return out
}

// ema seeds with the simple average of the first period values and then
// applies the 2/(period+1) smoothing factor. Indexes before the seed are nil.
func ema(values []float64, period int) []*float64 {
	out := make([]*float64, len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	alpha := 2.0 / float64(period+1)

	var seed float64
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)
	out[period-1] = &seed

	prev := seed
	for i := period; i < len(values); i++ {
		cur := alpha*values[i] + (1-alpha)*prev
		out[i] = &cur
		prev = cur
	}
	return out
}

// macd returns DIF (EMA12-EMA26), DEA (EMA9 of DIF) and the histogram
// 2*(DIF-DEA). DEA seeds on the first nine defined DIF values.
func macd(closes []float64) (dif, dea, hist []*float64) {
	n := len(closes)
	dif = make([]*float64, n)
	dea = make([]*float64, n)
	hist = make([]*float64, n)

	fast := ema(closes, macdFastPeriod)
	slow := ema(closes, macdSlowPeriod)

	difStart := -1
	var difValues []float64
	for i := 0; i < n; i++ {
		if fast[i] == nil || slow[i] == nil {
			continue
		}
		if difStart < 0 {
			difStart = i
		}
		v := *fast[i] - *slow[i]
		dif[i] = &v
		difValues = append(difValues, v)
	}
	if difStart < 0 {
		return dif, dea, hist
	}

	deaSeries := ema(difValues, macdSignalPeriod)
	for offset, v := range deaSeries {
		if v == nil {
			continue
		}
		i := difStart + offset
		dea[i] = v
		h := 2 * (*dif[i] - *v)
		hist[i] = &h
	}
	return dif, dea, hist
}

// rsi is the ratio of average gain to average movement over the trailing
// period daily changes, scaled to [0,100]. When the average loss is exactly
// zero the value is 100 by definition, which also covers flat windows.
func rsi(closes []float64, period int) []*float64 {
	out := make([]*float64, len(closes))
	if period <= 0 {
		return out
	}
	for i := period; i < len(closes); i++ {
		var gain, loss float64
		for t := i - period + 1; t <= i; t++ {
			change := closes[t] - closes[t-1]
			if change >= 0 {
				gain += change
			} else {
				loss -= change
			}
		}
		var v float64
		if loss == 0 {
			v = 100
		} else {
			v = gain / (gain + loss) * 100
		}
		out[i] = &v
	}
	return out
}

// kdj computes the 9-period stochastic %K/%D/%J with Wilder-style recursive
// smoothing, seeded at 50. Without OHLC data the high/low range degrades to
// the min/max of the trailing NAVs. %J is clamped to [0,100].
func kdj(series *dto.PriceSeries) (k, d, j []*float64) {
	n := series.Len()
	k = make([]*float64, n)
	d = make([]*float64, n)
	j = make([]*float64, n)

	prevK, prevD := 50.0, 50.0
	for i := kdjPeriod - 1; i < n; i++ {
		high, low := math.Inf(-1), math.Inf(1)
		for t := i - kdjPeriod + 1; t <= i; t++ {
			h, l := series.Points[t].UnitNav, series.Points[t].UnitNav
			if series.HasOHLC {
				h, l = series.Points[t].High, series.Points[t].Low
			}
			high = math.Max(high, h)
			low = math.Min(low, l)
		}

		// Flat window: no range to position the close in, park RSV mid-scale.
		rsv := 50.0
		if high > low {
			rsv = (series.Points[i].UnitNav - low) / (high - low) * 100
		}

		curK := prevK*2/3 + rsv/3
		curD := prevD*2/3 + curK/3
		curJ := clamp(3*curK-2*curD, 0, 100)

		k[i] = &curK
		d[i] = &curD
		j[i] = &curJ
		prevK, prevD = curK, curD
	}
	return k, d, j
}

// bollinger returns the 20-period band: middle is the moving average, upper
// and lower sit two population standard deviations away.
func bollinger(closes []float64) (upper, middle, lower []*float64) {
	n := len(closes)
	upper = make([]*float64, n)
	lower = make([]*float64, n)
	middle = movingAverage(closes, bollPeriod)

	for i := bollPeriod - 1; i < n; i++ {
		mean := *middle[i]
		var variance float64
		for t := i - bollPeriod + 1; t <= i; t++ {
			diff := closes[t] - mean
			variance += diff * diff
		}
		sd := math.Sqrt(variance / float64(bollPeriod))
		u := mean + bollWidth*sd
		l := mean - bollWidth*sd
		upper[i] = &u
		lower[i] = &l
	}
	return upper, middle, lower
}

// atr14 applies Wilder smoothing to the true range. Without OHLC data the
// true range degrades to the absolute daily NAV change.
func atr14(series *dto.PriceSeries) []*float64 {
	n := series.Len()
	out := make([]*float64, n)
	if n < atrPeriod+1 {
		return out
	}

	trueRange := func(i int) float64 {
		prevClose := series.Points[i-1].UnitNav
		if !series.HasOHLC {
			return math.Abs(series.Points[i].UnitNav - prevClose)
		}
		h, l := series.Points[i].High, series.Points[i].Low
		return math.Max(h-l, math.Max(math.Abs(h-prevClose), math.Abs(l-prevClose)))
	}

	var seed float64
	for i := 1; i <= atrPeriod; i++ {
		seed += trueRange(i)
	}
	seed /= float64(atrPeriod)
	out[atrPeriod] = &seed

	prev := seed
	for i := atrPeriod + 1; i < n; i++ {
		cur := (prev*float64(atrPeriod-1) + trueRange(i)) / float64(atrPeriod)
		out[i] = &cur
		prev = cur
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
