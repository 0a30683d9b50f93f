package analysis

import (
	"fmt"
	"testing"
	"time"

	"golang-fund/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSeries(navs []float64) *dto.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]dto.NavPoint, len(navs))
	for i, v := range navs {
		points[i] = dto.NavPoint{
			Date:    start.AddDate(0, 0, i),
			UnitNav: v,
		}
	}
	return &dto.PriceSeries{FundCode: "000001", Points: points}
}

func risingSeries(n int) *dto.PriceSeries {
	navs := make([]float64, n)
	for i := range navs {
		navs[i] = 1.0 + 0.01*float64(i)
	}
	return buildSeries(navs)
}

func flatSeries(n int) *dto.PriceSeries {
	navs := make([]float64, n)
	for i := range navs {
		navs[i] = 1.5
	}
	return buildSeries(navs)
}

func TestComputeSnapshots_MovingAverages(t *testing.T) {
	series := buildSeries([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	snaps := ComputeSnapshots(series)
	require.Len(t, snaps, 10)

	assert.Nil(t, snaps[3].MA5, "window not filled yet")
	require.NotNil(t, snaps[4].MA5)
	assert.InDelta(t, 3.0, *snaps[4].MA5, 1e-9)
	require.NotNil(t, snaps[9].MA5)
	assert.InDelta(t, 8.0, *snaps[9].MA5, 1e-9)

	require.NotNil(t, snaps[9].MA10)
	assert.InDelta(t, 5.5, *snaps[9].MA10, 1e-9)
	assert.Nil(t, snaps[9].MA20, "series shorter than 20 points")
}

func TestComputeSnapshots_MA60DefinedAtWindow(t *testing.T) {
	snaps := ComputeSnapshots(risingSeries(60))
	require.Len(t, snaps, 60)

	assert.Nil(t, snaps[58].MA60, "window not filled yet")
	require.NotNil(t, snaps[59].MA60, "sixty points fill the window")
	// Mean of 1.0 + 0.01*i for i in [0, 59].
	assert.InDelta(t, 1.295, *snaps[59].MA60, 1e-9)
}

func TestComputeSnapshots_ShortSeriesAllNil(t *testing.T) {
	snaps := ComputeSnapshots(buildSeries([]float64{1.0, 1.1, 1.2}))
	require.Len(t, snaps, 3)
	for i, s := range snaps {
		assert.Nil(t, s.MA5, "index %d", i)
		assert.Nil(t, s.MACDDif, "index %d", i)
		assert.Nil(t, s.RSI6, "index %d", i)
		assert.Nil(t, s.KDJK, "index %d", i)
		assert.Nil(t, s.BollMiddle, "index %d", i)
		assert.Nil(t, s.ATR14, "index %d", i)
	}
}

func TestComputeSnapshots_EmptySeries(t *testing.T) {
	snaps := ComputeSnapshots(&dto.PriceSeries{FundCode: "000001"})
	assert.Empty(t, snaps)
}

func TestRSI_Bounds(t *testing.T) {
	series := buildSeries([]float64{1.0, 1.1, 1.05, 1.2, 1.15, 1.3, 1.22, 1.4, 1.35, 1.5, 1.45, 1.6, 1.55, 1.7, 1.65, 1.8})
	snaps := ComputeSnapshots(series)

	for i, s := range snaps {
		if s.RSI6 != nil {
			assert.GreaterOrEqual(t, *s.RSI6, 0.0, "index %d", i)
			assert.LessOrEqual(t, *s.RSI6, 100.0, "index %d", i)
		}
		if s.RSI14 != nil {
			assert.GreaterOrEqual(t, *s.RSI14, 0.0, "index %d", i)
			assert.LessOrEqual(t, *s.RSI14, 100.0, "index %d", i)
		}
	}
}

func TestRSI_AllGainsIsHundred(t *testing.T) {
	snaps := ComputeSnapshots(risingSeries(20))
	last := snaps[len(snaps)-1]
	require.NotNil(t, last.RSI6)
	require.NotNil(t, last.RSI14)
	assert.InDelta(t, 100.0, *last.RSI6, 1e-9)
	assert.InDelta(t, 100.0, *last.RSI14, 1e-9)
}

func TestRSI_FlatSeriesIsHundred(t *testing.T) {
	snaps := ComputeSnapshots(flatSeries(20))
	last := snaps[len(snaps)-1]
	require.NotNil(t, last.RSI14)
	assert.InDelta(t, 100.0, *last.RSI14, 1e-9)
}

func TestKDJ_FlatSeriesStaysMidScale(t *testing.T) {
	snaps := ComputeSnapshots(flatSeries(15))
	for i := 8; i < len(snaps); i++ {
		require.NotNil(t, snaps[i].KDJK, "index %d", i)
		assert.InDelta(t, 50.0, *snaps[i].KDJK, 1e-9)
		assert.InDelta(t, 50.0, *snaps[i].KDJD, 1e-9)
		assert.InDelta(t, 50.0, *snaps[i].KDJJ, 1e-9)
	}
}

func TestKDJ_Bounds(t *testing.T) {
	series := buildSeries([]float64{1.0, 1.2, 0.9, 1.3, 0.8, 1.4, 0.7, 1.5, 0.6, 1.6, 0.5, 1.7, 0.4, 1.8})
	snaps := ComputeSnapshots(series)
	for i, s := range snaps {
		if s.KDJK == nil {
			continue
		}
		msg := fmt.Sprintf("index %d", i)
		assert.GreaterOrEqual(t, *s.KDJK, 0.0, msg)
		assert.LessOrEqual(t, *s.KDJK, 100.0, msg)
		assert.GreaterOrEqual(t, *s.KDJJ, 0.0, msg)
		assert.LessOrEqual(t, *s.KDJJ, 100.0, msg)
	}
}

func TestBollinger_BandOrdering(t *testing.T) {
	series := buildSeries([]float64{
		1.00, 1.02, 0.99, 1.05, 1.01, 1.07, 1.03, 1.08, 1.04, 1.10,
		1.06, 1.12, 1.08, 1.13, 1.09, 1.15, 1.11, 1.16, 1.12, 1.18,
		1.14, 1.20, 1.15,
	})
	snaps := ComputeSnapshots(series)

	for i := 19; i < len(snaps); i++ {
		require.NotNil(t, snaps[i].BollUpper, "index %d", i)
		assert.Greater(t, *snaps[i].BollUpper, *snaps[i].BollMiddle, "index %d", i)
		assert.Less(t, *snaps[i].BollLower, *snaps[i].BollMiddle, "index %d", i)
		assert.InDelta(t, *snaps[i].MA20, *snaps[i].BollMiddle, 1e-9, "middle band is the MA20")
	}
}

func TestBollinger_FlatSeriesCollapses(t *testing.T) {
	snaps := ComputeSnapshots(flatSeries(25))
	last := snaps[len(snaps)-1]
	require.NotNil(t, last.BollUpper)
	assert.InDelta(t, *last.BollMiddle, *last.BollUpper, 1e-9)
	assert.InDelta(t, *last.BollMiddle, *last.BollLower, 1e-9)
}

func TestATR14_NavProxy(t *testing.T) {
	// Without OHLC the true range is the absolute daily change; a constant
	// step series converges on that step.
	snaps := ComputeSnapshots(risingSeries(30))
	last := snaps[len(snaps)-1]
	require.NotNil(t, last.ATR14)
	assert.InDelta(t, 0.01, *last.ATR14, 1e-9)

	assert.Nil(t, snaps[13].ATR14, "needs 14 true ranges")
	assert.NotNil(t, snaps[14].ATR14)
}

func TestMACD_DefinedAfterSlowWindow(t *testing.T) {
	snaps := ComputeSnapshots(risingSeries(60))

	assert.Nil(t, snaps[24].MACDDif)
	require.NotNil(t, snaps[25].MACDDif, "DIF defined once EMA26 exists")
	assert.Nil(t, snaps[25].MACDDea, "DEA needs nine DIF values")
	require.NotNil(t, snaps[33].MACDDea)
	require.NotNil(t, snaps[33].MACDHist)
	assert.InDelta(t, 2*(*snaps[33].MACDDif-*snaps[33].MACDDea), *snaps[33].MACDHist, 1e-9)

	// Rising series keeps the fast EMA above the slow one.
	assert.Greater(t, *snaps[59].MACDDif, 0.0)
}
