package repository

import (
	"testing"

	"golang-fund/internal/apperror"
	"golang-fund/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapHistoryToSeries(t *testing.T) {
	rows := []dto.EastmoneyNavRow{
		{FSRQ: "2025-06-04", DWJZ: "1.5230", LJJZ: "2.1230", JZZZL: "0.53"},
		{FSRQ: "2025-06-03", DWJZ: "1.5150", LJJZ: "2.1150", JZZZL: "-0.20"},
		{FSRQ: "2025-06-02", DWJZ: "1.5180", LJJZ: "2.1180", JZZZL: "0.33"},
	}

	series, err := mapHistoryToSeries("000001", rows)
	require.NoError(t, err)

	assert.Equal(t, "000001", series.FundCode)
	assert.False(t, series.HasOHLC, "nav feeds publish one value per day")
	require.Len(t, series.Points, 3)

	// Feed is newest-first, series must come out date-ascending.
	assert.True(t, series.Points[0].Date.Before(series.Points[1].Date))
	assert.True(t, series.Points[1].Date.Before(series.Points[2].Date))
	assert.InDelta(t, 1.5180, series.Points[0].UnitNav, 1e-9)
	assert.InDelta(t, 1.5230, series.Points[2].UnitNav, 1e-9)
	assert.InDelta(t, 2.1230, series.Points[2].CumulativeNav, 1e-9)
	assert.InDelta(t, 0.53, series.Points[2].DailyGrowthPct, 1e-9)
}

func TestMapHistoryToSeries_SkipsUnusableRows(t *testing.T) {
	rows := []dto.EastmoneyNavRow{
		{FSRQ: "2025-06-04", DWJZ: "1.5230"},
		{FSRQ: "2025-06-03", DWJZ: ""},          // pending publication
		{FSRQ: "", DWJZ: "1.5100"},              // no date
		{FSRQ: "2025-06-02", DWJZ: "not-a-nav"}, // malformed
		{FSRQ: "2025-06-01", DWJZ: "0"},         // non-positive
	}

	series, err := mapHistoryToSeries("000001", rows)
	require.NoError(t, err)
	require.Len(t, series.Points, 1)
	assert.InDelta(t, 1.5230, series.Points[0].UnitNav, 1e-9)
	assert.Zero(t, series.Points[0].CumulativeNav, "missing cumulative nav stays zero")
}

func TestMapHistoryToSeries_NoUsableRows(t *testing.T) {
	_, err := mapHistoryToSeries("000001", []dto.EastmoneyNavRow{
		{FSRQ: "2025-06-03", DWJZ: ""},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestParseValuationJSONP(t *testing.T) {
	body := []byte(`jsonpgz({"fundcode":"000001","name":"HuaXia Growth","jzrq":"2025-06-03","dwjz":"1.5150","gsz":"1.5302","gszzl":"1.00","gztime":"2025-06-04 14:30"});`)

	valuation, err := parseValuationJSONP(body, "000001")
	require.NoError(t, err)

	assert.Equal(t, "000001", valuation.FundCode)
	assert.Equal(t, "HuaXia Growth", valuation.FundName)
	assert.InDelta(t, 1.5150, valuation.UnitNav, 1e-9)
	assert.Equal(t, "2025-06-03", valuation.NavDate.Format("2006-01-02"))
	require.NotNil(t, valuation.EstimatedNav)
	assert.InDelta(t, 1.5302, *valuation.EstimatedNav, 1e-9)
	require.NotNil(t, valuation.EstimatedChange)
	assert.InDelta(t, 0.0152, *valuation.EstimatedChange, 1e-9)
	require.NotNil(t, valuation.EstimatedChangePct)
	assert.InDelta(t, 1.00, *valuation.EstimatedChangePct, 1e-9)
	assert.Equal(t, "2025-06-04 14:30", valuation.EstimateTime)
}

func TestParseValuationJSONP_OffHoursEstimateEmpty(t *testing.T) {
	// Outside trading hours the feed publishes the last NAV but leaves the
	// estimate fields empty.
	body := []byte(`jsonpgz({"fundcode":"000001","name":"HuaXia Growth","jzrq":"2025-06-03","dwjz":"1.5150","gsz":"","gszzl":"","gztime":""});`)

	valuation, err := parseValuationJSONP(body, "000001")
	require.NoError(t, err)

	assert.InDelta(t, 1.5150, valuation.UnitNav, 1e-9)
	assert.Nil(t, valuation.EstimatedNav)
	assert.Nil(t, valuation.EstimatedChange)
	assert.Nil(t, valuation.EstimatedChangePct)
	assert.InDelta(t, 1.5150, valuation.LatestPrice(), 1e-9, "falls back on the published nav")
}

func TestParseValuationJSONP_Malformed(t *testing.T) {
	cases := map[string]string{
		"no jsonp envelope": `{"fundcode":"000001"}`,
		"empty body":        ``,
		"broken json":       `jsonpgz({"fundcode":);`,
		"no unit nav":       `jsonpgz({"fundcode":"000001","dwjz":""});`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseValuationJSONP([]byte(body), "000001")
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrNotFound)
		})
	}
}
