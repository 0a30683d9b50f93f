package dto

import "time"

// FundQuote is the latest published NAV for one fund.
type FundQuote struct {
	FundCode       string    `json:"fund_code"`
	FundName       string    `json:"fund_name"`
	UnitNav        float64   `json:"unit_nav"`
	CumulativeNav  float64   `json:"cumulative_nav"`
	DailyGrowthPct float64   `json:"daily_growth_pct"`
	NavDate        time.Time `json:"nav_date"`
}

// FundValuation is the intraday estimate feed for an OTC fund: the last
// published unit NAV plus, when the market is open, an estimated NAV with its
// change percentage. Estimate fields are nil outside publication windows.
type FundValuation struct {
	FundCode           string    `json:"fund_code"`
	FundName           string    `json:"fund_name"`
	UnitNav            float64   `json:"unit_nav"`
	NavDate            time.Time `json:"nav_date"`
	EstimatedNav       *float64  `json:"estimated_nav"`
	EstimatedChange    *float64  `json:"estimated_change"`
	EstimatedChangePct *float64  `json:"estimated_change_pct"`
	EstimateTime       string    `json:"estimate_time"`
}

// LatestPrice is the freshest usable price: the intraday estimate when
// present, the last published NAV otherwise.
func (v *FundValuation) LatestPrice() float64 {
	if v.EstimatedNav != nil && *v.EstimatedNav > 0 {
		return *v.EstimatedNav
	}
	return v.UnitNav
}

// BatchValuationResult carries per-fund outcomes of a fan-out valuation
// fetch. One fund failing never hides the others.
type BatchValuationResult struct {
	Valuations []FundValuation   `json:"valuations"`
	Failed     map[string]string `json:"failed,omitempty"`
}

type FundSearchResult struct {
	FundCode string `json:"fund_code"`
	FundName string `json:"fund_name"`
	FundType string `json:"fund_type"`
}

type GetHistoryParam struct {
	FundCode string
	Days     int
}
