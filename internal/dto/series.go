package dto

import "time"

// NavPoint is one daily observation of a fund's quoted price.
type NavPoint struct {
	Date           time.Time `json:"date"`
	UnitNav        float64   `json:"unit_nav"`
	CumulativeNav  float64   `json:"cumulative_nav"`
	DailyGrowthPct float64   `json:"daily_growth_pct"`
	High           float64   `json:"high,omitempty"`
	Low            float64   `json:"low,omitempty"`
}

// PriceSeries is an immutable, date-ascending NAV series for one fund.
// A fresh fetch builds a new series; callers never mutate one in place.
type PriceSeries struct {
	FundCode string     `json:"fund_code"`
	FundName string     `json:"fund_name,omitempty"`
	Points   []NavPoint `json:"points"`

	// HasOHLC reports whether High/Low carry real intraday data. Fund NAV
	// feeds publish a single daily value, so stochastic and range indicators
	// fall back to NAV-derived proxies when this is false.
	HasOHLC bool `json:"has_ohlc"`
}

func (s *PriceSeries) Len() int {
	return len(s.Points)
}

func (s *PriceSeries) Latest() *NavPoint {
	if len(s.Points) == 0 {
		return nil
	}
	return &s.Points[len(s.Points)-1]
}

// Window returns a sub-series covering Points[from:to]. The backing array is
// shared; the series contract forbids mutation so sharing is safe.
func (s *PriceSeries) Window(from, to int) *PriceSeries {
	if from < 0 {
		from = 0
	}
	if to > len(s.Points) {
		to = len(s.Points)
	}
	if from > to {
		from = to
	}
	return &PriceSeries{
		FundCode: s.FundCode,
		FundName: s.FundName,
		Points:   s.Points[from:to],
		HasOHLC:  s.HasOHLC,
	}
}
