package dto

import "time"

// TechnicalReport is the technical-analysis verb output: the latest indicator
// snapshot plus short-window returns recomputed from the series.
type TechnicalReport struct {
	FundCode  string             `json:"fund_code"`
	FundName  string             `json:"fund_name"`
	AsOf      time.Time          `json:"as_of"`
	LatestNav float64            `json:"latest_nav"`
	Snapshot  *IndicatorSnapshot `json:"snapshot"`
	Return5D  *float64           `json:"return_5d"`
	Return10D *float64           `json:"return_10d"`
	Return20D *float64           `json:"return_20d"`
	High20D   *float64           `json:"high_20d"`
	Low20D    *float64           `json:"low_20d"`
}

// AIReportPayload is the stable structure handed to the AI collaborator.
// Every field is always populated; undefined numerics stay as explicit nulls.
type AIReportPayload struct {
	FundCode  string           `json:"fund_code"`
	FundName  string           `json:"fund_name"`
	AsOf      time.Time        `json:"as_of"`
	Quote     *FundQuote       `json:"quote"`
	Technical *TechnicalReport `json:"technical"`
	Quant     *QuantReport     `json:"quant"`
	Backtest  *BacktestResult  `json:"backtest"`
}

// AIFundReport is the prose produced by the AI collaborator.
type AIFundReport struct {
	FundCode    string    `json:"fund_code"`
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}
