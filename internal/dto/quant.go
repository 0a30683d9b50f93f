package dto

import "time"

// QuantReport is the performance/risk summary for one (series, window) pair.
// It is recomputed wholesale when the window changes, never patched. Nil
// fields are undefined; UndefinedReasons names why, keyed by JSON field name.
type QuantReport struct {
	FundCode     string    `json:"fund_code"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
	Observations int       `json:"observations"`
	RiskFreeRate float64   `json:"risk_free_rate"`

	// InsufficientData is set when the window has fewer than two points and
	// no return series exists at all.
	InsufficientData bool `json:"insufficient_data"`

	CumulativeReturn     *float64 `json:"cumulative_return"`
	AnnualizedReturn     *float64 `json:"annualized_return"`
	AnnualizedVolatility *float64 `json:"annualized_volatility"`

	MaxDrawdown           *float64   `json:"max_drawdown"`
	MaxDrawdownPeakDate   *time.Time `json:"max_drawdown_peak_date"`
	MaxDrawdownTroughDate *time.Time `json:"max_drawdown_trough_date"`

	SharpeRatio  *float64 `json:"sharpe_ratio"`
	SortinoRatio *float64 `json:"sortino_ratio"`
	CalmarRatio  *float64 `json:"calmar_ratio"`

	// VaR95 is the 5th percentile of the daily return distribution;
	// VaR95Value scales it by the latest NAV into value terms.
	VaR95      *float64 `json:"var95"`
	VaR95Value *float64 `json:"var95_value"`

	UndefinedReasons map[string]string `json:"undefined_reasons"`
}

// FundComparison puts two quant summaries computed over the same window side
// by side. Each side stands alone; missing metrics stay nil per report rather
// than failing the comparison.
type FundComparison struct {
	WindowDays int          `json:"window_days"`
	LeftName   string       `json:"left_name"`
	RightName  string       `json:"right_name"`
	Left       *QuantReport `json:"left"`
	Right      *QuantReport `json:"right"`
}
