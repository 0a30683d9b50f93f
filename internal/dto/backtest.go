package dto

import "time"

type TradeAction string

const (
	ActionBuy  TradeAction = "BUY"
	ActionSell TradeAction = "SELL"
	ActionHold TradeAction = "HOLD"
)

type StrategyKind string

const (
	StrategyMACross      StrategyKind = "MA_CROSS"
	StrategyRSIThreshold StrategyKind = "RSI_THRESHOLD"
)

// StrategyParams selects one strategy from the closed variant set and carries
// its tuning. Zero values fall back to defaults in the backtest engine.
type StrategyParams struct {
	Kind StrategyKind `json:"kind" validate:"required,oneof=MA_CROSS RSI_THRESHOLD"`

	// MA-cross
	ShortPeriod int `json:"short_period,omitempty"`
	LongPeriod  int `json:"long_period,omitempty"`

	// RSI-threshold
	RSIPeriod  int     `json:"rsi_period,omitempty"`
	Oversold   float64 `json:"oversold,omitempty"`
	Overbought float64 `json:"overbought,omitempty"`
}

// BacktestTrade is one simulated entry or exit, executed at the closing NAV
// of the signal date.
type BacktestTrade struct {
	Date   time.Time   `json:"date"`
	Action TradeAction `json:"action"`
	Price  float64     `json:"price"`
	Reason string      `json:"reason"`
}

// BacktestResult is the immutable output of one simulation run. Summary
// fields are nil when the run completed zero round-trips.
type BacktestResult struct {
	FundCode    string         `json:"fund_code"`
	Strategy    StrategyParams `json:"strategy"`
	WindowStart time.Time      `json:"window_start"`
	WindowEnd   time.Time      `json:"window_end"`

	Trades     []BacktestTrade `json:"trades"`
	RoundTrips int             `json:"round_trips"`
	// OpenTrade marks an entry still held at the end of the window. It is
	// excluded from every round-trip statistic.
	OpenTrade *BacktestTrade `json:"open_trade"`

	WinRate         *float64 `json:"win_rate"`
	ProfitLossRatio *float64 `json:"profit_loss_ratio"`
	TotalReturn     *float64 `json:"total_return"`
	MaxDrawdown     *float64 `json:"max_drawdown"`

	UndefinedReasons map[string]string `json:"undefined_reasons"`
}

type BacktestRequest struct {
	FundCode string         `json:"fund_code" validate:"required"`
	Days     int            `json:"days" validate:"omitempty,min=2,max=3650"`
	Strategy StrategyParams `json:"strategy" validate:"required"`
}
