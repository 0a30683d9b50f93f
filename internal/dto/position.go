package dto

import "time"

type AddHoldingRequest struct {
	UserID       string  `json:"user_id" validate:"required"`
	FundCode     string  `json:"fund_code" validate:"required"`
	Shares       float64 `json:"shares" validate:"required,gt=0"`
	CostPerShare float64 `json:"cost_per_share" validate:"required,gt=0"`
}

type LiquidateRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	FundCode string `json:"fund_code" validate:"required"`
	// Amount is an absolute share count ("300") or a percentage of the
	// current holding ("25%"), resolved at execution time.
	Amount string `json:"amount" validate:"required"`
}

// LiquidationRecord mirrors one append-only position log entry.
type LiquidationRecord struct {
	UserID          string    `json:"user_id"`
	FundCode        string    `json:"fund_code"`
	Date            time.Time `json:"date"`
	SharesSold      float64   `json:"shares_sold"`
	SaleNav         float64   `json:"sale_nav"`
	RealizedPnl     float64   `json:"realized_pnl"`
	RemainingShares float64   `json:"remaining_shares"`
	PositionClosed  bool      `json:"position_closed"`
}

// HoldingValuation is one open position revalued against the latest NAV.
// Valuation fields are nil when the NAV fetch for that fund failed.
type HoldingValuation struct {
	FundCode      string     `json:"fund_code"`
	FundName      string     `json:"fund_name"`
	Shares        float64    `json:"shares"`
	AvgCost       float64    `json:"avg_cost"`
	Status        string     `json:"status"`
	OpenedAt      time.Time  `json:"opened_at"`
	CurrentNav    *float64   `json:"current_nav"`
	NavDate       *time.Time `json:"nav_date"`
	MarketValue   *float64   `json:"market_value"`
	UnrealizedPnl *float64   `json:"unrealized_pnl"`
	ReturnPct     *float64   `json:"return_pct"`
	FetchError    string     `json:"fetch_error,omitempty"`
}

// RefreshResult reports the per-fund outcome of a valuation refresh. A single
// fund's fetch failure never aborts the other positions.
type RefreshResult struct {
	UserID    string             `json:"user_id"`
	Refreshed []HoldingValuation `json:"refreshed"`
	Failed    []HoldingValuation `json:"failed"`
}
