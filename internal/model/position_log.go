package model

import "time"

// PositionLog is the append-only record of a liquidation. Rows are written
// once inside the same transaction as the position mutation and never updated.
type PositionLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"not null;index:idx_position_log_user;type:varchar(64)" json:"user_id"`
	FundCode     string    `gorm:"not null;type:varchar(10)" json:"fund_code"`
	Action       string    `gorm:"not null;type:varchar(20)" json:"action"`
	SharesSold   float64   `gorm:"not null" json:"shares_sold"`
	SharesBefore float64   `gorm:"not null" json:"shares_before"`
	SharesAfter  float64   `gorm:"not null" json:"shares_after"`
	AvgCost      float64   `gorm:"not null" json:"avg_cost"`
	SaleNav      float64   `gorm:"not null" json:"sale_nav"`
	NavDate      time.Time `gorm:"not null" json:"nav_date"`
	RealizedPnl  float64   `gorm:"not null" json:"realized_pnl"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PositionLog) TableName() string {
	return "position_logs"
}
