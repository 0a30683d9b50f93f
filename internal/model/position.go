package model

import "time"

type PositionStatus string

const (
	PositionStatusOpen             PositionStatus = "OPEN"
	PositionStatusPartiallyReduced PositionStatus = "PARTIALLY_REDUCED"
	PositionStatusClosed           PositionStatus = "CLOSED"
)

// Position is the per (user, fund) holding. Closed rows stay in the table for
// audit; a later buy reopens the same row with a reset cost basis.
type Position struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"not null;uniqueIndex:idx_position_user_fund;type:varchar(64)" json:"user_id"`
	FundCode  string         `gorm:"not null;uniqueIndex:idx_position_user_fund;type:varchar(10)" json:"fund_code"`
	Shares    float64        `gorm:"not null" json:"shares"`
	AvgCost   float64        `gorm:"not null" json:"avg_cost"`
	Status    PositionStatus `gorm:"not null;type:varchar(20)" json:"status"`
	OpenedAt  time.Time      `gorm:"not null" json:"opened_at"`
	Fund      Fund           `gorm:"foreignKey:FundCode;references:Code" json:"fund"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Position) TableName() string {
	return "positions"
}

// CanTransitionTo validates the position lifecycle:
// OPEN -> OPEN (buy) | PARTIALLY_REDUCED | CLOSED,
// PARTIALLY_REDUCED -> OPEN (buy) | PARTIALLY_REDUCED | CLOSED,
// CLOSED -> OPEN (reopen on a fresh buy).
func (p *Position) CanTransitionTo(next PositionStatus) bool {
	switch p.Status {
	case PositionStatusOpen, PositionStatusPartiallyReduced:
		return true
	case PositionStatusClosed:
		return next == PositionStatusOpen
	default:
		return false
	}
}
