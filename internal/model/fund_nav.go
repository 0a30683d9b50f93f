package model

import "time"

// FundNav is one daily NAV observation, unique per (fund_code, nav_date).
type FundNav struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FundCode       string    `gorm:"not null;uniqueIndex:idx_fund_nav_date;type:varchar(10)" json:"fund_code"`
	NavDate        time.Time `gorm:"not null;uniqueIndex:idx_fund_nav_date" json:"nav_date"`
	UnitNav        float64   `gorm:"not null" json:"unit_nav"`
	CumulativeNav  float64   `gorm:"not null" json:"cumulative_nav"`
	DailyGrowthPct float64   `gorm:"not null" json:"daily_growth_pct"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (FundNav) TableName() string {
	return "fund_navs"
}
