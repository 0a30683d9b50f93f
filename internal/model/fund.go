package model

import "time"

type Fund struct {
	Code      string    `gorm:"primaryKey;type:varchar(10)" json:"code"`
	Name      string    `gorm:"not null;default:''" json:"name"`
	FundType  string    `gorm:"not null;default:''" json:"fund_type"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Fund) TableName() string {
	return "funds"
}
