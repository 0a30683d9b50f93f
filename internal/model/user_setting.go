package model

import "time"

type UserSetting struct {
	UserID          string    `gorm:"primaryKey;type:varchar(64)" json:"user_id"`
	DefaultFundCode string    `gorm:"not null;default:'';type:varchar(10)" json:"default_fund_code"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserSetting) TableName() string {
	return "user_settings"
}
