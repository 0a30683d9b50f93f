package model

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisReport stores the structured payload handed to the AI collaborator
// together with the generated prose, as an audit trail for report output.
type AnalysisReport struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FundCode  string         `gorm:"not null;index;type:varchar(10)" json:"fund_code"`
	Kind      string         `gorm:"not null;type:varchar(20)" json:"kind"`
	Payload   datatypes.JSON `gorm:"type:json" json:"payload"`
	Prompt    string         `gorm:"type:text" json:"prompt"`
	Response  string         `gorm:"type:text" json:"response"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (AnalysisReport) TableName() string {
	return "analysis_reports"
}
