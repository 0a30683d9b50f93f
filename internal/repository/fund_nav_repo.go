package repository

import (
	"context"

	"golang-fund/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FundNavRepository interface {
	Upsert(ctx context.Context, navs []model.FundNav) (int, error)
	ListByFund(ctx context.Context, fundCode string, limit int) ([]model.FundNav, error)
}

type fundNavRepository struct {
	db *gorm.DB
}

func NewFundNavRepository(db *gorm.DB) FundNavRepository {
	return &fundNavRepository{db: db}
}

// Upsert stores NAV rows idempotently on (fund_code, nav_date) and returns
// the number of rows written.
func (r *fundNavRepository) Upsert(ctx context.Context, navs []model.FundNav) (int, error) {
	if len(navs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "fund_code"}, {Name: "nav_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"unit_nav", "cumulative_nav", "daily_growth_pct",
		}),
	}).Create(&navs)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *fundNavRepository) ListByFund(ctx context.Context, fundCode string, limit int) ([]model.FundNav, error) {
	var navs []model.FundNav
	q := r.db.WithContext(ctx).
		Where("fund_code = ?", fundCode).
		Order("nav_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&navs).Error; err != nil {
		return nil, err
	}
	return navs, nil
}
