package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-fund/internal/apperror"
	"golang-fund/internal/model"
	"golang-fund/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FundRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Fund, error)
	Ensure(ctx context.Context, fund model.Fund, opts ...utils.DBOption) error
	ListHeld(ctx context.Context) ([]model.Fund, error)
}

type fundRepository struct {
	db *gorm.DB
}

func NewFundRepository(db *gorm.DB) FundRepository {
	return &fundRepository{db: db}
}

func (r *fundRepository) GetByCode(ctx context.Context, code string) (*model.Fund, error) {
	var fund model.Fund
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&fund).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: fund %s", apperror.ErrNotFound, code)
	}
	if err != nil {
		return nil, err
	}
	return &fund, nil
}

// Ensure upserts the fund row, only overwriting the name when a non-empty one
// is provided.
func (r *fundRepository) Ensure(ctx context.Context, fund model.Fund, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	assignments := clause.Assignments(map[string]interface{}{})
	if fund.Name != "" {
		assignments = clause.Assignments(map[string]interface{}{"name": fund.Name})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: assignments,
	}).Create(&fund).Error
}

// ListHeld returns funds referenced by at least one open position, the set
// the NAV sync loop keeps fresh.
func (r *fundRepository) ListHeld(ctx context.Context) ([]model.Fund, error) {
	var funds []model.Fund
	err := r.db.WithContext(ctx).
		Joins("JOIN positions ON positions.fund_code = funds.code").
		Where("positions.status <> ?", model.PositionStatusClosed).
		Distinct("funds.*").
		Find(&funds).Error
	if err != nil {
		return nil, err
	}
	return funds, nil
}
