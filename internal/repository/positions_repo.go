package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-fund/internal/apperror"
	"golang-fund/internal/model"
	"golang-fund/pkg/utils"

	"gorm.io/gorm"
)

type PositionsRepository interface {
	// Get returns the (user, fund) position row regardless of status.
	Get(ctx context.Context, userID, fundCode string, opts ...utils.DBOption) (*model.Position, error)
	// ListOpen returns the user's non-closed positions.
	ListOpen(ctx context.Context, userID string) ([]model.Position, error)
	Save(ctx context.Context, position *model.Position, opts ...utils.DBOption) error
}

type positionsRepository struct {
	db *gorm.DB
}

func NewPositionsRepository(db *gorm.DB) PositionsRepository {
	return &positionsRepository{db: db}
}

func (r *positionsRepository) Get(ctx context.Context, userID, fundCode string, opts ...utils.DBOption) (*model.Position, error) {
	var position model.Position
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	err := db.Where("user_id = ? AND fund_code = ?", userID, fundCode).First(&position).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no position for user %s in fund %s", apperror.ErrNotFound, userID, fundCode)
	}
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionsRepository) ListOpen(ctx context.Context, userID string) ([]model.Position, error) {
	var positions []model.Position
	err := r.db.WithContext(ctx).
		Preload("Fund").
		Where("user_id = ? AND status <> ?", userID, model.PositionStatusClosed).
		Order("opened_at ASC").
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *positionsRepository) Save(ctx context.Context, position *model.Position, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return db.Save(position).Error
}
