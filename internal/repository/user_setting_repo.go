package repository

import (
	"context"
	"errors"

	"golang-fund/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserSettingRepository interface {
	Get(ctx context.Context, userID string) (*model.UserSetting, error)
	SetDefaultFund(ctx context.Context, userID, fundCode string) error
}

type userSettingRepository struct {
	db *gorm.DB
}

func NewUserSettingRepository(db *gorm.DB) UserSettingRepository {
	return &userSettingRepository{db: db}
}

func (r *userSettingRepository) Get(ctx context.Context, userID string) (*model.UserSetting, error) {
	var setting model.UserSetting
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.UserSetting{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *userSettingRepository) SetDefaultFund(ctx context.Context, userID, fundCode string) error {
	setting := model.UserSetting{UserID: userID, DefaultFundCode: fundCode}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"default_fund_code"}),
	}).Create(&setting).Error
}
