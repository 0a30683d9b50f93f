package repository

import (
	"context"

	"golang-fund/internal/model"
	"golang-fund/pkg/utils"

	"gorm.io/gorm"
)

type PositionLogRepository interface {
	// Append writes one immutable liquidation record.
	Append(ctx context.Context, log *model.PositionLog, opts ...utils.DBOption) error
	// ListByUser returns the most recent records first; rows sharing a
	// created_at come back newest insertion first via the id tiebreak.
	ListByUser(ctx context.Context, userID string, limit int) ([]model.PositionLog, error)
}

type positionLogRepository struct {
	db *gorm.DB
}

func NewPositionLogRepository(db *gorm.DB) PositionLogRepository {
	return &positionLogRepository{db: db}
}

func (r *positionLogRepository) Append(ctx context.Context, log *model.PositionLog, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return db.Create(log).Error
}

func (r *positionLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.PositionLog, error) {
	var logs []model.PositionLog
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
