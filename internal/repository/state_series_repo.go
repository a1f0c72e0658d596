package repository

import (
	"context"

	"gorm.io/gorm"

	"quizbowl-orders/backend/internal/model"
)

// StateSeriesRepository 州系列赛题目数据访问接口
type StateSeriesRepository interface {
	ListAvailable(ctx context.Context) ([]model.StateSeries, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.StateSeries, error)
}

type stateSeriesRepo struct {
	db *gorm.DB
}

// NewStateSeriesRepo 创建 StateSeriesRepository 实例
func NewStateSeriesRepo(db *gorm.DB) StateSeriesRepository {
	return &stateSeriesRepo{db: db}
}

func (r *stateSeriesRepo) ListAvailable(ctx context.Context) ([]model.StateSeries, error) {
	var series []model.StateSeries
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("name ASC").
		Find(&series).Error
	return series, err
}

func (r *stateSeriesRepo) ListByIDs(ctx context.Context, ids []int64) ([]model.StateSeries, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var series []model.StateSeries
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&series).Error
	return series, err
}
