package repository

import (
	"context"

	"gorm.io/gorm"

	"quizbowl-orders/backend/internal/model"
)

// YearRepository 赛季数据访问接口
type YearRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Year, error)
	GetCurrent(ctx context.Context) (*model.Year, error)
	List(ctx context.Context) ([]model.Year, error)
}

type yearRepo struct {
	db *gorm.DB
}

// NewYearRepo 创建 YearRepository 实例
func NewYearRepo(db *gorm.DB) YearRepository {
	return &yearRepo{db: db}
}

func (r *yearRepo) GetByCode(ctx context.Context, code string) (*model.Year, error) {
	var year model.Year
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *yearRepo) GetCurrent(ctx context.Context) (*model.Year, error) {
	var year model.Year
	err := r.db.WithContext(ctx).
		Where("is_current = ?", true).
		First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *yearRepo) List(ctx context.Context) ([]model.Year, error) {
	var years []model.Year
	err := r.db.WithContext(ctx).
		Order("code DESC").
		Find(&years).Error
	return years, err
}
